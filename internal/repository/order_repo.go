package repository

import (
	"go-storefront-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// Create persists the order header and all items in the caller's tx.
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdate locks the order row so two concurrent transitions on
	// the same order serialize instead of both reading the pending state.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindAll(status model.OrderStatus, limit int) ([]model.Order, error)
	FindPendingApproval() ([]model.Order, error)
	FindRecent(limit int) ([]model.Order, error)
	// UpdateApprovalCAS flips the approval fields only if the row still holds
	// the expected prior approval status. Returns the number of rows changed.
	UpdateApprovalCAS(tx *gorm.DB, id uuid.UUID, from model.ApprovalStatus, fields map[string]interface{}) (int64, error)
	// UpdateStatusCAS is the same gate keyed on the fulfillment status.
	UpdateStatusCAS(tx *gorm.DB, id uuid.UUID, from model.OrderStatus, fields map[string]interface{}) (int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", id).Error
	return &order, err
}

func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	// The lock covers the orders row; items are immutable so the separate
	// preload query needs none.
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindAll(status model.OrderStatus, limit int) ([]model.Order, error) {
	var orders []model.Order
	q := r.db.Preload("Items").Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&orders).Error
	return orders, err
}

// FindPendingApproval returns the FIFO review queue, oldest first.
func (r *orderRepo) FindPendingApproval() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where("approval_status = ? AND status = ?", model.ApprovalPending, model.OrderPending).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindRecent(limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateApprovalCAS(tx *gorm.DB, id uuid.UUID, from model.ApprovalStatus, fields map[string]interface{}) (int64, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND approval_status = ?", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) UpdateStatusCAS(tx *gorm.DB, id uuid.UUID, from model.OrderStatus, fields map[string]interface{}) (int64, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}
