package repository

import (
	"go-storefront-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	// Create appends one audit row; it runs on the tx that performed the
	// transition so the trail can never disagree with the order row.
	Create(tx *gorm.DB, entry *model.OrderStatusHistory) error
	FindByOrder(orderID uuid.UUID) ([]model.OrderStatusHistory, error)
	FindRecent(limit int) ([]model.OrderStatusHistory, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) Create(tx *gorm.DB, entry *model.OrderStatusHistory) error {
	return tx.Create(entry).Error
}

func (r *historyRepo) FindByOrder(orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	var entries []model.OrderStatusHistory
	err := r.db.
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// FindRecent feeds the staff activity view on the dashboard.
func (r *historyRepo) FindRecent(limit int) ([]model.OrderStatusHistory, error) {
	var entries []model.OrderStatusHistory
	err := r.db.Preload("Order").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
