package repository

import (
	"go-storefront-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	// Create appends one ledger row; it must run on the same tx that updated
	// the product stock. Movements are never updated or deleted.
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error)
	SumDeltas(productID uuid.UUID) (int64, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

// SumDeltas returns the signed sum of all movements for a product. Adding it
// to the initial stock must reproduce the current stock value.
func (r *movementRepo) SumDeltas(productID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.Model(&model.StockMovement{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	return sum, err
}
