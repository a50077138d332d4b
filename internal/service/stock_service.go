package service

import (
	"errors"
	"fmt"

	"go-storefront-orders/internal/apperr"
	"go-storefront-orders/internal/model"
	"go-storefront-orders/internal/repository"
	"go-storefront-orders/internal/ws"
	"go-storefront-orders/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustStockInput is the payload of the stock-in/stock-out endpoint.
type AdjustStockInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Direction string    `json:"direction" validate:"required,oneof=in out"`
	Reason    string    `json:"reason"`
}

// AdjustResult echoes the before/after stock values of one ledger operation.
type AdjustResult struct {
	ProductID     uuid.UUID `json:"product_id"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
}

type StockService interface {
	// AdjustStock applies a signed delta in its own transaction.
	AdjustStock(req *AdjustStockInput, actorID string) (*AdjustResult, error)
	// AdjustStockTx applies a signed delta on the caller's transaction so a
	// multi-item approval commits or rolls back as one unit.
	AdjustStockTx(tx *gorm.DB, productID uuid.UUID, delta int, reason, actorID string) (*AdjustResult, error)
	// SetStock overwrites the absolute value, expressed through the ledger
	// as a delta so the movement log stays complete.
	SetStock(productID uuid.UUID, newStock int, reason, actorID string) (*AdjustResult, error)
	MovementHistory(productID uuid.UUID, limit int) ([]model.StockMovement, error)
	LowStockReport(threshold int) ([]model.Product, error)
	Products() ([]model.Product, error)
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewStockService(pRepo repository.ProductRepository, mRepo repository.MovementRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *stockService) AdjustStock(req *AdjustStockInput, actorID string) (*AdjustResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validationf("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	delta := req.Quantity
	if req.Direction == "out" {
		delta = -req.Quantity
	}
	reason := req.Reason
	if reason == "" {
		reason = "Manual adjustment"
	}

	var result *AdjustResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.AdjustStockTx(tx, req.ProductID, delta, reason, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("stock_update", result)
	return result, nil
}

// AdjustStockTx is the single entry point through which product stock is ever
// written. It locks the product row, checks the floor, persists the new value
// and appends exactly one movement row, all on the caller's transaction.
func (s *stockService) AdjustStockTx(tx *gorm.DB, productID uuid.UUID, delta int, reason, actorID string) (*AdjustResult, error) {
	if delta == 0 {
		return nil, apperr.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByIDForUpdate(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		return nil, &apperr.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   -delta,
			Available:   product.Stock,
		}
	}

	kind := model.MovementIncrease
	if delta < 0 {
		kind = model.MovementDecrease
	}

	if err := s.productRepo.UpdateStock(tx, product.ID, newStock, actorID); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}

	movement := &model.StockMovement{
		ProductID:     product.ID,
		PreviousStock: product.Stock,
		NewStock:      newStock,
		Delta:         delta,
		Kind:          kind,
		Reason:        reason,
	}
	movement.CreatedBy = actorID
	movement.UpdatedBy = actorID
	if err := s.movementRepo.Create(tx, movement); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}

	return &AdjustResult{
		ProductID:     product.ID,
		PreviousStock: product.Stock,
		NewStock:      newStock,
	}, nil
}

func (s *stockService) SetStock(productID uuid.UUID, newStock int, reason, actorID string) (*AdjustResult, error) {
	if newStock < 0 {
		return nil, apperr.Validationf("stock cannot be negative")
	}
	if reason == "" {
		reason = "Manual adjustment"
	}

	var result *AdjustResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDForUpdate(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrProductNotFound
			}
			return err
		}

		delta := newStock - product.Stock
		if delta == 0 {
			// Nothing changed; no movement row is written.
			result = &AdjustResult{ProductID: product.ID, PreviousStock: product.Stock, NewStock: product.Stock}
			return nil
		}

		result, err = s.AdjustStockTx(tx, productID, delta, reason, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("stock_update", result)
	return result, nil
}

func (s *stockService) MovementHistory(productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.movementRepo.FindByProduct(productID, limit)
}

func (s *stockService) LowStockReport(threshold int) ([]model.Product, error) {
	return s.productRepo.FindLowStock(threshold)
}

func (s *stockService) Products() ([]model.Product, error) {
	return s.productRepo.FindAll()
}
