package service

import (
	"errors"
	"time"

	"go-storefront-orders/internal/apperr"
	"go-storefront-orders/internal/model"
	"go-storefront-orders/internal/repository"
	"go-storefront-orders/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalService is the state machine for order review. Transitions are
// one-way; approve couples the status flip to the stock decrement in a single
// transaction, so an order is never marked processing with stock uncommitted.
type ApprovalService interface {
	Approve(orderID uuid.UUID, staffID string) (*model.Order, error)
	Reject(orderID uuid.UUID, staffID, reason string) (*model.Order, error)
	UpdateFulfillmentStatus(orderID uuid.UUID, newStatus model.OrderStatus, staffID, reason string) (*model.Order, error)
}

type approvalService struct {
	orderRepo   repository.OrderRepository
	historyRepo repository.HistoryRepository
	stock       StockService
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewApprovalService(oRepo repository.OrderRepository, hRepo repository.HistoryRepository, stock StockService, db *gorm.DB, hub *ws.Hub) ApprovalService {
	return &approvalService{
		orderRepo:   oRepo,
		historyRepo: hRepo,
		stock:       stock,
		db:          db,
		wsHub:       hub,
	}
}

func (s *approvalService) Approve(orderID uuid.UUID, staffID string) (*model.Order, error) {
	var approved *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrOrderNotFound
			}
			return err
		}

		if order.ApprovalStatus.Finalized() {
			return apperr.ErrAlreadyFinalized
		}
		// A fulfillment-cancelled order keeps approval_status pending;
		// checking the fulfillment status stops it from being revived here.
		if order.Status != model.OrderPending {
			return apperr.ErrAlreadyFinalized
		}

		// Commit stock for every line item. Any InsufficientStockError rolls
		// the whole transaction back and the order stays pending.
		for _, item := range order.Items {
			if _, err := s.stock.AdjustStockTx(tx, item.ProductID, -item.Quantity, "order approval", staffID); err != nil {
				return err
			}
		}

		now := time.Now()
		affected, err := s.orderRepo.UpdateApprovalCAS(tx, order.ID, model.ApprovalPending, map[string]interface{}{
			"approval_status": model.ApprovalApproved,
			"status":          model.OrderProcessing,
			"approved_at":     now,
			"updated_by":      staffID,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.ErrConcurrencyConflict
		}

		if err := s.appendHistory(tx, order.ID, order.Status, model.OrderProcessing, staffID, "approved"); err != nil {
			return err
		}

		order.ApprovalStatus = model.ApprovalApproved
		order.Status = model.OrderProcessing
		order.ApprovedAt = &now
		approved = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("order_approved", map[string]interface{}{
		"order_id":     approved.ID,
		"order_number": approved.OrderNumber,
		"approved_by":  staffID,
	})

	return approved, nil
}

func (s *approvalService) Reject(orderID uuid.UUID, staffID, reason string) (*model.Order, error) {
	if reason == "" {
		return nil, apperr.ErrReasonRequired
	}

	var rejected *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrOrderNotFound
			}
			return err
		}

		if order.ApprovalStatus.Finalized() {
			return apperr.ErrAlreadyFinalized
		}
		if order.Status != model.OrderPending {
			return apperr.ErrAlreadyFinalized
		}

		// No stock effect: nothing was ever decremented for a pending order.
		affected, err := s.orderRepo.UpdateApprovalCAS(tx, order.ID, model.ApprovalPending, map[string]interface{}{
			"approval_status": model.ApprovalRejected,
			"status":          model.OrderCancelled,
			"updated_by":      staffID,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.ErrConcurrencyConflict
		}

		if err := s.appendHistory(tx, order.ID, order.Status, model.OrderCancelled, staffID, reason); err != nil {
			return err
		}

		order.ApprovalStatus = model.ApprovalRejected
		order.Status = model.OrderCancelled
		rejected = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("order_rejected", map[string]interface{}{
		"order_id":     rejected.ID,
		"order_number": rejected.OrderNumber,
		"rejected_by":  staffID,
		"reason":       reason,
	})

	return rejected, nil
}

// UpdateFulfillmentStatus handles post-approval progress (processing ->
// completed) and late cancellation. Cancelling an order whose stock was
// already committed restocks every item in the same transaction.
func (s *approvalService) UpdateFulfillmentStatus(orderID uuid.UUID, newStatus model.OrderStatus, staffID, reason string) (*model.Order, error) {
	if !model.ValidOrderStatus(newStatus) {
		return nil, apperr.Validationf("unknown order status %q", newStatus)
	}
	if reason == "" {
		reason = "status update"
	}

	var updated *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrOrderNotFound
			}
			return err
		}

		if order.Status == newStatus || order.Status == model.OrderCancelled {
			return apperr.ErrAlreadyFinalized
		}
		if !model.CanTransition(order.Status, newStatus) {
			return apperr.ErrInvalidTransition
		}

		// Compensating restock: only orders that went through approval ever
		// had stock decremented.
		if newStatus == model.OrderCancelled && order.ApprovalStatus == model.ApprovalApproved {
			for _, item := range order.Items {
				if _, err := s.stock.AdjustStockTx(tx, item.ProductID, item.Quantity, "order cancelled", staffID); err != nil {
					return err
				}
			}
		}

		affected, err := s.orderRepo.UpdateStatusCAS(tx, order.ID, order.Status, map[string]interface{}{
			"status":     newStatus,
			"updated_by": staffID,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.ErrConcurrencyConflict
		}

		if err := s.appendHistory(tx, order.ID, order.Status, newStatus, staffID, reason); err != nil {
			return err
		}

		order.Status = newStatus
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("order_status_changed", map[string]interface{}{
		"order_id":     updated.ID,
		"order_number": updated.OrderNumber,
		"status":       updated.Status,
		"changed_by":   staffID,
	})

	return updated, nil
}

func (s *approvalService) appendHistory(tx *gorm.DB, orderID uuid.UUID, from, to model.OrderStatus, staffID, reason string) error {
	entry := &model.OrderStatusHistory{
		OrderID:   orderID,
		OldStatus: from,
		NewStatus: to,
		ChangedBy: staffID,
		Reason:    reason,
	}
	entry.CreatedBy = staffID
	entry.UpdatedBy = staffID
	return s.historyRepo.Create(tx, entry)
}
