package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go-storefront-orders/internal/apperr"
	"go-storefront-orders/internal/model"
	"go-storefront-orders/internal/repository"
	"go-storefront-orders/internal/ws"
	"go-storefront-orders/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput is the strict checkout schema. Client-computed totals are
// deliberately absent: the server recomputes everything from catalog prices.
type CreateOrderInput struct {
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=gcash paymaya credit-card"`
}

// Pricing holds the flat checkout rates applied to every order.
type Pricing struct {
	ShippingFee decimal.Decimal
	TaxRate     decimal.Decimal
}

type OrderService interface {
	CreateOrder(customerID string, req *CreateOrderInput) (*model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	ListOrders(status model.OrderStatus, limit int) ([]model.Order, error)
	ListPendingApproval() ([]model.Order, error)
	ListRecent(limit int) ([]model.Order, error)
	OrderHistory(id uuid.UUID) ([]model.OrderStatusHistory, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	historyRepo repository.HistoryRepository
	pricing     Pricing
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewOrderService(oRepo repository.OrderRepository, pRepo repository.ProductRepository, hRepo repository.HistoryRepository, pricing Pricing, db *gorm.DB, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo:   oRepo,
		productRepo: pRepo,
		historyRepo: hRepo,
		pricing:     pricing,
		db:          db,
		wsHub:       hub,
	}
}

// ComputeTotals derives subtotal, tax and total from the item snapshots.
// subtotal = sum(qty * unitPrice); tax = subtotal * rate; total = all three.
func ComputeTotals(items []model.OrderItem, shippingFee, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	tax = subtotal.Mul(taxRate).Round(2)
	total = subtotal.Add(shippingFee).Add(tax).Round(2)
	return subtotal, tax, total
}

// generateOrderNumber follows the storefront's historical format:
// "ORD" + timestamp + 3 random digits. Uniqueness is enforced by the DB
// index; collisions get a fresh number and a retry.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD%s%03d", time.Now().Format("20060102150405"), 100+rand.Intn(900))
}

func (s *orderService) CreateOrder(customerID string, req *CreateOrderInput) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validationf("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var order *model.Order
	// Whole unit retried on order-number collision: a failed insert aborts
	// the surrounding transaction, so the retry has to restart it.
	for attempt := 0; ; attempt++ {
		order = nil
		err := s.db.Transaction(func(tx *gorm.DB) error {
			items := make([]model.OrderItem, 0, len(req.Items))
			for _, in := range req.Items {
				if in.Quantity <= 0 {
					return apperr.ErrInvalidQuantity
				}
				var product model.Product
				if err := tx.First(&product, "id = ?", in.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperr.ErrProductNotFound
					}
					return err
				}
				if product.Status != model.ProductActive {
					return apperr.ErrProductUnavailable
				}
				items = append(items, model.OrderItem{
					ProductID: product.ID,
					Quantity:  in.Quantity,
					UnitPrice: product.Price, // snapshot at order time
				})
			}

			subtotal, tax, total := ComputeTotals(items, s.pricing.ShippingFee, s.pricing.TaxRate)

			o := &model.Order{
				OrderNumber:    generateOrderNumber(),
				CustomerID:     customerID,
				Subtotal:       subtotal,
				ShippingFee:    s.pricing.ShippingFee,
				TaxAmount:      tax,
				TotalAmount:    total,
				Status:         model.OrderPending,
				ApprovalStatus: model.ApprovalPending,
				PaymentMethod:  req.PaymentMethod,
				PaymentStatus:  model.PaymentUnpaid,
				Items:          items,
			}
			o.CreatedBy = customerID
			o.UpdatedBy = customerID

			// Stock is deliberately untouched here: nothing is reserved for
			// a pending order, decrement happens at approval.
			if err := s.orderRepo.Create(tx, o); err != nil {
				return err
			}
			order = o
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 3 {
			continue
		}
		return nil, err
	}

	s.wsHub.Publish("order_created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	})

	return order, nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(status model.OrderStatus, limit int) ([]model.Order, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, apperr.Validationf("unknown order status %q", status)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.orderRepo.FindAll(status, limit)
}

func (s *orderService) ListPendingApproval() ([]model.Order, error) {
	return s.orderRepo.FindPendingApproval()
}

func (s *orderService) ListRecent(limit int) ([]model.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.orderRepo.FindRecent(limit)
}

func (s *orderService) OrderHistory(id uuid.UUID) ([]model.OrderStatusHistory, error) {
	if _, err := s.GetOrder(id); err != nil {
		return nil, err
	}
	return s.historyRepo.FindByOrder(id)
}
