package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go-storefront-orders/internal/apperr"
	"go-storefront-orders/internal/model"
	"go-storefront-orders/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderService struct {
	createErr error
	order     *model.Order
}

func (s *stubOrderService) CreateOrder(customerID string, req *service.CreateOrderInput) (*model.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.order, nil
}
func (s *stubOrderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	if s.order == nil {
		return nil, apperr.ErrOrderNotFound
	}
	return s.order, nil
}
func (s *stubOrderService) ListOrders(status model.OrderStatus, limit int) ([]model.Order, error) {
	return nil, nil
}
func (s *stubOrderService) ListPendingApproval() ([]model.Order, error) { return nil, nil }
func (s *stubOrderService) ListRecent(limit int) ([]model.Order, error) { return nil, nil }
func (s *stubOrderService) OrderHistory(id uuid.UUID) ([]model.OrderStatusHistory, error) {
	return nil, nil
}

type stubApprovalService struct {
	approveErr error
	rejectErr  error
	order      *model.Order
}

func (s *stubApprovalService) Approve(orderID uuid.UUID, staffID string) (*model.Order, error) {
	if s.approveErr != nil {
		return nil, s.approveErr
	}
	return s.order, nil
}
func (s *stubApprovalService) Reject(orderID uuid.UUID, staffID, reason string) (*model.Order, error) {
	if s.rejectErr != nil {
		return nil, s.rejectErr
	}
	return s.order, nil
}
func (s *stubApprovalService) UpdateFulfillmentStatus(orderID uuid.UUID, newStatus model.OrderStatus, staffID, reason string) (*model.Order, error) {
	return s.order, nil
}

func newTestApp(orders service.OrderService, approval service.ApprovalService) *fiber.App {
	app := fiber.New()
	// Stand-in for the auth middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "staff-1")
		c.Locals("user_name", "Test Staff")
		return c.Next()
	})

	h := NewOrderHandler(orders, approval)
	app.Post("/orders", h.CreateOrder)
	app.Get("/orders/:id", h.GetOrder)
	app.Post("/orders/:id/approve", h.ApproveOrder)
	app.Post("/orders/:id/reject", h.RejectOrder)
	return app
}

func TestCreateOrderValidationMapsTo400(t *testing.T) {
	app := newTestApp(&stubOrderService{createErr: apperr.ErrEmptyCart}, &stubApprovalService{})

	req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"items":[],"payment_method":"gcash"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestApproveResponseNamesStaff(t *testing.T) {
	order := &model.Order{OrderNumber: "ORD20250101120000123", Status: model.OrderProcessing}
	app := newTestApp(&stubOrderService{}, &stubApprovalService{order: order})

	req := httptest.NewRequest("POST", "/orders/"+uuid.NewString()+"/approve", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Test Staff", payload["approved_by"])
	assert.Equal(t, "processing", payload["status"])
}

func TestApproveAlreadyFinalizedMapsTo409(t *testing.T) {
	app := newTestApp(&stubOrderService{}, &stubApprovalService{approveErr: apperr.ErrAlreadyFinalized})

	req := httptest.NewRequest("POST", "/orders/"+uuid.NewString()+"/approve", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestApproveInsufficientStockIncludesProduct(t *testing.T) {
	productID := uuid.New()
	app := newTestApp(&stubOrderService{}, &stubApprovalService{approveErr: &apperr.InsufficientStockError{
		ProductID:   productID,
		ProductName: "Widget",
		Requested:   3,
		Available:   1,
	}})

	req := httptest.NewRequest("POST", "/orders/"+uuid.NewString()+"/approve", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, productID.String(), payload["product_id"])
	assert.EqualValues(t, 3, payload["requested"])
	assert.EqualValues(t, 1, payload["available"])
}

func TestRejectMissingReasonMapsTo400(t *testing.T) {
	app := newTestApp(&stubOrderService{}, &stubApprovalService{rejectErr: apperr.ErrReasonRequired})

	req := httptest.NewRequest("POST", "/orders/"+uuid.NewString()+"/reject", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestApproveInvalidUUIDMapsTo400(t *testing.T) {
	app := newTestApp(&stubOrderService{}, &stubApprovalService{})

	req := httptest.NewRequest("POST", "/orders/not-a-uuid/approve", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
