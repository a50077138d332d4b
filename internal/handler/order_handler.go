package handler

import (
	"strconv"

	"go-storefront-orders/internal/model"
	"go-storefront-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orders   service.OrderService
	approval service.ApprovalService
}

func NewOrderHandler(orders service.OrderService, approval service.ApprovalService) *OrderHandler {
	return &OrderHandler{orders: orders, approval: approval}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orders.CreateOrder(getUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message":      "Order created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"data":         order,
	})
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	status := model.OrderStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	orders, err := h.orders.ListOrders(status, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// GetPendingApproval returns the FIFO review queue for staff.
func (h *OrderHandler) GetPendingApproval(c *fiber.Ctx) error {
	orders, err := h.orders.ListPendingApproval()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetRecentOrders(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	orders, err := h.orders.ListRecent(limit)
	if err != nil {
		return respondError(c, err)
	}

	type recentOrder struct {
		model.Order
		ItemCount int `json:"item_count"`
	}
	out := make([]recentOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, recentOrder{Order: o, ItemCount: len(o.Items)})
	}
	return c.JSON(out)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orders.GetOrder(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) GetOrderHistory(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	history, err := h.orders.OrderHistory(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}

func (h *OrderHandler) ApproveOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.approval.Approve(orderID, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Order approved",
		"status":      order.Status,
		"approved_by": getUserName(c),
		"data":        order,
	})
}

func (h *OrderHandler) RejectOrder(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.approval.Reject(orderID, getUserID(c), req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Order rejected",
		"status":      order.Status,
		"rejected_by": getUserName(c),
		"data":        order,
	})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
		Reason string            `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.approval.UpdateFulfillmentStatus(orderID, req.Status, getUserID(c), req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Order status updated",
		"status":     order.Status,
		"changed_by": getUserName(c),
		"data":       order,
	})
}
