package handler

import (
	"strconv"

	"go-storefront-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	stock             service.StockService
	lowStockThreshold int
}

func NewInventoryHandler(stock service.StockService, lowStockThreshold int) *InventoryHandler {
	return &InventoryHandler{stock: stock, lowStockThreshold: lowStockThreshold}
}

// GetProducts returns the read-only inventory listing with a low-stock flag.
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.stock.Products()
	if err != nil {
		return respondError(c, err)
	}

	type inventoryRow struct {
		ID       interface{} `json:"id"`
		SKU      string      `json:"sku"`
		Name     string      `json:"name"`
		Category string      `json:"category"`
		Price    interface{} `json:"price"`
		Stock    int         `json:"stock"`
		Status   string      `json:"status"`
		Display  string      `json:"status_display"`
	}
	out := make([]inventoryRow, 0, len(products))
	for _, p := range products {
		display := "In Stock"
		if p.LowStock(h.lowStockThreshold) {
			display = "Low Stock"
		}
		out = append(out, inventoryRow{
			ID:       p.ID,
			SKU:      p.SKU,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Stock:    p.Stock,
			Status:   string(p.Status),
			Display:  display,
		})
	}
	return c.JSON(out)
}

func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req service.AdjustStockInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.stock.AdjustStock(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":        "Stock adjusted",
		"previous_stock": result.PreviousStock,
		"new_stock":      result.NewStock,
	})
}

// SetStock overwrites the absolute stock value; the delta still goes through
// the ledger so the movement history stays complete.
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id"`
		Stock     int    `json:"stock"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	productID, err := parseUUID(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	result, err := h.stock.SetStock(productID, req.Stock, req.Reason, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":        "Stock updated",
		"previous_stock": result.PreviousStock,
		"new_stock":      result.NewStock,
	})
}

func (h *InventoryHandler) GetStockHistory(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	movements, err := h.stock.MovementHistory(productID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	threshold, err := strconv.Atoi(c.Query("threshold", strconv.Itoa(h.lowStockThreshold)))
	if err != nil || threshold < 0 {
		threshold = h.lowStockThreshold
	}

	products, err := h.stock.LowStockReport(threshold)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"count": len(products),
		"data":  products,
	})
}
