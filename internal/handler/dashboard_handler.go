package handler

import (
	"strconv"

	"go-storefront-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns overview statistics
// Query params: days (default 7) for the sales buckets
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	stats, err := h.service.GetDashboardStats(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetSalesData returns per-day orders and revenue for charts
func (h *DashboardHandler) GetSalesData(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	data, err := h.service.GetSalesData(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales data"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetActivity returns the recent status transitions as a staff activity feed.
func (h *DashboardHandler) GetActivity(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	entries, err := h.service.RecentActivity(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch activity"})
	}

	return c.JSON(entries)
}
