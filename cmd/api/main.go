package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-storefront-orders/internal/config"
	"go-storefront-orders/internal/handler"
	"go-storefront-orders/internal/middleware"
	"go-storefront-orders/internal/model"
	"go-storefront-orders/internal/repository"
	"go-storefront-orders/internal/service"
	"go-storefront-orders/internal/ws"
	"go-storefront-orders/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load Config (reads .env when present)
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(&model.Product{}, &model.Order{}, &model.OrderItem{}, &model.StockMovement{}, &model.OrderStatusHistory{})

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	reportRepo := repository.NewReportRepo(db)

	stockService := service.NewStockService(productRepo, movementRepo, db, wsHub)
	orderService := service.NewOrderService(orderRepo, productRepo, historyRepo, service.Pricing{
		ShippingFee: cfg.ShippingFee,
		TaxRate:     cfg.TaxRate,
	}, db, wsHub)
	approvalService := service.NewApprovalService(orderRepo, historyRepo, stockService, db, wsHub)
	dashService := service.NewDashboardService(reportRepo, historyRepo, productRepo, cfg.LowStockThreshold)

	orderHandler := handler.NewOrderHandler(orderService, approvalService)
	invHandler := handler.NewInventoryHandler(stockService, cfg.LowStockThreshold)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Storefront Orders v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1", middleware.RequireAuth())
	staff := middleware.RequireRole("staff", "admin")

	// Order Routes
	api.Post("/orders", orderHandler.CreateOrder)
	api.Get("/orders", staff, orderHandler.GetOrders)
	api.Get("/orders/pending-approval", staff, orderHandler.GetPendingApproval)
	api.Get("/orders/recent", staff, orderHandler.GetRecentOrders)
	api.Get("/orders/:id", orderHandler.GetOrder)
	api.Get("/orders/:id/history", staff, orderHandler.GetOrderHistory)
	api.Post("/orders/:id/approve", staff, orderHandler.ApproveOrder)
	api.Post("/orders/:id/reject", staff, orderHandler.RejectOrder)
	api.Put("/orders/:id/status", staff, orderHandler.UpdateStatus)

	// Stock Routes
	api.Get("/products", invHandler.GetProducts)
	api.Post("/stock/adjust", staff, invHandler.AdjustStock)
	api.Put("/stock/set", staff, invHandler.SetStock)
	api.Get("/stock/low", staff, invHandler.GetLowStock)
	api.Get("/stock/:productId/history", staff, invHandler.GetStockHistory)

	// Dashboard Routes
	api.Get("/dashboard/stats", staff, dashHandler.GetDashboardStats)
	api.Get("/dashboard/sales", staff, dashHandler.GetSalesData)
	api.Get("/dashboard/activity", staff, dashHandler.GetActivity)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
