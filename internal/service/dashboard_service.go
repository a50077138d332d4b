package service

import (
	"go-storefront-orders/internal/model"
	"go-storefront-orders/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats is the aggregate snapshot the dashboard renders. Every
// field is zero-valued, not an error, on an empty dataset.
type DashboardStats struct {
	TotalProducts  int64                       `json:"total_products"`
	TotalOrders    int64                       `json:"total_orders"`
	TotalRevenue   decimal.Decimal             `json:"total_revenue"`
	OrdersByStatus map[model.OrderStatus]int64 `json:"orders_by_status"`
	SalesByDay     []repository.SalesByDayData `json:"sales_by_day"`
	TopProducts    []repository.TopProductData `json:"top_products"`
	LowStock       []model.Product             `json:"low_stock"`
}

// DashboardService is the pure read side: it consumes the other components
// and holds no invariants of its own.
type DashboardService interface {
	GetDashboardStats(salesDays int) (*DashboardStats, error)
	GetSalesData(days int) ([]repository.SalesByDayData, error)
	RecentActivity(limit int) ([]model.OrderStatusHistory, error)
}

type dashboardService struct {
	reportRepo        repository.ReportRepository
	historyRepo       repository.HistoryRepository
	productRepo       repository.ProductRepository
	lowStockThreshold int
}

func NewDashboardService(rRepo repository.ReportRepository, hRepo repository.HistoryRepository, pRepo repository.ProductRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		reportRepo:        rRepo,
		historyRepo:       hRepo,
		productRepo:       pRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *dashboardService) GetDashboardStats(salesDays int) (*DashboardStats, error) {
	if salesDays <= 0 {
		salesDays = 7
	}

	revenue, err := s.reportRepo.TotalRevenue()
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.reportRepo.CountOrders()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.reportRepo.CountActiveProducts()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.reportRepo.CountOrdersByStatus()
	if err != nil {
		return nil, err
	}
	salesByDay, err := s.reportRepo.SalesByDay(salesDays)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.reportRepo.TopProducts(5)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.FindLowStock(s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:  totalProducts,
		TotalOrders:    totalOrders,
		TotalRevenue:   revenue,
		OrdersByStatus: byStatus,
		SalesByDay:     salesByDay,
		TopProducts:    topProducts,
		LowStock:       lowStock,
	}, nil
}

func (s *dashboardService) GetSalesData(days int) ([]repository.SalesByDayData, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	return s.reportRepo.SalesByDay(days)
}

func (s *dashboardService) RecentActivity(limit int) ([]model.OrderStatusHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.historyRepo.FindRecent(limit)
}
