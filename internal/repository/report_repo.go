package repository

import (
	"time"

	"go-storefront-orders/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	TotalRevenue() (decimal.Decimal, error)
	CountOrders() (int64, error)
	CountOrdersByStatus() (map[model.OrderStatus]int64, error)
	CountActiveProducts() (int64, error)
	SalesByDay(days int) ([]SalesByDayData, error)
	TopProducts(limit int) ([]TopProductData, error)
}

// SalesByDayData is one revenue bucket for the dashboard chart.
type SalesByDayData struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProductData struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int64           `json:"total_quantity"`
	SalesCount    int64           `json:"sales_count"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// TotalRevenue sums the totals of every non-cancelled order. Cancelled orders
// represent money never taken, so they are excluded.
func (r *reportRepo) TotalRevenue() (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.db.Model(&model.Order{}).
		Where("status <> ?", model.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *reportRepo) CountOrders() (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *reportRepo) CountOrdersByStatus() (map[model.OrderStatus]int64, error) {
	rows, err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Every known status appears in the result, zeroed when absent.
	counts := map[model.OrderStatus]int64{
		model.OrderPending:    0,
		model.OrderProcessing: 0,
		model.OrderCompleted:  0,
		model.OrderCancelled:  0,
	}
	for rows.Next() {
		var status model.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *reportRepo) CountActiveProducts() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("status = ?", model.ProductActive).
		Count(&count).Error
	return count, err
}

func (r *reportRepo) SalesByDay(days int) ([]SalesByDayData, error) {
	since := time.Now().AddDate(0, 0, -days)

	rows, err := r.db.Model(&model.Order{}).
		Select(`DATE(created_at) as date, COUNT(*) as orders, COALESCE(SUM(total_amount), 0) as revenue`).
		Where("created_at >= ? AND status <> ?", since, model.OrderCancelled).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SalesByDayData
	for rows.Next() {
		var day time.Time
		var data SalesByDayData
		if err := rows.Scan(&day, &data.Orders, &data.Revenue); err != nil {
			return nil, err
		}
		data.Date = day.Format("2006-01-02")
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *reportRepo) TopProducts(limit int) ([]TopProductData, error) {
	var results []TopProductData
	err := r.db.Raw(`
		SELECT p.id as product_id, p.name, p.price,
		       COALESCE(SUM(oi.quantity), 0) as total_quantity,
		       COUNT(oi.id) as sales_count
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.id AND oi.deleted_at IS NULL
		WHERE p.status = ? AND p.deleted_at IS NULL
		GROUP BY p.id, p.name, p.price
		ORDER BY total_quantity DESC
		LIMIT ?`, model.ProductActive, limit).
		Scan(&results).Error
	return results, err
}
