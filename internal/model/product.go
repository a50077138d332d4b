package model

import "github.com/shopspring/decimal"

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

type Product struct {
	BaseModel
	SKU      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category string          `gorm:"type:varchar(100)" json:"category"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Status   ProductStatus   `gorm:"type:varchar(10);default:'active'" json:"status"`

	// Stock is only ever written by the stock ledger (service.StockService),
	// never assigned directly by any other component.
	Stock int `gorm:"not null;default:0" json:"stock"`
}

// LowStock reports whether the product sits at or below the given threshold.
func (p *Product) LowStock(threshold int) bool {
	return p.Stock <= threshold
}
