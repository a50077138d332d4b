package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Order struct {
	BaseModel
	OrderNumber string `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	CustomerID  string `gorm:"type:varchar(255);not null;index" json:"customer_id"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	ShippingFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_fee"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`

	Status         OrderStatus    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"approval_status"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`

	// Payment is recorded as metadata only, never verified or captured.
	PaymentMethod string        `gorm:"type:varchar(20)" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;default:'unpaid'" json:"payment_status"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is immutable after creation. UnitPrice is a snapshot taken at
// order time, independent of later catalog price changes.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   Product         `json:"product,omitempty" validate:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
}

// OrderStatusHistory is one immutable audit row per status transition.
// Every change to Order.Status must be reconstructable from these rows alone.
type OrderStatusHistory struct {
	BaseModel
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	Order     Order       `json:"order,omitempty" validate:"-"`
	OldStatus OrderStatus `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus OrderStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy string      `gorm:"type:varchar(255)" json:"changed_by"`
	Reason    string      `gorm:"type:varchar(255)" json:"reason"`
}
