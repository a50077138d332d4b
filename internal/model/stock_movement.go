package model

import "github.com/google/uuid"

type MovementKind string

const (
	MovementIncrease MovementKind = "INCREASE"
	MovementDecrease MovementKind = "DECREASE"
)

// StockMovement is one immutable row of the append-only stock ledger.
// Invariant: NewStock = PreviousStock + Delta and NewStock >= 0.
// Replaying all deltas from the initial stock reconstructs the current value.
type StockMovement struct {
	BaseModel
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       Product      `json:"product,omitempty" validate:"-"`
	PreviousStock int          `gorm:"not null" json:"previous_stock"`
	NewStock      int          `gorm:"not null" json:"new_stock"`
	Delta         int          `gorm:"not null" json:"delta"` // signed
	Kind          MovementKind `gorm:"type:varchar(10);not null" json:"kind"`
	Reason        string       `gorm:"type:varchar(255)" json:"reason"`
}
