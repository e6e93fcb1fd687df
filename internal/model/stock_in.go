package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockInEvent records a delivery/restock that increased a product's on-hand
// quantity. PurchasePrice is optional — older records predate the field.
type StockInEvent struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	QuantityAdded int              `gorm:"not null"`
	PurchasePrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Notes         string
	CreatedAt     time.Time `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName overrides GORM's pluralization (stock_in_events → stock_in).
func (StockInEvent) TableName() string { return "stock_in" }
