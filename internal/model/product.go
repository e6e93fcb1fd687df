package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stock-keeping unit. Quantity is only ever changed through
// relative deltas (sale decrements, stock-in increments, manual adjustments)
// so concurrent writers cannot lose each other's updates.
// Active=false marks a discontinued product: hidden from sale, retained for
// the referential integrity of historical sale items.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode  string    `gorm:"uniqueIndex;not null"`
	Name     string    `gorm:"index;not null"`
	Category string    `gorm:"not null"`
	// Invariant enforced at write time: SellPrice >= BuyPrice.
	BuyPrice          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity          int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:4"`
	Active            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
