package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a finalized bill. Immutable once created — there is no update path
// for amounts or items; only the WhatsappSent notification flag may flip.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BillNumber     string          `gorm:"uniqueIndex;not null"` // BILL-YYYYMMDD-0001
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CustomerPhone  *string
	PaymentMethod  string `gorm:"type:varchar(10);not null"` // cash | card | upi | other
	WhatsappSent   bool   `gorm:"not null;default:false"`
	SaleDate       time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one line of a bill. Barcode, ProductName and UnitPrice are
// denormalized copies captured at sale time, so the printed bill stays stable
// if the product is later renamed or repriced.
type SaleItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID `gorm:"type:uuid;not null;index"`
	// FK to products is RESTRICT: a product with sale history cannot be deleted.
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Barcode     string          `gorm:"not null"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
