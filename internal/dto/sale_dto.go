package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CartLine identifies a product by barcode or id (one required). UnitPrice,
// when present, overrides the product's current sell price for this line only.
type CartLine struct {
	Barcode   string           `json:"barcode"    validate:"required_without=ProductID"`
	ProductID string           `json:"product_id" validate:"omitempty,uuid"`
	Quantity  int              `json:"quantity"   validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest is the session-scoped cart handed to the Coordinator.
// It is owned by the caller; the server holds no cart state between requests.
type CreateSaleRequest struct {
	Items          []CartLine      `json:"items"           validate:"dive"`
	PaymentMethod  string          `json:"payment_method"  validate:"required,oneof=cash card upi other"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CustomerPhone  *string         `json:"customer_phone"  validate:"omitempty,min=7,max=15"`
	CustomerEmail  *string         `json:"customer_email"  validate:"omitempty,email"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type SaleFilter struct {
	// Dates are local calendar dates, YYYY-MM-DD. Default: today.
	StartDate string `form:"start" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end"   validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	Barcode     string          `json:"barcode"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type SaleResponse struct {
	SaleID         string             `json:"sale_id"`
	BillNumber     string             `json:"bill_number"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	FinalAmount    decimal.Decimal    `json:"final_amount"`
	PaymentMethod  string             `json:"payment_method"`
	CustomerPhone  *string            `json:"customer_phone,omitempty"`
	WhatsappSent   bool               `json:"whatsapp_sent"`
	SaleDate       string             `json:"sale_date"`
	Items          []SaleItemResponse `json:"items,omitempty"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// BillNumberPreview is advisory only; the authoritative number is assigned
// inside the sale transaction.
type BillNumberPreview struct {
	BillNumber string `json:"bill_number"`
}
