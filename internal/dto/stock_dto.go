package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StockInRequest struct {
	ProductID     string           `json:"product_id"     validate:"required,uuid"`
	Quantity      int              `json:"quantity"       validate:"required,gt=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Notes         string           `json:"notes"          validate:"max=500"`
}

type AdjustStockRequest struct {
	// Delta is relative: positive = entry, negative = removal. Never absolute.
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockInResponse struct {
	ProductID   string `json:"product_id"`
	NewQuantity int    `json:"new_quantity"`
}

type StockHistoryEntry struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	ProductName   string           `json:"product_name"`
	Barcode       string           `json:"barcode"`
	QuantityAdded int              `json:"quantity_added"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     string           `json:"created_at"`
}

type LowStockEntry struct {
	ID        string `json:"id"`
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}
