package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode           string          `json:"barcode"             validate:"required,min=4,max=18"`
	Name              string          `json:"name"                validate:"required,min=2,max=120"`
	Category          string          `json:"category"            validate:"required"`
	BuyPrice          decimal.Decimal `json:"buy_price"           validate:"min=0"`
	SellPrice         decimal.Decimal `json:"sell_price"          validate:"min=0"`
	Quantity          int             `json:"quantity"            validate:"min=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"                validate:"omitempty,min=2,max=120"`
	Category          *string          `json:"category"`
	BuyPrice          *decimal.Decimal `json:"buy_price"`
	SellPrice         *decimal.Decimal `json:"sell_price"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductFilter struct {
	Barcode  string `form:"barcode"`
	Name     string `form:"name"`
	Category string `form:"category"`
	// Active filter: "false" = discontinued, "all" = everything, default = active only
	Active string `form:"active"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                string          `json:"id"`
	Barcode           string          `json:"barcode"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Active            bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
