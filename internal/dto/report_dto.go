package dto

import "github.com/shopspring/decimal"

// Reports are read-only projections recomputed on demand — never cached, so
// they always reflect the current persisted state.

type SalesSummary struct {
	TotalBills     int64           `json:"total_bills"`
	GrossSales     decimal.Decimal `json:"gross_sales"`
	TotalDiscounts decimal.Decimal `json:"total_discounts"`
	NetSales       decimal.Decimal `json:"net_sales"`
	AvgBillValue   decimal.Decimal `json:"avg_bill_value"`
}

type DailyReportResponse struct {
	Date    string       `json:"date"`
	Summary SalesSummary `json:"summary"`
}

type MonthlyReportResponse struct {
	YearMonth string       `json:"year_month"`
	Summary   SalesSummary `json:"summary"`
}

type ProfitReportResponse struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	// ProfitMargin is a percentage rounded to 2 decimals; 0 when revenue is 0.
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

type TopProductEntry struct {
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	TimesSold    int64           `json:"times_sold"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type StockValueResponse struct {
	TotalProducts    int64           `json:"total_products"`
	TotalUnits       int64           `json:"total_units"`
	TotalInvestment  decimal.Decimal `json:"total_investment"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
	PotentialProfit  decimal.Decimal `json:"potential_profit"`
}

// DashboardResponse backs the home screen: today's trade at a glance.
type DashboardResponse struct {
	Today         DailyReportResponse `json:"today"`
	ProductCount  int64               `json:"product_count"`
	LowStockCount int64               `json:"low_stock_count"`
}
