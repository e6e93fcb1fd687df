package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report rows are scanned straight from aggregate SQL. COALESCE keeps every
// sum at 0 instead of NULL when no rows match.

type SalesSummaryRow struct {
	TotalBills     int64
	GrossSales     decimal.Decimal
	TotalDiscounts decimal.Decimal
	NetSales       decimal.Decimal
	AvgBillValue   decimal.Decimal
}

type ProfitRow struct {
	TotalRevenue decimal.Decimal
	TotalCost    decimal.Decimal
	GrossProfit  decimal.Decimal
}

type TopProductRow struct {
	Barcode      string
	Name         string
	Category     string
	TimesSold    int64
	QuantitySold int64
	TotalRevenue decimal.Decimal
}

type StockValueRow struct {
	TotalProducts    int64
	TotalUnits       int64
	TotalInvestment  decimal.Decimal
	PotentialRevenue decimal.Decimal
	PotentialProfit  decimal.Decimal
}

// ReportRepository computes read-only projections over persisted sales.
// Queries run at read-committed isolation; reports need not be consistent
// with in-flight sale transactions.
type ReportRepository interface {
	DailySummary(ctx context.Context, date string) (*SalesSummaryRow, error)
	MonthlySummary(ctx context.Context, yearMonth string) (*SalesSummaryRow, error)
	ProfitTotals(ctx context.Context, startDate, endDate string) (*ProfitRow, error)
	TopProducts(ctx context.Context, days, limit int) ([]TopProductRow, error)
	StockValue(ctx context.Context) (*StockValueRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

const summarySelect = `
	COUNT(*)                         AS total_bills,
	COALESCE(SUM(total_amount), 0)   AS gross_sales,
	COALESCE(SUM(discount_amount),0) AS total_discounts,
	COALESCE(SUM(final_amount), 0)   AS net_sales,
	COALESCE(AVG(final_amount), 0)   AS avg_bill_value`

func (r *reportRepo) DailySummary(ctx context.Context, date string) (*SalesSummaryRow, error) {
	var row SalesSummaryRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT `+summarySelect+` FROM sales WHERE DATE(sale_date) = ?`, date,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *reportRepo) MonthlySummary(ctx context.Context, yearMonth string) (*SalesSummaryRow, error) {
	var row SalesSummaryRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT `+summarySelect+` FROM sales WHERE to_char(sale_date, 'YYYY-MM') = ?`, yearMonth,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ProfitTotals costs each line at the product's CURRENT buy price, not the
// price at sale time — a known approximation inherited from the data model
// (sale items snapshot unit_price but not buy_price).
func (r *reportRepo) ProfitTotals(ctx context.Context, startDate, endDate string) (*ProfitRow, error) {
	var row ProfitRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(si.total_price), 0)                               AS total_revenue,
			COALESCE(SUM(si.quantity * p.buy_price), 0)                    AS total_cost,
			COALESCE(SUM(si.quantity * (si.unit_price - p.buy_price)), 0)  AS gross_profit
		FROM sales s
		JOIN sale_items si ON si.sale_id = s.id
		JOIN products p    ON p.id = si.product_id
		WHERE DATE(s.sale_date) BETWEEN ? AND ?`, startDate, endDate,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *reportRepo) TopProducts(ctx context.Context, days, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.barcode,
			p.name,
			p.category,
			COUNT(si.id)          AS times_sold,
			SUM(si.quantity)      AS quantity_sold,
			SUM(si.total_price)   AS total_revenue
		FROM products p
		JOIN sale_items si ON si.product_id = p.id
		JOIN sales s       ON s.id = si.sale_id
		WHERE s.sale_date >= NOW() - make_interval(days => ?)
		GROUP BY p.id, p.barcode, p.name, p.category
		ORDER BY quantity_sold DESC, total_revenue DESC
		LIMIT ?`, days, limit,
	).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) StockValue(ctx context.Context) (*StockValueRow, error) {
	var row StockValueRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*)                                            AS total_products,
			COALESCE(SUM(quantity), 0)                          AS total_units,
			COALESCE(SUM(quantity * buy_price), 0)              AS total_investment,
			COALESCE(SUM(quantity * sell_price), 0)             AS potential_revenue,
			COALESCE(SUM(quantity * (sell_price - buy_price)),0) AS potential_profit
		FROM products
		WHERE active = true`,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
