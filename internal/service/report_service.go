package service

import (
	"context"
	"time"

	"dailymart/internal/domain"
	"dailymart/internal/dto"
	"dailymart/internal/repository"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type ReportService interface {
	Daily(ctx context.Context, date string) (*dto.DailyReportResponse, error)
	Monthly(ctx context.Context, yearMonth string) (*dto.MonthlyReportResponse, error)
	Profit(ctx context.Context, startDate, endDate string) (*dto.ProfitReportResponse, error)
	TopProducts(ctx context.Context, days, limit int) ([]dto.TopProductEntry, error)
	StockValue(ctx context.Context) (*dto.StockValueResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type reportService struct {
	repo     repository.ReportRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewReportService(repo repository.ReportRepository, products repository.ProductRepository) ReportService {
	return &reportService{repo: repo, products: products, now: time.Now}
}

func (s *reportService) Daily(ctx context.Context, date string) (*dto.DailyReportResponse, error) {
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.Validationf("invalid date %q, want YYYY-MM-DD", date)
	}
	row, err := s.repo.DailySummary(ctx, date)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	return &dto.DailyReportResponse{Date: date, Summary: summaryFromRow(row)}, nil
}

func (s *reportService) Monthly(ctx context.Context, yearMonth string) (*dto.MonthlyReportResponse, error) {
	if yearMonth == "" {
		yearMonth = s.now().Format("2006-01")
	} else if _, err := time.Parse("2006-01", yearMonth); err != nil {
		return nil, domain.Validationf("invalid month %q, want YYYY-MM", yearMonth)
	}
	row, err := s.repo.MonthlySummary(ctx, yearMonth)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	return &dto.MonthlyReportResponse{YearMonth: yearMonth, Summary: summaryFromRow(row)}, nil
}

func (s *reportService) Profit(ctx context.Context, startDate, endDate string) (*dto.ProfitReportResponse, error) {
	today := s.now().Format("2006-01-02")
	if startDate == "" {
		startDate = today
	}
	if endDate == "" {
		endDate = today
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, domain.Validationf("invalid start date %q", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, domain.Validationf("invalid end date %q", endDate)
	}
	if end.Before(start) {
		return nil, domain.Validationf("end date precedes start date")
	}

	row, err := s.repo.ProfitTotals(ctx, startDate, endDate)
	if err != nil {
		return nil, domain.StoreErr(err)
	}

	// Margin as a percentage of revenue. A zero-revenue window yields 0, not
	// a division error.
	margin := decimal.Zero
	if !row.TotalRevenue.IsZero() {
		margin = row.GrossProfit.Div(row.TotalRevenue).Mul(oneHundred).Round(2)
	}

	return &dto.ProfitReportResponse{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalRevenue: row.TotalRevenue,
		TotalCost:    row.TotalCost,
		GrossProfit:  row.GrossProfit,
		ProfitMargin: margin,
	}, nil
}

func (s *reportService) TopProducts(ctx context.Context, days, limit int) ([]dto.TopProductEntry, error) {
	if days < 1 {
		days = 30
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	rows, err := s.repo.TopProducts(ctx, days, limit)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	entries := make([]dto.TopProductEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, dto.TopProductEntry{
			Barcode:      r.Barcode,
			Name:         r.Name,
			Category:     r.Category,
			TimesSold:    r.TimesSold,
			QuantitySold: r.QuantitySold,
			TotalRevenue: r.TotalRevenue,
		})
	}
	return entries, nil
}

func (s *reportService) StockValue(ctx context.Context) (*dto.StockValueResponse, error) {
	row, err := s.repo.StockValue(ctx)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	return &dto.StockValueResponse{
		TotalProducts:    row.TotalProducts,
		TotalUnits:       row.TotalUnits,
		TotalInvestment:  row.TotalInvestment,
		PotentialRevenue: row.PotentialRevenue,
		PotentialProfit:  row.PotentialProfit,
	}, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	today, err := s.Daily(ctx, "")
	if err != nil {
		return nil, err
	}

	productCount, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	lowStock, err := s.products.CountLowStock(ctx)
	if err != nil {
		return nil, domain.StoreErr(err)
	}

	return &dto.DashboardResponse{
		Today:         *today,
		ProductCount:  productCount,
		LowStockCount: lowStock,
	}, nil
}

func summaryFromRow(row *repository.SalesSummaryRow) dto.SalesSummary {
	return dto.SalesSummary{
		TotalBills:     row.TotalBills,
		GrossSales:     row.GrossSales,
		TotalDiscounts: row.TotalDiscounts,
		NetSales:       row.NetSales,
		AvgBillValue:   row.AvgBillValue,
	}
}
