package service_test

import (
	"context"
	"strings"

	"dailymart/internal/dto"
	"dailymart/internal/model"
	"dailymart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository for testing. Passing a nil
// *gorm.DB through the Tx methods is fine: runTx short-circuits without a DB.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	byCode   map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		byCode:   make(map[string]*model.Product),
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, dup := r.byCode[p.Barcode]; dup {
		return gorm.ErrDuplicatedKey
	}
	r.products[p.ID] = p
	r.byCode[p.Barcode] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	p, ok := r.byCode[barcode]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	r.byCode[p.Barcode] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		delete(r.byCode, p.Barcode)
		delete(r.products, id)
	}
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) LowStock(_ context.Context, threshold *int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		limit := p.LowStockThreshold
		if threshold != nil {
			limit = *threshold
		}
		if p.Quantity < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) CountLowStock(_ context.Context) (int64, error) {
	low, _ := r.LowStock(context.Background(), nil)
	return int64(len(low)), nil
}

func (r *stubProductRepo) LockForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) AdjustQuantityTx(_ *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	p, ok := r.products[id]
	if !ok {
		return false, nil
	}
	if p.Quantity+delta < 0 {
		return false, nil
	}
	p.Quantity += delta
	return true, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	order []uuid.UUID
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByBillNumber(_ context.Context, billNumber string) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.BillNumber == billNumber {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) ListItems(_ context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	s, ok := r.sales[saleID]
	if !ok {
		return nil, nil
	}
	return s.Items, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.sales[id])
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) BillNumbersLike(_ context.Context, _ *gorm.DB, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "%")
	var numbers []string
	for _, s := range r.sales {
		if strings.HasPrefix(s.BillNumber, prefix) {
			numbers = append(numbers, s.BillNumber)
		}
	}
	return numbers, nil
}

func (r *stubSaleRepo) CountItemsByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range r.sales {
		for _, item := range s.Items {
			if item.ProductID == productID {
				n++
			}
		}
	}
	return n, nil
}

func (r *stubSaleRepo) MarkNotified(_ context.Context, id uuid.UUID) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.WhatsappSent = true
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubStockRepo records stock-in events; Product is resolved from the product
// stub so History mirrors the Preload the real repository does.
type stubStockRepo struct {
	events   []model.StockInEvent
	products *stubProductRepo
}

func (r *stubStockRepo) CreateEventTx(_ *gorm.DB, e *model.StockInEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if p, ok := r.products.products[e.ProductID]; ok {
		e.Product = p
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *stubStockRepo) History(_ context.Context, limit int) ([]model.StockInEvent, error) {
	out := make([]model.StockInEvent, 0, len(r.events))
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// stubReportRepo returns canned aggregate rows.
type stubReportRepo struct {
	daily   *repository.SalesSummaryRow
	monthly *repository.SalesSummaryRow
	profit  *repository.ProfitRow
	top     []repository.TopProductRow
	stock   *repository.StockValueRow
}

func (r *stubReportRepo) DailySummary(_ context.Context, _ string) (*repository.SalesSummaryRow, error) {
	if r.daily == nil {
		return &repository.SalesSummaryRow{}, nil
	}
	return r.daily, nil
}

func (r *stubReportRepo) MonthlySummary(_ context.Context, _ string) (*repository.SalesSummaryRow, error) {
	if r.monthly == nil {
		return &repository.SalesSummaryRow{}, nil
	}
	return r.monthly, nil
}

func (r *stubReportRepo) ProfitTotals(_ context.Context, _, _ string) (*repository.ProfitRow, error) {
	if r.profit == nil {
		return &repository.ProfitRow{}, nil
	}
	return r.profit, nil
}

func (r *stubReportRepo) TopProducts(_ context.Context, _, _ int) ([]repository.TopProductRow, error) {
	return r.top, nil
}

func (r *stubReportRepo) StockValue(_ context.Context) (*repository.StockValueRow, error) {
	if r.stock == nil {
		return &repository.StockValueRow{}, nil
	}
	return r.stock, nil
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, barcode string, sellPrice float64, qty int) *model.Product {
	p := &model.Product{
		ID:                uuid.New(),
		Barcode:           barcode,
		Name:              name,
		Category:          "Snacks",
		BuyPrice:          decimal.NewFromFloat(sellPrice).Div(decimal.NewFromInt(2)).Round(2),
		SellPrice:         decimal.NewFromFloat(sellPrice),
		Quantity:          qty,
		LowStockThreshold: 4,
		Active:            true,
	}
	repo.products[p.ID] = p
	repo.byCode[p.Barcode] = p
	return p
}
