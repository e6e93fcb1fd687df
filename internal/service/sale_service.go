package service

import (
	"context"
	"time"

	"dailymart/internal/domain"
	"dailymart/internal/dto"
	"dailymart/internal/model"
	"dailymart/internal/repository"
	"dailymart/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService is the sale transaction coordinator: it is the only writer of
// sale records and sale-driven stock decrements.
type SaleService interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	GetSaleItems(ctx context.Context, saleID uuid.UUID) ([]dto.SaleItemResponse, error)
	GetSaleByBillNumber(ctx context.Context, billNumber string) (*dto.SaleResponse, error)
	NextBillNumber(ctx context.Context) (string, error)
	MarkNotified(ctx context.Context, saleID uuid.UUID) error
}

type saleService struct {
	repo       repository.SaleRepository
	products   repository.ProductRepository
	billing    billNumbering
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:       repo,
		products:   products,
		billing:    billNumbering{sales: repo, now: time.Now},
		dispatcher: dispatcher,
	}
}

// ── CreateSale ───────────────────────────────────────────────────────────────
// One all-or-nothing unit:
//   1. Reject empty cart
//   2. Resolve every line to an active product (pre-flight, outside TX)
//   3. BEGIN TX: lock product rows, verify stock against the locked snapshot,
//      derive the bill number, insert sale + items, decrement stock
//   4. COMMIT — any failure rolls everything back, nothing partial persists
//   5. (async) best-effort receipt notification, never affects the outcome

func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if req.DiscountAmount.IsNegative() {
		return nil, domain.Validationf("discount_amount must not be negative")
	}

	// Pre-flight resolve. Stock is re-checked inside the transaction against
	// locked rows; this pass only rejects unknown or discontinued products
	// before any write begins.
	resolved := make([]resolvedLine, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, domain.Validationf("line quantity must be positive")
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return nil, domain.Validationf("unit_price override must not be negative")
		}
		p, err := s.resolveLine(ctx, line)
		if err != nil {
			return nil, err
		}
		if !p.Active {
			return nil, domain.ErrNotFound
		}
		resolved = append(resolved, resolvedLine{productID: p.ID, quantity: line.Quantity, override: line.UnitPrice})
	}

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, 0, len(resolved))
		seen := make(map[uuid.UUID]bool, len(resolved))
		for _, r := range resolved {
			if !seen[r.productID] {
				seen[r.productID] = true
				ids = append(ids, r.productID)
			}
		}

		// Row locks serialize check-then-decrement against concurrent sales.
		locked, err := s.products.LockForUpdateTx(tx, ids)
		if err != nil {
			return domain.StoreErr(err)
		}
		byID := make(map[uuid.UUID]*model.Product, len(locked))
		remaining := make(map[uuid.UUID]int, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
			remaining[locked[i].ID] = locked[i].Quantity
		}

		total := decimal.Zero
		items := make([]model.SaleItem, 0, len(resolved))
		for _, r := range resolved {
			p, ok := byID[r.productID]
			if !ok {
				// Deleted between pre-flight and lock.
				return domain.ErrNotFound
			}
			if r.quantity > remaining[p.ID] {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   remaining[p.ID],
					Requested:   r.quantity,
				}
			}
			remaining[p.ID] -= r.quantity

			unitPrice := p.SellPrice
			if r.override != nil {
				unitPrice = *r.override
			}
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(r.quantity)))
			total = total.Add(lineTotal)

			items = append(items, model.SaleItem{
				ProductID:   p.ID,
				Barcode:     p.Barcode,
				ProductName: p.Name,
				Quantity:    r.quantity,
				UnitPrice:   unitPrice,
				TotalPrice:  lineTotal,
			})
		}

		// Discount never inverts the direction of a bill.
		finalAmount := total.Sub(req.DiscountAmount)
		if finalAmount.IsNegative() {
			finalAmount = decimal.Zero
		}

		billNumber, err := s.billing.next(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			BillNumber:     billNumber,
			TotalAmount:    total,
			DiscountAmount: req.DiscountAmount,
			FinalAmount:    finalAmount,
			CustomerPhone:  req.CustomerPhone,
			PaymentMethod:  req.PaymentMethod,
			SaleDate:       s.billing.now(),
			Items:          items,
		}
		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return domain.StoreErr(err)
		}

		for id, qty := range cartQuantities(resolved) {
			ok, err := s.products.AdjustQuantityTx(tx, id, -qty)
			if err != nil {
				return domain.StoreErr(err)
			}
			if !ok {
				// Guard tripped despite the lock — roll everything back.
				p := byID[id]
				return &domain.InsufficientStockError{
					ProductID: id, ProductName: p.Name,
					Available: p.Quantity, Requested: qty,
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort receipt notification — fire & forget, the sale is committed.
	if s.dispatcher != nil && (req.CustomerPhone != nil || req.CustomerEmail != nil) {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String()}
		if req.CustomerEmail != nil {
			payload.CustomerEmail = *req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	return saleToResponse(&sale, true), nil
}

// resolvedLine is a cart line bound to a concrete product.
type resolvedLine struct {
	productID uuid.UUID
	quantity  int
	override  *decimal.Decimal
}

// cartQuantities folds duplicate lines into one delta per product.
func cartQuantities(lines []resolvedLine) map[uuid.UUID]int {
	totals := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		totals[l.productID] += l.quantity
	}
	return totals
}

func (s *saleService) resolveLine(ctx context.Context, line dto.CartLine) (*model.Product, error) {
	if line.ProductID != "" {
		id, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, domain.Validationf("invalid product_id %q", line.ProductID)
		}
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		return p, nil
	}
	if line.Barcode == "" {
		return nil, domain.Validationf("cart line needs a barcode or product_id")
	}
	p, err := s.products.FindByBarcode(ctx, line.Barcode)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return p, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i], false))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) GetSaleItems(ctx context.Context, saleID uuid.UUID) ([]dto.SaleItemResponse, error) {
	items, err := s.repo.ListItems(ctx, saleID)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	resp := make([]dto.SaleItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, itemToResponse(&items[i]))
	}
	return resp, nil
}

func (s *saleService) GetSaleByBillNumber(ctx context.Context, billNumber string) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return saleToResponse(sale, true), nil
}

// NextBillNumber is an advisory preview; the authoritative number is derived
// inside the sale transaction.
func (s *saleService) NextBillNumber(ctx context.Context) (string, error) {
	return s.billing.next(ctx, nil)
}

func (s *saleService) MarkNotified(ctx context.Context, saleID uuid.UUID) error {
	if err := s.repo.MarkNotified(ctx, saleID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func itemToResponse(item *model.SaleItem) dto.SaleItemResponse {
	return dto.SaleItemResponse{
		ProductID:   item.ProductID.String(),
		Barcode:     item.Barcode,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
	}
}

func saleToResponse(sale *model.Sale, withItems bool) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		SaleID:         sale.ID.String(),
		BillNumber:     sale.BillNumber,
		TotalAmount:    sale.TotalAmount,
		DiscountAmount: sale.DiscountAmount,
		FinalAmount:    sale.FinalAmount,
		PaymentMethod:  sale.PaymentMethod,
		CustomerPhone:  sale.CustomerPhone,
		WhatsappSent:   sale.WhatsappSent,
		SaleDate:       sale.SaleDate.Format(time.RFC3339),
	}
	if withItems {
		resp.Items = make([]dto.SaleItemResponse, 0, len(sale.Items))
		for i := range sale.Items {
			resp.Items = append(resp.Items, itemToResponse(&sale.Items[i]))
		}
	}
	return resp
}
