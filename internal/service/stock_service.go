package service

import (
	"context"
	"time"

	"dailymart/internal/domain"
	"dailymart/internal/dto"
	"dailymart/internal/model"
	"dailymart/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the stock ledger: every quantity change goes through a
// relative delta, never an absolute overwrite.
type StockService interface {
	AddStockIn(ctx context.Context, req dto.StockInRequest) (*dto.StockInResponse, error)
	Adjust(ctx context.Context, productID uuid.UUID, delta int, reason string) (int, error)
	History(ctx context.Context, limit int) ([]dto.StockHistoryEntry, error)
	LowStock(ctx context.Context, threshold *int) ([]dto.LowStockEntry, error)
}

type stockService struct {
	repo     repository.StockRepository
	products repository.ProductRepository
}

func NewStockService(repo repository.StockRepository, products repository.ProductRepository) StockService {
	return &stockService{repo: repo, products: products}
}

// AddStockIn records a delivery: increments on-hand quantity and appends an
// audit event, atomically.
func (s *stockService) AddStockIn(ctx context.Context, req dto.StockInRequest) (*dto.StockInResponse, error) {
	if req.Quantity <= 0 {
		return nil, domain.Validationf("stock-in quantity must be positive")
	}
	if req.PurchasePrice != nil && req.PurchasePrice.IsNegative() {
		return nil, domain.Validationf("purchase_price must not be negative")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, domain.Validationf("invalid product_id %q", req.ProductID)
	}

	newQty, err := s.applyDelta(ctx, productID, req.Quantity, func(tx *gorm.DB) error {
		return s.repo.CreateEventTx(tx, &model.StockInEvent{
			ProductID:     productID,
			QuantityAdded: req.Quantity,
			PurchasePrice: req.PurchasePrice,
			Notes:         req.Notes,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockInResponse{ProductID: productID.String(), NewQuantity: newQty}, nil
}

// Adjust applies a manual correction. A negative delta that would take the
// quantity below zero is rejected as insufficient stock, same as a sale.
func (s *stockService) Adjust(ctx context.Context, productID uuid.UUID, delta int, _ string) (int, error) {
	if delta == 0 {
		return 0, domain.Validationf("delta must not be zero")
	}
	return s.applyDelta(ctx, productID, delta, nil)
}

// applyDelta locks the product row, applies the guarded relative update, and
// optionally runs extra writes in the same transaction. Returns the resulting
// quantity.
func (s *stockService) applyDelta(ctx context.Context, productID uuid.UUID, delta int, extra func(tx *gorm.DB) error) (int, error) {
	var newQty int
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		locked, err := s.products.LockForUpdateTx(tx, []uuid.UUID{productID})
		if err != nil {
			return domain.StoreErr(err)
		}
		if len(locked) == 0 {
			return domain.ErrNotFound
		}
		p := locked[0]

		ok, err := s.products.AdjustQuantityTx(tx, productID, delta)
		if err != nil {
			return domain.StoreErr(err)
		}
		if !ok {
			return &domain.InsufficientStockError{
				ProductID:   productID,
				ProductName: p.Name,
				Available:   p.Quantity,
				Requested:   -delta,
			}
		}
		newQty = p.Quantity + delta

		if extra != nil {
			if err := extra(tx); err != nil {
				return domain.StoreErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

func (s *stockService) History(ctx context.Context, limit int) ([]dto.StockHistoryEntry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	events, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	entries := make([]dto.StockHistoryEntry, 0, len(events))
	for i := range events {
		e := &events[i]
		entry := dto.StockHistoryEntry{
			ID:            e.ID.String(),
			ProductID:     e.ProductID.String(),
			QuantityAdded: e.QuantityAdded,
			PurchasePrice: e.PurchasePrice,
			Notes:         e.Notes,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		}
		if e.Product != nil {
			entry.ProductName = e.Product.Name
			entry.Barcode = e.Product.Barcode
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *stockService) LowStock(ctx context.Context, threshold *int) ([]dto.LowStockEntry, error) {
	if threshold != nil && *threshold < 0 {
		return nil, domain.Validationf("threshold must not be negative")
	}
	products, err := s.products.LowStock(ctx, threshold)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	entries := make([]dto.LowStockEntry, 0, len(products))
	for i := range products {
		p := &products[i]
		entries = append(entries, dto.LowStockEntry{
			ID:        p.ID.String(),
			Barcode:   p.Barcode,
			Name:      p.Name,
			Category:  p.Category,
			Quantity:  p.Quantity,
			Threshold: p.LowStockThreshold,
		})
	}
	return entries, nil
}
