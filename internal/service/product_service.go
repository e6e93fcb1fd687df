package service

import (
	"context"
	"errors"

	"dailymart/internal/domain"
	"dailymart/internal/dto"
	"dailymart/internal/model"
	"dailymart/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo  repository.ProductRepository
	sales repository.SaleRepository
}

func NewProductService(repo repository.ProductRepository, sales repository.SaleRepository) ProductService {
	return &productService{repo: repo, sales: sales}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !model.ValidCategory(req.Category) {
		return nil, domain.Validationf("unknown category %q", req.Category)
	}
	if req.BuyPrice.IsNegative() || req.SellPrice.IsNegative() {
		return nil, domain.Validationf("prices must not be negative")
	}
	if req.SellPrice.LessThan(req.BuyPrice) {
		return nil, domain.Validationf("sell_price must be >= buy_price")
	}
	if req.Quantity < 0 {
		return nil, domain.Validationf("quantity must not be negative")
	}

	p := &model.Product{
		Barcode:   req.Barcode,
		Name:      req.Name,
		Category:  req.Category,
		BuyPrice:  req.BuyPrice,
		SellPrice: req.SellPrice,
		Quantity:  req.Quantity,
		Active:    true,
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	} else {
		p.LowStockThreshold = 4
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Validationf("barcode %q already registered", req.Barcode)
		}
		return nil, domain.StoreErr(err)
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return productToResponse(p), nil
}

// GetByBarcode is the scan-at-counter lookup: a discontinued product behaves
// as if it does not exist.
func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !p.Active {
		return nil, domain.ErrNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.StoreErr(err)
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Update applies a partial edit. Quantity is deliberately not editable here;
// stock changes go through the ledger.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		if !model.ValidCategory(*req.Category) {
			return nil, domain.Validationf("unknown category %q", *req.Category)
		}
		p.Category = *req.Category
	}
	if req.BuyPrice != nil {
		if req.BuyPrice.IsNegative() {
			return nil, domain.Validationf("buy_price must not be negative")
		}
		p.BuyPrice = *req.BuyPrice
	}
	if req.SellPrice != nil {
		if req.SellPrice.IsNegative() {
			return nil, domain.Validationf("sell_price must not be negative")
		}
		p.SellPrice = *req.SellPrice
	}
	// Re-check the price invariant on the merged result, whichever side moved.
	if p.SellPrice.LessThan(p.BuyPrice) {
		return nil, domain.Validationf("sell_price must be >= buy_price")
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return nil, domain.Validationf("low_stock_threshold must not be negative")
		}
		p.LowStockThreshold = *req.LowStockThreshold
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, domain.StoreErr(err)
	}
	return productToResponse(p), nil
}

// Delete removes a product permanently. Blocked when any sale item references
// it; the caller should deactivate instead to preserve history.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	count, err := s.sales.CountItemsByProduct(ctx, id)
	if err != nil {
		return domain.StoreErr(err)
	}
	if count > 0 {
		return &domain.ProductInUseError{ProductID: id, SaleCount: count}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.StoreErr(err)
	}
	return nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return domain.StoreErr(err)
	}
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return domain.StoreErr(err)
	}
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID.String(),
		Barcode:           p.Barcode,
		Name:              p.Name,
		Category:          p.Category,
		BuyPrice:          p.BuyPrice,
		SellPrice:         p.SellPrice,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		Active:            p.Active,
	}
}
