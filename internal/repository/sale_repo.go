package repository

import (
	"context"

	"dailymart/internal/dto"
	"dailymart/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// Create persists the sale header and its items in the caller's transaction.
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByBillNumber(ctx context.Context, billNumber string) (*model.Sale, error)
	ListItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// BillNumbersLike returns committed bill numbers matching a LIKE pattern.
	// Passing a nil tx reads outside any transaction (advisory preview).
	BillNumbersLike(ctx context.Context, tx *gorm.DB, pattern string) ([]string, error)
	CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	MarkNotified(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) FindByBillNumber(ctx context.Context, billNumber string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Where("bill_number = ?", billNumber).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) ListItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Find(&items).Error
	return items, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.StartDate != "" && filter.EndDate != "" {
		q = q.Where("DATE(sale_date) BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	} else if filter.StartDate != "" {
		q = q.Where("DATE(sale_date) >= ?", filter.StartDate)
	} else {
		// Default: today
		q = q.Where("DATE(sale_date) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("sale_date DESC").Offset(offset).Limit(filter.Limit).Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) BillNumbersLike(ctx context.Context, tx *gorm.DB, pattern string) ([]string, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var numbers []string
	err := db.WithContext(ctx).Model(&model.Sale{}).
		Where("bill_number LIKE ?", pattern).
		Pluck("bill_number", &numbers).Error
	return numbers, err
}

func (r *saleRepo) CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("product_id = ?", productID).
		Count(&n).Error
	return n, err
}

func (r *saleRepo) MarkNotified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id = ?", id).
		Update("whatsapp_sent", true).Error
}
