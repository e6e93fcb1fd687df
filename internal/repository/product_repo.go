package repository

import (
	"context"

	"dailymart/internal/dto"
	"dailymart/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context, threshold *int) ([]model.Product, error)
	CountActive(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)

	// Used inside transactions — callers must pass the tx instance.
	LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error)
	// AdjustQuantityTx applies a relative delta guarded against going negative.
	// Returns false without error when the guard rejects the update.
	AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = discontinued, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", true).Error
}

// LowStock returns active products under their threshold (or the override),
// most urgent first.
func (r *productRepo) LowStock(ctx context.Context, threshold *int) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Where("active = true")
	if threshold != nil {
		q = q.Where("quantity < ?", *threshold)
	} else {
		q = q.Where("quantity < low_stock_threshold")
	}
	err := q.Order("quantity ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("active = true").
		Count(&n).Error
	return n, err
}

func (r *productRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("active = true AND quantity < low_stock_threshold").
		Count(&n).Error
	return n, err
}

// LockForUpdateTx takes row locks on the given products so a concurrent sale
// cannot interleave its stock check with ours.
func (r *productRepo) LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepo) AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected > 0, res.Error
}
