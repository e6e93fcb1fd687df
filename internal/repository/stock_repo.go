package repository

import (
	"context"

	"dailymart/internal/model"

	"gorm.io/gorm"
)

type StockRepository interface {
	// CreateEventTx appends a stock-in event inside the caller's transaction.
	CreateEventTx(tx *gorm.DB, e *model.StockInEvent) error
	History(ctx context.Context, limit int) ([]model.StockInEvent, error)
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) CreateEventTx(tx *gorm.DB, e *model.StockInEvent) error {
	return tx.Create(e).Error
}

func (r *stockRepo) History(ctx context.Context, limit int) ([]model.StockInEvent, error) {
	var events []model.StockInEvent
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
