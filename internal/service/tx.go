package service

import (
	"context"
	"errors"

	"dailymart/internal/domain"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// mapStoreErr translates repository errors into the domain taxonomy:
// record-not-found stays a business miss, everything else is a store fault.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.StoreErr(err)
}
