// Package domain holds the error taxonomy shared by services and handlers.
// Services return these; the HTTP layer maps them to status codes without
// inspecting error strings.
package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("resource not found")
	ErrEmptyCart  = errors.New("cart is empty")
	ErrValidation = errors.New("validation failed")
	ErrStore      = errors.New("store operation failed")
)

// Validationf builds a field-level validation error that matches ErrValidation
// under errors.Is.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// StoreErr wraps an underlying persistence failure so callers can distinguish
// infrastructure faults from business rejections.
func StoreErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// InsufficientStockError is returned when a requested quantity exceeds the
// available stock. Carries enough detail to render a precise message.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// ProductInUseError blocks hard deletion of a product referenced by historical
// sale items. SaleCount lets the caller suggest deactivation instead.
type ProductInUseError struct {
	ProductID uuid.UUID
	SaleCount int64
}

func (e *ProductInUseError) Error() string {
	return fmt.Sprintf("product is referenced by %d sale item(s); deactivate it instead", e.SaleCount)
}
