package service_test

import (
	"context"
	"testing"

	"dailymart/internal/domain"
	"dailymart/internal/dto"
	"dailymart/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStockSvc() (service.StockService, *stubStockRepo, *stubProductRepo) {
	productRepo := newStubProductRepo()
	stockRepo := &stubStockRepo{products: productRepo}
	svc := service.NewStockService(stockRepo, productRepo)
	return svc, stockRepo, productRepo
}

func TestAddStockIn_IncrementsAndRecords(t *testing.T) {
	svc, stockRepo, productRepo := buildStockSvc()
	p := seedProduct(productRepo, "Sugar 1kg", "777", 45, 3)

	price := decimal.NewFromFloat(38.50)
	resp, err := svc.AddStockIn(context.Background(), dto.StockInRequest{
		ProductID:     p.ID.String(),
		Quantity:      24,
		PurchasePrice: &price,
		Notes:         "weekly delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, 27, resp.NewQuantity)
	assert.Equal(t, 27, p.Quantity)

	require.Len(t, stockRepo.events, 1)
	assert.Equal(t, 24, stockRepo.events[0].QuantityAdded)
	assert.Equal(t, "weekly delivery", stockRepo.events[0].Notes)
}

func TestAddStockIn_RejectsNonPositive(t *testing.T) {
	svc, stockRepo, productRepo := buildStockSvc()
	p := seedProduct(productRepo, "Sugar 1kg", "777", 45, 3)

	_, err := svc.AddStockIn(context.Background(), dto.StockInRequest{
		ProductID: p.ID.String(),
		Quantity:  0,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, stockRepo.events)
	assert.Equal(t, 3, p.Quantity)
}

func TestAddStockIn_UnknownProduct(t *testing.T) {
	svc, _, _ := buildStockSvc()
	_, err := svc.AddStockIn(context.Background(), dto.StockInRequest{
		ProductID: uuid.NewString(),
		Quantity:  5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_RoundTrip(t *testing.T) {
	svc, _, productRepo := buildStockSvc()
	p := seedProduct(productRepo, "Salt", "888", 20, 10)

	// +N then -N lands back where it started.
	newQty, err := svc.Adjust(context.Background(), p.ID, 7, "recount")
	require.NoError(t, err)
	assert.Equal(t, 17, newQty)

	newQty, err = svc.Adjust(context.Background(), p.ID, -7, "recount")
	require.NoError(t, err)
	assert.Equal(t, 10, newQty)
	assert.Equal(t, 10, p.Quantity)
}

func TestAdjust_NeverGoesNegative(t *testing.T) {
	svc, _, productRepo := buildStockSvc()
	p := seedProduct(productRepo, "Salt", "888", 20, 4)

	_, err := svc.Adjust(context.Background(), p.ID, -5, "damage")
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 4, p.Quantity)
}

func TestAdjust_ZeroDelta(t *testing.T) {
	svc, _, productRepo := buildStockSvc()
	p := seedProduct(productRepo, "Salt", "888", 20, 4)

	_, err := svc.Adjust(context.Background(), p.ID, 0, "noop")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHistory_NewestFirst(t *testing.T) {
	svc, _, productRepo := buildStockSvc()
	p := seedProduct(productRepo, "Tea", "555", 60, 0)

	for _, qty := range []int{5, 10, 15} {
		_, err := svc.AddStockIn(context.Background(), dto.StockInRequest{
			ProductID: p.ID.String(),
			Quantity:  qty,
		})
		require.NoError(t, err)
	}

	entries, err := svc.History(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 15, entries[0].QuantityAdded)
	assert.Equal(t, 10, entries[1].QuantityAdded)
	assert.Equal(t, "Tea", entries[0].ProductName)
}

func TestLowStock_ThresholdOverride(t *testing.T) {
	svc, _, productRepo := buildStockSvc()
	seedProduct(productRepo, "A", "1", 10, 2)  // under default threshold 4
	seedProduct(productRepo, "B", "2", 10, 6)  // fine by default
	seedProduct(productRepo, "C", "3", 10, 50) // plenty

	entries, err := svc.LowStock(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Name)

	// Override pulls B in too.
	threshold := 10
	entries, err = svc.LowStock(context.Background(), &threshold)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
