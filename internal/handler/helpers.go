package handler

import (
	"errors"
	"net/http"
	"reflect"

	"dailymart/internal/apierror"
	"dailymart/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError translates the domain error taxonomy into HTTP responses.
// Every handler funnels service errors through here so a given error kind
// always maps to the same status code and envelope.
func writeError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	var inUseErr *domain.ProductInUseError

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, apierror.New("empty_cart", "cannot create a sale with no items"))
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, apierror.New("validation", err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("not_found", "resource not found"))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, &apierror.StockError{
			Kind:      "insufficient_stock",
			Detail:    stockErr.Error(),
			Product:   stockErr.ProductName,
			Available: stockErr.Available,
			Requested: stockErr.Requested,
		})
	case errors.As(err, &inUseErr):
		c.JSON(http.StatusConflict, &apierror.InUseError{
			Kind:      "product_in_use",
			Detail:    inUseErr.Error(),
			SaleCount: inUseErr.SaleCount,
		})
	default:
		// domain.ErrStore and anything unexpected: log via the error chain,
		// answer with a safe envelope.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("store_error", "internal server error"))
	}
}
