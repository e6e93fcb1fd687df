package handler

import (
	"net/http"

	"dailymart/internal/apierror"
	"dailymart/internal/dto"
	"dailymart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// Create finalizes a cart into a bill. The whole operation is atomic: on any
// rejection the client gets an error and the store is untouched.
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSale(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) GetItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	items, err := h.svc.GetSaleItems(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *SalesHandler) GetByBillNumber(c *gin.Context) {
	resp, err := h.svc.GetSaleByBillNumber(c.Request.Context(), c.Param("bill_number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NextBillNumber previews the number the next sale would receive. Advisory
// only: a concurrent sale may claim it first.
func (h *SalesHandler) NextBillNumber(c *gin.Context) {
	number, err := h.svc.NextBillNumber(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BillNumberPreview{BillNumber: number})
}

// MarkNotified flips the whatsapp_sent flag after the client delivered the
// receipt through its own channel.
func (h *SalesHandler) MarkNotified(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	if err := h.svc.MarkNotified(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
