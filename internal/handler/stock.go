package handler

import (
	"net/http"
	"strconv"

	"dailymart/internal/apierror"
	"dailymart/internal/dto"
	"dailymart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// StockIn records a delivery and bumps the product's on-hand quantity.
func (h *StockHandler) StockIn(c *gin.Context) {
	var req dto.StockInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddStockIn(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Adjust applies a manual correction (damage, count fix). Delta is relative.
func (h *StockHandler) Adjust(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	newQty, err := h.svc.Adjust(c.Request.Context(), id, req.Delta, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockInResponse{ProductID: id.String(), NewQuantity: newQty})
}

func (h *StockHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *StockHandler) LowStock(c *gin.Context) {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("validation", "threshold must be an integer"))
			return
		}
		threshold = &n
	}
	entries, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
