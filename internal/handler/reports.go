package handler

import (
	"net/http"
	"strconv"

	"dailymart/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Daily reports for a calendar date (default today).
func (h *ReportsHandler) Daily(c *gin.Context) {
	resp, err := h.svc.Daily(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Monthly(c *gin.Context) {
	resp, err := h.svc.Monthly(c.Request.Context(), c.Query("month"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Profit(c *gin.Context) {
	resp, err := h.svc.Profit(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) TopProducts(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	entries, err := h.svc.TopProducts(c.Request.Context(), days, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *ReportsHandler) StockValue(c *gin.Context) {
	resp, err := h.svc.StockValue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
