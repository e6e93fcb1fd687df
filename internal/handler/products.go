package handler

import (
	"net/http"

	"dailymart/internal/apierror"
	"dailymart/internal/dto"
	"dailymart/internal/model"
	"dailymart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByBarcode backs the scanner at the counter.
func (h *ProductsHandler) GetByBarcode(c *gin.Context) {
	resp, err := h.svc.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("validation", "invalid id"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Categories returns the closed category list the UI should offer.
func (h *ProductsHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.Categories})
}
