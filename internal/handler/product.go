package handler

import (
	"context"
	"net/http"
	"strconv"

	"shoemart/internal/model"

	"github.com/gin-gonic/gin"
)

// ProductStore is the storage the product endpoints read from
type ProductStore interface {
	FetchProductByID(ctx context.Context, id int64) (*model.Product, error)
	IsAvailable(ctx context.Context) bool
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	store ProductStore
}

// NewProductHandler creates a new product handler
func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{
		store: store,
	}
}

// GetProduct handles GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if !h.store.IsAvailable(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
		return
	}

	product, err := h.store.FetchProductByID(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product: " + err.Error()})
		return
	}

	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}
