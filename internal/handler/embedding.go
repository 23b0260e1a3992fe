package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shoemart/internal/model"
	"shoemart/internal/repository"

	"github.com/gin-gonic/gin"
)

// EmbeddingStore persists product embeddings
type EmbeddingStore interface {
	UpdateProductEmbedding(ctx context.Context, productID int64, embedding []float32) error
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
}

// EmbeddingHandler handles embedding-related HTTP requests
type EmbeddingHandler struct {
	store      EmbeddingStore
	dimensions int
}

// NewEmbeddingHandler creates a new embedding handler accepting vectors of the given size
func NewEmbeddingHandler(store EmbeddingStore, dimensions int) *EmbeddingHandler {
	return &EmbeddingHandler{
		store:      store,
		dimensions: dimensions,
	}
}

// BatchUpdate handles POST /api/v1/products/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Embeddings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No embeddings provided"})
		return
	}

	// Validate embedding dimensions
	for i, item := range req.Embeddings {
		if len(item.Embedding) != h.dimensions {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid embedding dimension at index %d, expected %d", i, h.dimensions),
			})
			return
		}
	}

	// Update embeddings
	success, errs := h.store.BatchUpdateEmbeddings(c.Request.Context(), req.Embeddings)

	response := model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errs,
	}

	if len(errs) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}

// Update handles PUT /api/v1/products/:id/embedding
func (h *EmbeddingHandler) Update(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req model.EmbeddingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Embedding) != h.dimensions {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid embedding dimension, expected %d", h.dimensions),
		})
		return
	}

	if err := h.store.UpdateProductEmbedding(c.Request.Context(), productID, req.Embedding); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update embedding: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_id": productID, "dimensions": len(req.Embedding)})
}
