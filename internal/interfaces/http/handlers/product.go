// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/domain/product"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	store *datastore.DataStore
}

// NewProductHandler creates a new product handler
func NewProductHandler(store *datastore.DataStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req product.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	respondOK(c, "Products retrieved successfully", h.store.SearchProducts(&req))
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.store.Product(c.Param("id"))
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Product retrieved successfully", p)
}

// GetCategories handles GET /api/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	respondOK(c, "Categories retrieved successfully", h.store.Categories())
}
