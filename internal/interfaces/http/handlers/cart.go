// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/domain/cart"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	store *datastore.DataStore
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *datastore.DataStore) *CartHandler {
	return &CartHandler{store: store}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	respondOK(c, "Cart retrieved successfully", h.store.CartSummary(userID))
}

// AddToCart handles POST /api/cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Product id and a positive quantity are required")
		return
	}

	item, err := h.store.AddToCart(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Item added to cart successfully", item)
}

// UpdateCartItem handles PUT /api/cart/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Quantity is required")
		return
	}

	if err := h.store.UpdateCartItem(userID, c.Param("productId"), *req.Quantity); err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Cart updated successfully", h.store.CartSummary(userID))
}

// RemoveFromCart handles DELETE /api/cart/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.store.RemoveFromCart(userID, c.Param("productId")); err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Item removed from cart", h.store.CartSummary(userID))
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Clearing a cart that was never created is a no-op
	if err := h.store.ClearCart(userID); err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Cart cleared", nil)
}

// CheckStock handles POST /api/cart/check-stock. The body is a bare array
// of cart lines; any shortage answers 400 with every short line in data.
func (h *CartHandler) CheckStock(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var items []cart.CartItem
	if err := c.ShouldBindJSON(&items); err != nil || len(items) == 0 {
		respondError(c, http.StatusBadRequest, "Please provide the products to check")
		return
	}

	shortages := h.store.CheckItemsStock(items)
	if len(shortages) > 0 {
		lines := make([]string, 0, len(shortages))
		for _, short := range shortages {
			name := short.ProductName
			if name == "" {
				name = short.ProductID
			}
			lines = append(lines, fmt.Sprintf("%s insufficient stock (current stock: %d, need: %d)", name, short.Available, short.Requested))
		}
		respond(c, http.StatusBadRequest, strings.Join(lines, "\n"), shortages)
		return
	}

	respondOK(c, "All items are in stock", nil)
}
