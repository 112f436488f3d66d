// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/domain/order"
)

// OrderHandler handles checkout and order history endpoints
type OrderHandler struct {
	store  *datastore.DataStore
	logger logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(store *datastore.DataStore, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{store: store, logger: logger}
}

// CreateOrder handles POST /api/orders. Without explicit items the whole
// cart is checked out.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	o, err := h.store.Checkout(userID, &req)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Debug("Checkout rejected")
		respondAppError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Order placed successfully", o)
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	respondOK(c, "Orders retrieved successfully", h.store.Orders(userID))
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	o, err := h.store.UserOrder(userID, c.Param("id"))
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Order retrieved successfully", o)
}
