// internal/interfaces/http/handlers/user_address.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/domain/user"
)

// UserAddressHandler handles address book endpoints
type UserAddressHandler struct {
	store *datastore.DataStore
}

// NewUserAddressHandler creates a new user address handler
func NewUserAddressHandler(store *datastore.DataStore) *UserAddressHandler {
	return &UserAddressHandler{store: store}
}

// GetAddresses handles GET /api/addresses
func (h *UserAddressHandler) GetAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addresses, err := h.store.Addresses(userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Addresses retrieved successfully", addresses)
}

// CreateAddress handles POST /api/addresses
func (h *UserAddressHandler) CreateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Recipient, phone and street address are required")
		return
	}

	addr, err := h.store.AddAddress(userID, req.ToAddress())
	if err != nil {
		respondAppError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Address added successfully", addr)
}

// UpdateAddress handles PUT /api/addresses/:id
func (h *UserAddressHandler) UpdateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Recipient, phone and street address are required")
		return
	}

	addr, err := h.store.UpdateAddress(userID, c.Param("id"), req.ToAddress())
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Address updated successfully", addr)
}

// DeleteAddress handles DELETE /api/addresses/:id
func (h *UserAddressHandler) DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.store.RemoveAddress(userID, c.Param("id")); err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Address deleted successfully", nil)
}

// SetDefaultAddress handles PUT /api/addresses/:id/default
func (h *UserAddressHandler) SetDefaultAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.store.SetDefaultAddress(userID, c.Param("id")); err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, "Default address updated", nil)
}
