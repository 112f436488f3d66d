// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/furniture-store/internal/domain/product"
	"github.com/your-org/furniture-store/internal/interfaces/http/middleware"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": status < http.StatusBadRequest,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	respond(c, status, message, nil)
}

// respondAppError maps a classified error onto a status code
func respondAppError(c *gin.Context, err error) {
	var shortage *product.InsufficientStockError
	if errors.As(err, &shortage) {
		respond(c, http.StatusBadRequest, err.Error(), gin.H{
			"productId":   shortage.ProductID,
			"productName": shortage.ProductName,
			"available":   shortage.Available,
			"requested":   shortage.Requested,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status, message = http.StatusBadRequest, err.Error()
	case apperrors.KindUnauthorized:
		status, message = http.StatusUnauthorized, err.Error()
	case apperrors.KindForbidden:
		status, message = http.StatusForbidden, err.Error()
	case apperrors.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case apperrors.KindConflict:
		status, message = http.StatusConflict, err.Error()
	case apperrors.KindPersistence:
		message = "Failed to save data, please try again"
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	respondError(c, status, message)
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Please log in first")
		return "", false
	}
	return userID, true
}
