// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/domain/order"
	"github.com/your-org/furniture-store/internal/pkg/pdf"
)

// InvoiceHandler handles invoice-related endpoints
type InvoiceHandler struct {
	store      *datastore.DataStore
	pdfService *pdf.Service
	logger     logrus.FieldLogger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(store *datastore.DataStore, pdfService *pdf.Service, logger logrus.FieldLogger) *InvoiceHandler {
	return &InvoiceHandler{
		store:      store,
		pdfService: pdfService,
		logger:     logger,
	}
}

// GenerateInvoice handles GET /api/orders/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	pdfBuffer, err := h.pdfService.GenerateInvoice(o)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", o.ID).Error("Failed to generate invoice")
		respondError(c, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}

	// Set headers for PDF download
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.ID))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))

	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// PreviewInvoice handles GET /api/orders/:id/invoice/html
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	html, err := h.pdfService.RenderHTML(o)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", o.ID).Error("Failed to render invoice")
		respondError(c, http.StatusInternalServerError, "Failed to render invoice")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *InvoiceHandler) ownedOrder(c *gin.Context) (*order.Order, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	o, err := h.store.UserOrder(userID, c.Param("id"))
	if err != nil {
		respondAppError(c, err)
		return nil, false
	}
	return o, true
}
