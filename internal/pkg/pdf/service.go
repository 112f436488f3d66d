// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/furniture-store/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	storeName string
	tmpl      *template.Template
	now       func() time.Time
}

// NewService creates a new PDF service
func NewService(storeName string) *Service {
	return &Service{
		storeName: storeName,
		tmpl: template.Must(template.New("invoice").Funcs(template.FuncMap{
			"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
			"pct":   func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
		}).Parse(invoiceTemplate)),
		now: time.Now,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	StoreName     string
	Order         *order.Order
}

// GenerateInvoice renders an order as a PDF invoice. Needs the
// wkhtmltopdf binary on PATH.
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the invoice page for an order
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	data := InvoiceData{
		InvoiceNumber: "INV-" + o.ID,
		InvoiceDate:   s.now().Format("January 2, 2006"),
		StoreName:     s.storeName,
		Order:         o,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #8b5e3c; padding-bottom: 12px; margin-bottom: 24px; }
        .store { font-size: 26px; font-weight: bold; color: #8b5e3c; }
        .meta td { padding: 2px 12px 2px 0; }
        table.items { width: 100%; border-collapse: collapse; margin-top: 24px; }
        table.items th { background: #f3ece6; text-align: left; padding: 8px; }
        table.items td { border-bottom: 1px solid #eee; padding: 8px; }
        .num { text-align: right; }
        .totals { margin-top: 16px; float: right; }
        .totals td { padding: 4px 12px; }
        .grand { font-weight: bold; font-size: 16px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="store">{{.StoreName}}</div>
        <div>Invoice {{.InvoiceNumber}} &middot; {{.InvoiceDate}}</div>
    </div>

    <table class="meta">
        <tr><td>Order</td><td>{{.Order.ID}}</td></tr>
        <tr><td>Placed</td><td>{{.Order.CreatedAt}}</td></tr>
        <tr><td>Status</td><td>{{.Order.Status}}</td></tr>
        <tr><td>Payment</td><td>{{.Order.PaymentMethod}}</td></tr>
        <tr><td>Ship to</td><td>{{if .Order.ContactName}}{{.Order.ContactName}}, {{end}}{{.Order.ShippingAddress}}</td></tr>
        {{if .Order.ContactPhone}}<tr><td>Phone</td><td>{{.Order.ContactPhone}}</td></tr>{{end}}
    </table>

    <table class="items">
        <thead>
            <tr><th>Product</th><th class="num">Unit price</th><th class="num">Discount</th><th class="num">Qty</th><th class="num">Amount</th></tr>
        </thead>
        <tbody>
        {{range .Order.Items}}
            <tr>
                <td>{{.ProductName}}</td>
                <td class="num">{{money .Price}}</td>
                <td class="num">{{pct .Discount}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .DiscountedSubtotal}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="num">{{money .Order.OriginalTotal}}</td></tr>
        <tr><td>Discount</td><td class="num">-{{money .Order.DiscountTotal}}</td></tr>
        <tr class="grand"><td>Total</td><td class="num">{{money .Order.TotalAmount}}</td></tr>
    </table>
</body>
</html>
`
