// internal/domain/cart/entity.go
package cart

import (
	"github.com/your-org/furniture-store/internal/domain/product"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

// CartItem is one product line in a cart or order. The product fields are
// a snapshot taken when the line was last added.
type CartItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int     `json:"itemCount"`     // Number of lines
	TotalQuantity int     `json:"totalQuantity"` // Sum of all quantities
	OriginalTotal float64 `json:"originalTotal"`
	DiscountTotal float64 `json:"discountTotal"`
	TotalAmount   float64 `json:"totalAmount"` // Payable
}

// Summary is a cart with its totals
type Summary struct {
	Items  []CartItem `json:"items"`
	Total  float64    `json:"total"`
	Totals Totals     `json:"totals"`
}

// Carts is the on-disk layout of carts.json: user id to lines
type Carts map[string][]CartItem

var (
	ErrCartNotFound     = apperrors.New(apperrors.KindNotFound, "cart not found")
	ErrCartItemNotFound = apperrors.New(apperrors.KindNotFound, "item not in cart")
	ErrInvalidQuantity  = apperrors.New(apperrors.KindValidation, "quantity must be greater than zero")
)

// snapshot refreshes the denormalized product fields of the line
func (i *CartItem) snapshot(p *product.Product) {
	i.ProductID = p.ID
	i.ProductName = p.Name
	i.Price = p.Price
	i.Discount = p.Discount
	i.ImageURL = p.ImageURL
	i.Stock = p.Stock
}

// FromProduct builds a line for qty units of p
func FromProduct(p *product.Product, qty int) CartItem {
	item := CartItem{Quantity: qty}
	item.snapshot(p)
	return item
}

// DiscountedPrice returns the unit price after discount
func (i CartItem) DiscountedPrice() float64 {
	return i.Price * (1 - i.Discount)
}

// Subtotal is the undiscounted line amount
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// DiscountedSubtotal is the payable line amount
func (i CartItem) DiscountedSubtotal() float64 {
	return i.DiscountedPrice() * float64(i.Quantity)
}

// Savings is the discount given on the line
func (i CartItem) Savings() float64 {
	return i.Subtotal() - i.DiscountedSubtotal()
}

// CalculateTotals sums a set of lines
func CalculateTotals(items []CartItem) Totals {
	totals := Totals{ItemCount: len(items)}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.OriginalTotal += item.Subtotal()
		totals.TotalAmount += item.DiscountedSubtotal()
	}
	totals.DiscountTotal = totals.OriginalTotal - totals.TotalAmount
	return totals
}
