// internal/domain/product/entity.go
package product

import (
	"fmt"

	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

// Product represents a catalog entry
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"` // Fraction off, 0 <= d < 1
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
	Material    string  `json:"material"`
	Dimensions  string  `json:"dimensions"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// DiscountedPrice returns the unit price after discount
func (p Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.Discount)
}

// InStock reports whether qty units are available
func (p Product) InStock(qty int) bool {
	return p.Stock >= qty
}

// Catalog is the on-disk layout of products.json
type Catalog struct {
	Products []Product `json:"products"`
}

// StockLine is a quantity of one product to reserve or restore
type StockLine struct {
	ProductID string
	Quantity  int
}

// Sort keys accepted by Search
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortSales     = "sales"
)

var (
	// ErrProductNotFound is returned when no product has the requested id
	ErrProductNotFound = apperrors.New(apperrors.KindNotFound, "product not found")
	// ErrInvalidQuantity is returned for non-positive stock quantities
	ErrInvalidQuantity = apperrors.New(apperrors.KindValidation, "quantity must be greater than zero")
)

// InsufficientStockError reports a product that cannot cover a request
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, e.Available, e.Requested)
}

// Kind classifies the error as a conflict
func (e *InsufficientStockError) Kind() apperrors.Kind {
	return apperrors.KindConflict
}
