// internal/domain/order/entity.go
package order

import (
	"github.com/your-org/furniture-store/internal/domain/cart"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

// StatusPendingPayment is the status of every newly created order
const StatusPendingPayment = "pending-payment"

// DefaultPaymentMethod is used when checkout does not name one
const DefaultPaymentMethod = "Online payment"

// TimeLayout is the createdAt format, second precision
const TimeLayout = "2006-01-02 15:04:05"

// Order represents a placed order. Items are a frozen copy of the settled
// lines.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []cart.CartItem `json:"items"`
	TotalAmount     float64         `json:"totalAmount"` // Payable, after discount
	OriginalTotal   float64         `json:"originalTotal"`
	DiscountTotal   float64         `json:"discountTotal"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       string          `json:"createdAt"`
	ContactName     string          `json:"contactName"`
	ContactPhone    string          `json:"contactPhone"`
}

// Ledger is the on-disk layout of orders.json
type Ledger struct {
	Orders []Order `json:"orders"`
}

// CheckoutRequest represents checkout data. When Items is empty the whole
// cart is settled. Only productId and quantity are read from Items.
type CheckoutRequest struct {
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ContactName     string          `json:"contactName"`
	ContactPhone    string          `json:"contactPhone"`
	Items           []cart.CartItem `json:"items"`
}

var (
	ErrOrderNotFound     = apperrors.New(apperrors.KindNotFound, "order not found")
	ErrAddressRequired   = apperrors.New(apperrors.KindValidation, "shipping address is required")
	ErrEmptySelection    = apperrors.New(apperrors.KindValidation, "no items selected for checkout")
	ErrInvalidItem       = apperrors.New(apperrors.KindValidation, "checkout items need a product id and a positive quantity")
	ErrOrderAccessDenied = apperrors.New(apperrors.KindForbidden, "no access to this order")
)

// UnitCount returns the number of units in the order
func (o Order) UnitCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func (o Order) clone() Order {
	o.Items = append([]cart.CartItem(nil), o.Items...)
	return o
}
