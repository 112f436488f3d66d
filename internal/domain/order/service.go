// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/domain/cart"
	"github.com/your-org/furniture-store/internal/domain/product"
	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/metrics"
)

// StockReserver is the slice of the product store checkout needs
type StockReserver interface {
	GetByID(id string) (*product.Product, error)
	ReserveStock(lines []product.StockLine) error
	RestoreStock(lines []product.StockLine) error
}

// CartSettler is the slice of the cart store checkout needs
type CartSettler interface {
	Get(userID string) []cart.CartItem
	Line(userID, productID string) (*cart.CartItem, bool)
	Settle(userID string, items []cart.CartItem) error
}

// Service handles order business logic
type Service struct {
	mu        sync.RWMutex
	orders    []Order
	persister storage.Persister
	products  StockReserver
	carts     CartSettler
	logger    logrus.FieldLogger
	metrics   *metrics.Recorder
	now       func() time.Time
	lastID    int64
}

// NewService creates a new order service
func NewService(persister storage.Persister, products StockReserver, carts CartSettler, logger logrus.FieldLogger, recorder *metrics.Recorder) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Service{
		persister: persister,
		products:  products,
		carts:     carts,
		logger:    logger.WithField("store", "orders"),
		metrics:   recorder,
		now:       time.Now,
	}

	var ledger Ledger
	found, err := persister.Load(&ledger)
	if err != nil {
		return nil, err
	}
	if !found {
		ledger = Ledger{}
		if err := s.save(nil); err != nil {
			return nil, err
		}
	}

	s.orders = ledger.Orders
	for _, o := range s.orders {
		if n, err := strconv.ParseInt(strings.TrimPrefix(o.ID, "ORD"), 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
	s.logger.WithField("count", len(s.orders)).Info("Orders loaded")

	return s, nil
}

// Checkout settles the selected lines (or the whole cart) into a new order.
// Stock for every line is reserved before anything is written; if the
// order cannot be recorded the reservation is returned.
func (s *Service) Checkout(userID string, req *CheckoutRequest) (*Order, error) {
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		s.metrics.Checkout(metrics.CheckoutAddressRequired)
		return nil, ErrAddressRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.resolveItems(userID, req.Items)
	if err != nil {
		s.metrics.Checkout(metrics.CheckoutFailed)
		return nil, err
	}
	if len(items) == 0 {
		s.metrics.Checkout(metrics.CheckoutEmptySelection)
		return nil, ErrEmptySelection
	}

	lines := make([]product.StockLine, len(items))
	for i, item := range items {
		lines[i] = product.StockLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	if err := s.products.ReserveStock(lines); err != nil {
		var stockErr *product.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.metrics.Checkout(metrics.CheckoutInsufficientStock)
			s.logger.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": stockErr.ProductID,
				"available":  stockErr.Available,
				"requested":  stockErr.Requested,
			}).Warn("Checkout rejected, insufficient stock")
		} else {
			s.metrics.Checkout(metrics.CheckoutFailed)
		}
		return nil, err
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	totals := cart.CalculateTotals(items)
	now := s.now()
	placed := Order{
		ID:              s.nextID(now),
		UserID:          userID,
		Items:           items,
		TotalAmount:     totals.TotalAmount,
		OriginalTotal:   totals.OriginalTotal,
		DiscountTotal:   totals.DiscountTotal,
		Status:          StatusPendingPayment,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		CreatedAt:       now.Format(TimeLayout),
		ContactName:     strings.TrimSpace(req.ContactName),
		ContactPhone:    strings.TrimSpace(req.ContactPhone),
	}

	next := append(cloneOrders(s.orders), placed)
	if err := s.save(next); err != nil {
		if rErr := s.products.RestoreStock(lines); rErr != nil {
			s.logger.WithFields(logrus.Fields{
				"user_id":  userID,
				"order_id": placed.ID,
				"error":    rErr.Error(),
			}).Error("Failed to restore stock after order could not be saved")
		}
		s.metrics.Checkout(metrics.CheckoutFailed)
		return nil, err
	}
	s.orders = next

	if err := s.carts.Settle(userID, items); err != nil {
		s.metrics.CartPruneFailure()
		s.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"order_id": placed.ID,
			"error":    err.Error(),
		}).Warn("Order placed but settled lines are still in the cart")
	}

	s.metrics.Checkout(metrics.CheckoutSucceeded)
	s.metrics.OrderPlaced(placed.UnitCount(), placed.TotalAmount)
	s.logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"order_id":     placed.ID,
		"total_amount": placed.TotalAmount,
		"lines":        len(placed.Items),
	}).Info("Order placed")

	out := placed.clone()
	return &out, nil
}

// ListByUser returns the user's orders, newest first
func (s *Service) ListByUser(userID string) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, o.clone())
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].ID > orders[j].ID
	})

	return orders
}

// GetByID retrieves a single order
func (s *Service) GetByID(orderID string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			out := o.clone()
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
}

// GetForUser retrieves an order that must belong to userID
func (s *Service) GetForUser(userID, orderID string) (*Order, error) {
	o, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return o, nil
}

// resolveItems builds the lines to settle. Explicit items are priced from
// the user's cart line when there is one, else from the live product.
// Must be called with s.mu held.
func (s *Service) resolveItems(userID string, explicit []cart.CartItem) ([]cart.CartItem, error) {
	if len(explicit) == 0 {
		return s.carts.Get(userID), nil
	}

	items := make([]cart.CartItem, 0, len(explicit))
	for _, req := range explicit {
		if req.ProductID == "" || req.Quantity <= 0 {
			return nil, ErrInvalidItem
		}

		if line, ok := s.carts.Line(userID, req.ProductID); ok {
			line.Quantity = req.Quantity
			items = append(items, *line)
			continue
		}

		p, err := s.products.GetByID(req.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, cart.FromProduct(p, req.Quantity))
	}

	return items, nil
}

// nextID keeps the ORD<epoch millis> format but never repeats an id.
// Must be called with s.mu held.
func (s *Service) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return "ORD" + strconv.FormatInt(id, 10)
}

func (s *Service) save(orders []Order) error {
	if orders == nil {
		orders = []Order{}
	}
	if err := s.persister.Save(Ledger{Orders: orders}); err != nil {
		s.logger.WithError(err).Error("Failed to persist orders")
		s.metrics.PersistenceFailure(s.persister.Name())
		return err
	}
	return nil
}

func cloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.clone()
	}
	return out
}
