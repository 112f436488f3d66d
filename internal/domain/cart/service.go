// internal/domain/cart/service.go
package cart

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/domain/product"
	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/metrics"
)

// ProductReader looks up live catalog entries
type ProductReader interface {
	GetByID(id string) (*product.Product, error)
}

// Service handles cart business logic
type Service struct {
	mu        sync.RWMutex
	carts     Carts
	persister storage.Persister
	products  ProductReader
	logger    logrus.FieldLogger
	metrics   *metrics.Recorder
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request. Zero or a
// negative quantity removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// NewService creates a new cart service
func NewService(persister storage.Persister, products ProductReader, logger logrus.FieldLogger, recorder *metrics.Recorder) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Service{
		persister: persister,
		products:  products,
		logger:    logger.WithField("store", "carts"),
		metrics:   recorder,
	}

	carts := Carts{}
	found, err := persister.Load(&carts)
	if err != nil {
		return nil, err
	}
	if !found || carts == nil {
		carts = Carts{}
		if err := s.save(carts); err != nil {
			return nil, err
		}
	}

	s.carts = carts
	s.logger.WithField("count", len(s.carts)).Info("Carts loaded")

	return s, nil
}

// Get returns the user's cart lines in display order
func (s *Service) Get(userID string) []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]CartItem{}, s.carts[userID]...)
}

// Line returns one line of the user's cart
func (s *Service) Line(userID, productID string) (*CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[userID]
	if idx := indexOf(items, productID); idx >= 0 {
		item := items[idx]
		return &item, true
	}
	return nil, false
}

// Add puts qty units of a product in the cart. An existing line has its
// quantity increased and its product snapshot refreshed.
func (s *Service) Add(userID, productID string, qty int) (*CartItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}

	items := append([]CartItem(nil), s.carts[userID]...)
	var line CartItem
	if idx := indexOf(items, productID); idx >= 0 {
		items[idx].Quantity += qty
		items[idx].snapshot(p)
		line = items[idx]
	} else {
		line = FromProduct(p, qty)
		items = append(items, line)
	}

	if err := s.commit(userID, items); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   line.Quantity,
	}).Debug("Cart line added")

	return &line, nil
}

// UpdateQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line.
func (s *Service) UpdateQuantity(userID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.carts[userID]
	if !ok {
		return ErrCartNotFound
	}
	idx := indexOf(current, productID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrCartItemNotFound, productID)
	}

	items := append([]CartItem(nil), current...)
	if qty <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = qty
	}

	return s.commit(userID, items)
}

// Remove deletes a line from the cart
func (s *Service) Remove(userID, productID string) error {
	return s.UpdateQuantity(userID, productID, 0)
}

// Clear empties the cart. It fails only for users that never had a cart.
func (s *Service) Clear(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[userID]; !ok {
		return ErrCartNotFound
	}
	return s.commit(userID, []CartItem{})
}

// RemoveMany drops every line whose product appears in items. Users
// without a cart are left alone.
func (s *Service) RemoveMany(userID string, items []CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.carts[userID]
	if !ok {
		return nil
	}

	dropped := make(map[string]struct{}, len(items))
	for _, item := range items {
		dropped[item.ProductID] = struct{}{}
	}

	remaining := make([]CartItem, 0, len(current))
	for _, item := range current {
		if _, ok := dropped[item.ProductID]; !ok {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == len(current) {
		return nil
	}

	return s.commit(userID, remaining)
}

// Settle subtracts the checked-out quantities from the matching lines and
// drops lines that reach zero. Units added after checkout read the cart
// stay. Users without a cart are left alone.
func (s *Service) Settle(userID string, items []CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.carts[userID]
	if !ok {
		return nil
	}

	settled := make(map[string]int, len(items))
	for _, item := range items {
		settled[item.ProductID] += item.Quantity
	}

	changed := false
	remaining := make([]CartItem, 0, len(current))
	for _, item := range current {
		qty, ok := settled[item.ProductID]
		if !ok || qty <= 0 {
			remaining = append(remaining, item)
			continue
		}
		changed = true
		take := qty
		if take > item.Quantity {
			take = item.Quantity
		}
		settled[item.ProductID] = qty - take
		item.Quantity -= take
		if item.Quantity > 0 {
			remaining = append(remaining, item)
		}
	}
	if !changed {
		return nil
	}

	return s.commit(userID, remaining)
}

// Total is the payable amount of the cart, priced from the line snapshots
func (s *Service) Total(userID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, item := range s.carts[userID] {
		total += item.Price * (1 - item.Discount) * float64(item.Quantity)
	}
	return total
}

// Summary returns the cart lines with totals
func (s *Service) Summary(userID string) *Summary {
	items := s.Get(userID)
	totals := CalculateTotals(items)
	return &Summary{
		Items:  items,
		Total:  totals.TotalAmount,
		Totals: totals,
	}
}

// Count returns the number of units in the cart
func (s *Service) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.carts[userID] {
		count += item.Quantity
	}
	return count
}

// commit persists the carts with userID's lines replaced, then swaps the
// new state in. Must be called with s.mu held.
func (s *Service) commit(userID string, items []CartItem) error {
	next := make(Carts, len(s.carts)+1)
	for k, v := range s.carts {
		next[k] = v
	}
	next[userID] = items

	if err := s.save(next); err != nil {
		return err
	}
	s.carts = next
	return nil
}

func (s *Service) save(carts Carts) error {
	if err := s.persister.Save(carts); err != nil {
		s.logger.WithError(err).Error("Failed to persist carts")
		s.metrics.PersistenceFailure(s.persister.Name())
		return err
	}
	return nil
}

func indexOf(items []CartItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
