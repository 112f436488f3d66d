// internal/domain/product/service.go
package product

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/metrics"
)

// Service owns the product catalog and its stock levels
type Service struct {
	mu        sync.RWMutex
	products  []Product
	persister storage.Persister
	logger    logrus.FieldLogger
	metrics   *metrics.Recorder
}

// SearchRequest represents catalog query parameters. Nil or empty fields
// do not constrain the result.
type SearchRequest struct {
	Keyword  string   `form:"keyword"`
	Category string   `form:"category"`
	MinPrice *float64 `form:"minPrice"`
	MaxPrice *float64 `form:"maxPrice"`
	SortBy   string   `form:"sortBy"`
}

// NewService loads the catalog through persister. A missing catalog is
// created empty.
func NewService(persister storage.Persister, logger logrus.FieldLogger, recorder *metrics.Recorder) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Service{
		persister: persister,
		logger:    logger.WithField("store", "products"),
		metrics:   recorder,
	}

	var catalog Catalog
	found, err := persister.Load(&catalog)
	if err != nil {
		return nil, err
	}
	if !found {
		catalog = Catalog{}
		if err := s.save(nil); err != nil {
			return nil, err
		}
	}

	s.products = catalog.Products
	s.logger.WithField("count", len(s.products)).Info("Product catalog loaded")

	return s, nil
}

// List returns the full catalog in catalog order
func (s *Service) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Product(nil), s.products...)
}

// Search filters and sorts the catalog
func (s *Service) Search(req *SearchRequest) []Product {
	if req == nil {
		req = &SearchRequest{}
	}
	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))

	s.mu.RLock()
	results := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Name), keyword) &&
			!strings.Contains(strings.ToLower(p.Description), keyword) {
			continue
		}
		if req.Category != "" && p.Category != req.Category {
			continue
		}
		if req.MinPrice != nil && p.Price < *req.MinPrice {
			continue
		}
		if req.MaxPrice != nil && p.Price > *req.MaxPrice {
			continue
		}
		results = append(results, p)
	}
	s.mu.RUnlock()

	switch req.SortBy {
	case SortPriceAsc:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Price < results[j].Price })
	case SortPriceDesc:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Price > results[j].Price })
	case SortRating:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Rating > results[j].Rating })
	case SortSales:
		sort.SliceStable(results, func(i, j int) bool { return results[i].ReviewCount > results[j].ReviewCount })
	}

	return results
}

// GetByID retrieves a single product
func (s *Service) GetByID(id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	p := s.products[idx]
	return &p, nil
}

// CheckStock reports whether the product exists with at least qty units
func (s *Service) CheckStock(id string, qty int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	return idx >= 0 && s.products[idx].InStock(qty)
}

// DecrementStock removes qty units from a product and persists the catalog
func (s *Service) DecrementStock(id string, qty int) error {
	return s.ReserveStock([]StockLine{{ProductID: id, Quantity: qty}})
}

// ReserveStock decrements every line or none of them. Quantities for the
// same product are summed before checking. The first line that cannot be
// covered is reported as an *InsufficientStockError.
func (s *Service) ReserveStock(lines []StockLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]Product(nil), s.products...)
	requested := make(map[string]int, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidQuantity, line.ProductID)
		}
		idx := s.indexOf(line.ProductID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
		if total := requested[line.ProductID]; next[idx].Stock < total {
			return &InsufficientStockError{
				ProductID:   next[idx].ID,
				ProductName: next[idx].Name,
				Available:   next[idx].Stock,
				Requested:   total,
			}
		}
	}

	for id, qty := range requested {
		next[s.indexOf(id)].Stock -= qty
	}

	if err := s.save(next); err != nil {
		return err
	}
	s.products = next

	return nil
}

// RestoreStock adds the lines back. Used to undo a reservation whose order
// could not be recorded.
func (s *Service) RestoreStock(lines []StockLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]Product(nil), s.products...)
	for _, line := range lines {
		idx := s.indexOf(line.ProductID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		next[idx].Stock += line.Quantity
	}

	if err := s.save(next); err != nil {
		return err
	}
	s.products = next

	return nil
}

// ListCategories returns the distinct non-empty categories in sorted order
func (s *Service) ListCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range s.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)

	return categories
}

// indexOf must be called with s.mu held
func (s *Service) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) save(products []Product) error {
	if products == nil {
		products = []Product{}
	}
	if err := s.persister.Save(Catalog{Products: products}); err != nil {
		s.logger.WithError(err).Error("Failed to persist product catalog")
		s.metrics.PersistenceFailure(s.persister.Name())
		return err
	}
	return nil
}
