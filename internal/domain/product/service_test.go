package product

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

func fixtureCatalog() []Product {
	return []Product{
		{ID: "P1", Name: "Oak Dining Table", Description: "Solid oak table", Price: 100, Discount: 0.1, Category: "tables", Stock: 5, Rating: 4.5, ReviewCount: 12},
		{ID: "P2", Name: "Linen Sofa", Description: "Three seat sofa", Price: 800, Category: "sofas", Stock: 2, Rating: 4.8, ReviewCount: 40},
		{ID: "P3", Name: "Reading Lamp", Description: "Brass lamp for the sofa corner", Price: 45, Category: "lighting", Stock: 0, Rating: 3.9, ReviewCount: 7},
		{ID: "P4", Name: "Side Table", Description: "Walnut veneer", Price: 100, Category: "tables", Stock: 10, Rating: 4.1, ReviewCount: 3},
	}
}

func newTestService(t *testing.T) (*Service, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory("products.json")
	require.NoError(t, mem.Save(Catalog{Products: fixtureCatalog()}))

	svc, err := NewService(mem, nil, nil)
	require.NoError(t, err)
	return svc, mem
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestNewService_MissingCatalogIsCreated(t *testing.T) {
	mem := storage.NewMemory("products.json")

	svc, err := NewService(mem, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, svc.List())
	assert.JSONEq(t, `{"products":[]}`, string(mem.Raw()))
}

func TestNewService_RecoveredCatalogStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	corrupt := `{"products": [
		{"id": "P1", "name": "Oak Dining Table", "price": 100, "stock": 5},
		{"id": "P2", "name": "Linen Sofa", "price": 800, "stock": "lots"}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(corrupt), 0o644))

	file := storage.NewJSONFile(dir, "products.json", true, nil)
	svc, err := NewService(file, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, svc.List())

	var onDisk Catalog
	found, err := file.Load(&onDisk)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, onDisk.Products)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t)
	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		req  *SearchRequest
		want []string
	}{
		{"no filters keeps catalog order", &SearchRequest{}, []string{"P1", "P2", "P3", "P4"}},
		{"nil request", nil, []string{"P1", "P2", "P3", "P4"}},
		{"keyword matches name case-insensitively", &SearchRequest{Keyword: "TABLE"}, []string{"P1", "P4"}},
		{"keyword matches description", &SearchRequest{Keyword: "sofa"}, []string{"P2", "P3"}},
		{"category is exact", &SearchRequest{Category: "tables"}, []string{"P1", "P4"}},
		{"category does not match partially", &SearchRequest{Category: "table"}, []string{}},
		{"inclusive price bounds", &SearchRequest{MinPrice: price(45), MaxPrice: price(100)}, []string{"P1", "P3", "P4"}},
		{"filters combine", &SearchRequest{Keyword: "table", MaxPrice: price(100), Category: "tables"}, []string{"P1", "P4"}},
		{"price ascending is stable", &SearchRequest{SortBy: SortPriceAsc}, []string{"P3", "P1", "P4", "P2"}},
		{"price descending", &SearchRequest{SortBy: SortPriceDesc}, []string{"P2", "P1", "P4", "P3"}},
		{"rating descending", &SearchRequest{SortBy: SortRating}, []string{"P2", "P1", "P4", "P3"}},
		{"sales by review count", &SearchRequest{SortBy: SortSales}, []string{"P2", "P1", "P3", "P4"}},
		{"unknown sort keeps order", &SearchRequest{SortBy: "newest"}, []string{"P1", "P2", "P3", "P4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(svc.Search(tt.req)))
		})
	}
}

func TestSearch_ReturnsCopies(t *testing.T) {
	svc, _ := newTestService(t)

	results := svc.Search(&SearchRequest{})
	results[0].Stock = 999

	p, err := svc.GetByID("P1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.GetByID("P2")
	require.NoError(t, err)
	assert.Equal(t, "Linen Sofa", p.Name)

	_, err = svc.GetByID("nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCheckStock(t *testing.T) {
	svc, mem := newTestService(t)
	saves := mem.Saves()

	assert.True(t, svc.CheckStock("P1", 5))
	assert.False(t, svc.CheckStock("P1", 6))
	assert.True(t, svc.CheckStock("P3", 0))
	assert.False(t, svc.CheckStock("missing", 1))

	p, _ := svc.GetByID("P1")
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, saves, mem.Saves())
}

func TestDecrementStock(t *testing.T) {
	svc, mem := newTestService(t)

	require.NoError(t, svc.DecrementStock("P1", 3))
	p, _ := svc.GetByID("P1")
	assert.Equal(t, 2, p.Stock)

	var stored Catalog
	_, err := mem.Load(&stored)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Products[0].Stock)

	err = svc.DecrementStock("P1", 3)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "P1", stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	p, _ = svc.GetByID("P1")
	assert.Equal(t, 2, p.Stock)

	assert.ErrorIs(t, svc.DecrementStock("missing", 1), ErrProductNotFound)
	assert.ErrorIs(t, svc.DecrementStock("P1", 0), ErrInvalidQuantity)
}

func TestReserveStock_AllOrNothing(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ReserveStock([]StockLine{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 3},
	})
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "P2", stockErr.ProductID)

	p1, _ := svc.GetByID("P1")
	assert.Equal(t, 5, p1.Stock, "earlier lines must not be applied")
}

func TestReserveStock_AggregatesSameProduct(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ReserveStock([]StockLine{
		{ProductID: "P1", Quantity: 3},
		{ProductID: "P1", Quantity: 3},
	})
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Requested)

	require.NoError(t, svc.ReserveStock([]StockLine{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P1", Quantity: 3},
	}))
	p1, _ := svc.GetByID("P1")
	assert.Equal(t, 0, p1.Stock)
}

func TestReserveStock_SaveFailureLeavesMemory(t *testing.T) {
	svc, mem := newTestService(t)
	mem.FailSaves(errors.New("disk full"))

	err := svc.DecrementStock("P1", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))

	p1, _ := svc.GetByID("P1")
	assert.Equal(t, 5, p1.Stock)
}

func TestRestoreStock(t *testing.T) {
	svc, _ := newTestService(t)
	lines := []StockLine{{ProductID: "P1", Quantity: 4}, {ProductID: "P4", Quantity: 1}}

	require.NoError(t, svc.ReserveStock(lines))
	require.NoError(t, svc.RestoreStock(lines))

	p1, _ := svc.GetByID("P1")
	p4, _ := svc.GetByID("P4")
	assert.Equal(t, 5, p1.Stock)
	assert.Equal(t, 10, p4.Stock)
}

func TestListCategories(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, []string{"lighting", "sofas", "tables"}, svc.ListCategories())
}

func TestDecrementStock_Concurrent(t *testing.T) {
	svc, _ := newTestService(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.DecrementStock("P4", 1) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p4, _ := svc.GetByID("P4")
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, p4.Stock)
}

func TestProduct_DiscountedPrice(t *testing.T) {
	p := Product{Price: 100, Discount: 0.1}
	assert.InDelta(t, 90.0, p.DiscountedPrice(), 1e-9)
}
