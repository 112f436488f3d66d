package cart

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/furniture-store/internal/domain/product"
	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

func newProducts(t *testing.T) *product.Service {
	t.Helper()
	mem := storage.NewMemory("products.json")
	require.NoError(t, mem.Save(product.Catalog{Products: []product.Product{
		{ID: "P1", Name: "Oak Table", Price: 100, Discount: 0.1, Stock: 5, ImageURL: "/img/p1.jpg"},
		{ID: "P2", Name: "Sofa", Price: 250, Stock: 3},
		{ID: "P3", Name: "Lamp", Price: 19.99, Discount: 0.25, Stock: 40},
	}}))

	svc, err := product.NewService(mem, nil, nil)
	require.NoError(t, err)
	return svc
}

func newTestService(t *testing.T) (*Service, *storage.Memory, *product.Service) {
	t.Helper()
	products := newProducts(t)
	mem := storage.NewMemory("carts.json")

	svc, err := NewService(mem, products, nil, nil)
	require.NoError(t, err)
	return svc, mem, products
}

func TestGet_EmptyCart(t *testing.T) {
	svc, _, _ := newTestService(t)

	items := svc.Get("U1")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAdd_MergesSameProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Add("U1", "P1", 2)
	require.NoError(t, err)
	_, err = svc.Add("U1", "P2", 1)
	require.NoError(t, err)
	line, err := svc.Add("U1", "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	items := svc.Get("U1")
	require.Len(t, items, 2)
	assert.Equal(t, "P1", items[0].ProductID, "insertion order is kept")
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "Oak Table", items[0].ProductName)
	assert.Equal(t, "/img/p1.jpg", items[0].ImageURL)
}

func TestAdd_RefreshesSnapshot(t *testing.T) {
	svc, _, products := newTestService(t)

	_, err := svc.Add("U1", "P1", 1)
	require.NoError(t, err)
	require.NoError(t, products.DecrementStock("P1", 4))

	assert.Equal(t, 5, svc.Get("U1")[0].Stock, "snapshot is not live")

	_, err = svc.Add("U1", "P1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Get("U1")[0].Stock)
}

func TestAdd_Errors(t *testing.T) {
	svc, mem, _ := newTestService(t)
	saves := mem.Saves()

	_, err := svc.Add("U1", "P1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Add("U1", "nope", 1)
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	assert.Equal(t, saves, mem.Saves())
	assert.Empty(t, svc.Get("U1"))
}

func TestUpdateQuantity(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Add("U1", "P1", 1)
	require.NoError(t, err)
	_, err = svc.Add("U1", "P2", 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity("U1", "P1", 4))
	assert.Equal(t, 4, svc.Get("U1")[0].Quantity)

	require.NoError(t, svc.UpdateQuantity("U1", "P1", 0))
	items := svc.Get("U1")
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)

	require.NoError(t, svc.UpdateQuantity("U1", "P2", -3))
	assert.Empty(t, svc.Get("U1"))

	assert.ErrorIs(t, svc.UpdateQuantity("U1", "P2", 1), ErrCartItemNotFound)
	assert.ErrorIs(t, svc.UpdateQuantity("U9", "P2", 1), ErrCartNotFound)
}

func TestRemove(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Add("U1", "P1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove("U1", "P1"))
	assert.Empty(t, svc.Get("U1"))
	assert.ErrorIs(t, svc.Remove("U1", "P1"), ErrCartItemNotFound)
}

func TestClear(t *testing.T) {
	svc, mem, _ := newTestService(t)

	assert.ErrorIs(t, svc.Clear("U1"), ErrCartNotFound)

	_, err := svc.Add("U1", "P1", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear("U1"))
	assert.Empty(t, svc.Get("U1"))

	// an emptied cart still exists
	require.NoError(t, svc.Clear("U1"))
	assert.JSONEq(t, `{"U1": []}`, string(mem.Raw()))
}

func TestRemoveMany(t *testing.T) {
	svc, _, _ := newTestService(t)
	for _, id := range []string{"P1", "P2", "P3"} {
		_, err := svc.Add("U1", id, 1)
		require.NoError(t, err)
	}

	require.NoError(t, svc.RemoveMany("U1", []CartItem{{ProductID: "P1"}, {ProductID: "P3"}, {ProductID: "P9"}}))
	items := svc.Get("U1")
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)

	assert.NoError(t, svc.RemoveMany("nobody", []CartItem{{ProductID: "P1"}}))
	assert.Empty(t, svc.Get("nobody"))
}

func TestSettle(t *testing.T) {
	svc, _, _ := newTestService(t)
	for _, id := range []string{"P1", "P2", "P3"} {
		_, err := svc.Add("U1", id, 2)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Settle("U1", []CartItem{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P3", Quantity: 1},
		{ProductID: "P9", Quantity: 4},
	}))
	items := svc.Get("U1")
	require.Len(t, items, 2)
	assert.Equal(t, "P2", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "P3", items[1].ProductID)
	assert.Equal(t, 1, items[1].Quantity)

	assert.NoError(t, svc.Settle("nobody", []CartItem{{ProductID: "P1", Quantity: 1}}))
	assert.Empty(t, svc.Get("nobody"))
}

func TestTotal(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Add("U1", "P1", 3)
	require.NoError(t, err)
	assert.InDelta(t, 270.0, svc.Total("U1"), 1e-9)

	_, err = svc.Add("U1", "P3", 2)
	require.NoError(t, err)

	want := 0.0
	for _, item := range svc.Get("U1") {
		want += item.Price * (1 - item.Discount) * float64(item.Quantity)
	}
	assert.Equal(t, want, svc.Total("U1"))
	assert.Equal(t, 0.0, svc.Total("U2"))
}

func TestSummary(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Add("U1", "P1", 3)
	require.NoError(t, err)
	_, err = svc.Add("U1", "P2", 1)
	require.NoError(t, err)

	summary := svc.Summary("U1")
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, 2, summary.Totals.ItemCount)
	assert.Equal(t, 4, summary.Totals.TotalQuantity)
	assert.InDelta(t, 550.0, summary.Totals.OriginalTotal, 1e-9)
	assert.InDelta(t, 520.0, summary.Totals.TotalAmount, 1e-9)
	assert.InDelta(t, 30.0, summary.Totals.DiscountTotal, 1e-9)
	assert.Equal(t, summary.Totals.TotalAmount, summary.Total)
	assert.Equal(t, 4, svc.Count("U1"))
}

func TestReload(t *testing.T) {
	svc, mem, products := newTestService(t)
	_, err := svc.Add("U1", "P1", 2)
	require.NoError(t, err)

	reloaded, err := NewService(mem, products, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, svc.Get("U1"), reloaded.Get("U1"))
}

func TestSaveFailureKeepsState(t *testing.T) {
	svc, mem, _ := newTestService(t)
	_, err := svc.Add("U1", "P1", 1)
	require.NoError(t, err)

	mem.FailSaves(errors.New("disk full"))
	_, err = svc.Add("U1", "P1", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))
	assert.Equal(t, 1, svc.Get("U1")[0].Quantity)
}

func TestAdd_Concurrent(t *testing.T) {
	svc, _, _ := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Add("U1", "P3", 2)
		}()
	}
	wg.Wait()

	items := svc.Get("U1")
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}

func TestCartItem_Helpers(t *testing.T) {
	item := CartItem{Price: 100, Discount: 0.1, Quantity: 3}
	assert.InDelta(t, 90.0, item.DiscountedPrice(), 1e-9)
	assert.InDelta(t, 300.0, item.Subtotal(), 1e-9)
	assert.InDelta(t, 270.0, item.DiscountedSubtotal(), 1e-9)
	assert.InDelta(t, 30.0, item.Savings(), 1e-9)
}
