package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New("store")

	r.Checkout(CheckoutSucceeded)
	r.Checkout(CheckoutSucceeded)
	r.Checkout(CheckoutInsufficientStock)
	r.OrderPlaced(3, 270)
	r.PersistenceFailure("orders.json")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.checkouts.WithLabelValues(CheckoutSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.checkouts.WithLabelValues(CheckoutInsufficientStock)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.unitsSold))
	assert.Equal(t, 270.0, testutil.ToFloat64(r.orderValue))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.persistenceFailures.WithLabelValues("orders.json")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Checkout(CheckoutFailed)
		r.OrderPlaced(1, 1)
		r.PersistenceFailure("carts.json")
		r.CartPruneFailure()
		r.ObserveHTTP("GET", "/api/products", 200, time.Millisecond)
	})
}

func TestRecorder_Handler(t *testing.T) {
	r := New("store")
	r.ObserveHTTP("GET", "/api/products", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "store_http_request_duration_seconds")
}
