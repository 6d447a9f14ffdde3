package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productsJSON = `{"success":true,"data":[
	{"id":"p1","name":"Rank Boost","category":"boosting","price":15,"stock":5,"description":"Bronze to Silver"},
	{"id":"p2","name":"Coaching Session","category":"coaching","price":25,"stock":0},
	{"id":"p3","name":"Silver Account","category":"accounts","price":40,"stock":2,"description":"fresh silver account"}
]}`

func newCache(t *testing.T, handler http.HandlerFunc) *Cache {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.BackendConfig{
		PrimaryURL:     srv.URL,
		ConnectTimeout: 100 * time.Millisecond,
		RequestTimeout: 200 * time.Millisecond,
	}
	return NewCache(api.NewClient(cfg, zap.NewNop()), zap.NewNop())
}

func TestReloadReplacesCache(t *testing.T) {
	cache := newCache(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsJSON))
	})

	require.NoError(t, cache.Reload(context.Background()))
	assert.Len(t, cache.Products(), 3)
	assert.False(t, cache.Offline())

	p, ok := cache.ByID("p1")
	require.True(t, ok)
	assert.Equal(t, "Rank Boost", p.Name)
	assert.Equal(t, 5, p.Stock)

	_, ok = cache.ByID("missing")
	assert.False(t, ok)
}

func TestReloadFailureServesFallback(t *testing.T) {
	cache := newCache(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	err := cache.Reload(context.Background())
	require.Error(t, err)

	// Never an empty cache: the fallback catalog stays browsable.
	assert.NotEmpty(t, cache.Products())
	assert.True(t, cache.Offline())
}

func TestReloadFailureOnEnvelopeError(t *testing.T) {
	cache := newCache(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"database offline"}`))
	})

	err := cache.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, cache.Offline())
	assert.NotEmpty(t, cache.Products())
}

func TestRecoveryClearsOfflineFlag(t *testing.T) {
	healthy := false
	cache := newCache(t, func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(productsJSON))
	})

	require.Error(t, cache.Reload(context.Background()))
	require.True(t, cache.Offline())

	healthy = true
	require.NoError(t, cache.Reload(context.Background()))
	assert.False(t, cache.Offline())
	assert.Len(t, cache.Products(), 3)
}

func TestFilter(t *testing.T) {
	cache := newCache(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsJSON))
	})
	require.NoError(t, cache.Reload(context.Background()))

	// Case-insensitive substring over name and description.
	assert.Len(t, cache.Filter("", "SILVER"), 2)
	assert.Len(t, cache.Filter("", "coaching"), 1)

	// Exact category match intersects with search.
	assert.Len(t, cache.Filter("accounts", ""), 1)
	assert.Len(t, cache.Filter("accounts", "silver"), 1)
	assert.Empty(t, cache.Filter("accounts", "boost"))

	// No filters returns the whole list.
	assert.Len(t, cache.Filter("", ""), 3)
}

func TestStaleReloadDoesNotOverwrite(t *testing.T) {
	cache := newCache(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsJSON))
	})

	// A newer generation applied first wins; the older one is discarded.
	require.True(t, cache.apply(2, FallbackProducts(), true))
	require.False(t, cache.apply(1, nil, false))
	assert.True(t, cache.Offline())
	assert.NotEmpty(t, cache.Products())
}
