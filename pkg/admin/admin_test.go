package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/catalog"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	manager      *Manager
	catalog      *catalog.Cache
	productLoads *atomic.Int64
	orderLoads   *atomic.Int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	productLoads := &atomic.Int64{}
	orderLoads := &atomic.Int64{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			productLoads.Add(1)
			w.Write([]byte(`{"success":true,"data":[
				{"id":"p1","name":"Rank Boost","category":"boosting","price":15,"stock":5}
			]}`))
		case http.MethodPost:
			w.Write([]byte(`{"success":true,"data":{"id":"p2","name":"New Item","category":"misc","price":9,"stock":1}}`))
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			w.Write([]byte(`{"success":true,"data":{"id":"p1","name":"Renamed","category":"boosting","price":15,"stock":5}}`))
		case http.MethodDelete:
			w.Write([]byte(`{"success":true}`))
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		orderLoads.Add(1)
		w.Write([]byte(`{"success":true,"data":[
			{"id":"ord-1","customerName":"Alice","status":"pending","totalPrice":30},
			{"id":"ord-2","customerName":"Bob","status":"completed","totalPrice":45},
			{"id":"ord-3","customerName":"Eve","status":"cancelled","totalPrice":99}
		]}`))
	})
	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret" {
			w.Write([]byte(`{"success":false,"error":"bad credentials"}`))
			return
		}
		w.Write([]byte(`{"success":true}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.BackendConfig{
		PrimaryURL:     srv.URL,
		ConnectTimeout: 100 * time.Millisecond,
		RequestTimeout: 200 * time.Millisecond,
	}
	client := api.NewClient(cfg, zap.NewNop())
	cache := catalog.NewCache(client, zap.NewNop())
	return &fixture{
		manager:      NewManager(client, cache, zap.NewNop()),
		catalog:      cache,
		productLoads: productLoads,
		orderLoads:   orderLoads,
	}
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.manager.LoggedIn())

	require.NoError(t, f.manager.Login(context.Background(), "admin", "secret"))
	assert.True(t, f.manager.LoggedIn())

	f.manager.Logout()
	assert.False(t, f.manager.LoggedIn())
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture(t)

	err := f.manager.Login(context.Background(), "admin", "wrong")
	var appErr *api.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "bad credentials", appErr.Message)
	assert.False(t, f.manager.LoggedIn())
}

func TestLoginTransportFailureIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cfg := &config.BackendConfig{
		PrimaryURL:     srv.URL,
		ConnectTimeout: 100 * time.Millisecond,
		RequestTimeout: 200 * time.Millisecond,
	}
	client := api.NewClient(cfg, zap.NewNop())
	manager := NewManager(client, catalog.NewCache(client, zap.NewNop()), zap.NewNop())

	err := manager.Login(context.Background(), "admin", "secret")
	require.ErrorIs(t, err, api.ErrUnreachable)
	assert.False(t, manager.LoggedIn())
}

func TestLoginRejectsBlankCredentials(t *testing.T) {
	f := newFixture(t)

	var invalid *InvalidFieldError
	require.ErrorAs(t, f.manager.Login(context.Background(), "", "secret"), &invalid)
	assert.Equal(t, "username", invalid.Field)

	require.ErrorAs(t, f.manager.Login(context.Background(), "admin", ""), &invalid)
	assert.Equal(t, "password", invalid.Field)
}

func TestCreateProductReloadsCatalog(t *testing.T) {
	f := newFixture(t)

	product, err := f.manager.CreateProduct(context.Background(), ProductInput{
		Name:     "New Item",
		Category: "misc",
		Price:    9,
		Stock:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, "p2", product.ID)

	// The catalog was reloaded wholesale after the mutation.
	assert.Equal(t, int64(1), f.productLoads.Load())
	assert.NotEmpty(t, f.catalog.Products())
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)

	var invalid *InvalidFieldError
	_, err := f.manager.CreateProduct(context.Background(), ProductInput{Category: "misc"})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Name", invalid.Field)

	_, err = f.manager.CreateProduct(context.Background(), ProductInput{
		Name: "X", Category: "misc", Price: -1,
	})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Price", invalid.Field)

	// Validation fails before any network call, so no reload happened.
	assert.Zero(t, f.productLoads.Load())
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	f := newFixture(t)

	product, err := f.manager.UpdateProduct(context.Background(), "p1", ProductInput{
		Name: "Renamed", Category: "boosting", Price: 15, Stock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", product.Name)

	require.NoError(t, f.manager.DeleteProduct(context.Background(), "p1"))
	assert.Equal(t, int64(2), f.productLoads.Load())
}

func TestSetOrderStatus(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.manager.SetOrderStatus(context.Background(), "ord-1", models.StatusProcessing))
	assert.Equal(t, int64(1), f.orderLoads.Load())

	err := f.manager.SetOrderStatus(context.Background(), "ord-1", "shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, int64(1), f.orderLoads.Load())
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.catalog.Reload(context.Background()))
	require.NoError(t, f.manager.ReloadOrders(context.Background()))

	stats := f.manager.Stats()
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 5, stats.TotalStock)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.OrdersByStatus[models.StatusPending])
	assert.Equal(t, 1, stats.OrdersByStatus[models.StatusCompleted])
	assert.Equal(t, 1, stats.OrdersByStatus[models.StatusCancelled])

	// Cancelled orders do not count toward revenue.
	assert.InDelta(t, 75, stats.GrossRevenue, 1e-9)
}
