// Package admin holds the admin session flag, product/order management
// operations, and the dashboard statistics. Every successful mutation is
// followed by a full reload of the affected cache; the backend stays the
// single source of truth.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/catalog"
	"github.com/example/storefront/pkg/escape"
	"github.com/example/storefront/pkg/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var ErrInvalidStatus = errors.New("unknown order status")

// InvalidFieldError is a product or credential field that failed validation
// before any network call.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field: %s", e.Field)
}

// ProductInput is the admin-supplied product form.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description string  `json:"description"`
}

// Stats is the dashboard statistics snapshot, computed from the cached
// catalog and order list.
type Stats struct {
	TotalProducts  int
	TotalStock     int
	TotalOrders    int
	OrdersByStatus map[models.OrderStatus]int
	GrossRevenue   float64
}

// Manager owns the admin session flag and the in-memory order list. The
// session is a plain process-local boolean: no token, no expiry, reset on
// restart.
type Manager struct {
	client   *api.Client
	catalog  *catalog.Cache
	validate *validator.Validate
	logger   *zap.Logger

	mu       sync.RWMutex
	loggedIn bool
	orders   []models.Order
}

func NewManager(client *api.Client, cat *catalog.Cache, logger *zap.Logger) *Manager {
	return &Manager{
		client:   client,
		catalog:  cat,
		validate: validator.New(),
		logger:   logger,
	}
}

// Login delegates the credential check to the backend and sets the session
// flag on success. Bad credentials surface as *api.AppError, transport
// failures keep their own error kinds; the flag stays false on any failure.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if username == "" {
		return &InvalidFieldError{Field: "username"}
	}
	if password == "" {
		return &InvalidFieldError{Field: "password"}
	}

	body := map[string]string{"username": username, "password": password}
	env, err := m.client.Call(ctx, http.MethodPost, "/api/admin/login", body)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := env.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.loggedIn = true
	m.mu.Unlock()

	m.logger.Info("Admin logged in", zap.String("username", username))
	return nil
}

// Logout clears the session flag unconditionally.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.loggedIn = false
	m.mu.Unlock()
	m.logger.Info("Admin logged out")
}

// LoggedIn reports whether the management views are unlocked.
func (m *Manager) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loggedIn
}

// ReloadOrders replaces the in-memory order list from the backend.
func (m *Manager) ReloadOrders(ctx context.Context) error {
	env, err := m.client.Call(ctx, http.MethodGet, "/api/orders", nil)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	if err := env.Err(); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	var orders []models.Order
	if err := env.Decode(&orders); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	m.mu.Lock()
	m.orders = orders
	m.mu.Unlock()

	m.logger.Info("Orders reloaded", zap.Int("orders", len(orders)))
	return nil
}

// Orders returns a copy of the cached order list.
func (m *Manager) Orders() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

// CreateProduct validates and creates a product, then reloads the catalog.
func (m *Manager) CreateProduct(ctx context.Context, input ProductInput) (models.Product, error) {
	product, err := m.saveProduct(ctx, http.MethodPost, "/api/products", input)
	if err != nil {
		return models.Product{}, err
	}
	m.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct validates and updates a product, then reloads the catalog.
func (m *Manager) UpdateProduct(ctx context.Context, id string, input ProductInput) (models.Product, error) {
	product, err := m.saveProduct(ctx, http.MethodPut, "/api/products/"+id, input)
	if err != nil {
		return models.Product{}, err
	}
	m.logger.Info("Product updated", zap.String("product_id", id))
	return product, nil
}

func (m *Manager) saveProduct(ctx context.Context, method, path string, input ProductInput) (models.Product, error) {
	input.Name = escape.Field(input.Name)
	input.Description = escape.Field(input.Description)

	if err := m.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return models.Product{}, &InvalidFieldError{Field: verrs[0].Field()}
		}
		return models.Product{}, err
	}

	env, err := m.client.Call(ctx, method, path, input)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to save product: %w", err)
	}
	if err := env.Err(); err != nil {
		return models.Product{}, fmt.Errorf("failed to save product: %w", err)
	}

	var product models.Product
	if err := env.Decode(&product); err != nil {
		return models.Product{}, fmt.Errorf("failed to save product: %w", err)
	}

	// Mutations never patch the cache in place.
	if err := m.catalog.Reload(ctx); err != nil {
		m.logger.Warn("Catalog reload after product save failed", zap.Error(err))
	}
	return product, nil
}

// DeleteProduct removes a product, then reloads the catalog.
func (m *Manager) DeleteProduct(ctx context.Context, id string) error {
	env, err := m.client.Call(ctx, http.MethodDelete, "/api/products/"+id, nil)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if err := env.Err(); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if err := m.catalog.Reload(ctx); err != nil {
		m.logger.Warn("Catalog reload after product delete failed", zap.Error(err))
	}
	m.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// SetOrderStatus updates an order's status, then reloads the order list.
// Any of the four statuses may be set from any other; the backend owns
// whatever transition policy exists.
func (m *Manager) SetOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	body := map[string]models.OrderStatus{"status": status}
	env, err := m.client.Call(ctx, http.MethodPut, "/api/orders/"+orderID, body)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if err := env.Err(); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if err := m.ReloadOrders(ctx); err != nil {
		m.logger.Warn("Order reload after status update failed", zap.Error(err))
	}
	m.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))
	return nil
}

// Stats computes the dashboard statistics from current cached state.
func (m *Manager) Stats() Stats {
	stats := Stats{
		OrdersByStatus: make(map[models.OrderStatus]int),
	}

	for _, p := range m.catalog.Products() {
		stats.TotalProducts++
		stats.TotalStock += p.Stock
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		stats.TotalOrders++
		stats.OrdersByStatus[o.Status]++
		if o.Status != models.StatusCancelled {
			stats.GrossRevenue += o.TotalPrice
		}
	}
	return stats
}
