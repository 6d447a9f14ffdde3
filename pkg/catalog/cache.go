// Package catalog caches the backend product list in memory. The cache is
// replaced wholesale on every reload; when a reload fails it falls back to a
// hardcoded sample catalog so the storefront stays browsable.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/models"
	"go.uber.org/zap"
)

type Cache struct {
	client *api.Client
	logger *zap.Logger

	mu       sync.RWMutex
	products []models.Product
	byID     map[string]models.Product
	offline  bool

	// Reload sequencing: a response from an older reload must not overwrite
	// the result of a newer one.
	nextGen    uint64
	appliedGen uint64
}

func NewCache(client *api.Client, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
		byID:   make(map[string]models.Product),
	}
}

// Reload fetches the product collection and replaces the cached list. On any
// failure the cache is replaced with the offline fallback catalog and the
// underlying error is returned; the cache is never left empty.
func (c *Cache) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.nextGen++
	gen := c.nextGen
	c.mu.Unlock()

	env, err := c.client.Call(ctx, http.MethodGet, "/api/products", nil)
	if err != nil {
		c.applyFallback(gen, err)
		return fmt.Errorf("failed to load products: %w", err)
	}
	if err := env.Err(); err != nil {
		c.applyFallback(gen, err)
		return fmt.Errorf("failed to load products: %w", err)
	}

	var products []models.Product
	if err := env.Decode(&products); err != nil {
		c.applyFallback(gen, err)
		return fmt.Errorf("failed to load products: %w", err)
	}

	if c.apply(gen, products, false) {
		c.logger.Info("Catalog reloaded", zap.Int("products", len(products)))
	}
	return nil
}

// Products returns a copy of the cached product list.
func (c *Cache) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByID looks up a cached product.
func (c *Cache) ByID(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// Offline reports whether the fallback catalog is currently live.
func (c *Cache) Offline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offline
}

// Filter returns products matching an exact category (when non-empty) and a
// case-insensitive substring search over name and description. It recomputes
// over the full cached list on every call.
func (c *Cache) Filter(category, search string) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))

	var out []models.Product
	for _, p := range c.products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Cache) applyFallback(gen uint64, cause error) {
	if c.apply(gen, FallbackProducts(), true) {
		c.logger.Warn("Catalog unavailable, serving offline fallback", zap.Error(cause))
	}
}

// apply installs a reload result unless a newer reload already applied.
func (c *Cache) apply(gen uint64, products []models.Product, offline bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen <= c.appliedGen {
		return false
	}
	c.appliedGen = gen

	c.products = products
	c.offline = offline
	c.byID = make(map[string]models.Product, len(products))
	for _, p := range products {
		c.byID[p.ID] = p
	}
	return true
}
