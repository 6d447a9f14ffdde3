// Package cart holds the in-memory shopping cart. Cart state lives only for
// the duration of the process; there is no persistence.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/example/storefront/pkg/catalog"
	"github.com/example/storefront/pkg/models"
)

var (
	ErrProductNotFound   = errors.New("product not found in catalog")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Cart is an ordered list of line items derived from the catalog cache.
// A product appears at most once; repeated adds merge quantities.
type Cart struct {
	catalog *catalog.Cache

	mu    sync.RWMutex
	items []models.LineItem
}

func New(cat *catalog.Cache) *Cart {
	return &Cart{catalog: cat}
}

// Add merges quantity units of the product into the cart. The merged
// quantity must not exceed the product's cached stock.
func (c *Cart) Add(productID string, quantity int) error {
	product, ok := c.catalog.ByID(productID)
	if !ok {
		return ErrProductNotFound
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ProductID != productID {
			continue
		}
		merged := item.Quantity + quantity
		if merged > product.Stock {
			return fmt.Errorf("%w: %d available", ErrInsufficientStock, product.Stock)
		}
		c.items[i].Quantity = merged
		return nil
	}

	if quantity > product.Stock {
		return fmt.Errorf("%w: %d available", ErrInsufficientStock, product.Stock)
	}
	c.items = append(c.items, models.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Category:  product.Category,
	})
	return nil
}

// Remove drops the line item for productID, if present.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// AdjustQuantity changes a line item's quantity by delta. A result below 1
// removes the item; a result above the cached stock is rejected without
// clamping, leaving the item unchanged.
func (c *Cart) AdjustQuantity(productID string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ProductID != productID {
			continue
		}
		next := item.Quantity + delta
		if next < 1 {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
		if product, ok := c.catalog.ByID(productID); ok && next > product.Stock {
			return fmt.Errorf("%w: %d available", ErrInsufficientStock, product.Stock)
		}
		c.items[i].Quantity = next
		return nil
	}
	return ErrProductNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []models.LineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Total recomputes the cart total on demand.
func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total float64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// Clamp bounds a requested quantity to [1, stock] for the given product.
// Used by form handling before an Add; Add itself still validates.
func (c *Cart) Clamp(productID string, quantity int) int {
	if quantity < 1 {
		quantity = 1
	}
	if product, ok := c.catalog.ByID(productID); ok && quantity > product.Stock {
		quantity = product.Stock
	}
	return quantity
}
