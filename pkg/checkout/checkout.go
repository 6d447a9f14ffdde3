// Package checkout turns the current cart into an order submission.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/cart"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/escape"
	"github.com/example/storefront/pkg/models"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cart is empty")

// MissingFieldError is a required checkout field left blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Flow submits orders built from the cart. A single attempt per call: no
// retry, no partial cart clearing on failure.
type Flow struct {
	client           *api.Client
	cart             *cart.Cart
	requireDiscordID bool
	logger           *zap.Logger
}

func New(client *api.Client, c *cart.Cart, cfg *config.CheckoutConfig, logger *zap.Logger) *Flow {
	return &Flow{
		client:           client,
		cart:             c,
		requireDiscordID: cfg.RequireDiscordID,
		logger:           logger,
	}
}

// Submit validates the customer fields, posts the order, and clears the cart
// on confirmed success. All validation happens before any network call. On
// failure the cart is untouched so the user can retry as-is.
func (f *Flow) Submit(ctx context.Context, customerName, discordID, additionalInfo string) (string, error) {
	if f.cart.Len() == 0 {
		return "", ErrEmptyCart
	}

	customerName = escape.Field(customerName)
	discordID = escape.Field(discordID)
	additionalInfo = escape.Field(additionalInfo)

	if customerName == "" {
		return "", &MissingFieldError{Field: "customerName"}
	}
	if f.requireDiscordID && discordID == "" {
		return "", &MissingFieldError{Field: "discordId"}
	}

	order := models.OrderRequest{
		CustomerName:   customerName,
		DiscordID:      discordID,
		AdditionalInfo: additionalInfo,
		Items:          f.cart.Items(),
		TotalPrice:     f.cart.Total(),
	}

	env, err := f.client.Call(ctx, http.MethodPost, "/api/orders", order)
	if err != nil {
		return "", fmt.Errorf("failed to submit order: %w", err)
	}
	if err := env.Err(); err != nil {
		return "", fmt.Errorf("failed to submit order: %w", err)
	}

	var created models.Order
	if err := env.Decode(&created); err != nil {
		return "", fmt.Errorf("failed to submit order: %w", err)
	}

	f.cart.Clear()
	f.logger.Info("Order submitted",
		zap.String("order_id", created.ID),
		zap.Float64("total", order.TotalPrice),
		zap.Int("items", len(order.Items)))

	return created.ID, nil
}
