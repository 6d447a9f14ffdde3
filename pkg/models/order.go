package models

import (
	"time"
)

// OrderStatus is the backend's order lifecycle state. The client treats the
// set as flat: any status may be set from any other.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the four recognized statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// LineItem is one product-and-quantity entry in the cart. Name, price and
// category are denormalized from the product at add time and do not track
// later catalog changes.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category"`
}

// Subtotal is price times quantity for this line.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// OrderRequest is the checkout submission payload. TotalPrice is computed
// client-side and trusted by the backend.
type OrderRequest struct {
	CustomerName   string     `json:"customerName"`
	DiscordID      string     `json:"discordId"`
	AdditionalInfo string     `json:"additionalInfo"`
	Items          []LineItem `json:"items"`
	TotalPrice     float64    `json:"totalPrice"`
}

// Order is an order as returned by the backend.
type Order struct {
	ID             string      `json:"id"`
	CustomerName   string      `json:"customerName"`
	DiscordID      string      `json:"discordId"`
	AdditionalInfo string      `json:"additionalInfo,omitempty"`
	Items          []LineItem  `json:"items"`
	TotalPrice     float64     `json:"totalPrice"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
}
