package models

import "time"

// Event types
const (
	EventTypeOrderPlaced          = "ORDER_PLACED"
	EventTypeCheckoutCompleted    = "CHECKOUT_COMPLETED"
	EventTypeStockDecrementFailed = "STOCK_DECREMENT_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when an order-creation write succeeds
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CheckoutCompletedEvent published when a full cart has been drained
type CheckoutCompletedEvent struct {
	BaseEvent
	OrderIDs []string `json:"order_ids"`
	Lines    int      `json:"lines"`
	Subtotal float64  `json:"subtotal"`
}

// StockDecrementFailedEvent published when the best-effort stock write fails.
// The order it belongs to is still considered placed.
type StockDecrementFailedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}
