package models

import "time"

// Event types
const (
	EventTypeCartUpdated       = "CART_UPDATED"
	EventTypeItemAdded         = "ITEM_ADDED"
	EventTypeCheckoutRequested = "CHECKOUT_REQUESTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartUpdatedEvent published after every cart mutation
type CartUpdatedEvent struct {
	BaseEvent
	Action        string  `json:"action"`
	ItemID        string  `json:"item_id,omitempty"`
	Quantity      int     `json:"quantity,omitempty"`
	LineItems     int     `json:"line_items"`
	TotalQuantity int     `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
}

// ItemAddedEvent published when an add-to-cart intent succeeds
type ItemAddedEvent struct {
	BaseEvent
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	QuickAdd  bool    `json:"quick_add"`
}

// CheckoutRequestedEvent published by the checkout stub
type CheckoutRequestedEvent struct {
	BaseEvent
	Items         []CartLineItem `json:"items"`
	TotalQuantity int            `json:"total_quantity"`
	TotalAmount   float64        `json:"total_amount"`
}
