package service

import (
	"sync"

	"storefront/internal/cart"
)

// QuantityTracker is the quantity a shopper has dialed in on a product view
// before adding it. It stays within [1, cart.MaxQuantity].
type QuantityTracker struct {
	mu    sync.Mutex
	value int
}

// NewQuantityTracker starts at 1
func NewQuantityTracker() *QuantityTracker {
	return &QuantityTracker{value: 1}
}

// Value returns the current quantity
func (q *QuantityTracker) Value() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.value
}

// Increase adds one, stopping at cart.MaxQuantity
func (q *QuantityTracker) Increase() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.value < cart.MaxQuantity {
		q.value++
	}
	return q.value
}

// Decrease subtracts one, stopping at 1
func (q *QuantityTracker) Decrease() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.value > 1 {
		q.value--
	}
	return q.value
}

// Set replaces the quantity, clamped to [1, cart.MaxQuantity]
func (q *QuantityTracker) Set(n int) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n > cart.MaxQuantity {
		n = cart.MaxQuantity
	}
	q.value = n
	return q.value
}

// Reset returns the quantity to 1
func (q *QuantityTracker) Reset() {
	q.Set(1)
}
