package cart

import (
	"context"
	"sync"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// Observer is notified after every cart mutation with the action that caused
// it and a snapshot of the resulting state. Observers run synchronously, in
// registration order, before the mutating call returns, while the store is
// locked: an observer must not call back into the store.
type Observer func(ctx context.Context, action models.Action, state models.CartState)

// Store owns the cart state and is its only writer
type Store struct {
	mu        sync.Mutex
	state     models.CartState
	observers []Observer
	logger    *zap.Logger
}

// NewStore creates a store seeded with initial, typically a hydrated state
func NewStore(initial models.CartState) *Store {
	state := initial.Clone()
	recompute(&state)
	return &Store{
		state:  state,
		logger: util.GetLogger(),
	}
}

// Subscribe registers an observer for subsequent mutations
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// State returns a copy of the current cart
func (s *Store) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AddItem sanitizes raw and adds it. An existing line with the same id has
// its quantity incremented instead of being replaced.
func (s *Store) AddItem(ctx context.Context, raw models.RawItem) models.CartState {
	item := Sanitize(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	merge(&s.state, item)
	return s.commit(ctx, models.Action{
		Type:     models.ActionAddItem,
		ItemID:   item.ID,
		Quantity: item.Quantity,
	})
}

// RemoveItem deletes the line with the given id; unknown ids are a no-op
func (s *Store) RemoveItem(ctx context.Context, id string) models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Items[:0:0]
	for _, item := range s.state.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.state.Items = kept
	return s.commit(ctx, models.Action{Type: models.ActionRemoveItem, ItemID: id})
}

// UpdateQuantity sets the quantity of a line, clamped to [1, MaxQuantity].
// It never removes a line; unknown ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) models.CartState {
	quantity = clampQuantity(quantity)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID == id {
			s.state.Items[i].Quantity = quantity
			break
		}
	}
	return s.commit(ctx, models.Action{
		Type:     models.ActionUpdateQuantity,
		ItemID:   id,
		Quantity: quantity,
	})
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = []models.CartLineItem{}
	return s.commit(ctx, models.Action{Type: models.ActionClear})
}

// commit recomputes totals and notifies observers. Must hold s.mu.
func (s *Store) commit(ctx context.Context, action models.Action) models.CartState {
	recompute(&s.state)

	util.CartMutationsTotal.WithLabelValues(action.Type).Inc()
	s.logger.Debug("Cart mutated",
		zap.String("action", action.Type),
		zap.String("item_id", action.ItemID),
		zap.Int("total_quantity", s.state.TotalQuantity),
		zap.Float64("total_amount", s.state.TotalAmount))

	snapshot := s.state.Clone()
	for _, o := range s.observers {
		o(ctx, action, snapshot.Clone())
	}
	return snapshot
}
