package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// DefaultKey is the fixed storage key of the cart record
const DefaultKey = "cart"

// ErrNotFound is returned by Storage.Load when no record exists
var ErrNotFound = errors.New("record not found")

// Storage is a durable key/value medium for the serialized cart
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// storedCart mirrors the storage layout. Items stay loosely typed so that
// hydration can sanitize whatever was written; stored totals are ignored.
type storedCart struct {
	Items         []models.RawItem `json:"items"`
	TotalQuantity any              `json:"totalQuantity"`
	TotalAmount   any              `json:"totalAmount"`
}

// Middleware persists the cart after cart mutations and hydrates it at start
type Middleware struct {
	storage Storage
	key     string
	logger  *zap.Logger
}

// NewMiddleware creates a persistence middleware. An empty key uses DefaultKey.
func NewMiddleware(storage Storage, key string) *Middleware {
	if key == "" {
		key = DefaultKey
	}
	return &Middleware{
		storage: storage,
		key:     key,
		logger:  util.GetLogger(),
	}
}

// Hydrate reads the stored cart. A missing, unreadable or corrupt record
// yields an empty cart; it never fails.
func (m *Middleware) Hydrate(ctx context.Context) models.CartState {
	ctx, span := util.StartSpan(ctx, "persist.Hydrate")
	defer span.End()

	state, err := m.load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		util.CartHydrationsTotal.WithLabelValues("empty").Inc()
		return emptyState()
	case err != nil:
		util.CartHydrationsTotal.WithLabelValues("failed").Inc()
		m.logger.Error("Error loading cart from storage", zap.String("key", m.key), zap.Error(err))
		return emptyState()
	}

	util.CartHydrationsTotal.WithLabelValues("restored").Inc()
	m.logger.Info("Cart hydrated",
		zap.Int("line_items", len(state.Items)),
		zap.Int("total_quantity", state.TotalQuantity))
	return state
}

func (m *Middleware) load(ctx context.Context) (state models.CartState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage panicked: %v", r)
		}
	}()

	data, err := m.storage.Load(ctx, m.key)
	if err != nil {
		return models.CartState{}, err
	}

	var stored storedCart
	if err := json.Unmarshal(data, &stored); err != nil {
		return models.CartState{}, fmt.Errorf("failed to decode stored cart: %w", err)
	}

	return cart.Rebuild(stored.Items), nil
}

// Observe is a cart.Observer. It writes the full state for actions in the
// cart namespace and ignores everything else. Failures are logged only.
func (m *Middleware) Observe(ctx context.Context, action models.Action, state models.CartState) {
	if !action.InNamespace(models.CartNamespace) {
		return
	}

	if err := m.Persist(ctx, state); err != nil {
		m.logger.Error("Error saving cart to storage",
			zap.String("action", action.Type),
			zap.String("key", m.key),
			zap.Error(err))
	}
}

// Persist serializes state and writes it under the cart key
func (m *Middleware) Persist(ctx context.Context, state models.CartState) (err error) {
	ctx, span := util.StartSpan(ctx, "persist.Persist")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CartPersistLatency.Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage panicked: %v", r)
			util.CartPersistFailuresTotal.WithLabelValues("write").Inc()
		}
	}()

	data, err := json.Marshal(state)
	if err != nil {
		util.CartPersistFailuresTotal.WithLabelValues("encode").Inc()
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := m.storage.Save(ctx, m.key, data); err != nil {
		util.CartPersistFailuresTotal.WithLabelValues("write").Inc()
		return fmt.Errorf("failed to write cart: %w", err)
	}

	util.CartPersistWritesTotal.Inc()
	return nil
}

func emptyState() models.CartState {
	return models.CartState{Items: []models.CartLineItem{}}
}
