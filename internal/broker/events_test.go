package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	util.SetLogger(zap.NewNop())
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newTestPublisher() (*EventPublisher, *fakeWriter) {
	w := &fakeWriter{}
	return NewEventPublisher(&Producer{writer: w, logger: zap.NewNop()}), w
}

func TestOnCartActionPublishesCartUpdated(t *testing.T) {
	ep, w := newTestPublisher()

	state := models.CartState{
		Items:         []models.CartLineItem{{ID: "p1", Name: "Vitamin C", Price: 500, Quantity: 2, TotalPrice: 1000}},
		TotalQuantity: 2,
		TotalAmount:   1000,
	}
	ep.OnCartAction(context.Background(), models.Action{Type: models.ActionAddItem, ItemID: "p1", Quantity: 2}, state)

	require.Len(t, w.messages, 1)
	assert.Equal(t, "cart", string(w.messages[0].Key))

	var event models.CartUpdatedEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &event))
	assert.Equal(t, models.EventTypeCartUpdated, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, models.ActionAddItem, event.Action)
	assert.Equal(t, "p1", event.ItemID)
	assert.Equal(t, 1, event.LineItems)
	assert.Equal(t, 1000.0, event.TotalAmount)
}

func TestOnCartActionSwallowsErrors(t *testing.T) {
	ep, w := newTestPublisher()
	w.err = errors.New("broker down")

	assert.NotPanics(t, func() {
		ep.OnCartAction(context.Background(), models.Action{Type: models.ActionClear}, models.CartState{})
	})

	err := ep.ItemAdded(context.Background(), models.CartLineItem{ID: "p1"}, true)
	assert.ErrorContains(t, err, "broker down")
}

func TestHandleMessageRoutesByType(t *testing.T) {
	ep, w := newTestPublisher()
	ctx := context.Background()

	require.NoError(t, ep.ItemAdded(ctx, models.CartLineItem{ID: "p1", Name: "Vitamin C", Price: 500, Quantity: 2}, false))
	require.NoError(t, ep.CheckoutRequested(ctx, models.CartState{
		Items:         []models.CartLineItem{{ID: "p1", Quantity: 2, Price: 500, TotalPrice: 1000}},
		TotalQuantity: 2,
		TotalAmount:   1000,
	}))
	ep.OnCartAction(ctx, models.Action{Type: models.ActionClear}, models.CartState{})

	var (
		added      *models.ItemAddedEvent
		checkout   *models.CheckoutRequestedEvent
		cartEvents int
	)
	h := NewEventHandler()
	h.OnItemAdded(func(_ context.Context, e *models.ItemAddedEvent) error {
		added = e
		return nil
	})
	h.OnCheckoutRequested(func(_ context.Context, e *models.CheckoutRequestedEvent) error {
		checkout = e
		return nil
	})
	h.OnCartUpdated(func(_ context.Context, e *models.CartUpdatedEvent) error {
		cartEvents++
		return nil
	})

	for _, msg := range w.messages {
		require.NoError(t, h.HandleMessage(ctx, msg))
	}

	require.NotNil(t, added)
	assert.Equal(t, "p1", added.ProductID)
	assert.Equal(t, 500.0, added.UnitPrice)
	assert.False(t, added.QuickAdd)

	require.NotNil(t, checkout)
	assert.Len(t, checkout.Items, 1)
	assert.Equal(t, 1000.0, checkout.TotalAmount)

	assert.Equal(t, 1, cartEvents)
}

func TestHandleMessageErrors(t *testing.T) {
	h := NewEventHandler()
	ctx := context.Background()

	err := h.HandleMessage(ctx, kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)

	err = h.HandleMessage(ctx, kafka.Message{Value: []byte(`{"event_type":"SOMETHING_ELSE"}`)})
	assert.NoError(t, err)

	// no handler registered
	err = h.HandleMessage(ctx, kafka.Message{Value: []byte(`{"event_type":"ITEM_ADDED"}`)})
	assert.NoError(t, err)
}
