package worker

import (
	"context"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// ActivityWorker consumes storefront cart events and records them as an
// activity log
type ActivityWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewActivityWorker creates a new activity worker
func NewActivityWorker(consumer *broker.Consumer) *ActivityWorker {
	w := &ActivityWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		logger:       util.GetLogger().Named("activity"),
	}

	w.eventHandler.OnCartUpdated(w.handleCartUpdated)
	w.eventHandler.OnItemAdded(w.handleItemAdded)
	w.eventHandler.OnCheckoutRequested(w.handleCheckoutRequested)

	return w
}

// Handler exposes the routing handler, e.g. for replaying messages in tests
func (w *ActivityWorker) Handler() *broker.EventHandler {
	return w.eventHandler
}

// Start starts the worker
func (w *ActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting activity worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ActivityWorker) Stop() error {
	w.logger.Info("Stopping activity worker")
	return w.consumer.Close()
}

func (w *ActivityWorker) handleCartUpdated(ctx context.Context, event *models.CartUpdatedEvent) error {
	util.CartEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	w.logger.Info("Cart updated",
		zap.String("event_id", event.EventID),
		zap.String("action", event.Action),
		zap.String("item_id", event.ItemID),
		zap.Int("total_quantity", event.TotalQuantity),
		zap.Float64("total_amount", event.TotalAmount))
	return nil
}

func (w *ActivityWorker) handleItemAdded(ctx context.Context, event *models.ItemAddedEvent) error {
	util.CartEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	w.logger.Info("Item added",
		zap.String("event_id", event.EventID),
		zap.String("product_id", event.ProductID),
		zap.Int("quantity", event.Quantity),
		zap.Bool("quick_add", event.QuickAdd))
	return nil
}

func (w *ActivityWorker) handleCheckoutRequested(ctx context.Context, event *models.CheckoutRequestedEvent) error {
	util.CartEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	w.logger.Info("Checkout requested",
		zap.String("event_id", event.EventID),
		zap.Int("line_items", len(event.Items)),
		zap.Float64("total_amount", event.TotalAmount))
	return nil
}
