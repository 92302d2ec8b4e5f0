package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// cartKey partitions every storefront event together; there is one cart
const cartKey = "cart"

// EventPublisher publishes cart activity. It is both a cart observer and a
// notification sink for the cart service.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer, logger: util.GetLogger()}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// OnCartAction publishes a CartUpdated event; it has the cart.Observer shape
func (ep *EventPublisher) OnCartAction(ctx context.Context, action models.Action, state models.CartState) {
	event := &models.CartUpdatedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeCartUpdated),
		Action:        action.Type,
		ItemID:        action.ItemID,
		Quantity:      action.Quantity,
		LineItems:     len(state.Items),
		TotalQuantity: state.TotalQuantity,
		TotalAmount:   state.TotalAmount,
	}

	if err := ep.producer.PublishEvent(ctx, cartKey, event); err != nil {
		ep.logger.Error("Failed to publish CartUpdated event", zap.Error(err))
	}
}

// ItemAdded publishes an ItemAdded event
func (ep *EventPublisher) ItemAdded(ctx context.Context, item models.CartLineItem, quickAdd bool) error {
	return ep.producer.PublishEvent(ctx, cartKey, &models.ItemAddedEvent{
		BaseEvent: newBaseEvent(models.EventTypeItemAdded),
		ProductID: item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.Price,
		QuickAdd:  quickAdd,
	})
}

// CheckoutRequested publishes a CheckoutRequested event
func (ep *EventPublisher) CheckoutRequested(ctx context.Context, state models.CartState) error {
	return ep.producer.PublishEvent(ctx, cartKey, &models.CheckoutRequestedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeCheckoutRequested),
		Items:         state.Items,
		TotalQuantity: state.TotalQuantity,
		TotalAmount:   state.TotalAmount,
	})
}

// EventHandler handles incoming events
type EventHandler struct {
	onCartUpdated       func(context.Context, *models.CartUpdatedEvent) error
	onItemAdded         func(context.Context, *models.ItemAddedEvent) error
	onCheckoutRequested func(context.Context, *models.CheckoutRequestedEvent) error
	logger              *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnCartUpdated registers a handler for CartUpdated events
func (eh *EventHandler) OnCartUpdated(handler func(context.Context, *models.CartUpdatedEvent) error) {
	eh.onCartUpdated = handler
}

// OnItemAdded registers a handler for ItemAdded events
func (eh *EventHandler) OnItemAdded(handler func(context.Context, *models.ItemAddedEvent) error) {
	eh.onItemAdded = handler
}

// OnCheckoutRequested registers a handler for CheckoutRequested events
func (eh *EventHandler) OnCheckoutRequested(handler func(context.Context, *models.CheckoutRequestedEvent) error) {
	eh.onCheckoutRequested = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeCartUpdated:
		if eh.onCartUpdated != nil {
			var event models.CartUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CartUpdated event: %w", err)
			}
			return eh.onCartUpdated(ctx, &event)
		}

	case models.EventTypeItemAdded:
		if eh.onItemAdded != nil {
			var event models.ItemAddedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ItemAdded event: %w", err)
			}
			return eh.onItemAdded(ctx, &event)
		}

	case models.EventTypeCheckoutRequested:
		if eh.onCheckoutRequested != nil {
			var event models.CheckoutRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutRequested event: %w", err)
			}
			return eh.onCheckoutRequested(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
