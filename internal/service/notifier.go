package service

import (
	"context"

	"storefront/internal/models"

	"go.uber.org/zap"
)

// Notifier receives user-facing feedback about cart intents. Notifications
// are best effort and never affect the cart.
type Notifier interface {
	ItemAdded(ctx context.Context, item models.CartLineItem, quickAdd bool) error
	CheckoutRequested(ctx context.Context, state models.CartState) error
}

// LogNotifier writes notifications to a zap logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier logging to logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) ItemAdded(ctx context.Context, item models.CartLineItem, quickAdd bool) error {
	n.logger.Info("Added to cart",
		zap.String("product_id", item.ID),
		zap.String("name", item.Name),
		zap.Int("quantity", item.Quantity),
		zap.Bool("quick_add", quickAdd))
	return nil
}

func (n *LogNotifier) CheckoutRequested(ctx context.Context, state models.CartState) error {
	n.logger.Info("Proceeding to checkout",
		zap.Int("line_items", len(state.Items)),
		zap.Int("total_quantity", state.TotalQuantity),
		zap.Float64("total_amount", state.TotalAmount))
	return nil
}
