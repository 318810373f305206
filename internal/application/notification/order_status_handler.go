package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatusHandler handles fulfillment lifecycle events and tells the
// customer when their order moves, arrives or is cancelled
type OrderStatusHandler struct {
	logger   *zap.Logger
	notifier Notifier
}

// NewOrderStatusHandler creates a new handler for order lifecycle events
func NewOrderStatusHandler(logger *zap.Logger) *OrderStatusHandler {
	return &OrderStatusHandler{logger: logger}
}

// WithNotifier sets the notifier for delivering status updates
func (h *OrderStatusHandler) WithNotifier(notifier Notifier) *OrderStatusHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *OrderStatusHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderDelivered,
		order.EventTypeOrderCancelled,
	}
}

// Handle processes an order lifecycle event
func (h *OrderStatusHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var userID uuid.UUID
	var subject, body string

	switch e := event.(type) {
	case *order.OrderStatusChangedEvent:
		userID = e.UserID
		subject = fmt.Sprintf("Order %s update", e.OrderNumber)
		body = fmt.Sprintf("Your order %s is now %s.", e.OrderNumber, e.To)
	case *order.OrderDeliveredEvent:
		userID = e.UserID
		subject = fmt.Sprintf("Order %s delivered", e.OrderNumber)
		body = fmt.Sprintf("Your order %s has been delivered. You can now review the products you bought.", e.OrderNumber)
	case *order.OrderCancelledEvent:
		userID = e.UserID
		subject = fmt.Sprintf("Order %s cancelled", e.OrderNumber)
		if e.Reason != "" {
			body = fmt.Sprintf("Your order %s was cancelled: %s", e.OrderNumber, e.Reason)
		} else {
			body = fmt.Sprintf("Your order %s was cancelled.", e.OrderNumber)
		}
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	h.logger.Info("order lifecycle event",
		zap.String("event_type", event.EventType()),
		zap.String("order_id", event.AggregateID().String()),
		zap.String("user_id", userID.String()),
	)

	if h.notifier == nil {
		return nil
	}

	n := Notification{
		UserID:   userID,
		Subject:  subject,
		Body:     body,
		Channels: []string{"in_app"},
	}
	if err := h.notifier.Send(ctx, n); err != nil {
		h.logger.Error("failed to send order status notification",
			zap.String("order_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure OrderStatusHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderStatusHandler)(nil)
