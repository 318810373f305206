package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderPlacedHandler handles OrderPlaced events and sends the customer an
// order confirmation with a receipt
type OrderPlacedHandler struct {
	logger    *zap.Logger
	orderRepo order.OrderRepository
	notifier  Notifier
	renderer  ReceiptRenderer
}

// NewOrderPlacedHandler creates a new handler for order placed events
func NewOrderPlacedHandler(logger *zap.Logger, orderRepo order.OrderRepository) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		logger:    logger,
		orderRepo: orderRepo,
		renderer:  NewTextReceiptRenderer(),
	}
}

// WithNotifier sets the notifier for delivering confirmations
func (h *OrderPlacedHandler) WithNotifier(notifier Notifier) *OrderPlacedHandler {
	h.notifier = notifier
	return h
}

// WithRenderer replaces the receipt renderer
func (h *OrderPlacedHandler) WithRenderer(renderer ReceiptRenderer) *OrderPlacedHandler {
	h.renderer = renderer
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle processes an OrderPlacedEvent
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placedEvent, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderPlaced),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderPlaced, event.EventType())
	}

	h.logger.Info("order placed",
		zap.String("order_id", event.AggregateID().String()),
		zap.String("order_number", placedEvent.OrderNumber),
		zap.String("user_id", placedEvent.UserID.String()),
		zap.String("total_amount", placedEvent.TotalAmount.StringFixed(2)),
		zap.Int("item_count", placedEvent.ItemCount),
	)

	if h.notifier == nil {
		return nil
	}

	o, err := h.orderRepo.FindByID(ctx, event.AggregateID())
	if err != nil {
		h.logger.Error("failed to load order for receipt",
			zap.String("order_id", event.AggregateID().String()),
			zap.Error(err),
		)
		// Notification failure must not fail the event handling
		return nil
	}

	n := Notification{
		UserID:   placedEvent.UserID,
		Subject:  fmt.Sprintf("Order confirmation %s", placedEvent.OrderNumber),
		Body:     h.renderer.Render(o),
		Channels: []string{"in_app", "email"},
	}
	if err := h.notifier.Send(ctx, n); err != nil {
		h.logger.Error("failed to send order confirmation",
			zap.String("order_number", placedEvent.OrderNumber),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure OrderPlacedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
