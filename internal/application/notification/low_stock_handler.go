package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// LowStockHandler handles ProductLowStock events so merchandising learns a
// product is about to sell out
type LowStockHandler struct {
	logger *zap.Logger
}

// NewLowStockHandler creates a new handler for low stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductLowStock}
}

// Handle processes a ProductLowStockEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStockEvent, ok := event.(*catalog.ProductLowStockEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeProductLowStock),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductLowStock, event.EventType())
	}

	alertType := "low_stock"
	if lowStockEvent.Stock == 0 {
		alertType = "out_of_stock"
	}

	h.logger.Warn("product stock below threshold",
		zap.String("product_id", event.AggregateID().String()),
		zap.Int("stock", lowStockEvent.Stock),
		zap.Int("threshold", lowStockEvent.Threshold),
		zap.String("alert_type", alertType),
	)

	return nil
}

// Ensure LowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)
