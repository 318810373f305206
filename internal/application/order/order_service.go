package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// cancelMarkTTL bounds how long a processed cancellation key is remembered.
// The conditional status update is the correctness guard; the store only
// short-circuits obvious client retries.
const cancelMarkTTL = 24 * time.Hour

// OrderService handles order lifecycle operations after checkout
type OrderService struct {
	orderRepo      order.OrderRepository
	scope          TransactionScope
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	receipts       notification.ReceiptRenderer
	notifier       notification.Notifier
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository, scope TransactionScope, idempotency shared.IdempotencyStore) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		scope:       scope,
		idempotency: idempotency,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// WithReceipts configures receipt rendering and redelivery for resend requests
func (s *OrderService) WithReceipts(renderer notification.ReceiptRenderer, notifier notification.Notifier) *OrderService {
	s.receipts = renderer
	s.notifier = notifier
	return s
}

// GetByID returns an order, scoped to its owner unless ownerID is nil
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID, ownerID *uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ownerID != nil && o.UserID != *ownerID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListByUser returns a page of the user's orders
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*OrderListResponse, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toListResponse(orders, total, filter), nil
}

// List returns a page of all orders (admin)
func (s *OrderService) List(ctx context.Context, filter shared.Filter) (*OrderListResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return toListResponse(orders, total, filter), nil
}

// UpdateStatus moves an order forward through fulfillment. The repository's
// conditional update keeps racing admins from double-applying a transition.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	if req.Status == order.OrderStatusCancelled {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Use the cancel operation to cancel an order")
	}
	if !req.Status.IsValid() {
		return nil, shared.ErrInvalidTransition
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expected := o.Status
	if err := o.TransitionTo(req.Status, req.Note); err != nil {
		return nil, err
	}

	change := o.StatusHistory[len(o.StatusHistory)-1]
	if err := s.orderRepo.UpdateStatus(ctx, orderID, expected, req.Status, change); err != nil {
		return nil, err
	}

	s.publishAll(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels an order and returns its stock. The release and the status
// flip share a transaction; the conditional status update makes a concurrent
// duplicate cancel fail its guard, so stock is returned exactly once.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, ownerID *uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	key := fmt.Sprintf("order:cancel:%s", orderID)
	if s.idempotency != nil {
		processed, err := s.idempotency.IsProcessed(ctx, key)
		if err == nil && processed {
			return s.GetByID(ctx, orderID, ownerID)
		}
	}

	var cancelled *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if ownerID != nil && o.UserID != *ownerID {
			return shared.ErrNotFound
		}

		expected := o.Status
		if err := o.Cancel(req.Reason); err != nil {
			return err
		}

		change := o.StatusHistory[len(o.StatusHistory)-1]
		if err := repos.OrderRepo().UpdateStatus(ctx, orderID, expected, order.OrderStatusCancelled, change); err != nil {
			return err
		}

		for i := range o.Items {
			item := &o.Items[i]
			if err := repos.ProductRepo().Release(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		cancelled = o
		return nil
	})
	if err != nil {
		// A concurrent cancel already returned the stock; report the
		// current state instead of an error.
		if errors.Is(err, shared.ErrInvalidTransition) && s.wasCancelled(ctx, orderID) {
			return s.GetByID(ctx, orderID, ownerID)
		}
		return nil, err
	}

	if s.idempotency != nil {
		_, _ = s.idempotency.MarkProcessed(ctx, key, cancelMarkTTL)
	}

	s.publishAll(ctx, cancelled)

	response := ToOrderResponse(cancelled)
	return &response, nil
}

// MarkPaid records payment on an order
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, req MarkPaidRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.IsPaid {
		response := ToOrderResponse(o)
		return &response, nil
	}

	if err := o.MarkPaid(req.PaymentMethod); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishAll(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// ResendReceipt re-renders an order's receipt and redelivers it. Delivery is
// best effort; the rendered body is returned even when the notifier fails.
func (s *OrderService) ResendReceipt(ctx context.Context, orderID uuid.UUID, ownerID *uuid.UUID) (*ReceiptResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ownerID != nil && o.UserID != *ownerID {
		return nil, shared.ErrNotFound
	}

	renderer := s.receipts
	if renderer == nil {
		renderer = notification.NewTextReceiptRenderer()
	}
	body := renderer.Render(o)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Notification{
			UserID:   o.UserID,
			Subject:  fmt.Sprintf("Receipt for order %s", o.OrderNumber),
			Body:     body,
			Channels: []string{"email"},
		})
	}

	return &ReceiptResponse{OrderNumber: o.OrderNumber, Receipt: body}, nil
}

func (s *OrderService) wasCancelled(ctx context.Context, orderID uuid.UUID) bool {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	return err == nil && o.Status == order.OrderStatusCancelled
}

func (s *OrderService) publishAll(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}

func toListResponse(orders []order.Order, total int64, filter shared.Filter) *OrderListResponse {
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	return &OrderListResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}
}
