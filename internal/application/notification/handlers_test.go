package notification

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockNotifier records sent notifications for assertions
type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{sent: make([]Notification, 0)}
}

func (n *MockNotifier) Send(ctx context.Context, msg Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *MockNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]Notification, len(n.sent))
	copy(result, n.sent)
	return result
}

// MockOrderRepository stubs just what the handlers need
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.OrderStatus, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, target order.OrderStatus, change order.StatusChange) error {
	args := m.Called(ctx, id, expected, target, change)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsDeliveredWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	address := valueobject.MustNewAddress(
		"Jamie Rivera", "500 Oak Avenue", "Portland", "97201", "US",
		valueobject.WithState("OR"),
	)
	o, err := order.NewOrder("SO-2026-00042", uuid.New(), address, "card")
	require.NoError(t, err)
	require.NoError(t, o.AddItem(uuid.New(), "Classic T-Shirt", "M", "black", 2, decimal.NewFromFloat(19.99)))
	require.NoError(t, o.SetCharges(decimal.NewFromFloat(3.20), decimal.NewFromFloat(5.00)))
	return o
}

func TestOrderPlacedHandler_Handle(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("sends a confirmation with a receipt", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		notifier := NewMockNotifier()
		handler := NewOrderPlacedHandler(logger, mockRepo).WithNotifier(notifier)

		o := placedOrder(t)
		event := order.NewOrderPlacedEvent(o)
		mockRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		require.NoError(t, handler.Handle(context.Background(), event))

		sent := notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, o.UserID, sent[0].UserID)
		assert.Contains(t, sent[0].Subject, "SO-2026-00042")
		assert.Contains(t, sent[0].Body, "Classic T-Shirt")
		assert.Contains(t, sent[0].Body, o.TotalAmount.StringFixed(2))
	})

	t.Run("missing order does not fail the event", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		notifier := NewMockNotifier()
		handler := NewOrderPlacedHandler(logger, mockRepo).WithNotifier(notifier)

		o := placedOrder(t)
		event := order.NewOrderPlacedEvent(o)
		mockRepo.On("FindByID", mock.Anything, o.ID).Return(nil, shared.ErrNotFound)

		require.NoError(t, handler.Handle(context.Background(), event))
		assert.Empty(t, notifier.Sent())
	})

	t.Run("rejects a foreign event type", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		handler := NewOrderPlacedHandler(logger, mockRepo)

		o := placedOrder(t)
		err := handler.Handle(context.Background(), order.NewOrderDeliveredEvent(o))

		require.Error(t, err)
	})
}

func TestOrderStatusHandler_Handle(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("delivered event invites a review", func(t *testing.T) {
		notifier := NewMockNotifier()
		handler := NewOrderStatusHandler(logger).WithNotifier(notifier)

		o := placedOrder(t)
		require.NoError(t, handler.Handle(context.Background(), order.NewOrderDeliveredEvent(o)))

		sent := notifier.Sent()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Subject, "delivered")
		assert.True(t, strings.Contains(sent[0].Body, "review"))
	})

	t.Run("cancelled event carries the reason", func(t *testing.T) {
		notifier := NewMockNotifier()
		handler := NewOrderStatusHandler(logger).WithNotifier(notifier)

		o := placedOrder(t)
		require.NoError(t, handler.Handle(context.Background(), order.NewOrderCancelledEvent(o, "payment declined")))

		sent := notifier.Sent()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Body, "payment declined")
	})

	t.Run("status change names the new status", func(t *testing.T) {
		notifier := NewMockNotifier()
		handler := NewOrderStatusHandler(logger).WithNotifier(notifier)

		o := placedOrder(t)
		event := order.NewOrderStatusChangedEvent(o, order.OrderStatusPending, order.OrderStatusShipped)
		require.NoError(t, handler.Handle(context.Background(), event))

		sent := notifier.Sent()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Body, string(order.OrderStatusShipped))
	})
}

func TestLowStockHandler_Handle(t *testing.T) {
	logger := zaptest.NewLogger(t)
	handler := NewLowStockHandler(logger)

	product, err := catalog.NewProduct("TS-001", "Classic T-Shirt", valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	require.NoError(t, product.SetLowStockThreshold(5))

	require.NoError(t, handler.Handle(context.Background(), catalog.NewProductLowStockEvent(product)))

	t.Run("rejects a foreign event type", func(t *testing.T) {
		o := placedOrder(t)
		err := handler.Handle(context.Background(), order.NewOrderPlacedEvent(o))
		require.Error(t, err)
	})
}

func TestTextReceiptRenderer_Render(t *testing.T) {
	o := placedOrder(t)
	receipt := NewTextReceiptRenderer().Render(o)

	assert.Contains(t, receipt, "SO-2026-00042")
	assert.Contains(t, receipt, "Classic T-Shirt (M, black)")
	assert.Contains(t, receipt, "Subtotal")
	assert.Contains(t, receipt, o.TotalAmount.StringFixed(2))
	assert.Contains(t, receipt, "Portland")
}
