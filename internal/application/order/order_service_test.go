package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/cache"
)

// MockOrderRepository is a mock implementation of OrderRepository
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

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Reserve(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	args := m.Called(ctx, id, qty)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Release(ctx context.Context, id uuid.UUID, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error {
	args := m.Called(ctx, id, average, count)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func testOrder(t *testing.T, userID uuid.UUID) *order.Order {
	t.Helper()
	address := valueobject.MustNewAddress(
		"Jamie Rivera", "500 Oak Avenue", "Portland", "97201", "US",
		valueobject.WithState("OR"),
	)
	o, err := order.NewOrder("SO-2026-00042", userID, address, "card")
	require.NoError(t, err)
	require.NoError(t, o.AddItem(uuid.New(), "Classic T-Shirt", "M", "black", 2, decimal.NewFromFloat(19.99)))
	o.ClearDomainEvents()
	return o
}

type orderFixture struct {
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	idempotency *cache.InMemoryIdempotencyStore
	service     *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
		idempotency: cache.NewInMemoryIdempotencyStore(),
	}
	scope := NewNoOpTransactionScope(f.orderRepo, f.productRepo)
	f.service = NewOrderService(f.orderRepo, scope, f.idempotency)
	return f
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("moves order forward", func(t *testing.T) {
		f := newOrderFixture()
		o := testOrder(t, uuid.New())

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orderRepo.On("UpdateStatus", ctx, o.ID, order.OrderStatusPending, order.OrderStatusProcessing,
			mock.AnythingOfType("order.StatusChange")).Return(nil)

		resp, err := f.service.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: order.OrderStatusProcessing})

		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusProcessing, resp.Status)
		require.Len(t, resp.StatusHistory, 2)
	})

	t.Run("rejects backward transition", func(t *testing.T) {
		f := newOrderFixture()
		o := testOrder(t, uuid.New())
		require.NoError(t, o.TransitionTo(order.OrderStatusShipped, ""))
		o.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.service.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: order.OrderStatusProcessing})

		require.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "UpdateStatus",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("routes cancellation to the cancel operation", func(t *testing.T) {
		f := newOrderFixture()

		_, err := f.service.UpdateStatus(ctx, uuid.New(), UpdateStatusRequest{Status: order.OrderStatusCancelled})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels and releases stock per line", func(t *testing.T) {
		f := newOrderFixture()
		userID := uuid.New()
		o := testOrder(t, userID)
		productID := o.Items[0].ProductID

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orderRepo.On("UpdateStatus", ctx, o.ID, order.OrderStatusPending, order.OrderStatusCancelled,
			mock.AnythingOfType("order.StatusChange")).Return(nil)
		f.productRepo.On("Release", ctx, productID, 2).Return(nil)

		resp, err := f.service.Cancel(ctx, o.ID, &userID, CancelOrderRequest{Reason: "changed my mind"})

		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusCancelled, resp.Status)
		f.productRepo.AssertExpectations(t)
	})

	t.Run("repeat cancel short-circuits on the idempotency mark", func(t *testing.T) {
		f := newOrderFixture()
		userID := uuid.New()
		o := testOrder(t, userID)
		productID := o.Items[0].ProductID

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orderRepo.On("UpdateStatus", ctx, o.ID, order.OrderStatusPending, order.OrderStatusCancelled,
			mock.AnythingOfType("order.StatusChange")).Return(nil).Once()
		f.productRepo.On("Release", ctx, productID, 2).Return(nil).Once()

		_, err := f.service.Cancel(ctx, o.ID, &userID, CancelOrderRequest{})
		require.NoError(t, err)

		resp, err := f.service.Cancel(ctx, o.ID, &userID, CancelOrderRequest{})
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusCancelled, resp.Status)

		f.productRepo.AssertNumberOfCalls(t, "Release", 1)
	})

	t.Run("lost conditional update on already cancelled order reports current state", func(t *testing.T) {
		f := newOrderFixture()
		userID := uuid.New()
		o := testOrder(t, userID)
		require.NoError(t, o.Cancel("concurrent winner"))
		o.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := f.service.Cancel(ctx, o.ID, &userID, CancelOrderRequest{})

		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusCancelled, resp.Status)
		f.productRepo.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cannot cancel a delivered order", func(t *testing.T) {
		f := newOrderFixture()
		userID := uuid.New()
		o := testOrder(t, userID)
		require.NoError(t, o.TransitionTo(order.OrderStatusDelivered, ""))
		o.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.service.Cancel(ctx, o.ID, &userID, CancelOrderRequest{})

		require.Error(t, err)
	})

	t.Run("owner scoping hides other users' orders", func(t *testing.T) {
		f := newOrderFixture()
		o := testOrder(t, uuid.New())
		stranger := uuid.New()

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.service.Cancel(ctx, o.ID, &stranger, CancelOrderRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_MarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("records payment", func(t *testing.T) {
		f := newOrderFixture()
		o := testOrder(t, uuid.New())

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		f.orderRepo.On("SaveWithLock", ctx, o).Return(nil)

		resp, err := f.service.MarkPaid(ctx, o.ID, MarkPaidRequest{PaymentMethod: "card"})

		require.NoError(t, err)
		assert.True(t, resp.IsPaid)
		assert.Equal(t, order.PaymentStatusPaid, resp.PaymentStatus)
	})

	t.Run("second payment is a no-op", func(t *testing.T) {
		f := newOrderFixture()
		o := testOrder(t, uuid.New())
		require.NoError(t, o.MarkPaid("card"))
		o.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := f.service.MarkPaid(ctx, o.ID, MarkPaidRequest{})

		require.NoError(t, err)
		assert.True(t, resp.IsPaid)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

type captureNotifier struct {
	sent []notification.Notification
}

func (n *captureNotifier) Send(_ context.Context, msg notification.Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

func TestOrderService_ResendReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("renders and redelivers the receipt", func(t *testing.T) {
		f := newOrderFixture()
		userID := uuid.New()
		o := testOrder(t, userID)
		notifier := &captureNotifier{}
		f.service.WithReceipts(notification.NewTextReceiptRenderer(), notifier)

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := f.service.ResendReceipt(ctx, o.ID, &userID)

		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
		assert.Contains(t, resp.Receipt, o.OrderNumber)
		assert.Contains(t, resp.Receipt, "Classic T-Shirt")
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, userID, notifier.sent[0].UserID)
	})

	t.Run("stranger cannot request another user's receipt", func(t *testing.T) {
		f := newOrderFixture()
		o := testOrder(t, uuid.New())
		stranger := uuid.New()

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.service.ResendReceipt(ctx, o.ID, &stranger)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("renders without a configured notifier", func(t *testing.T) {
		f := newOrderFixture()
		userID := uuid.New()
		o := testOrder(t, userID)

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := f.service.ResendReceipt(ctx, o.ID, &userID)

		require.NoError(t, err)
		assert.Contains(t, resp.Receipt, o.OrderNumber)
	})
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees own order", func(t *testing.T) {
		f := newOrderFixture()
		userID := uuid.New()
		o := testOrder(t, userID)

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		resp, err := f.service.GetByID(ctx, o.ID, &userID)

		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		f := newOrderFixture()
		o := testOrder(t, uuid.New())
		stranger := uuid.New()

		f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := f.service.GetByID(ctx, o.ID, &stranger)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
