package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) AggregateForProduct(ctx context.Context, productID uuid.UUID) (review.RatingSummary, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(review.RatingSummary), args.Error(1)
}

func (m *MockReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

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

type reviewFixture struct {
	reviewRepo  *MockReviewRepository
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	service     *ReviewService
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviewRepo:  new(MockReviewRepository),
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
	}
	f.service = NewReviewService(f.reviewRepo, f.orderRepo, f.productRepo)
	return f
}

func testProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("TS-001", "Classic T-Shirt", valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	return p
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("eligible customer reviews a delivered product", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		product := testProduct(t)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("ExistsDeliveredWithProduct", ctx, userID, product.ID).Return(true, nil)
		f.reviewRepo.On("FindByUserAndProduct", ctx, userID, product.ID).Return(nil, shared.ErrNotFound)
		f.reviewRepo.On("Save", ctx, mock.AnythingOfType("*review.Review")).Return(nil)
		f.reviewRepo.On("AggregateForProduct", ctx, product.ID).
			Return(review.RatingSummary{Average: decimal.NewFromFloat(4.00), Count: 1}, nil)
		f.productRepo.On("UpdateRating", ctx, product.ID, decimal.NewFromFloat(4.00), 1).Return(nil)

		resp, err := f.service.Create(ctx, userID, CreateReviewRequest{
			ProductID: product.ID,
			Rating:    4,
			Title:     "Great fit",
			Comment:   "Holds up after washing.",
		})

		require.NoError(t, err)
		assert.Equal(t, 4, resp.Rating)
		f.productRepo.AssertExpectations(t)
	})

	t.Run("no delivered order means not eligible", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		product := testProduct(t)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("ExistsDeliveredWithProduct", ctx, userID, product.ID).Return(false, nil)

		_, err := f.service.Create(ctx, userID, CreateReviewRequest{ProductID: product.ID, Rating: 5})

		assert.ErrorIs(t, err, shared.ErrNotEligible)
		f.reviewRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("second review of the same product is rejected", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		product := testProduct(t)
		existing, err := review.NewReview(userID, product.ID, 5, "", "")
		require.NoError(t, err)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("ExistsDeliveredWithProduct", ctx, userID, product.ID).Return(true, nil)
		f.reviewRepo.On("FindByUserAndProduct", ctx, userID, product.ID).Return(existing, nil)

		_, err = f.service.Create(ctx, userID, CreateReviewRequest{ProductID: product.ID, Rating: 3})

		assert.ErrorIs(t, err, shared.ErrDuplicateReview)
		f.reviewRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("racing duplicate surfaces the unique violation", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		product := testProduct(t)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("ExistsDeliveredWithProduct", ctx, userID, product.ID).Return(true, nil)
		f.reviewRepo.On("FindByUserAndProduct", ctx, userID, product.ID).Return(nil, shared.ErrNotFound)
		f.reviewRepo.On("Save", ctx, mock.AnythingOfType("*review.Review")).Return(shared.ErrDuplicateReview)

		_, err := f.service.Create(ctx, userID, CreateReviewRequest{ProductID: product.ID, Rating: 3})

		assert.ErrorIs(t, err, shared.ErrDuplicateReview)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newReviewFixture()
		productID := uuid.New()

		f.productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, uuid.New(), CreateReviewRequest{ProductID: productID, Rating: 3})

		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})
}

func TestReviewService_CanReview(t *testing.T) {
	ctx := context.Background()

	t.Run("eligible after a delivered order", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		product := testProduct(t)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.reviewRepo.On("FindByUserAndProduct", ctx, userID, product.ID).Return(nil, shared.ErrNotFound)
		f.orderRepo.On("ExistsDeliveredWithProduct", ctx, userID, product.ID).Return(true, nil)

		resp, err := f.service.CanReview(ctx, userID, product.ID)

		require.NoError(t, err)
		assert.True(t, resp.Eligible)
		assert.Nil(t, resp.Existing)
	})

	t.Run("not eligible without a delivered order", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		product := testProduct(t)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.reviewRepo.On("FindByUserAndProduct", ctx, userID, product.ID).Return(nil, shared.ErrNotFound)
		f.orderRepo.On("ExistsDeliveredWithProduct", ctx, userID, product.ID).Return(false, nil)

		resp, err := f.service.CanReview(ctx, userID, product.ID)

		require.NoError(t, err)
		assert.False(t, resp.Eligible)
		assert.Nil(t, resp.Existing)
	})

	t.Run("existing review switches the client to edit mode", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		product := testProduct(t)
		existing, err := review.NewReview(userID, product.ID, 4, "Great fit", "")
		require.NoError(t, err)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.reviewRepo.On("FindByUserAndProduct", ctx, userID, product.ID).Return(existing, nil)

		resp, err := f.service.CanReview(ctx, userID, product.ID)

		require.NoError(t, err)
		assert.False(t, resp.Eligible)
		require.NotNil(t, resp.Existing)
		assert.Equal(t, existing.ID, resp.Existing.ID)
		f.orderRepo.AssertNotCalled(t, "ExistsDeliveredWithProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newReviewFixture()
		productID := uuid.New()

		f.productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CanReview(ctx, uuid.New(), productID)

		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})
}

func TestReviewService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("revises own review and refreshes the rating", func(t *testing.T) {
		f := newReviewFixture()
		userID := uuid.New()
		productID := uuid.New()
		r, err := review.NewReview(userID, productID, 3, "", "")
		require.NoError(t, err)
		r.ClearDomainEvents()

		f.reviewRepo.On("FindByID", ctx, r.ID).Return(r, nil)
		f.reviewRepo.On("Save", ctx, r).Return(nil)
		f.reviewRepo.On("AggregateForProduct", ctx, productID).
			Return(review.RatingSummary{Average: decimal.NewFromFloat(4.50), Count: 2}, nil)
		f.productRepo.On("UpdateRating", ctx, productID, decimal.NewFromFloat(4.50), 2).Return(nil)

		resp, err := f.service.Update(ctx, userID, r.ID, UpdateReviewRequest{Rating: 5, Title: "Even better"})

		require.NoError(t, err)
		assert.Equal(t, 5, resp.Rating)
		f.productRepo.AssertExpectations(t)
	})

	t.Run("cannot revise someone else's review", func(t *testing.T) {
		f := newReviewFixture()
		r, err := review.NewReview(uuid.New(), uuid.New(), 3, "", "")
		require.NoError(t, err)

		f.reviewRepo.On("FindByID", ctx, r.ID).Return(r, nil)

		_, err = f.service.Update(ctx, uuid.New(), r.ID, UpdateReviewRequest{Rating: 1})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.reviewRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestReviewService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	userID := uuid.New()
	productID := uuid.New()
	r, err := review.NewReview(userID, productID, 2, "", "")
	require.NoError(t, err)

	f.reviewRepo.On("FindByID", ctx, r.ID).Return(r, nil)
	f.reviewRepo.On("Delete", ctx, r.ID).Return(nil)
	f.reviewRepo.On("AggregateForProduct", ctx, productID).
		Return(review.RatingSummary{Average: decimal.Zero, Count: 0}, nil)
	f.productRepo.On("UpdateRating", ctx, productID, decimal.Zero, 0).Return(nil)

	require.NoError(t, f.service.Delete(ctx, userID, r.ID))
	f.productRepo.AssertExpectations(t)
}

func TestReviewService_Moderate(t *testing.T) {
	ctx := context.Background()

	t.Run("removes another user's review and refreshes the rating", func(t *testing.T) {
		f := newReviewFixture()
		productID := uuid.New()
		r, err := review.NewReview(uuid.New(), productID, 1, "Spam", "")
		require.NoError(t, err)

		f.reviewRepo.On("FindByID", ctx, r.ID).Return(r, nil)
		f.reviewRepo.On("Delete", ctx, r.ID).Return(nil)
		f.reviewRepo.On("AggregateForProduct", ctx, productID).
			Return(review.RatingSummary{Average: decimal.NewFromFloat(4.50), Count: 2}, nil)
		f.productRepo.On("UpdateRating", ctx, productID, decimal.NewFromFloat(4.50), 2).Return(nil)

		require.NoError(t, f.service.Moderate(ctx, r.ID))
		f.productRepo.AssertExpectations(t)
	})

	t.Run("unknown review", func(t *testing.T) {
		f := newReviewFixture()
		reviewID := uuid.New()

		f.reviewRepo.On("FindByID", ctx, reviewID).Return(nil, shared.ErrNotFound)

		err := f.service.Moderate(ctx, reviewID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestReviewService_ListByProduct(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	productID := uuid.New()
	r, err := review.NewReview(uuid.New(), productID, 4, "Solid", "")
	require.NoError(t, err)
	filter := shared.DefaultFilter()

	f.reviewRepo.On("FindByProduct", ctx, productID, filter).Return([]review.Review{*r}, nil)
	f.reviewRepo.On("AggregateForProduct", ctx, productID).
		Return(review.RatingSummary{Average: decimal.NewFromFloat(4.00), Count: 1}, nil)

	resp, err := f.service.ListByProduct(ctx, productID, filter)

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Count)
	assert.True(t, resp.Average.Equal(decimal.NewFromFloat(4.00)))
}
