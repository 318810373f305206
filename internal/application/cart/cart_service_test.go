package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockCartRepository is a mock implementation of CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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

func testProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("TSHIRT-001", "Classic T-Shirt", valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	product.Stock = stock
	return product
}

func testCart(t *testing.T, userID uuid.UUID) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(userID)
	require.NoError(t, err)
	return c
}

func TestCartService_AddLine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("adds line with current effective price", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := testProduct(t, 10)
		c := testCart(t, userID)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("GetOrCreateForUser", ctx, userID).Return(c, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := service.AddLine(ctx, userID, AddLineRequest{
			ProductID: product.ID,
			Size:      "M",
			Color:     "black",
			Quantity:  2,
		})

		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 2, resp.Lines[0].Quantity)
		assert.True(t, resp.Lines[0].UnitPrice.Equal(decimal.NewFromFloat(19.99)))
		cartRepo.AssertExpectations(t)
	})

	t.Run("rejects when merged quantity exceeds stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := testProduct(t, 5)
		c := testCart(t, userID)
		require.NoError(t, c.AddLine(product.ID, product.Name, "M", "black", 4, product.EffectivePrice()))

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("GetOrCreateForUser", ctx, userID).Return(c, nil)

		_, err := service.AddLine(ctx, userID, AddLineRequest{
			ProductID: product.ID,
			Size:      "M",
			Color:     "black",
			Quantity:  2,
		})

		assert.ErrorIs(t, err, shared.ErrOutOfStock)
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects inactive product", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := testProduct(t, 10)
		product.Deactivate()

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := service.AddLine(ctx, userID, AddLineRequest{
			ProductID: product.ID,
			Quantity:  1,
		})

		assert.ErrorIs(t, err, shared.ErrProductNotFound)
	})
}

func TestCartService_UpdateLine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("updates quantity after stock check", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := testProduct(t, 10)
		c := testCart(t, userID)
		require.NoError(t, c.AddLine(product.ID, product.Name, "M", "black", 1, product.EffectivePrice()))
		lineID := c.Lines[0].ID

		cartRepo.On("FindByUser", ctx, userID).Return(c, nil)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("Save", ctx, c).Return(nil)

		resp, err := service.UpdateLine(ctx, userID, lineID, UpdateLineRequest{Quantity: 5})

		require.NoError(t, err)
		assert.Equal(t, 5, resp.Lines[0].Quantity)
	})

	t.Run("rejects zero quantity without touching the cart", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := testProduct(t, 10)
		c := testCart(t, userID)
		require.NoError(t, c.AddLine(product.ID, product.Name, "M", "black", 1, product.EffectivePrice()))
		lineID := c.Lines[0].ID

		_, err := service.UpdateLine(ctx, userID, lineID, UpdateLineRequest{Quantity: 0})

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
		require.Len(t, c.Lines, 1)
		assert.Equal(t, 1, c.Lines[0].Quantity)
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails for unknown line", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		c := testCart(t, userID)
		cartRepo.On("FindByUser", ctx, userID).Return(c, nil)

		_, err := service.UpdateLine(ctx, userID, uuid.New(), UpdateLineRequest{Quantity: 1})

		assert.ErrorIs(t, err, shared.ErrLineNotFound)
	})
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	service := NewCartService(cartRepo, productRepo)

	product := testProduct(t, 10)
	c := testCart(t, userID)
	require.NoError(t, c.AddLine(product.ID, product.Name, "M", "black", 2, product.EffectivePrice()))

	cartRepo.On("FindByUser", ctx, userID).Return(c, nil)
	cartRepo.On("Save", ctx, c).Return(nil)

	resp, err := service.Clear(ctx, userID)

	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
	assert.True(t, resp.Subtotal.IsZero())
}
