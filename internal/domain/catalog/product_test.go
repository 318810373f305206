package catalog

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func createTestProduct(t *testing.T) *Product {
	t.Helper()
	product, err := NewProduct("TSHIRT-001", "Classic T-Shirt", valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product successfully", func(t *testing.T) {
		product, err := NewProduct("tshirt-001", "Classic T-Shirt", valueobject.NewMoneyUSDFromFloat(19.99))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "TSHIRT-001", product.Code)
		assert.Equal(t, "Classic T-Shirt", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(19.99)))
		assert.Nil(t, product.DiscountPrice)
		assert.Equal(t, 0, product.Stock)
		assert.Equal(t, 0, product.Sold)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		product, err := NewProduct("", "Classic T-Shirt", valueobject.NewMoneyUSDFromFloat(19.99))

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		product, err := NewProduct("TSHIRT-001", "", valueobject.NewMoneyUSDFromFloat(19.99))

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		product, err := NewProduct("TSHIRT-001", "Classic T-Shirt", valueobject.NewMoneyUSDFromFloat(-1))

		require.Error(t, err)
		assert.Nil(t, product)
	})
}

func TestProduct_Reserve(t *testing.T) {
	t.Run("reserves stock and increments sold", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 10

		err := product.Reserve(3)

		require.NoError(t, err)
		assert.Equal(t, 7, product.Stock)
		assert.Equal(t, 3, product.Sold)
	})

	t.Run("allows reserving the entire stock", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 5

		err := product.Reserve(5)

		require.NoError(t, err)
		assert.Equal(t, 0, product.Stock)
		assert.Equal(t, 5, product.Sold)
	})

	t.Run("fails when quantity exceeds stock", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 2

		err := product.Reserve(3)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		var insufficient *InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, product.ID, insufficient.ProductID)
		assert.Equal(t, 3, insufficient.Requested)
		assert.Equal(t, 2, insufficient.Available)

		assert.Equal(t, 2, product.Stock)
		assert.Equal(t, 0, product.Sold)
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 10

		err := product.Reserve(0)

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("emits low stock event when below threshold", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 5
		product.LowStockThreshold = 4

		err := product.Reserve(3)

		require.NoError(t, err)
		events := product.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockReserved, events[0].EventType())
		assert.Equal(t, EventTypeProductLowStock, events[1].EventType())
	})
}

func TestProduct_Release(t *testing.T) {
	t.Run("returns stock and decrements sold", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 10
		require.NoError(t, product.Reserve(4))

		err := product.Release(4)

		require.NoError(t, err)
		assert.Equal(t, 10, product.Stock)
		assert.Equal(t, 0, product.Sold)
	})

	t.Run("clamps sold at zero", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 10
		product.Sold = 1

		err := product.Release(3)

		require.NoError(t, err)
		assert.Equal(t, 13, product.Stock)
		assert.Equal(t, 0, product.Sold)
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		product := createTestProduct(t)

		err := product.Release(0)

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestProduct_SetStock(t *testing.T) {
	t.Run("sets stock to explicit value", func(t *testing.T) {
		product := createTestProduct(t)
		product.Stock = 3

		err := product.SetStock(50)

		require.NoError(t, err)
		assert.Equal(t, 50, product.Stock)
	})

	t.Run("fails with negative value", func(t *testing.T) {
		product := createTestProduct(t)

		err := product.SetStock(-1)

		require.Error(t, err)
	})
}

func TestProduct_EffectivePrice(t *testing.T) {
	t.Run("returns regular price without discount", func(t *testing.T) {
		product := createTestProduct(t)

		assert.True(t, product.EffectivePrice().Equal(decimal.NewFromFloat(19.99)))
	})

	t.Run("returns discount price when lower", func(t *testing.T) {
		product := createTestProduct(t)
		discount := valueobject.NewMoneyUSDFromFloat(14.99)
		require.NoError(t, product.SetPrices(valueobject.NewMoneyUSDFromFloat(19.99), &discount))

		assert.True(t, product.EffectivePrice().Equal(decimal.NewFromFloat(14.99)))
	})

	t.Run("rejects discount above regular price", func(t *testing.T) {
		product := createTestProduct(t)
		discount := valueobject.NewMoneyUSDFromFloat(25)

		err := product.SetPrices(valueobject.NewMoneyUSDFromFloat(19.99), &discount)

		require.Error(t, err)
	})
}

func TestProduct_ApplyRating(t *testing.T) {
	product := createTestProduct(t)

	product.ApplyRating(decimal.NewFromFloat(4.333333), 3)

	assert.True(t, product.AverageRating.Equal(decimal.NewFromFloat(4.33)))
	assert.Equal(t, 3, product.NumReviews)
	events := product.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductRatingChanged, events[0].EventType())
}

func TestProduct_StatusTransitions(t *testing.T) {
	product := createTestProduct(t)
	assert.True(t, product.IsActive())

	product.Deactivate()
	assert.False(t, product.IsActive())
	assert.Equal(t, ProductStatusInactive, product.Status)

	product.Activate()
	assert.True(t, product.IsActive())

	product.Discontinue()
	assert.Equal(t, ProductStatusDiscontinued, product.Status)
}

func TestProduct_CanFulfill(t *testing.T) {
	product := createTestProduct(t)
	product.Stock = 5

	assert.True(t, product.CanFulfill(5))
	assert.False(t, product.CanFulfill(6))
	assert.False(t, product.CanFulfill(0))
}
