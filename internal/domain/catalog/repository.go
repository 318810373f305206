package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its unique code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindActive finds active products matching the filter
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds active products below their low-stock threshold
	FindLowStock(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, product *Product) error

	// Reserve atomically decrements stock and increments sold, guarded so
	// stock never goes negative, and reports the remaining stock so callers
	// can detect a low-stock crossing. Returns an InsufficientStockError
	// when the guard rejects the update and shared.ErrProductNotFound when
	// the row does not exist.
	Reserve(ctx context.Context, id uuid.UUID, qty int) (remaining int, err error)

	// Release atomically returns previously reserved stock
	Release(ctx context.Context, id uuid.UUID, qty int) error

	// UpdateRating writes the recomputed aggregate rating fields
	UpdateRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
