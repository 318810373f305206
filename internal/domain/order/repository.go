package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items and status history
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByUser finds a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders in a given status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save persists the order with its items and history in one transaction
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, order *Order) error

	// UpdateStatus performs a conditional status update: the write applies
	// only when the stored status still equals expected. Returns
	// ErrInvalidTransition when another writer got there first.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, target OrderStatus, change StatusChange) error

	// ExistsDeliveredWithProduct reports whether the user has any delivered
	// order containing the product. Backs review eligibility.
	ExistsDeliveredWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// GenerateOrderNumber produces the next sequential order number
	GenerateOrderNumber(ctx context.Context) (string, error)

	// CountByUser counts a user's orders
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
