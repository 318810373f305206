package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUser finds the cart belonging to a user
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// GetOrCreateForUser returns the user's cart, creating it when absent.
	// Concurrent first-time callers must converge on a single row.
	GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save persists the cart and its lines, removing lines no longer present
	Save(ctx context.Context, cart *Cart) error

	// Delete deletes a cart and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}
