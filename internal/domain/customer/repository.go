package customer

import (
	"context"

	"github.com/google/uuid"
)

// AddressRepository defines the interface for address book persistence.
// The single-default invariant spans rows, so every mutation that touches
// IsDefault runs inside one transaction here rather than in the service.
type AddressRepository interface {
	// FindByID finds an address by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// FindByUser finds all of a user's addresses, default first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)

	// FindDefaultByUser finds the user's default address, or ErrAddressNotFound
	FindDefaultByUser(ctx context.Context, userID uuid.UUID) (*Address, error)

	// Save creates or updates an address without touching default flags
	Save(ctx context.Context, address *Address) error

	// SaveAsDefault persists the address and makes it the user's only
	// default, demoting any previous default in the same transaction
	SaveAsDefault(ctx context.Context, address *Address) error

	// SetDefault promotes an existing address to the user's only default
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error

	// Delete removes the address. When it was the default, the user's
	// earliest-created remaining address is promoted in the same transaction.
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}
