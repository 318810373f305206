package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Address is a saved shipping address in a user's address book. At most one
// address per user carries IsDefault; the repository enforces the invariant
// transactionally because it spans rows.
type Address struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Label     string              `gorm:"type:varchar(50);not null;default:''"`
	Details   valueobject.Address `gorm:"type:jsonb;not null"`
	IsDefault bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates a saved address for a user
func NewAddress(userID uuid.UUID, label string, details valueobject.Address) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if details.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address details are required")
	}
	if len(label) > 50 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Label cannot exceed 50 characters")
	}

	return &Address{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Label:             label,
		Details:           details,
	}, nil
}

// Update replaces the address details and label
func (a *Address) Update(label string, details valueobject.Address) error {
	if details.IsEmpty() {
		return shared.NewDomainError("INVALID_ADDRESS", "Address details are required")
	}
	if len(label) > 50 {
		return shared.NewDomainError("INVALID_LABEL", "Label cannot exceed 50 characters")
	}

	a.Label = label
	a.Details = details
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}
