package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// RatingSummary is the aggregate computed over all reviews of a product
type RatingSummary struct {
	Average decimal.Decimal
	Count   int
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByUserAndProduct finds the user's review of a product, or
	// ErrNotFound when none exists
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Review, error)

	// FindByProduct finds a product's reviews, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)

	// FindByUser finds a user's reviews, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Review, error)

	// Save creates or updates a review. A unique-index violation on
	// (user, product) surfaces as ErrDuplicateReview.
	Save(ctx context.Context, review *Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// AggregateForProduct recomputes the average rating and count over all
	// of a product's reviews in the database
	AggregateForProduct(ctx context.Context, productID uuid.UUID) (RatingSummary, error)

	// CountByProduct counts a product's reviews
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
