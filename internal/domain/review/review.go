package review

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

const (
	// MinRating and MaxRating bound the star scale
	MinRating = 1
	MaxRating = 5

	maxCommentLength = 2000
)

// Review is one user's review of one product. Eligibility (a delivered
// order containing the product) and the one-review-per-product rule are
// checked by the application service; the database carries a unique
// (user, product) index as the concurrent-writer backstop.
type Review struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product;index"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Title     string    `gorm:"type:varchar(200);not null;default:''"`
	Comment   string    `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a review
func NewReview(userID, productID uuid.UUID, rating int, title, comment string) (*Review, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	review := &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ProductID:         productID,
		Rating:            rating,
		Title:             strings.TrimSpace(title),
		Comment:           strings.TrimSpace(comment),
	}

	review.AddDomainEvent(NewReviewSubmittedEvent(review))

	return review, nil
}

// Update replaces the rating and text of an existing review
func (r *Review) Update(rating int, title, comment string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	if err := validateComment(comment); err != nil {
		return err
	}

	r.Rating = rating
	r.Title = strings.TrimSpace(title)
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReviewUpdatedEvent(r))

	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

func validateComment(comment string) error {
	if len(comment) > maxCommentLength {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
	}
	return nil
}
