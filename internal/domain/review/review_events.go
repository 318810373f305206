package review

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReview = "Review"

// Event type constants
const (
	EventTypeReviewSubmitted = "ReviewSubmitted"
	EventTypeReviewUpdated   = "ReviewUpdated"
	EventTypeReviewDeleted   = "ReviewDeleted"
)

// ReviewSubmittedEvent is raised when a new review passes the eligibility gate
type ReviewSubmittedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
}

// NewReviewSubmittedEvent creates a new ReviewSubmittedEvent
func NewReviewSubmittedEvent(r *Review) *ReviewSubmittedEvent {
	return &ReviewSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewSubmitted, AggregateTypeReview, r.ID),
		UserID:          r.UserID,
		ProductID:       r.ProductID,
		Rating:          r.Rating,
	}
}

// EventType returns the event type name
func (e *ReviewSubmittedEvent) EventType() string {
	return EventTypeReviewSubmitted
}

// ReviewUpdatedEvent is raised when an existing review changes
type ReviewUpdatedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
}

// NewReviewUpdatedEvent creates a new ReviewUpdatedEvent
func NewReviewUpdatedEvent(r *Review) *ReviewUpdatedEvent {
	return &ReviewUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewUpdated, AggregateTypeReview, r.ID),
		UserID:          r.UserID,
		ProductID:       r.ProductID,
		Rating:          r.Rating,
	}
}

// EventType returns the event type name
func (e *ReviewUpdatedEvent) EventType() string {
	return EventTypeReviewUpdated
}

// ReviewDeletedEvent is raised when a review is removed
type ReviewDeletedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewReviewDeletedEvent creates a new ReviewDeletedEvent
func NewReviewDeletedEvent(r *Review) *ReviewDeletedEvent {
	return &ReviewDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewDeleted, AggregateTypeReview, r.ID),
		UserID:          r.UserID,
		ProductID:       r.ProductID,
	}
}

// EventType returns the event type name
func (e *ReviewDeletedEvent) EventType() string {
	return EventTypeReviewDeleted
}
