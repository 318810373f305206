package review

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewService handles product reviews. Only customers with a delivered
// order containing the product may review it, and each customer gets one
// review per product. The unique index backing Save is the authoritative
// duplicate guard; the FindByUserAndProduct check just gives a friendlier
// error on the common path.
type ReviewService struct {
	reviewRepo     review.ReviewRepository
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo review.ReviewRepository, orderRepo order.OrderRepository, productRepo catalog.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReviewService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CanReview reports whether the user may post a new review for the product.
// Eligibility requires a delivered order containing the product and no prior
// review; when a review already exists it is returned for edit mode.
func (s *ReviewService) CanReview(ctx context.Context, userID, productID uuid.UUID) (*EligibilityResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, err
	}

	if existing, err := s.reviewRepo.FindByUserAndProduct(ctx, userID, productID); err == nil {
		response := ToReviewResponse(existing)
		return &EligibilityResponse{Eligible: false, Existing: &response}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	delivered, err := s.orderRepo.ExistsDeliveredWithProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	return &EligibilityResponse{Eligible: delivered}, nil
}

// Create submits a review after checking purchase eligibility
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, err
	}

	eligible, err := s.orderRepo.ExistsDeliveredWithProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, shared.ErrNotEligible
	}

	if _, err := s.reviewRepo.FindByUserAndProduct(ctx, userID, req.ProductID); err == nil {
		return nil, shared.ErrDuplicateReview
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	r, err := review.NewReview(userID, req.ProductID, req.Rating, req.Title, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	if err := s.refreshProductRating(ctx, req.ProductID); err != nil {
		return nil, err
	}

	s.publishAll(ctx, r)

	response := ToReviewResponse(r)
	return &response, nil
}

// Update revises the caller's existing review and recomputes the rating
func (s *ReviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := r.Update(req.Rating, req.Title, req.Comment); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	if err := s.refreshProductRating(ctx, r.ProductID); err != nil {
		return nil, err
	}

	s.publishAll(ctx, r)

	response := ToReviewResponse(r)
	return &response, nil
}

// Delete removes the caller's review and recomputes the rating
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	r, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	return s.refreshProductRating(ctx, r.ProductID)
}

// Moderate removes any user's review regardless of ownership. The rating
// recompute is the same as for an owner delete.
func (s *ReviewService) Moderate(ctx context.Context, reviewID uuid.UUID) error {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	return s.refreshProductRating(ctx, r.ProductID)
}

// ListByProduct returns a page of a product's reviews with its rating summary
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*ProductReviewsResponse, error) {
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.AggregateForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = ToReviewResponse(&reviews[i])
	}

	return &ProductReviewsResponse{
		Items:    items,
		Average:  summary.Average,
		Count:    summary.Count,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListByUser returns a page of the caller's reviews
func (s *ReviewService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = ToReviewResponse(&reviews[i])
	}
	return items, nil
}

// refreshProductRating recomputes the product's denormalized rating from the
// full review set. Recomputing instead of incrementally adjusting keeps the
// stored average correct under concurrent writes.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID uuid.UUID) error {
	summary, err := s.reviewRepo.AggregateForProduct(ctx, productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(ctx, productID, summary.Average, summary.Count)
}

func (s *ReviewService) ownedReview(ctx context.Context, userID, reviewID uuid.UUID) (*review.Review, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (s *ReviewService) publishAll(ctx context.Context, r *review.Review) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range r.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	r.ClearDomainEvents()
}
