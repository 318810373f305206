package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rv review.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// FindByUserAndProduct finds the user's review of a product
func (r *GormReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*review.Review, error) {
	var rv review.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// FindByProduct finds a product's reviews, newest first
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&review.Review{}).
			Where("product_id = ?", productID),
		filter,
	)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByUser finds a user's reviews, newest first
func (r *GormReviewRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&review.Review{}).
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Save creates or updates a review. The unique (user_id, product_id) index
// is the backstop against two concurrent first reviews; its violation maps
// to ErrDuplicateReview.
func (r *GormReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	err := r.db.WithContext(ctx).Save(rv).Error
	if err != nil && isUniqueViolation(err) {
		return shared.ErrDuplicateReview
	}
	return err
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&review.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AggregateForProduct recomputes the average rating and count in the database
func (r *GormReviewRepository) AggregateForProduct(ctx context.Context, productID uuid.UUID) (review.RatingSummary, error) {
	var row struct {
		Average decimal.NullDecimal
		Count   int64
	}

	err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return review.RatingSummary{}, err
	}

	summary := review.RatingSummary{Count: int(row.Count)}
	if row.Average.Valid {
		summary.Average = row.Average.Decimal.Round(2)
	} else {
		summary.Average = decimal.Zero
	}
	return summary, nil
}

// CountByProduct counts a product's reviews
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// applyFilter applies filter options to the query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	for key, value := range filter.Filters {
		switch key {
		case "rating":
			query = query.Where("rating = ?", value)
		case "min_rating":
			query = query.Where("rating >= ?", value)
		}
	}

	return query
}

// isUniqueViolation reports a postgres unique-index violation (class 23505).
// The connection runs with TranslateError, so gorm.ErrDuplicatedKey covers
// the usual path; the pgconn check catches errors raised outside gorm's
// translation, such as deferred constraint failures at commit.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
