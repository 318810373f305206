package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormAddressRepository implements AddressRepository using GORM. Mutations
// touching IsDefault run in one transaction so the user ends up with
// exactly one default whenever they have addresses at all.
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Address, error) {
	var addr customer.Address
	if err := r.db.WithContext(ctx).First(&addr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrAddressNotFound
		}
		return nil, err
	}
	return &addr, nil
}

// FindByUser finds all of a user's addresses, default first
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]customer.Address, error) {
	var addresses []customer.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// FindDefaultByUser finds the user's default address
func (r *GormAddressRepository) FindDefaultByUser(ctx context.Context, userID uuid.UUID) (*customer.Address, error) {
	var addr customer.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default", userID).
		First(&addr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrAddressNotFound
		}
		return nil, err
	}
	return &addr, nil
}

// Save creates or updates an address without touching default flags
func (r *GormAddressRepository) Save(ctx context.Context, addr *customer.Address) error {
	return r.db.WithContext(ctx).Omit("is_default").Save(addr).Error
}

// SaveAsDefault persists the address and makes it the user's only default
func (r *GormAddressRepository) SaveAsDefault(ctx context.Context, addr *customer.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&customer.Address{}).
			Where("user_id = ? AND id <> ? AND is_default", addr.UserID, addr.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		addr.IsDefault = true
		return tx.Save(addr).Error
	})
}

// SetDefault promotes an existing address to the user's only default
func (r *GormAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&customer.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrAddressNotFound
		}

		return tx.Model(&customer.Address{}).
			Where("user_id = ? AND id <> ? AND is_default", userID, addressID).
			Update("is_default", false).Error
	})
}

// Delete removes the address and, when it was the default, promotes the
// user's earliest-created remaining address inside the same transaction
func (r *GormAddressRepository) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var addr customer.Address
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).
			First(&addr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrAddressNotFound
			}
			return err
		}

		if err := tx.Delete(&customer.Address{}, "id = ?", addressID).Error; err != nil {
			return err
		}

		if !addr.IsDefault {
			return nil
		}

		var successor customer.Address
		err := tx.Where("user_id = ?", userID).
			Order("created_at ASC").
			First(&successor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return tx.Model(&customer.Address{}).
			Where("id = ?", successor.ID).
			Update("is_default", true).Error
	})
}
