package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressService manages a user's address book. An address only becomes
// the default when the caller asks for it or when the default address is
// deleted; a first address saved without the flag stays non-default.
type AddressService struct {
	addressRepo customer.AddressRepository
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo customer.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// Create adds an address to the user's book
func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressResponse, error) {
	details, err := buildDetails(req.FullName, req.Street, req.City, req.State, req.PostalCode, req.Country, req.Phone)
	if err != nil {
		return nil, err
	}

	address, err := customer.NewAddress(userID, req.Label, details)
	if err != nil {
		return nil, err
	}

	if req.IsDefault {
		err = s.addressRepo.SaveAsDefault(ctx, address)
	} else {
		err = s.addressRepo.Save(ctx, address)
	}
	if err != nil {
		return nil, err
	}

	response := ToAddressResponse(address)
	return &response, nil
}

// Update replaces the details of a saved address
func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req UpdateAddressRequest) (*AddressResponse, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	details, err := buildDetails(req.FullName, req.Street, req.City, req.State, req.PostalCode, req.Country, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := address.Update(req.Label, details); err != nil {
		return nil, err
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}

	response := ToAddressResponse(address)
	return &response, nil
}

// List returns the user's addresses, default first
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	addresses, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]AddressResponse, len(addresses))
	for i := range addresses {
		responses[i] = ToAddressResponse(&addresses[i])
	}
	return responses, nil
}

// GetDefault returns the user's default address
func (s *AddressService) GetDefault(ctx context.Context, userID uuid.UUID) (*AddressResponse, error) {
	address, err := s.addressRepo.FindDefaultByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToAddressResponse(address)
	return &response, nil
}

// SetDefault promotes one of the user's addresses to be the only default
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressResponse, error) {
	if err := s.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		return nil, err
	}

	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}

	response := ToAddressResponse(address)
	return &response, nil
}

// Delete removes an address. Deleting the default promotes the earliest
// remaining address inside the repository's transaction.
func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.addressRepo.Delete(ctx, userID, addressID)
}

func (s *AddressService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*customer.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, shared.ErrAddressNotFound
	}
	return address, nil
}

func buildDetails(fullName, street, city, state, postalCode, country, phone string) (valueobject.Address, error) {
	opts := []valueobject.AddressOption{}
	if state != "" {
		opts = append(opts, valueobject.WithState(state))
	}
	if phone != "" {
		opts = append(opts, valueobject.WithPhone(phone))
	}
	return valueobject.NewAddress(fullName, street, city, postalCode, country, opts...)
}
