package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/customer"
)

// CreateAddressRequest represents a request to add an address to the book
type CreateAddressRequest struct {
	Label      string `json:"label" binding:"max=50"`
	FullName   string `json:"full_name" binding:"required,max=100"`
	Street     string `json:"street" binding:"required,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
	Phone      string `json:"phone" binding:"max=30"`
	IsDefault  bool   `json:"is_default"`
}

// UpdateAddressRequest represents a request to update a saved address
type UpdateAddressRequest struct {
	Label      string `json:"label" binding:"max=50"`
	FullName   string `json:"full_name" binding:"required,max=100"`
	Street     string `json:"street" binding:"required,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
	Phone      string `json:"phone" binding:"max=30"`
}

// AddressResponse represents a saved address in API responses
type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	FullName   string    `json:"full_name"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToAddressResponse converts an Address aggregate to AddressResponse
func ToAddressResponse(a *customer.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID,
		Label:      a.Label,
		FullName:   a.Details.FullName(),
		Street:     a.Details.Street(),
		City:       a.Details.City(),
		State:      a.Details.State(),
		PostalCode: a.Details.PostalCode(),
		Country:    a.Details.Country(),
		Phone:      a.Details.Phone(),
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
