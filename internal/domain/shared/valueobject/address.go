package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping address.
// It is immutable - all operations return new Address instances.
type Address struct {
	fullName   string
	street     string
	city       string
	state      string
	postalCode string
	country    string
	phone      string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithState sets the state/region for the address
func WithState(state string) AddressOption {
	return func(a *Address) {
		a.state = strings.TrimSpace(state)
	}
}

// WithPhone sets the contact phone for the address
func WithPhone(phone string) AddressOption {
	return func(a *Address) {
		a.phone = strings.TrimSpace(phone)
	}
}

// NewAddress creates a new Address with the required fields.
// Full name, street, city, postal code and country are required;
// state and phone are optional.
func NewAddress(fullName, street, city, postalCode, country string, opts ...AddressOption) (Address, error) {
	fullName = strings.TrimSpace(fullName)
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)

	if fullName == "" || len(fullName) > 200 {
		return Address{}, fmt.Errorf("recipient name must be 1-200 characters")
	}
	if street == "" || len(street) > 300 {
		return Address{}, fmt.Errorf("street must be 1-300 characters")
	}
	if city == "" || len(city) > 100 {
		return Address{}, fmt.Errorf("city must be 1-100 characters")
	}
	if postalCode == "" || len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code must be 1-20 characters")
	}
	if country == "" || len(country) > 100 {
		return Address{}, fmt.Errorf("country must be 1-100 characters")
	}

	addr := Address{
		fullName:   fullName,
		street:     street,
		city:       city,
		postalCode: postalCode,
		country:    country,
	}

	for _, opt := range opts {
		opt(&addr)
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(fullName, street, city, postalCode, country string, opts ...AddressOption) Address {
	addr, err := NewAddress(fullName, street, city, postalCode, country, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// FullName returns the recipient name
func (a Address) FullName() string {
	return a.fullName
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the state/region
func (a Address) State() string {
	return a.state
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// Phone returns the contact phone
func (a Address) Phone() string {
	return a.phone
}

// IsEmpty returns true if the address is empty (all fields are blank)
func (a Address) IsEmpty() bool {
	return a.fullName == "" && a.street == "" && a.city == "" && a.postalCode == "" && a.country == ""
}

// Format returns the complete formatted address string
func (a Address) Format() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 6)
	parts = append(parts, a.fullName, a.street, a.city)
	if a.state != "" {
		parts = append(parts, a.state)
	}
	parts = append(parts, a.postalCode, a.country)
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses have identical fields
func (a Address) Equals(other Address) bool {
	return a == other
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.Format()
}

// addressJSON is the serialized form of Address
type addressJSON struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		FullName:   a.fullName,
		Street:     a.street,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
		Phone:      a.phone,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var aux addressJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.fullName = aux.FullName
	a.street = aux.Street
	a.city = aux.City
	a.state = aux.State
	a.postalCode = aux.PostalCode
	a.country = aux.Country
	a.phone = aux.Phone
	return nil
}

// Value implements driver.Valuer for database storage (JSON)
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	return json.Unmarshal(data, a)
}
