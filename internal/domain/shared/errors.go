package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so a sentinel like ErrInvalidTransition
// matches instances carrying a more specific message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Storefront domain errors
var (
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrOutOfStock        = NewDomainError("OUT_OF_STOCK", "Requested quantity exceeds available stock")
	ErrInvalidQuantity   = NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrProductNotFound   = NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrLineNotFound      = NewDomainError("LINE_NOT_FOUND", "Cart line not found")
	ErrInvalidTransition = NewDomainError("INVALID_TRANSITION", "Order status transition not permitted")
	ErrNotEligible       = NewDomainError("NOT_ELIGIBLE", "Not eligible to review this product")
	ErrDuplicateReview   = NewDomainError("DUPLICATE_REVIEW", "A review for this product already exists")
	ErrPriceMismatch     = NewDomainError("PRICE_MISMATCH", "Submitted totals do not match server-side prices")
	ErrAddressNotFound   = NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
)
