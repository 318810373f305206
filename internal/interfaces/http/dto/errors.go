package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Storefront error codes
const (
	// ErrCodeInsufficientStock is used when a reservation loses the stock guard
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeOutOfStock is used when the advisory stock check at cart time fails
	ErrCodeOutOfStock = "ERR_OUT_OF_STOCK"
	// ErrCodeInvalidQuantity is used when a quantity is not positive
	ErrCodeInvalidQuantity = "ERR_INVALID_QUANTITY"
	// ErrCodeProductNotFound is used when a product does not exist or is not purchasable
	ErrCodeProductNotFound = "ERR_PRODUCT_NOT_FOUND"
	// ErrCodeLineNotFound is used when a cart line does not exist
	ErrCodeLineNotFound = "ERR_LINE_NOT_FOUND"
	// ErrCodeAddressNotFound is used when an address is missing or owned by someone else
	ErrCodeAddressNotFound = "ERR_ADDRESS_NOT_FOUND"
	// ErrCodeInvalidTransition is used when an order status transition is rejected
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	// ErrCodeNotEligible is used when the review eligibility gate fails
	ErrCodeNotEligible = "ERR_NOT_ELIGIBLE"
	// ErrCodeDuplicateReview is used when a user already reviewed the product
	ErrCodeDuplicateReview = "ERR_DUPLICATE_REVIEW"
	// ErrCodePriceMismatch is used when the client's expected total is stale
	ErrCodePriceMismatch = "ERR_PRICE_MISMATCH"
	// ErrCodeEmptyCart is used when checkout runs against an empty cart
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Storefront errors. Stock and price conflicts are 409: the request
	// was well-formed but lost against the current state of the world,
	// and the client should refresh and retry.
	ErrCodeInsufficientStock: http.StatusConflict,
	ErrCodeOutOfStock:        http.StatusConflict,
	ErrCodeDuplicateReview:   http.StatusConflict,
	ErrCodePriceMismatch:     http.StatusConflict,
	ErrCodeInvalidQuantity:   http.StatusBadRequest,
	ErrCodeProductNotFound:   http.StatusNotFound,
	ErrCodeLineNotFound:      http.StatusNotFound,
	ErrCodeAddressNotFound:   http.StatusNotFound,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeNotEligible:       http.StatusForbidden,
	ErrCodeEmptyCart:         http.StatusUnprocessableEntity,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the transport codes.
// Domain errors carry bare codes like INSUFFICIENT_STOCK; the HTTP surface
// standardizes them under the ERR_ prefix.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	"INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"OUT_OF_STOCK":       ErrCodeOutOfStock,
	"INVALID_QUANTITY":   ErrCodeInvalidQuantity,
	"PRODUCT_NOT_FOUND":  ErrCodeProductNotFound,
	"LINE_NOT_FOUND":     ErrCodeLineNotFound,
	"ADDRESS_NOT_FOUND":  ErrCodeAddressNotFound,
	"INVALID_TRANSITION": ErrCodeInvalidTransition,
	"NOT_ELIGIBLE":       ErrCodeNotEligible,
	"DUPLICATE_REVIEW":   ErrCodeDuplicateReview,
	"PRICE_MISMATCH":     ErrCodePriceMismatch,
	"EMPTY_CART":         ErrCodeEmptyCart,

	// Aggregate-level validation codes all surface as 400s
	"INVALID_ADDRESS": ErrCodeValidation,
	"INVALID_LABEL":   ErrCodeValidationLength,
	"INVALID_USER":    ErrCodeValidation,
	"INVALID_PRICE":   ErrCodeValidationRange,
	"INVALID_AMOUNT":  ErrCodeValidationRange,
	"INVALID_RATING":  ErrCodeValidationRange,
	"INVALID_CODE":    ErrCodeValidationFormat,
	"INVALID_NAME":    ErrCodeValidationLength,
	"INVALID_STATUS":  ErrCodeValidation,
	"DUPLICATE_CODE":  ErrCodeAlreadyExists,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
