package order

import (
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/order"
)

// UpdateStatusRequest represents an admin fulfillment transition
type UpdateStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
	Note   string            `json:"note" binding:"max=500"`
}

// CancelOrderRequest represents a cancellation
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// MarkPaidRequest represents a payment confirmation
type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=card paypal cod"`
}

// OrderResponse aliases the checkout response type: both surfaces present
// orders the same way.
type OrderResponse = checkout.OrderResponse

// ToOrderResponse converts an order aggregate to its response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	return checkout.ToOrderResponse(o)
}

// ReceiptResponse carries a re-rendered receipt body
type ReceiptResponse struct {
	OrderNumber string `json:"order_number"`
	Receipt     string `json:"receipt"`
}

// OrderListResponse represents a page of orders
type OrderListResponse struct {
	Items      []OrderResponse `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}
