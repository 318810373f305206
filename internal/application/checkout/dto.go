package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// PlaceOrderRequest represents a checkout submission. ExpectedTotal, when
// present, is the total the client displayed; the server recomputes and
// rejects with PRICE_MISMATCH when they disagree.
type PlaceOrderRequest struct {
	AddressID     *uuid.UUID       `json:"address_id"`
	PaymentMethod string           `json:"payment_method" binding:"required,oneof=card paypal cod"`
	ExpectedTotal *decimal.Decimal `json:"expected_total"`
}

// OrderItemResponse represents a frozen order line in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// StatusChangeResponse represents one status history entry
type StatusChangeResponse struct {
	From      order.OrderStatus `json:"from"`
	To        order.OrderStatus `json:"to"`
	Note      string            `json:"note,omitempty"`
	ChangedAt time.Time         `json:"changed_at"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	UserID          uuid.UUID              `json:"user_id"`
	Items           []OrderItemResponse    `json:"items"`
	StatusHistory   []StatusChangeResponse `json:"status_history,omitempty"`
	ShippingAddress string                 `json:"shipping_address"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	TaxAmount       decimal.Decimal        `json:"tax_amount"`
	ShippingFee     decimal.Decimal        `json:"shipping_fee"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Status          order.OrderStatus      `json:"status"`
	IsDelivered     bool                   `json:"is_delivered"`
	PaymentMethod   string                 `json:"payment_method"`
	IsPaid          bool                   `json:"is_paid"`
	PaymentStatus   string                 `json:"payment_status"`
	PaidAt          *time.Time             `json:"paid_at,omitempty"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ToOrderResponse converts an order aggregate to its response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}

	history := make([]StatusChangeResponse, len(o.StatusHistory))
	for i := range o.StatusHistory {
		change := &o.StatusHistory[i]
		history[i] = StatusChangeResponse{
			From:      change.From,
			To:        change.To,
			Note:      change.Note,
			ChangedAt: change.ChangedAt,
		}
	}

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           items,
		StatusHistory:   history,
		ShippingAddress: o.ShippingAddress.Format(),
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		ShippingFee:     o.ShippingFee,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		IsDelivered:     o.IsDelivered(),
		PaymentMethod:   o.PaymentMethod,
		IsPaid:          o.IsPaid,
		PaymentStatus:   o.PaymentStatus(),
		PaidAt:          o.PaidAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
	}
}
