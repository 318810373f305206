package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
)

// AddLineRequest represents a request to add a product variant to the cart
type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"max=20"`
	Color     string    `json:"color" binding:"max=30"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateLineRequest represents a request to set a line's absolute quantity
type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartLineResponse represents a cart line in API responses
type CartLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Lines         []CartLineResponse `json:"lines"`
	TotalQuantity int                `json:"total_quantity"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToCartResponse converts a cart aggregate to its response DTO
func ToCartResponse(c *cart.Cart) CartResponse {
	lines := make([]CartLineResponse, len(c.Lines))
	for i := range c.Lines {
		line := &c.Lines[i]
		lines[i] = CartLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		}
	}

	return CartResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Lines:         lines,
		TotalQuantity: c.TotalQuantity(),
		Subtotal:      c.Subtotal(),
		UpdatedAt:     c.UpdatedAt,
	}
}
