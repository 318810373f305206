package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code              string           `json:"code" binding:"required,min=2,max=50"`
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Description       string           `json:"description" binding:"max=5000"`
	Price             decimal.Decimal  `json:"price" binding:"required"`
	DiscountPrice     *decimal.Decimal `json:"discount_price,omitempty"`
	Stock             int              `json:"stock" binding:"min=0"`
	LowStockThreshold int              `json:"low_stock_threshold" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=5000"`
}

// SetPricesRequest represents a request to change a product's prices
type SetPricesRequest struct {
	Price         decimal.Decimal  `json:"price" binding:"required"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
}

// SetStockRequest represents a request to set a product's stock level
type SetStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	DiscountPrice     *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice    decimal.Decimal  `json:"effective_price"`
	Stock             int              `json:"stock"`
	Sold              int              `json:"sold"`
	AverageRating     decimal.Decimal  `json:"average_rating"`
	NumReviews        int              `json:"num_reviews"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	LowStock          bool             `json:"low_stock"`
	Status            string           `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProductListResponse is a page of products
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

// ToProductResponse converts a Product aggregate to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		DiscountPrice:     p.DiscountPrice,
		EffectivePrice:    p.EffectivePrice(),
		Stock:             p.Stock,
		Sold:              p.Sold,
		AverageRating:     p.AverageRating,
		NumReviews:        p.NumReviews,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
