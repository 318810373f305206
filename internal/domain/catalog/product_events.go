package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductUpdated       = "ProductUpdated"
	EventTypeStockReserved        = "StockReserved"
	EventTypeStockReleased        = "StockReleased"
	EventTypeStockAdjusted        = "StockAdjusted"
	EventTypeProductLowStock      = "ProductLowStock"
	EventTypeProductRatingChanged = "ProductRatingChanged"
)

// ProductCreatedEvent is raised when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		Code:            p.Code,
		Name:            p.Name,
		Price:           p.Price,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// ProductUpdatedEvent is raised when product details or pricing change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, p.ID),
		Name:            p.Name,
	}
}

// EventType returns the event type name
func (e *ProductUpdatedEvent) EventType() string {
	return EventTypeProductUpdated
}

// StockReservedEvent is raised when stock is taken for an order line
type StockReservedEvent struct {
	shared.BaseDomainEvent
	Quantity       int `json:"quantity"`
	RemainingStock int `json:"remaining_stock"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(p *Product, qty int) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeProduct, p.ID),
		Quantity:        qty,
		RemainingStock:  p.Stock,
	}
}

// EventType returns the event type name
func (e *StockReservedEvent) EventType() string {
	return EventTypeStockReserved
}

// StockReleasedEvent is raised when reserved stock is returned after a cancellation
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	Quantity       int `json:"quantity"`
	RemainingStock int `json:"remaining_stock"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(p *Product, qty int) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeProduct, p.ID),
		Quantity:        qty,
		RemainingStock:  p.Stock,
	}
}

// EventType returns the event type name
func (e *StockReleasedEvent) EventType() string {
	return EventTypeStockReleased
}

// StockAdjustedEvent is raised on an explicit admin stock edit
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	OldStock int `json:"old_stock"`
	NewStock int `json:"new_stock"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(p *Product, oldStock, newStock int) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeProduct, p.ID),
		OldStock:        oldStock,
		NewStock:        newStock,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// ProductLowStockEvent is raised when stock drops below the configured threshold
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	Stock     int `json:"stock"`
	Threshold int `json:"threshold"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(p *Product) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, AggregateTypeProduct, p.ID),
		Stock:           p.Stock,
		Threshold:       p.LowStockThreshold,
	}
}

// EventType returns the event type name
func (e *ProductLowStockEvent) EventType() string {
	return EventTypeProductLowStock
}

// ProductRatingChangedEvent is raised after a review recompute updates the aggregate rating
type ProductRatingChangedEvent struct {
	shared.BaseDomainEvent
	AverageRating decimal.Decimal `json:"average_rating"`
	NumReviews    int             `json:"num_reviews"`
}

// NewProductRatingChangedEvent creates a new ProductRatingChangedEvent
func NewProductRatingChangedEvent(p *Product) *ProductRatingChangedEvent {
	return &ProductRatingChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductRatingChanged, AggregateTypeProduct, p.ID),
		AverageRating:   p.AverageRating,
		NumReviews:      p.NumReviews,
	}
}

// EventType returns the event type name
func (e *ProductRatingChangedEvent) EventType() string {
	return EventTypeProductRatingChanged
}
