package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a product/SKU in the catalog.
// It is the aggregate root for catalog operations and owns the
// inventory ledger fields: available stock and the cumulative sold count.
// Stock and sold are mutated through Reserve/Release/SetStock only; the
// authoritative concurrent-safe mutation is a conditional update executed
// by the repository in a single round trip.
type Product struct {
	shared.BaseAggregateRoot
	Code              string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string           `gorm:"type:varchar(200);not null"`
	Description       string           `gorm:"type:text"`
	Price             decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPrice     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Stock             int              `gorm:"not null;default:0;check:stock >= 0"`
	Sold              int              `gorm:"not null;default:0;check:sold >= 0"`
	AverageRating     decimal.Decimal  `gorm:"type:decimal(3,2);not null;default:0"`
	NumReviews        int              `gorm:"not null;default:0"`
	LowStockThreshold int              `gorm:"not null;default:0"`
	Status            ProductStatus    `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, price valueobject.Money) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Price:             price.Amount(),
		AverageRating:     decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrices sets the regular price and an optional discount price
func (p *Product) SetPrices(price valueobject.Money, discountPrice *valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if discountPrice != nil {
		if discountPrice.Amount().IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Discount price cannot be negative")
		}
		if discountPrice.Amount().GreaterThan(price.Amount()) {
			return shared.NewDomainError("INVALID_PRICE", "Discount price cannot exceed the regular price")
		}
	}

	p.Price = price.Amount()
	if discountPrice != nil {
		d := discountPrice.Amount()
		p.DiscountPrice = &d
	} else {
		p.DiscountPrice = nil
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// EffectivePrice returns the price a buyer pays: the discount price when one
// is set, otherwise the regular price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.Price) {
		return *p.DiscountPrice
	}
	return p.Price
}

// EffectivePriceMoney returns the effective price as a Money value object
func (p *Product) EffectivePriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.EffectivePrice())
}

// Reserve decrements stock and increments sold for a confirmed order line.
// The in-memory mutation backs domain tests and event emission; under
// concurrency the repository performs the same mutation as one conditional
// update and reports INSUFFICIENT_STOCK when the guard fails at commit time.
func (p *Product) Reserve(qty int) error {
	if qty < 1 {
		return shared.ErrInvalidQuantity
	}
	if p.Stock < qty {
		return &InsufficientStockError{ProductID: p.ID, Requested: qty, Available: p.Stock}
	}

	p.Stock -= qty
	p.Sold += qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReservedEvent(p, qty))
	if p.IsLowStock() {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}

	return nil
}

// Release returns previously reserved stock, undoing a reservation.
// Used on order cancellation. Never fails on valid input; idempotency is
// the caller's responsibility.
func (p *Product) Release(qty int) error {
	if qty < 1 {
		return shared.ErrInvalidQuantity
	}

	p.Stock += qty
	p.Sold -= qty
	if p.Sold < 0 {
		p.Sold = 0
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReleasedEvent(p, qty))

	return nil
}

// SetStock is an explicit admin stock edit, distinct from ledger movements.
func (p *Product) SetStock(qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock cannot be negative")
	}

	old := p.Stock
	p.Stock = qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockAdjustedEvent(p, old, qty))

	return nil
}

// SetLowStockThreshold sets the level below which a low-stock event fires
func (p *Product) SetLowStockThreshold(qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Threshold cannot be negative")
	}

	p.LowStockThreshold = qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ApplyRating sets the aggregate rating fields. Only the review service
// calls this, after a full recompute over all reviews for the product.
func (p *Product) ApplyRating(average decimal.Decimal, count int) {
	p.AverageRating = average.Round(2)
	p.NumReviews = count
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductRatingChangedEvent(p))
}

// Activate makes the product purchasable
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from sale without discontinuing it
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Discontinue permanently retires the product
func (p *Product) Discontinue() {
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true if the product can be purchased
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// CanFulfill returns true if available stock covers the requested quantity.
// This is the advisory check used by the cart; the authoritative check
// happens at checkout.
func (p *Product) CanFulfill(qty int) bool {
	return qty >= 1 && p.Stock >= qty
}

// IsLowStock returns true if stock has fallen below the configured threshold
func (p *Product) IsLowStock() bool {
	return p.LowStockThreshold > 0 && p.Stock < p.LowStockThreshold
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// InsufficientStockError reports a failed reservation, carrying the product
// the caller needs to surface to the client.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return "insufficient stock for product " + e.ProductID.String()
}

// Unwrap lets errors.As reach the shared domain error for HTTP mapping
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}
