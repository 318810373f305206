package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// CartLine is a single entry in a cart. Lines are identified by the
// (product, size, color) triple: adding the same variant again merges
// quantities instead of creating a second line.
type CartLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Size      string          `gorm:"type:varchar(20);not null;default:''"`
	Color     string          `gorm:"type:varchar(30);not null;default:''"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (CartLine) TableName() string {
	return "cart_lines"
}

// Subtotal returns unit price times quantity for this line
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// matches reports whether the line holds the given variant
func (l *CartLine) matches(productID uuid.UUID, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}

// Cart is the per-user shopping cart aggregate. Each user has at most one
// cart; line prices are advisory snapshots and get revalidated at checkout.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Lines  []CartLine `gorm:"foreignKey:CartID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Lines:             make([]CartLine, 0),
	}, nil
}

// AddLine adds a product variant to the cart. When a line for the same
// (product, size, color) already exists, the quantities merge and the
// unit price refreshes to the current one.
func (c *Cart) AddLine(productID uuid.UUID, name, size, color string, qty int, unitPrice decimal.Decimal) error {
	if qty < 1 {
		return shared.ErrInvalidQuantity
	}

	for i := range c.Lines {
		if c.Lines[i].matches(productID, size, color) {
			c.Lines[i].Quantity += qty
			c.Lines[i].UnitPrice = unitPrice
			c.Lines[i].UpdatedAt = time.Now()
			c.touch()
			return nil
		}
	}

	now := time.Now()
	c.Lines = append(c.Lines, CartLine{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		Name:      name,
		Size:      size,
		Color:     color,
		Quantity:  qty,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	})
	c.touch()
	return nil
}

// UpdateLineQuantity sets an existing line to an absolute quantity.
// Quantities below one are rejected; removal is its own operation.
func (c *Cart) UpdateLineQuantity(lineID uuid.UUID, qty int) error {
	if qty < 1 {
		return shared.ErrInvalidQuantity
	}

	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Quantity = qty
			c.Lines[i].UpdatedAt = time.Now()
			c.touch()
			return nil
		}
	}

	return shared.ErrLineNotFound
}

// RemoveLine deletes a line from the cart
func (c *Cart) RemoveLine(lineID uuid.UUID) error {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return nil
		}
	}

	return shared.ErrLineNotFound
}

// Clear removes all lines. Called after a successful checkout.
func (c *Cart) Clear() {
	c.Lines = make([]CartLine, 0)
	c.touch()
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for i := range c.Lines {
		total += c.Lines[i].Quantity
	}
	return total
}

// Subtotal returns the sum of all line subtotals
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].Subtotal())
	}
	return total
}

// FindLine returns the line with the given ID, or nil
func (c *Cart) FindLine(lineID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
