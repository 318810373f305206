package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states that admit no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// rank orders the forward fulfillment states for transition checks
func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusProcessing:
		return 1
	case OrderStatusShipped:
		return 2
	case OrderStatusDelivered:
		return 3
	}
	return -1
}

// CanTransitionTo checks if the status can transition to the target status.
// Fulfillment moves strictly forward and may skip intermediate states;
// cancellation is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	return target.rank() > s.rank()
}

// OrderItem is an immutable line snapshot taken at checkout. Name and price
// are frozen copies so later catalog edits never change what was sold.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Size      string          `gorm:"type:varchar(20);not null;default:''"`
	Color     string          `gorm:"type:varchar(30);not null;default:''"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line snapshot
func NewOrderItem(orderID, productID uuid.UUID, name, size, color string, qty int, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if qty < 1 {
		return nil, shared.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Name:      name,
		Size:      size,
		Color:     color,
		Quantity:  qty,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(qty))),
		CreatedAt: time.Now(),
	}, nil
}

// StatusChange is one append-only entry in an order's status history
type StatusChange struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	From      OrderStatus `gorm:"type:varchar(20);not null;column:from_status"`
	To        OrderStatus `gorm:"type:varchar(20);not null;column:to_status"`
	Note      string      `gorm:"type:varchar(500)"`
	ChangedAt time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StatusChange) TableName() string {
	return "order_status_changes"
}

// Order is the order aggregate root. Items, address and totals are frozen
// at checkout; only the fulfillment status, payment state and the history
// move after creation.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID"`
	StatusHistory   []StatusChange      `gorm:"foreignKey:OrderID"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb;not null"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TaxAmount       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ShippingFee     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentMethod   string              `gorm:"type:varchar(30);not null;default:''"`
	IsPaid          bool                `gorm:"not null;default:false"`
	PaidAt          *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from checkout results. The caller has
// already reserved stock and validated prices; this constructor only
// freezes the snapshot.
func NewOrder(orderNumber string, userID uuid.UUID, address valueobject.Address, paymentMethod string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		Items:             make([]OrderItem, 0),
		ShippingAddress:   address,
		Subtotal:          decimal.Zero,
		TaxAmount:         decimal.Zero,
		ShippingFee:       decimal.Zero,
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusPending,
		PaymentMethod:     paymentMethod,
	}

	// The history always starts with the creation entry so readers can
	// recover when the order entered PENDING without consulting CreatedAt.
	order.StatusHistory = []StatusChange{{
		ID:        uuid.New(),
		OrderID:   order.ID,
		From:      OrderStatusPending,
		To:        OrderStatusPending,
		Note:      "Order created",
		ChangedAt: order.CreatedAt,
	}}

	return order, nil
}

// AddItem freezes a line snapshot onto the order. Only valid before the
// order is persisted; orders never gain or lose items afterwards.
func (o *Order) AddItem(productID uuid.UUID, name, size, color string, qty int, unitPrice decimal.Decimal) error {
	item, err := NewOrderItem(o.ID, productID, name, size, color, qty, unitPrice)
	if err != nil {
		return err
	}

	o.Items = append(o.Items, *item)
	o.Subtotal = o.Subtotal.Add(item.Subtotal)
	o.TotalAmount = o.Subtotal.Add(o.TaxAmount).Add(o.ShippingFee)
	o.UpdatedAt = time.Now()

	return nil
}

// SetCharges sets tax and shipping and recomputes the total
func (o *Order) SetCharges(tax, shipping decimal.Decimal) error {
	if tax.IsNegative() || shipping.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charges cannot be negative")
	}

	o.TaxAmount = tax
	o.ShippingFee = shipping
	o.TotalAmount = o.Subtotal.Add(tax).Add(shipping)
	o.UpdatedAt = time.Now()

	return nil
}

// TransitionTo moves the order to the target fulfillment status, appending
// a history entry. Rejected transitions return INVALID_TRANSITION and leave
// the order untouched.
func (o *Order) TransitionTo(target OrderStatus, note string) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	now := time.Now()
	from := o.Status
	o.Status = target
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		ID:        uuid.New(),
		OrderID:   o.ID,
		From:      from,
		To:        target,
		Note:      note,
		ChangedAt: now,
	})
	o.UpdatedAt = now
	o.IncrementVersion()

	switch target {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = note
		o.AddDomainEvent(NewOrderCancelledEvent(o, note))
	default:
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))
	}

	return nil
}

// Cancel cancels the order. Stock compensation is the application layer's
// job; the aggregate only enforces the transition rules.
func (o *Order) Cancel(reason string) error {
	return o.TransitionTo(OrderStatusCancelled, reason)
}

// MarkPaid records payment. Paying twice is a no-op, not an error.
func (o *Order) MarkPaid(method string) error {
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot pay for a cancelled order")
	}
	if o.IsPaid {
		return nil
	}

	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	if method != "" {
		o.PaymentMethod = method
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// Payment status labels derived from the paid flag
const (
	PaymentStatusPaid   = "PAID"
	PaymentStatusUnpaid = "UNPAID"
)

// PaymentStatus derives the payment state label. It is never stored;
// IsPaid is the single source of truth.
func (o *Order) PaymentStatus() string {
	if o.IsPaid {
		return PaymentStatusPaid
	}
	return PaymentStatusUnpaid
}

// IsDelivered returns true once the order has reached DELIVERED
func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

// IsCancellable returns true while cancellation is still permitted
func (o *Order) IsCancellable() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// ContainsProduct returns true if any line references the given product
func (o *Order) ContainsProduct(productID uuid.UUID) bool {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}
