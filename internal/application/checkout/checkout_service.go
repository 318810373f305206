package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Pricing holds the charges applied on top of the item subtotal
type Pricing struct {
	TaxRate          decimal.Decimal
	ShippingFee      decimal.Decimal
	FreeShippingOver decimal.Decimal
}

// priceTolerance absorbs client-side rounding in ExpectedTotal comparison
var priceTolerance = decimal.NewFromFloat(0.01)

// CheckoutService turns a cart into an order. The whole placement runs in
// one transaction: every line's stock reservation, the order insert and the
// cart clear commit together or not at all.
type CheckoutService struct {
	scope          TransactionScope
	addressRepo    customer.AddressRepository
	pricing        Pricing
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope TransactionScope, addressRepo customer.AddressRepository, pricing Pricing) *CheckoutService {
	return &CheckoutService{
		scope:       scope,
		addressRepo: addressRepo,
		pricing:     pricing,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrder converts the user's cart into an order. Prices are recomputed
// from the catalog inside the transaction, so a stale cart snapshot can
// never charge the wrong amount; a reservation failing on any line rolls
// back the lines reserved before it.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	address, err := s.resolveAddress(ctx, userID, req.AddressID)
	if err != nil {
		return nil, err
	}

	var placed *order.Order
	var lowStock []shared.DomainEvent
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.CartRepo().FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("EMPTY_CART", "Cannot checkout an empty cart")
			}
			return err
		}
		if c.IsEmpty() {
			return shared.NewDomainError("EMPTY_CART", "Cannot checkout an empty cart")
		}

		orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(orderNumber, userID, address.Details, req.PaymentMethod)
		if err != nil {
			return err
		}

		for i := range c.Lines {
			line := &c.Lines[i]

			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.IsActive() {
				return shared.ErrProductNotFound
			}

			remaining, err := repos.ProductRepo().Reserve(ctx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if product.LowStockThreshold > 0 && remaining < product.LowStockThreshold {
				product.Stock = remaining
				lowStock = append(lowStock, catalog.NewProductLowStockEvent(product))
			}

			if err := o.AddItem(product.ID, product.Name, line.Size, line.Color, line.Quantity, product.EffectivePrice()); err != nil {
				return err
			}
		}

		tax := o.Subtotal.Mul(s.pricing.TaxRate).Round(2)
		shipping := s.pricing.ShippingFee
		if s.pricing.FreeShippingOver.IsPositive() && o.Subtotal.GreaterThanOrEqual(s.pricing.FreeShippingOver) {
			shipping = decimal.Zero
		}
		if err := o.SetCharges(tax, shipping); err != nil {
			return err
		}

		if req.ExpectedTotal != nil && o.TotalAmount.Sub(*req.ExpectedTotal).Abs().GreaterThan(priceTolerance) {
			return shared.ErrPriceMismatch
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		c.Clear()
		if err := repos.CartRepo().Save(ctx, c); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order.NewOrderPlacedEvent(placed))
	for _, event := range placed.GetDomainEvents() {
		s.publish(ctx, event)
	}
	placed.ClearDomainEvents()

	// Low-stock alerts go out only once the reservations have committed
	for _, event := range lowStock {
		s.publish(ctx, event)
	}

	response := ToOrderResponse(placed)
	return &response, nil
}

// Quote recomputes the current cart totals without placing an order
func (s *CheckoutService) Quote(ctx context.Context, userID uuid.UUID) (*QuoteResponse, error) {
	var quote QuoteResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.CartRepo().FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("EMPTY_CART", "Cannot quote an empty cart")
			}
			return err
		}
		if c.IsEmpty() {
			return shared.NewDomainError("EMPTY_CART", "Cannot quote an empty cart")
		}

		subtotal := decimal.Zero
		for i := range c.Lines {
			line := &c.Lines[i]
			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			subtotal = subtotal.Add(product.EffectivePrice().Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		tax := subtotal.Mul(s.pricing.TaxRate).Round(2)
		shipping := s.pricing.ShippingFee
		if s.pricing.FreeShippingOver.IsPositive() && subtotal.GreaterThanOrEqual(s.pricing.FreeShippingOver) {
			shipping = decimal.Zero
		}

		quote = QuoteResponse{
			Subtotal:    subtotal,
			TaxAmount:   tax,
			ShippingFee: shipping,
			TotalAmount: subtotal.Add(tax).Add(shipping),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *CheckoutService) resolveAddress(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID) (*customer.Address, error) {
	if addressID != nil {
		address, err := s.addressRepo.FindByID(ctx, *addressID)
		if err != nil {
			return nil, err
		}
		if address.UserID != userID {
			return nil, shared.ErrAddressNotFound
		}
		return address, nil
	}
	return s.addressRepo.FindDefaultByUser(ctx, userID)
}

func (s *CheckoutService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, event)
}

// QuoteResponse represents recomputed cart totals
type QuoteResponse struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
