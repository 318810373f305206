package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartService handles shopping cart operations. Stock checks here are
// advisory only; the authoritative reservation happens at checkout.
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the user's cart, creating an empty one on first access
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// AddLine adds a product variant to the user's cart. Re-adding the same
// variant merges quantities. The merged quantity is checked against
// current stock so the cart can't silently exceed what's available.
func (s *CartService) AddLine(ctx context.Context, userID uuid.UUID, req AddLineRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.ErrProductNotFound
	}

	c, err := s.cartRepo.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	requested := req.Quantity
	if existing := findVariant(c, req.ProductID, req.Size, req.Color); existing != nil {
		requested += existing.Quantity
	}
	if !product.CanFulfill(requested) {
		return nil, shared.ErrOutOfStock
	}

	if err := c.AddLine(product.ID, product.Name, req.Size, req.Color, req.Quantity, product.EffectivePrice()); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// UpdateLine sets a line to an absolute quantity of at least one.
// Removal is a separate operation.
func (s *CartService) UpdateLine(ctx context.Context, userID, lineID uuid.UUID, req UpdateLineRequest) (*CartResponse, error) {
	if req.Quantity < 1 {
		return nil, shared.ErrInvalidQuantity
	}

	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := c.FindLine(lineID)
	if line == nil {
		return nil, shared.ErrLineNotFound
	}
	product, err := s.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.CanFulfill(req.Quantity) {
		return nil, shared.ErrOutOfStock
	}

	if err := c.UpdateLineQuantity(lineID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// RemoveLine deletes a line from the user's cart
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.Clear()

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

func findVariant(c *cart.Cart, productID uuid.UUID, size, color string) *cart.CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Size == size && c.Lines[i].Color == color {
			return &c.Lines[i]
		}
	}
	return nil
}
