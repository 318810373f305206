package persistence

import (
	"context"

	"gorm.io/gorm"

	appcheckout "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// GormCheckoutTransactionScope implements the checkout TransactionScope using
// GORM transactions, so reserving stock, writing the order and clearing the
// cart commit or roll back together.
type GormCheckoutTransactionScope struct {
	db *gorm.DB
}

// NewGormCheckoutTransactionScope creates a new GormCheckoutTransactionScope
func NewGormCheckoutTransactionScope(db *gorm.DB) *GormCheckoutTransactionScope {
	return &GormCheckoutTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCheckoutTransactionScope) Execute(ctx context.Context, fn func(repos appcheckout.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormCheckoutRepositories{tx: tx}
		return fn(repos)
	})
}

// gormCheckoutRepositories provides the checkout repositories scoped to one transaction
type gormCheckoutRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormCheckoutRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormCheckoutRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// CartRepo returns the cart repository scoped to the current transaction
func (r *gormCheckoutRepositories) CartRepo() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

// Ensure GormCheckoutTransactionScope implements TransactionScope
var _ appcheckout.TransactionScope = (*GormCheckoutTransactionScope)(nil)

// Ensure gormCheckoutRepositories implements TransactionalRepositories
var _ appcheckout.TransactionalRepositories = (*gormCheckoutRepositories)(nil)
