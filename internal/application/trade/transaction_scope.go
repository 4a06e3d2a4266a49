package trade

import (
	"context"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/trade"
)

// TransactionScope runs checkout and fulfillment work atomically.
// Every repository obtained from TransactionalRepositories shares one database
// transaction, which is committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories taking part in checkout
type TransactionalRepositories interface {
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() trade.CartRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
	// ProducerOrderRepo returns the producer order repository scoped to the current transaction
	ProducerOrderRepo() trade.ProducerOrderRepository
	// ArticleRepo returns the article repository scoped to the current transaction
	ArticleRepo() catalog.ArticleRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in unit tests where the repositories are mocks.
type NoOpTransactionScope struct {
	cartRepo          trade.CartRepository
	orderRepo         trade.OrderRepository
	producerOrderRepo trade.ProducerOrderRepository
	articleRepo       catalog.ArticleRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	cartRepo trade.CartRepository,
	orderRepo trade.OrderRepository,
	producerOrderRepo trade.ProducerOrderRepository,
	articleRepo catalog.ArticleRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		cartRepo:          cartRepo,
		orderRepo:         orderRepo,
		producerOrderRepo: producerOrderRepo,
		articleRepo:       articleRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() trade.CartRepository { return s.cartRepo }

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository { return s.orderRepo }

// ProducerOrderRepo returns the producer order repository.
func (s *NoOpTransactionScope) ProducerOrderRepo() trade.ProducerOrderRepository {
	return s.producerOrderRepo
}

// ArticleRepo returns the article repository.
func (s *NoOpTransactionScope) ArticleRepo() catalog.ArticleRepository { return s.articleRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
