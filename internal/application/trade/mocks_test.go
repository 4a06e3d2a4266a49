package trade

import (
	"context"
	"time"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/partner"
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*trade.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]trade.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

// MockProducerOrderRepository is a mock implementation of ProducerOrderRepository
type MockProducerOrderRepository struct {
	mock.Mock
}

func (m *MockProducerOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ProducerOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ProducerOrder), args.Error(1)
}

func (m *MockProducerOrderRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]trade.ProducerOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.ProducerOrder), args.Error(1)
}

func (m *MockProducerOrderRepository) FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]trade.ProducerOrder, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.ProducerOrder), args.Error(1)
}

func (m *MockProducerOrderRepository) FindByProducer(ctx context.Context, producerID uuid.UUID, filter trade.ProducerOrderFilter) ([]trade.ProducerOrder, error) {
	args := m.Called(ctx, producerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.ProducerOrder), args.Error(1)
}

func (m *MockProducerOrderRepository) CreateBatch(ctx context.Context, orders []*trade.ProducerOrder) error {
	return m.Called(ctx, orders).Error(0)
}

func (m *MockProducerOrderRepository) SaveWithLock(ctx context.Context, po *trade.ProducerOrder) error {
	return m.Called(ctx, po).Error(0)
}

func (m *MockProducerOrderRepository) GenerateOrderNumber(ctx context.Context, day time.Time, producerID uuid.UUID) (string, error) {
	args := m.Called(ctx, day, producerID)
	return args.String(0), args.Error(1)
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Article, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *MockArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	return m.Called(ctx, article).Error(0)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

// MockLocker is a mock implementation of shared.Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.Unlocker, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(shared.Unlocker), args.Error(1)
}

// MockUnlocker is a mock implementation of shared.Unlocker
type MockUnlocker struct {
	mock.Mock
}

func (m *MockUnlocker) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) OrderPlaced(ctx context.Context, order *trade.Order, producerOrders int) {
	m.Called(ctx, order, producerOrders)
}

func (m *MockMetrics) CheckoutRejected(ctx context.Context, reason string) {
	m.Called(ctx, reason)
}

func (m *MockMetrics) OrderCancelled(ctx context.Context, order *trade.Order) {
	m.Called(ctx, order)
}

func (m *MockMetrics) ProducerOrderTransitioned(ctx context.Context, from, to trade.ProducerOrderStatus) {
	m.Called(ctx, from, to)
}

// MockPackingSlipRenderer is a mock implementation of PackingSlipRenderer
type MockPackingSlipRenderer struct {
	mock.Mock
}

func (m *MockPackingSlipRenderer) RenderPackingSlip(ctx context.Context, slip PackingSlip) ([]byte, error) {
	args := m.Called(ctx, slip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
