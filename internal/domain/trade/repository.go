package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindActiveByCustomer returns the customer's non-finalized cart or ErrNoActiveCart
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*Cart, error)

	// FindByID returns ErrCartNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// Save creates the cart or, for an existing cart, writes it under a
	// version check and replaces its items. A stale version yields
	// shared.ErrConcurrencyConflict.
	Save(ctx context.Context, cart *Cart) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID returns ErrOrderNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads the order and locks its row until the surrounding
	// transaction ends, serializing status rollups for one order
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCustomer lists a customer's orders, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)

	// Create inserts a new order with its lines
	Create(ctx context.Context, order *Order) error

	// SaveWithLock updates status fields under a version check.
	// Lines are never rewritten.
	SaveWithLock(ctx context.Context, order *Order) error

	// ExistsByOrderNumber checks if an order number is taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// GenerateOrderNumber returns an unused PED-YYYYMMDD-NNNN for day
	GenerateOrderNumber(ctx context.Context, day time.Time) (string, error)
}

// ProducerOrderFilter narrows producer order listings
type ProducerOrderFilter struct {
	Status *ProducerOrderStatus
}

// ProducerOrderRepository defines the interface for producer order persistence
type ProducerOrderRepository interface {
	// FindByID returns ErrProducerOrderNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*ProducerOrder, error)

	// FindByOrder lists the producer orders of an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ProducerOrder, error)

	// FindByOrders lists the producer orders of several orders
	FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]ProducerOrder, error)

	// FindByProducer lists a producer's orders, newest first
	FindByProducer(ctx context.Context, producerID uuid.UUID, filter ProducerOrderFilter) ([]ProducerOrder, error)

	// CreateBatch inserts producer orders with their lines
	CreateBatch(ctx context.Context, orders []*ProducerOrder) error

	// SaveWithLock updates status and notes under a version check
	SaveWithLock(ctx context.Context, po *ProducerOrder) error

	// GenerateOrderNumber returns an unused OVP-YYYYMMDD-<producerId>-NNNN
	GenerateOrderNumber(ctx context.Context, day time.Time, producerID uuid.UUID) (string, error)
}
