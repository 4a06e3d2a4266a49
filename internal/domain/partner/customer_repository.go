package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer profile persistence
type CustomerRepository interface {
	// FindByID returns ErrCustomerNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByUserID resolves the profile of an authenticated user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}

// ProducerRepository defines the interface for producer profile persistence
type ProducerRepository interface {
	// FindByID returns ErrProducerNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Producer, error)

	// FindByUserID resolves the profile of an authenticated user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Producer, error)

	// Save creates or updates a producer
	Save(ctx context.Context, producer *Producer) error
}
