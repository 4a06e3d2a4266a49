package partner

import (
	"context"

	"github.com/cosecha/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// IdentityResolver maps an authenticated user to the customer or producer
// profile it acts as. The HTTP layer resolves the profile once per request and
// passes the profile id into every service call.
type IdentityResolver struct {
	customers partner.CustomerRepository
	producers partner.ProducerRepository
}

// NewIdentityResolver creates a new IdentityResolver
func NewIdentityResolver(customers partner.CustomerRepository, producers partner.ProducerRepository) *IdentityResolver {
	return &IdentityResolver{customers: customers, producers: producers}
}

// ResolveCustomer returns the customer id of userID or ErrCustomerNotFound
func (r *IdentityResolver) ResolveCustomer(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	customer, err := r.customers.FindByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// ResolveProducer returns the producer id of userID or ErrProducerNotFound
func (r *IdentityResolver) ResolveProducer(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	producer, err := r.producers.FindByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return producer.ID, nil
}
