package partner

import (
	"context"
	"testing"

	"github.com/cosecha/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type MockProducerRepository struct {
	mock.Mock
}

func (m *MockProducerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Producer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Producer), args.Error(1)
}

func (m *MockProducerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Producer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Producer), args.Error(1)
}

func (m *MockProducerRepository) Save(ctx context.Context, producer *partner.Producer) error {
	return m.Called(ctx, producer).Error(0)
}

func TestIdentityResolver(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("resolves customer", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		c, err := partner.NewCustomer(userID, "Lucía", "")
		require.NoError(t, err)
		customers.On("FindByUserID", ctx, userID).Return(c, nil)

		id, err := NewIdentityResolver(customers, new(MockProducerRepository)).ResolveCustomer(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, id)
		customers.AssertExpectations(t)
	})

	t.Run("customer missing", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		customers.On("FindByUserID", ctx, userID).Return(nil, partner.ErrCustomerNotFound)

		id, err := NewIdentityResolver(customers, new(MockProducerRepository)).ResolveCustomer(ctx, userID)
		assert.ErrorIs(t, err, partner.ErrCustomerNotFound)
		assert.Equal(t, uuid.Nil, id)
	})

	t.Run("resolves producer", func(t *testing.T) {
		producers := new(MockProducerRepository)
		p, err := partner.NewProducer(userID, "Huerta", "")
		require.NoError(t, err)
		producers.On("FindByUserID", ctx, userID).Return(p, nil)

		id, err := NewIdentityResolver(new(MockCustomerRepository), producers).ResolveProducer(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, id)
	})
}
