package handler

import (
	"context"

	tradeapp "github.com/cosecha/backend/internal/application/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) cart(args mock.Arguments) (*tradeapp.CartResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.CartResponse), args.Error(1)
}

func (m *mockCartService) View(ctx context.Context, customerID uuid.UUID) (*tradeapp.CartResponse, error) {
	return m.cart(m.Called(ctx, customerID))
}

func (m *mockCartService) AddItem(ctx context.Context, customerID uuid.UUID, req tradeapp.AddCartItemRequest) (*tradeapp.CartResponse, error) {
	return m.cart(m.Called(ctx, customerID, req))
}

func (m *mockCartService) DecrementItem(ctx context.Context, customerID, articleID uuid.UUID) (*tradeapp.CartResponse, error) {
	return m.cart(m.Called(ctx, customerID, articleID))
}

func (m *mockCartService) Clear(ctx context.Context, customerID uuid.UUID) (*tradeapp.CartResponse, error) {
	return m.cart(m.Called(ctx, customerID))
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) order(args mock.Arguments) (*tradeapp.OrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req tradeapp.CreateOrderRequest) (*tradeapp.OrderResponse, error) {
	return m.order(m.Called(ctx, customerID, req))
}

func (m *mockOrderService) ListOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]tradeapp.OrderResponse, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tradeapp.OrderResponse), args.Error(1)
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*tradeapp.OrderResponse, error) {
	return m.order(m.Called(ctx, customerID, orderID))
}

func (m *mockOrderService) CancelOrder(ctx context.Context, customerID, orderID uuid.UUID, req tradeapp.CancelOrderRequest) (*tradeapp.OrderResponse, error) {
	return m.order(m.Called(ctx, customerID, orderID, req))
}

type mockProducerOrderService struct {
	mock.Mock
}

func (m *mockProducerOrderService) producerOrder(args mock.Arguments) (*tradeapp.ProducerOrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.ProducerOrderResponse), args.Error(1)
}

func (m *mockProducerOrderService) UpdateStatus(ctx context.Context, producerID, id uuid.UUID, req tradeapp.UpdateProducerOrderStatusRequest) (*tradeapp.ProducerOrderResponse, error) {
	return m.producerOrder(m.Called(ctx, producerID, id, req))
}

func (m *mockProducerOrderService) ListForProducer(ctx context.Context, producerID uuid.UUID, filter tradeapp.ProducerOrderListFilter) ([]tradeapp.ProducerOrderResponse, error) {
	args := m.Called(ctx, producerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tradeapp.ProducerOrderResponse), args.Error(1)
}

func (m *mockProducerOrderService) Get(ctx context.Context, producerID, id uuid.UUID) (*tradeapp.ProducerOrderResponse, error) {
	return m.producerOrder(m.Called(ctx, producerID, id))
}

func (m *mockProducerOrderService) PackingSlip(ctx context.Context, producerID, id uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, producerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
