package trade

import (
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder         = "Order"
	AggregateTypeProducerOrder = "ProducerOrder"
)

// Event type constants
const (
	EventTypeOrderPlaced                = "OrderPlaced"
	EventTypeOrderStatusChanged         = "OrderStatusChanged"
	EventTypeOrderCancelled             = "OrderCancelled"
	EventTypeProducerOrderCreated       = "ProducerOrderCreated"
	EventTypeProducerOrderStatusChanged = "ProducerOrderStatusChanged"
)

// OrderPlacedEvent is raised when a cart is checked out
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	LineCount     int             `json:"line_count"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		LineCount:       len(order.Lines),
		Total:           order.Total,
		PaymentMethod:   order.PaymentMethod,
	}
}

// OrderStatusChangedEvent is raised when the rolled-up order status changes
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		From:            from,
		To:              order.Status,
	}
}

// OrderCancelledEvent is raised when a customer cancels an order
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	From        OrderStatus `json:"from"`
	Reason      string      `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, from OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		From:            from,
		Reason:          order.CancelReason,
	}
}

// ProducerOrderCreatedEvent is raised for every producer order produced by a split
type ProducerOrderCreatedEvent struct {
	shared.BaseDomainEvent
	ProducerOrderID uuid.UUID       `json:"producer_order_id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProducerID      uuid.UUID       `json:"producer_id"`
	OrderNumber     string          `json:"order_number"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// NewProducerOrderCreatedEvent creates a new ProducerOrderCreatedEvent
func NewProducerOrderCreatedEvent(po *ProducerOrder) *ProducerOrderCreatedEvent {
	return &ProducerOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProducerOrderCreated, AggregateTypeProducerOrder, po.ID),
		ProducerOrderID: po.ID,
		OrderID:         po.OrderID,
		ProducerID:      po.ProducerID,
		OrderNumber:     po.OrderNumber,
		Subtotal:        po.Subtotal,
	}
}

// ProducerOrderStatusChangedEvent is raised when a producer moves its order forward
type ProducerOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProducerOrderID uuid.UUID           `json:"producer_order_id"`
	OrderID         uuid.UUID           `json:"order_id"`
	ProducerID      uuid.UUID           `json:"producer_id"`
	OrderNumber     string              `json:"order_number"`
	From            ProducerOrderStatus `json:"from"`
	To              ProducerOrderStatus `json:"to"`
}

// NewProducerOrderStatusChangedEvent creates a new ProducerOrderStatusChangedEvent
func NewProducerOrderStatusChangedEvent(po *ProducerOrder, from ProducerOrderStatus) *ProducerOrderStatusChangedEvent {
	return &ProducerOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProducerOrderStatusChanged, AggregateTypeProducerOrder, po.ID),
		ProducerOrderID: po.ID,
		OrderID:         po.OrderID,
		ProducerID:      po.ProducerID,
		OrderNumber:     po.OrderNumber,
		From:            from,
		To:              po.Status,
	}
}
