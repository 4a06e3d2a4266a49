package trade

import (
	"strings"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the customer-facing status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks the customer-facing lifecycle.
// Cancellation is only possible before preparation starts.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "CARD"
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodBizum          PaymentMethod = "BIZUM"
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodBizum, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

// ParsePaymentMethod normalizes user input such as "card" into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", ErrInvalidPaymentMethod.WithDetail("payment_method", s)
	}
	return m, nil
}

// OrderLine is an immutable line of an order
type OrderLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ArticleID   uuid.UUID
	ArticleName string
	ProducerID  *uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}

// HasProducer reports whether the line's article had a producer at checkout
func (l OrderLine) HasProducer() bool {
	return l.ProducerID != nil && *l.ProducerID != uuid.Nil
}

// Order is the snapshot of a checked-out cart.
// Lines and amounts never change after creation; Status is derived from the
// producer orders, except for customer cancellation.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	CustomerID      uuid.UUID
	CartID          uuid.UUID
	Lines           []OrderLine
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	StatusUpdatedAt time.Time
	SplitAt         *time.Time
	CancelReason    string
	CancelledAt     *time.Time
}

// NewOrderFromCart snapshots an active, non-empty cart into a PENDING order.
// The cart totals must already reflect the pricing in force.
func NewOrderFromCart(cart *Cart, orderNumber string, method PaymentMethod) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 100 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 100 characters")
	}
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod.WithDetail("payment_method", string(method))
	}
	if cart == nil || cart.Finalized {
		return nil, ErrNoActiveCart
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        cart.CustomerID,
		CartID:            cart.ID,
		Subtotal:          cart.Subtotal,
		Tax:               cart.Tax,
		Shipping:          cart.Shipping,
		Total:             cart.Total,
		PaymentMethod:     method,
		Status:            OrderStatusPending,
	}
	order.StatusUpdatedAt = order.CreatedAt

	order.Lines = make([]OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		order.Lines = append(order.Lines, OrderLine{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ArticleID:   item.ArticleID,
			ArticleName: item.ArticleName,
			ProducerID:  copyID(item.ProducerID),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			CreatedAt:   order.CreatedAt,
		})
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))
	return order, nil
}

// IsOwnedBy reports whether the order belongs to customerID
func (o *Order) IsOwnedBy(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

// IsSplit reports whether producer orders were already generated
func (o *Order) IsSplit() bool {
	return o.SplitAt != nil
}

// MarkSplit records that producer orders were generated. Splitting happens once.
func (o *Order) MarkSplit() error {
	if o.IsSplit() {
		return ErrAlreadySplit
	}
	now := time.Now()
	o.SplitAt = &now
	return nil
}

// ApplyRollup derives the status from the producer order statuses.
// It returns false, leaving the order untouched, when the derived status is unchanged.
func (o *Order) ApplyRollup(statuses []ProducerOrderStatus) bool {
	derived, ok := Rollup(statuses)
	if !ok || derived == o.Status {
		return false
	}
	previous := o.Status
	now := time.Now()
	o.Status = derived
	o.StatusUpdatedAt = now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	return true
}

// Cancel cancels the order on the customer's request
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return NewInvalidTransitionError(o.Status.String(), OrderStatusCancelled.String())
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	previous := o.Status
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.StatusUpdatedAt = now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o, previous))
	return nil
}

// TotalQuantity returns the number of units ordered
func (o *Order) TotalQuantity() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// GetLineByArticle returns the line for articleID or nil
func (o *Order) GetLineByArticle(articleID uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ArticleID == articleID {
			return &o.Lines[i]
		}
	}
	return nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
