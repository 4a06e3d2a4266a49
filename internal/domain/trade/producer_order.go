package trade

import (
	"strings"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProducerOrderStatus is the fulfillment status of one producer's part of an order
type ProducerOrderStatus string

const (
	ProducerOrderStatusPending   ProducerOrderStatus = "PENDING"
	ProducerOrderStatusInProcess ProducerOrderStatus = "IN_PROCESS"
	ProducerOrderStatusShipped   ProducerOrderStatus = "SHIPPED"
	ProducerOrderStatusDelivered ProducerOrderStatus = "DELIVERED"
	ProducerOrderStatusCancelled ProducerOrderStatus = "CANCELLED"
)

// AllProducerOrderStatuses lists every status in lifecycle order
var AllProducerOrderStatuses = []ProducerOrderStatus{
	ProducerOrderStatusPending,
	ProducerOrderStatusInProcess,
	ProducerOrderStatusShipped,
	ProducerOrderStatusDelivered,
	ProducerOrderStatusCancelled,
}

// IsValid checks if the status is a valid ProducerOrderStatus
func (s ProducerOrderStatus) IsValid() bool {
	switch s {
	case ProducerOrderStatusPending, ProducerOrderStatusInProcess, ProducerOrderStatusShipped,
		ProducerOrderStatusDelivered, ProducerOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProducerOrderStatus
func (s ProducerOrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s ProducerOrderStatus) IsTerminal() bool {
	return s == ProducerOrderStatusDelivered || s == ProducerOrderStatusCancelled
}

// CanTransitionTo checks the fulfillment transition table
func (s ProducerOrderStatus) CanTransitionTo(target ProducerOrderStatus) bool {
	switch s {
	case ProducerOrderStatusPending:
		return target == ProducerOrderStatusInProcess || target == ProducerOrderStatusCancelled
	case ProducerOrderStatusInProcess:
		return target == ProducerOrderStatusShipped || target == ProducerOrderStatusCancelled
	case ProducerOrderStatusShipped:
		return target == ProducerOrderStatusDelivered
	case ProducerOrderStatusDelivered, ProducerOrderStatusCancelled:
		return false
	}
	return false
}

// ProducerOrderLine is a copy of an order line owned by a producer order
type ProducerOrderLine struct {
	ID              uuid.UUID
	ProducerOrderID uuid.UUID
	OrderLineID     uuid.UUID
	ArticleID       uuid.UUID
	ArticleName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	LineTotal       decimal.Decimal
}

// ProducerOrder is the part of an order fulfilled by a single producer.
// It references its order and producer by id and has its own lifecycle.
type ProducerOrder struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID
	ProducerID      uuid.UUID
	OrderNumber     string
	Status          ProducerOrderStatus
	Lines           []ProducerOrderLine
	Subtotal        decimal.Decimal
	Notes           string
	StatusUpdatedAt time.Time
}

// NewProducerOrder creates a PENDING producer order from a group of order lines.
// Lines are copied; the subtotal is recomputed from unit price and quantity.
func NewProducerOrder(orderID, producerID uuid.UUID, orderNumber string, lines []OrderLine) (*ProducerOrder, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if producerID == uuid.Nil {
		return nil, ErrUnassignedProducer
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Producer order needs at least one line")
	}

	po := &ProducerOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		ProducerID:        producerID,
		OrderNumber:       orderNumber,
		Status:            ProducerOrderStatusPending,
		Lines:             make([]ProducerOrderLine, 0, len(lines)),
		Subtotal:          decimal.Zero,
	}
	po.StatusUpdatedAt = po.CreatedAt

	for _, line := range lines {
		total := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		po.Lines = append(po.Lines, ProducerOrderLine{
			ID:              uuid.New(),
			ProducerOrderID: po.ID,
			OrderLineID:     line.ID,
			ArticleID:       line.ArticleID,
			ArticleName:     line.ArticleName,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineTotal:       total,
		})
		po.Subtotal = po.Subtotal.Add(total)
	}

	po.AddDomainEvent(NewProducerOrderCreatedEvent(po))
	return po, nil
}

// EnsureOwnedBy fails with FORBIDDEN when producerID is not the owner
func (p *ProducerOrder) EnsureOwnedBy(producerID uuid.UUID) error {
	if p.ProducerID != producerID {
		return shared.ErrForbidden
	}
	return nil
}

// TransitionTo moves the producer order to target and appends note.
// The status and notes are left untouched when the transition is not allowed.
func (p *ProducerOrder) TransitionTo(target ProducerOrderStatus, note string) error {
	if !target.IsValid() || !p.Status.CanTransitionTo(target) {
		return NewInvalidTransitionError(p.Status.String(), target.String())
	}

	previous := p.Status
	now := time.Now()
	p.Status = target
	p.StatusUpdatedAt = now
	p.UpdatedAt = now
	p.AppendNote(note)

	p.AddDomainEvent(NewProducerOrderStatusChangedEvent(p, previous))
	return nil
}

// AppendNote adds a line to the notes; blank notes are ignored
func (p *ProducerOrder) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if p.Notes == "" {
		p.Notes = note
		return
	}
	p.Notes = p.Notes + "\n" + note
}

// TotalQuantity returns the number of units in the producer order
func (p *ProducerOrder) TotalQuantity() int {
	total := 0
	for _, line := range p.Lines {
		total += line.Quantity
	}
	return total
}

// Statuses extracts the status of each producer order
func Statuses(orders []ProducerOrder) []ProducerOrderStatus {
	statuses := make([]ProducerOrderStatus, len(orders))
	for i, po := range orders {
		statuses[i] = po.Status
	}
	return statuses
}
