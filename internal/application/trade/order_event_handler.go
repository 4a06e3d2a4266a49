package trade

import (
	"context"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderEventHandler writes an audit log line for every checkout and
// fulfillment event
type OrderEventHandler struct {
	logger *zap.Logger
}

// NewOrderEventHandler creates a new handler
func NewOrderEventHandler(logger *zap.Logger) *OrderEventHandler {
	return &OrderEventHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderEventHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderCancelled,
		trade.EventTypeProducerOrderCreated,
		trade.EventTypeProducerOrderStatusChanged,
	}
}

// Handle processes one event
func (h *OrderEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	}

	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		h.logger.Info("order placed", append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("total", e.Total.String()),
		)...)
	case *trade.OrderStatusChangedEvent:
		h.logger.Info("order status changed", append(fields,
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
		)...)
	case *trade.OrderCancelledEvent:
		h.logger.Info("order cancelled", append(fields, zap.String("reason", e.Reason))...)
	case *trade.ProducerOrderCreatedEvent:
		h.logger.Info("producer order created", append(fields,
			zap.String("producer_id", e.ProducerID.String()),
			zap.String("order_number", e.OrderNumber),
		)...)
	case *trade.ProducerOrderStatusChangedEvent:
		h.logger.Info("producer order status changed", append(fields,
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
		)...)
	default:
		h.logger.Debug("ignoring event", fields...)
	}
	return nil
}
