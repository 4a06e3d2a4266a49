package trade

import (
	"context"
	"strings"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PackingSlipRenderer renders a printable document for a producer order
type PackingSlipRenderer interface {
	RenderPackingSlip(ctx context.Context, slip PackingSlip) ([]byte, error)
}

// PackingSlip is the data printed on a producer's packing slip
type PackingSlip struct {
	ProducerOrder ProducerOrderResponse
	OrderNumber   string
}

// ProducerOrderService lets producers work through their part of each order
type ProducerOrderService struct {
	txScope           TransactionScope
	producerOrderRepo trade.ProducerOrderRepository
	orderRepo         trade.OrderRepository
	eventPublisher    shared.EventPublisher
	metrics           Metrics
	renderer          PackingSlipRenderer
	logger            *zap.Logger
}

// NewProducerOrderService creates a new ProducerOrderService
func NewProducerOrderService(
	txScope TransactionScope,
	producerOrderRepo trade.ProducerOrderRepository,
	orderRepo trade.OrderRepository,
	logger *zap.Logger,
) *ProducerOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProducerOrderService{
		txScope:           txScope,
		producerOrderRepo: producerOrderRepo,
		orderRepo:         orderRepo,
		metrics:           noopMetrics{},
		logger:            logger,
	}
}

// SetEventPublisher sets the event publisher for status change notifications
func (s *ProducerOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the metrics recorder
func (s *ProducerOrderService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetPackingSlipRenderer sets the renderer used by PackingSlip
func (s *ProducerOrderService) SetPackingSlipRenderer(renderer PackingSlipRenderer) {
	s.renderer = renderer
}

// UpdateStatus moves a producer order to a new status and re-derives the
// status of the parent order.
//
// The parent order row is locked first so that concurrent updates from
// different producers of the same order roll up one after another.
func (s *ProducerOrderService) UpdateStatus(ctx context.Context, producerID, producerOrderID uuid.UUID, req UpdateProducerOrderStatusRequest) (*ProducerOrderResponse, error) {
	target := trade.ProducerOrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !target.IsValid() {
		return nil, shared.NewDomainErrorf(shared.ErrInvalidInput.Code, "Unknown status %q", req.Status)
	}

	var (
		po       *trade.ProducerOrder
		order    *trade.Order
		previous trade.ProducerOrderStatus
		rolledUp bool
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		po, err = repos.ProducerOrderRepo().FindByID(ctx, producerOrderID)
		if err != nil {
			return err
		}
		if err := po.EnsureOwnedBy(producerID); err != nil {
			return err
		}

		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, po.OrderID)
		if err != nil {
			return err
		}
		// Re-read under the order lock; a concurrent update may have committed meanwhile.
		po, err = repos.ProducerOrderRepo().FindByID(ctx, producerOrderID)
		if err != nil {
			return err
		}

		previous = po.Status
		if err := po.TransitionTo(target, req.Note); err != nil {
			return err
		}
		if err := repos.ProducerOrderRepo().SaveWithLock(ctx, po); err != nil {
			return err
		}

		siblings, err := repos.ProducerOrderRepo().FindByOrder(ctx, po.OrderID)
		if err != nil {
			return err
		}
		statuses := make([]trade.ProducerOrderStatus, len(siblings))
		for i, sibling := range siblings {
			statuses[i] = sibling.Status
			if sibling.ID == po.ID {
				statuses[i] = po.Status
			}
		}

		rolledUp = order.ApplyRollup(statuses)
		if !rolledUp {
			return nil
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		if _, ok := shared.AsDomainError(err); !ok {
			s.logger.Error("failed to update producer order status",
				zap.String("producer_order_id", producerOrderID.String()),
				zap.String("producer_id", producerID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	// the rollup event, if any, follows the transition that caused it
	events := shared.CollectEvents(po, order)
	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish producer order events", zap.Error(err))
		}
	}
	s.metrics.ProducerOrderTransitioned(ctx, previous, po.Status)

	s.logger.Info("producer order status updated",
		zap.String("producer_order_id", po.ID.String()),
		zap.String("order_id", po.OrderID.String()),
		zap.String("from", previous.String()),
		zap.String("to", po.Status.String()),
		zap.String("order_status", order.Status.String()),
		zap.Bool("order_status_changed", rolledUp),
	)

	response := ToProducerOrderResponse(po)
	response.OrderStatus = order.Status.String()
	return &response, nil
}

// ListForProducer returns the producer's orders, newest first
func (s *ProducerOrderService) ListForProducer(ctx context.Context, producerID uuid.UUID, filter ProducerOrderListFilter) ([]ProducerOrderResponse, error) {
	var domainFilter trade.ProducerOrderFilter
	if filter.Status != "" {
		status := trade.ProducerOrderStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainErrorf(shared.ErrInvalidInput.Code, "Unknown status %q", filter.Status)
		}
		domainFilter.Status = &status
	}
	orders, err := s.producerOrderRepo.FindByProducer(ctx, producerID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToProducerOrderResponses(orders), nil
}

// Get returns one of the producer's orders
func (s *ProducerOrderService) Get(ctx context.Context, producerID, producerOrderID uuid.UUID) (*ProducerOrderResponse, error) {
	po, err := s.producerOrderRepo.FindByID(ctx, producerOrderID)
	if err != nil {
		return nil, err
	}
	if err := po.EnsureOwnedBy(producerID); err != nil {
		return nil, err
	}
	response := ToProducerOrderResponse(po)
	return &response, nil
}

// PackingSlip renders the packing slip PDF of one of the producer's orders
func (s *ProducerOrderService) PackingSlip(ctx context.Context, producerID, producerOrderID uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("PRINTING_UNAVAILABLE", "Packing slip printing is not configured")
	}
	po, err := s.Get(ctx, producerID, producerOrderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, po.OrderID)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPackingSlip(ctx, PackingSlip{
		ProducerOrder: *po,
		OrderNumber:   order.OrderNumber,
	})
}
