package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/partner"
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService turns carts into orders and serves the customer's order history
type OrderService struct {
	txScope           TransactionScope
	customerRepo      partner.CustomerRepository
	orderRepo         trade.OrderRepository
	producerOrderRepo trade.ProducerOrderRepository
	locker            shared.Locker
	idempotency       shared.IdempotencyStore
	eventPublisher    shared.EventPublisher
	metrics           Metrics
	opts              CheckoutOptions
	logger            *zap.Logger
}

// OrderServiceOption is a functional option for configuring the service
type OrderServiceOption func(*OrderService)

// WithOrderLocker serializes checkout with the customer's cart operations
func WithOrderLocker(locker shared.Locker) OrderServiceOption {
	return func(s *OrderService) {
		s.locker = locker
	}
}

// WithIdempotencyStore enables Idempotency-Key handling on checkout
func WithIdempotencyStore(store shared.IdempotencyStore) OrderServiceOption {
	return func(s *OrderService) {
		s.idempotency = store
	}
}

// WithOrderEventPublisher publishes order events after commit
func WithOrderEventPublisher(publisher shared.EventPublisher) OrderServiceOption {
	return func(s *OrderService) {
		s.eventPublisher = publisher
	}
}

// WithOrderMetrics records checkout metrics
func WithOrderMetrics(metrics Metrics) OrderServiceOption {
	return func(s *OrderService) {
		s.metrics = metrics
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	customerRepo partner.CustomerRepository,
	orderRepo trade.OrderRepository,
	producerOrderRepo trade.ProducerOrderRepository,
	opts CheckoutOptions,
	logger *zap.Logger,
	options ...OrderServiceOption,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OrderService{
		txScope:           txScope,
		customerRepo:      customerRepo,
		orderRepo:         orderRepo,
		producerOrderRepo: producerOrderRepo,
		metrics:           noopMetrics{},
		opts:              opts,
		logger:            logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// CreateOrder checks out the customer's active cart.
//
// Preconditions are checked in this order, each failing with its own error:
// profile completeness, active non-empty cart, stock for every line, producer
// assignment. Nothing is written until all of them pass. Stock debits, cart
// finalization, the order and its producer orders are then written in one
// transaction.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req CreateOrderRequest) (resp *OrderResponse, err error) {
	defer func() {
		if err != nil {
			s.metrics.CheckoutRejected(ctx, errorCode(err))
		}
	}()

	method, err := trade.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.EnsureCanOrder(); err != nil {
		return nil, err
	}

	var (
		order          *trade.Order
		producerOrders []*trade.ProducerOrder
		idemKey        string
	)
	err = withLock(ctx, s.locker, cartLockKey(customerID), s.opts.CartLockTTL, s.logger, func() error {
		if req.IdempotencyKey != "" && s.idempotency != nil {
			idemKey = checkoutIdempotencyKey(customerID, req.IdempotencyKey)
			processed, err := s.idempotency.IsProcessed(ctx, idemKey)
			if err != nil {
				return fmt.Errorf("failed to check idempotency key: %w", err)
			}
			if processed {
				return shared.ErrDuplicateRequest
			}
		}

		var txErr error
		order, producerOrders, txErr = s.checkoutWithRetry(ctx, customerID, method)
		if txErr != nil {
			return txErr
		}

		// Recorded before the lock is released so a replay waiting on it sees the key.
		if idemKey != "" {
			if _, err := s.idempotency.MarkProcessed(ctx, idemKey, s.opts.IdempotencyTTL); err != nil {
				s.logger.Warn("failed to record checkout idempotency key",
					zap.String("customer_id", customerID.String()),
					zap.Error(err),
				)
			}
		}
		return nil
	})
	if err != nil {
		s.logCheckoutFailure(customerID, err)
		return nil, err
	}

	sources := []shared.EventSource{order}
	for _, po := range producerOrders {
		sources = append(sources, po)
	}
	events := shared.CollectEvents(sources...)
	s.publish(ctx, events)
	s.metrics.OrderPlaced(ctx, order, len(producerOrders))

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", customerID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.Int("producer_orders", len(producerOrders)),
		zap.String("total", order.Total.String()),
	)

	pos := make([]trade.ProducerOrder, len(producerOrders))
	for i, po := range producerOrders {
		pos[i] = *po
	}
	response := ToOrderResponse(order, pos)
	return &response, nil
}

// checkoutAttempts bounds how often a checkout transaction is replayed after
// losing an order number to a concurrent checkout on the same day.
const checkoutAttempts = 3

func (s *OrderService) checkoutWithRetry(ctx context.Context, customerID uuid.UUID, method trade.PaymentMethod) (order *trade.Order, producerOrders []*trade.ProducerOrder, err error) {
	for attempt := 1; ; attempt++ {
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var txErr error
			order, producerOrders, txErr = s.checkout(ctx, repos, customerID, method)
			return txErr
		})
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) || attempt == checkoutAttempts {
			return order, producerOrders, err
		}
		s.logger.Info("checkout conflicted with a concurrent write, retrying",
			zap.String("customer_id", customerID.String()),
			zap.Int("attempt", attempt),
		)
	}
}

func (s *OrderService) checkout(ctx context.Context, repos TransactionalRepositories, customerID uuid.UUID, method trade.PaymentMethod) (*trade.Order, []*trade.ProducerOrder, error) {
	cart, err := repos.CartRepo().FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if cart.IsEmpty() {
		return nil, nil, trade.ErrEmptyCart
	}

	articles, err := repos.ArticleRepo().FindByIDs(ctx, cart.ArticleIDs())
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Article, len(articles))
	for i := range articles {
		byID[articles[i].ID] = &articles[i]
	}

	var orphans []string
	for i := range cart.Items {
		item := &cart.Items[i]
		article, ok := byID[item.ArticleID]
		if !ok {
			return nil, nil, catalog.ErrArticleNotFound.
				WithDetail("article_id", item.ArticleID.String()).
				WithDetail("article_name", item.ArticleName)
		}
		if err := article.EnsureAvailable(item.Quantity); err != nil {
			return nil, nil, err
		}
		// Sub-orders follow the article's current producer, not the one seen when the line was added.
		item.ProducerID = nil
		if article.HasProducer() {
			producerID := *article.ProducerID
			item.ProducerID = &producerID
		} else {
			orphans = append(orphans, article.Name)
		}
	}
	if len(orphans) > 0 {
		if s.opts.OrphanPolicy != OrphanPolicySkip {
			return nil, nil, shared.NewDomainErrorf(trade.ErrUnassignedProducer.Code,
				"No producer is assigned to: %s", strings.Join(orphans, ", ")).
				WithDetail("articles", orphans)
		}
		s.logger.Warn("checkout contains articles without producer; they will not be part of any producer order",
			zap.String("customer_id", customerID.String()),
			zap.Strings("articles", orphans),
		)
	}

	cart.Reprice(s.opts.Pricing)
	now := s.opts.now()

	orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx, now)
	if err != nil {
		return nil, nil, err
	}
	order, err := trade.NewOrderFromCart(cart, orderNumber, method)
	if err != nil {
		return nil, nil, err
	}

	for _, line := range order.Lines {
		if err := repos.ArticleRepo().AdjustStock(ctx, line.ArticleID, -line.Quantity); err != nil {
			return nil, nil, err
		}
	}

	producerOrders, err := trade.BuildProducerOrders(order, trade.SplitByProducer(order.Lines),
		func(producerID uuid.UUID) (string, error) {
			return repos.ProducerOrderRepo().GenerateOrderNumber(ctx, now, producerID)
		})
	if err != nil {
		return nil, nil, err
	}

	if err := cart.Finalize(); err != nil {
		return nil, nil, err
	}
	if err := repos.CartRepo().Save(ctx, cart); err != nil {
		return nil, nil, err
	}
	if err := repos.OrderRepo().Create(ctx, order); err != nil {
		return nil, nil, err
	}
	if len(producerOrders) > 0 {
		if err := repos.ProducerOrderRepo().CreateBatch(ctx, producerOrders); err != nil {
			return nil, nil, err
		}
	}
	return order, producerOrders, nil
}

// ListOrdersForCustomer returns the customer's orders, newest first
func (s *OrderService) ListOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []OrderResponse{}, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	producerOrders, err := s.producerOrderRepo.FindByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]trade.ProducerOrder)
	for _, po := range producerOrders {
		byOrder[po.OrderID] = append(byOrder[po.OrderID], po)
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i], byOrder[orders[i].ID])
	}
	return responses, nil
}

// GetOrderByID returns one of the customer's orders. Orders of other customers
// are reported as not found.
func (s *OrderService) GetOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(customerID) {
		return nil, trade.ErrOrderNotFound
	}
	producerOrders, err := s.producerOrderRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order, producerOrders)
	return &response, nil
}

// CancelOrder cancels a PENDING or CONFIRMED order, cancels its open producer
// orders and returns every ordered unit to stock.
func (s *OrderService) CancelOrder(ctx context.Context, customerID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	var (
		order          *trade.Order
		producerOrders []trade.ProducerOrder
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.IsOwnedBy(customerID) {
			return trade.ErrOrderNotFound
		}
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}

		producerOrders, err = repos.ProducerOrderRepo().FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		for i := range producerOrders {
			po := &producerOrders[i]
			if po.Status == trade.ProducerOrderStatusCancelled {
				continue
			}
			if err := po.TransitionTo(trade.ProducerOrderStatusCancelled, "Order cancelled by customer: "+order.CancelReason); err != nil {
				return err
			}
			if err := repos.ProducerOrderRepo().SaveWithLock(ctx, po); err != nil {
				return err
			}
		}

		for _, line := range order.Lines {
			if err := repos.ArticleRepo().AdjustStock(ctx, line.ArticleID, line.Quantity); err != nil {
				return err
			}
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	sources := []shared.EventSource{order}
	for i := range producerOrders {
		sources = append(sources, &producerOrders[i])
	}
	events := shared.CollectEvents(sources...)
	s.publish(ctx, events)
	s.metrics.OrderCancelled(ctx, order)

	s.logger.Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", customerID.String()),
	)
	response := ToOrderResponse(order, producerOrders)
	return &response, nil
}

func (s *OrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events", zap.Error(err))
	}
}

func (s *OrderService) logCheckoutFailure(customerID uuid.UUID, err error) {
	if _, ok := shared.AsDomainError(err); ok {
		s.logger.Info("checkout rejected",
			zap.String("customer_id", customerID.String()),
			zap.String("reason", errorCode(err)),
		)
		return
	}
	s.logger.Error("checkout failed",
		zap.String("customer_id", customerID.String()),
		zap.Error(err),
	)
}

// errorCode returns the domain code of err, or INTERNAL for anything else
func errorCode(err error) string {
	if de, ok := shared.AsDomainError(err); ok {
		return de.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "CANCELED"
	}
	return "INTERNAL"
}
