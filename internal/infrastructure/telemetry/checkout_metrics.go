package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/cosecha/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CheckoutMetrics records checkout and fulfillment metrics.
// Counters are updated from the trade services; gauges are refreshed
// periodically from a TradeStatsProvider.
type CheckoutMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	ordersPlacedTotal      *Counter
	orderAmountTotal       *Counter
	producerOrdersTotal    *Counter
	checkoutRejectedTotal  *Counter
	ordersCancelledTotal   *Counter
	producerTransitions    *Counter
	orderTotalDistribution *Histogram

	activeCarts          *Gauge
	outOfStockArticles   *Gauge
	producerOrdersByStat *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	statsProvider TradeStatsProvider
}

// TradeStatsProvider supplies point-in-time counts for the gauge metrics
type TradeStatsProvider interface {
	CountActiveCarts(ctx context.Context) (int64, error)
	CountOutOfStockArticles(ctx context.Context) (int64, error)
	CountProducerOrdersByStatus(ctx context.Context) (map[trade.ProducerOrderStatus]int64, error)
}

// CheckoutMetricsConfig holds configuration for checkout metrics.
type CheckoutMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StatsProvider TradeStatsProvider
}

// Attribute keys used by checkout metrics
var (
	AttrPaymentMethod = attribute.Key("payment_method")
	AttrReason        = attribute.Key("reason")
	AttrFromStatus    = attribute.Key("from_status")
	AttrToStatus      = attribute.Key("to_status")
	AttrStatus        = attribute.Key("status")
)

// OrderTotalBuckets are bucket boundaries for order totals in euros.
var OrderTotalBuckets = []float64{5, 10, 20, 35, 50, 75, 100, 150, 250, 500}

// NewCheckoutMetrics creates a new CheckoutMetrics instance.
func NewCheckoutMetrics(cfg CheckoutMetricsConfig) (*CheckoutMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CheckoutMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		statsProvider: cfg.StatsProvider,
	}

	counters := []struct {
		dst               **Counter
		name, desc, unit string
	}{
		{&cm.ordersPlacedTotal, "cosecha_orders_placed_total", "Total number of orders placed", "{orders}"},
		{&cm.orderAmountTotal, "cosecha_order_amount_total", "Total order amount in cents", "{cents}"},
		{&cm.producerOrdersTotal, "cosecha_producer_orders_created_total", "Total number of producer sub-orders created at checkout", "{orders}"},
		{&cm.checkoutRejectedTotal, "cosecha_checkout_rejected_total", "Total number of rejected checkouts by error code", "{checkouts}"},
		{&cm.ordersCancelledTotal, "cosecha_orders_cancelled_total", "Total number of orders cancelled by customers", "{orders}"},
		{&cm.producerTransitions, "cosecha_producer_order_transitions_total", "Total number of producer sub-order status changes", "{transitions}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	cm.orderTotalDistribution, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "cosecha_order_total",
		Description: "Distribution of order totals",
		Unit:        "EUR",
		Boundaries:  OrderTotalBuckets,
	})
	if err != nil {
		return nil, err
	}

	gauges := []struct {
		dst               **Gauge
		name, desc, unit string
	}{
		{&cm.activeCarts, "cosecha_active_carts", "Current number of active carts", "{carts}"},
		{&cm.outOfStockArticles, "cosecha_out_of_stock_articles", "Current number of articles with no stock", "{articles}"},
		{&cm.producerOrdersByStat, "cosecha_producer_orders", "Current number of producer sub-orders per status", "{orders}"},
	}
	for _, g := range gauges {
		gauge, err := NewGauge(cfg.Meter, g.name, g.desc, g.unit)
		if err != nil {
			return nil, err
		}
		*g.dst = gauge
	}

	return cm, nil
}

// OrderPlaced records a successful checkout.
func (cm *CheckoutMetrics) OrderPlaced(ctx context.Context, order *trade.Order, producerOrders int) {
	method := AttrPaymentMethod.String(string(order.PaymentMethod))
	cm.ordersPlacedTotal.Inc(ctx, method)
	cm.orderAmountTotal.Add(ctx, order.Total.Shift(2).Round(0).IntPart(), method)
	cm.producerOrdersTotal.Add(ctx, int64(producerOrders))
	total, _ := order.Total.Float64()
	cm.orderTotalDistribution.Record(ctx, total, method)
}

// CheckoutRejected records a checkout that failed with a domain error code.
func (cm *CheckoutMetrics) CheckoutRejected(ctx context.Context, reason string) {
	cm.checkoutRejectedTotal.Inc(ctx, AttrReason.String(reason))
}

// OrderCancelled records a customer cancellation.
func (cm *CheckoutMetrics) OrderCancelled(ctx context.Context, order *trade.Order) {
	cm.ordersCancelledTotal.Inc(ctx, AttrPaymentMethod.String(string(order.PaymentMethod)))
}

// ProducerOrderTransitioned records a sub-order status change.
func (cm *CheckoutMetrics) ProducerOrderTransitioned(ctx context.Context, from, to trade.ProducerOrderStatus) {
	cm.producerTransitions.Inc(ctx,
		AttrFromStatus.String(string(from)),
		AttrToStatus.String(string(to)),
	)
}

// StartPeriodicCollection refreshes the gauge metrics every interval
// (default: 1 minute). It is non-blocking; use Stop to end collection.
func (cm *CheckoutMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	cm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go cm.runPeriodicCollection(ctx, interval)
	})
}

func (cm *CheckoutMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cm.collect(ctx)

	for {
		select {
		case <-cm.stopChan:
			cm.logger.Info("Stopping periodic checkout metrics collection")
			return
		case <-ctx.Done():
			cm.logger.Info("Context cancelled, stopping periodic checkout metrics collection")
			return
		case <-ticker.C:
			cm.collect(ctx)
		}
	}
}

func (cm *CheckoutMetrics) collect(ctx context.Context) {
	if cm.statsProvider == nil {
		cm.logger.Debug("No stats provider configured, skipping gauge collection")
		return
	}

	if n, err := cm.statsProvider.CountActiveCarts(ctx); err != nil {
		cm.logger.Warn("Failed to count active carts", zap.Error(err))
	} else {
		cm.activeCarts.Record(ctx, n)
	}

	if n, err := cm.statsProvider.CountOutOfStockArticles(ctx); err != nil {
		cm.logger.Warn("Failed to count out-of-stock articles", zap.Error(err))
	} else {
		cm.outOfStockArticles.Record(ctx, n)
	}

	byStatus, err := cm.statsProvider.CountProducerOrdersByStatus(ctx)
	if err != nil {
		cm.logger.Warn("Failed to count producer orders", zap.Error(err))
		return
	}
	for status, n := range byStatus {
		cm.producerOrdersByStat.Record(ctx, n, AttrStatus.String(string(status)))
	}
}

// Stop stops the periodic collection.
func (cm *CheckoutMetrics) Stop() {
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewCheckoutMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
