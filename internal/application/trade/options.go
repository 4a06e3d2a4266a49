package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// OrphanPolicy decides what checkout does with articles that have no producer
type OrphanPolicy string

const (
	// OrphanPolicyReject fails checkout with UNASSIGNED_PRODUCER
	OrphanPolicyReject OrphanPolicy = "reject"
	// OrphanPolicySkip keeps the line on the order but leaves it out of every producer order
	OrphanPolicySkip OrphanPolicy = "skip"
)

// ParseOrphanPolicy validates a configured policy; empty means reject
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch OrphanPolicy(s) {
	case "", OrphanPolicyReject:
		return OrphanPolicyReject, nil
	case OrphanPolicySkip:
		return OrphanPolicySkip, nil
	}
	return "", fmt.Errorf("unknown orphan policy %q (want reject or skip)", s)
}

// CheckoutOptions configures the cart and order services
type CheckoutOptions struct {
	Pricing        trade.PricingPolicy
	OrphanPolicy   OrphanPolicy
	IdempotencyTTL time.Duration
	CartLockTTL    time.Duration
	// Now returns the current time; order numbers use its date
	Now func() time.Time
}

// DefaultCheckoutOptions returns the defaults used when nothing is configured
func DefaultCheckoutOptions() CheckoutOptions {
	return CheckoutOptions{
		Pricing:        trade.DefaultPricingPolicy(),
		OrphanPolicy:   OrphanPolicyReject,
		IdempotencyTTL: 24 * time.Hour,
		CartLockTTL:    10 * time.Second,
		Now:            time.Now,
	}
}

func (o CheckoutOptions) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Metrics records checkout and fulfillment business metrics
type Metrics interface {
	OrderPlaced(ctx context.Context, order *trade.Order, producerOrders int)
	CheckoutRejected(ctx context.Context, reason string)
	OrderCancelled(ctx context.Context, order *trade.Order)
	ProducerOrderTransitioned(ctx context.Context, from, to trade.ProducerOrderStatus)
}

type noopMetrics struct{}

func (noopMetrics) OrderPlaced(context.Context, *trade.Order, int) {}
func (noopMetrics) CheckoutRejected(context.Context, string) {}
func (noopMetrics) OrderCancelled(context.Context, *trade.Order) {}
func (noopMetrics) ProducerOrderTransitioned(context.Context, trade.ProducerOrderStatus, trade.ProducerOrderStatus) {}

func cartLockKey(customerID uuid.UUID) string {
	return "cart:" + customerID.String()
}

func checkoutIdempotencyKey(customerID uuid.UUID, key string) string {
	return "checkout:" + customerID.String() + ":" + key
}
