package trade

import (
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Pricing defaults used when no configuration overrides them
var (
	DefaultTaxRate               = decimal.RequireFromString("0.21")
	DefaultShippingFee           = decimal.RequireFromString("4.95")
	DefaultFreeShippingThreshold = decimal.NewFromInt(50)
)

// PricingPolicy computes tax and shipping for a basket subtotal
type PricingPolicy struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// Totals is the monetary breakdown of a cart or order
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// DefaultPricingPolicy returns VAT 21% with a flat shipping fee waived above 50
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:               DefaultTaxRate,
		ShippingFee:           DefaultShippingFee,
		FreeShippingThreshold: DefaultFreeShippingThreshold,
	}
}

// NewPricingPolicy validates and builds a pricing policy
func NewPricingPolicy(taxRate, shippingFee, freeShippingThreshold decimal.Decimal) (PricingPolicy, error) {
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return PricingPolicy{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be in [0, 1)")
	}
	if shippingFee.IsNegative() {
		return PricingPolicy{}, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}
	if freeShippingThreshold.IsNegative() {
		return PricingPolicy{}, shared.NewDomainError("INVALID_SHIPPING_THRESHOLD", "Free shipping threshold cannot be negative")
	}
	return PricingPolicy{
		TaxRate:               taxRate,
		ShippingFee:           shippingFee,
		FreeShippingThreshold: freeShippingThreshold,
	}, nil
}

// Quote computes the totals for subtotal. An empty basket (zero subtotal) costs nothing.
func (p PricingPolicy) Quote(subtotal decimal.Decimal) Totals {
	if subtotal.IsZero() {
		return Totals{Subtotal: decimal.Zero, Tax: decimal.Zero, Shipping: decimal.Zero, Total: decimal.Zero}
	}
	tax := subtotal.Mul(p.TaxRate).Round(2)
	shipping := p.ShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
