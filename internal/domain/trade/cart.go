package trade

import (
	"time"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one article line in a cart
type CartItem struct {
	ID          uuid.UUID
	CartID      uuid.UUID
	ArticleID   uuid.UUID
	ArticleName string
	ProducerID  *uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *CartItem) recalculate() {
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the mutable basket of a customer.
// A customer has at most one cart with Finalized == false; finalized carts are kept as history.
type Cart struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	Items       []CartItem
	Finalized   bool
	FinalizedAt *time.Time
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Shipping    decimal.Decimal
	Total       decimal.Decimal
}

// NewCart creates an empty active cart for a customer
func NewCart(customerID uuid.UUID) (*Cart, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Items:             make([]CartItem, 0),
		Subtotal:          decimal.Zero,
		Tax:               decimal.Zero,
		Shipping:          decimal.Zero,
		Total:             decimal.Zero,
	}, nil
}

// MaxLineQuantity caps the units of one article in a cart line
const MaxLineQuantity = 9999

// AddItem adds qty units of article, merging with an existing line.
// The unit price, name and producer are refreshed from the article on every add.
// Stock is only checked here, never reserved: the cart must not hold more units
// than the article currently has.
func (c *Cart) AddItem(article *catalog.Article, qty int, pricing PricingPolicy) (*CartItem, error) {
	if c.Finalized {
		return nil, ErrCartFinalized
	}
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	if article == nil || article.ID == uuid.Nil {
		return nil, catalog.ErrArticleNotFound
	}

	existing := c.findItemIndex(article.ID)
	inCart := 0
	if existing >= 0 {
		inCart = c.Items[existing].Quantity
	}
	// both operands are bounded before they are summed
	if qty > MaxLineQuantity || inCart > MaxLineQuantity-qty {
		return nil, ErrQuantityTooLarge
	}
	if err := article.EnsureAvailable(inCart + qty); err != nil {
		return nil, err
	}

	now := time.Now()
	if existing < 0 {
		c.Items = append(c.Items, CartItem{
			ID:        uuid.New(),
			CartID:    c.ID,
			ArticleID: article.ID,
			CreatedAt: now,
		})
		existing = len(c.Items) - 1
	}

	item := &c.Items[existing]
	item.ArticleName = article.Name
	item.ProducerID = article.ProducerID
	item.UnitPrice = article.Price
	item.Quantity = inCart + qty
	item.UpdatedAt = now
	item.recalculate()

	c.recalculateTotals(pricing)
	c.UpdatedAt = now
	return item, nil
}

// DecrementItem removes one unit of an article; the line disappears at zero.
// It returns true when the line was removed.
func (c *Cart) DecrementItem(articleID uuid.UUID, pricing PricingPolicy) (bool, error) {
	if c.Finalized {
		return false, ErrCartFinalized
	}
	idx := c.findItemIndex(articleID)
	if idx < 0 {
		return false, ErrCartItemNotFound
	}

	now := time.Now()
	removed := false
	if c.Items[idx].Quantity <= 1 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		removed = true
	} else {
		c.Items[idx].Quantity--
		c.Items[idx].UpdatedAt = now
		c.Items[idx].recalculate()
	}

	c.recalculateTotals(pricing)
	c.UpdatedAt = now
	return removed, nil
}

// Clear removes every line. Clearing an empty cart changes nothing and returns false.
func (c *Cart) Clear(pricing PricingPolicy) (bool, error) {
	if c.Finalized {
		return false, ErrCartFinalized
	}
	if len(c.Items) == 0 {
		return false, nil
	}
	c.Items = make([]CartItem, 0)
	c.recalculateTotals(pricing)
	c.UpdatedAt = time.Now()
	return true, nil
}

// Finalize marks the cart as checked out. It can happen only once.
func (c *Cart) Finalize() error {
	if c.Finalized {
		return ErrCartFinalized
	}
	if c.IsEmpty() {
		return ErrEmptyCart
	}
	now := time.Now()
	c.Finalized = true
	c.FinalizedAt = &now
	c.UpdatedAt = now
	return nil
}

// Reprice recomputes totals with pricing, e.g. after configuration changes
func (c *Cart) Reprice(pricing PricingPolicy) {
	c.recalculateTotals(pricing)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// TotalQuantity returns the number of units across all lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// GetItemByArticle returns the line for articleID or nil
func (c *Cart) GetItemByArticle(articleID uuid.UUID) *CartItem {
	if idx := c.findItemIndex(articleID); idx >= 0 {
		return &c.Items[idx]
	}
	return nil
}

// ArticleIDs returns the distinct article ids in line order
func (c *Cart) ArticleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ArticleID)
	}
	return ids
}

func (c *Cart) findItemIndex(articleID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ArticleID == articleID {
			return i
		}
	}
	return -1
}

func (c *Cart) recalculateTotals(pricing PricingPolicy) {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	totals := pricing.Quote(subtotal)
	c.Subtotal = totals.Subtotal
	c.Tax = totals.Tax
	c.Shipping = totals.Shipping
	c.Total = totals.Total
}
