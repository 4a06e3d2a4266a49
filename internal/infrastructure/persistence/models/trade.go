package models

import (
	"time"

	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for the Cart aggregate root.
type CartModel struct {
	AggregateModel
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items       []CartItemModel `gorm:"foreignKey:CartID;references:ID"`
	Finalized   bool            `gorm:"not null;default:false;index"`
	FinalizedAt *time.Time
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tax         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Shipping    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart
func (m *CartModel) ToDomain() *trade.Cart {
	cart := &trade.Cart{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CustomerID:        m.CustomerID,
		Finalized:         m.Finalized,
		FinalizedAt:       m.FinalizedAt,
		Subtotal:          m.Subtotal,
		Tax:               m.Tax,
		Shipping:          m.Shipping,
		Total:             m.Total,
		Items:             make([]trade.CartItem, len(m.Items)),
	}
	for i, item := range m.Items {
		cart.Items[i] = *item.ToDomain()
	}
	return cart
}

// FromDomain populates the persistence model from a domain Cart
func (m *CartModel) FromDomain(c *trade.Cart) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CustomerID = c.CustomerID
	m.Finalized = c.Finalized
	m.FinalizedAt = c.FinalizedAt
	m.Subtotal = c.Subtotal
	m.Tax = c.Tax
	m.Shipping = c.Shipping
	m.Total = c.Total
	m.Items = make([]CartItemModel, len(c.Items))
	for i := range c.Items {
		m.Items[i].FromDomain(&c.Items[i])
		m.Items[i].CartID = c.ID
		m.Items[i].Position = i
	}
}

// CartModelFromDomain creates a new persistence model from a domain Cart
func CartModelFromDomain(c *trade.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

// CartItemModel is the persistence model for a cart line.
type CartItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_article,priority:1"`
	ArticleID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_article,priority:2"`
	ArticleName string          `gorm:"type:varchar(200);not null"`
	ProducerID  *uuid.UUID      `gorm:"type:uuid"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Position    int             `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem
func (m *CartItemModel) ToDomain() *trade.CartItem {
	return &trade.CartItem{
		ID:          m.ID,
		CartID:      m.CartID,
		ArticleID:   m.ArticleID,
		ArticleName: m.ArticleName,
		ProducerID:  m.ProducerID,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CartItem
func (m *CartItemModel) FromDomain(i *trade.CartItem) {
	m.ID = i.ID
	m.CartID = i.CartID
	m.ArticleID = i.ArticleID
	m.ArticleName = i.ArticleName
	m.ProducerID = i.ProducerID
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.LineTotal = i.LineTotal
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	CartID          uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	Lines           []OrderLineModel    `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Tax             decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Shipping        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	PaymentMethod   trade.PaymentMethod `gorm:"type:varchar(30);not null"`
	Status          trade.OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	StatusUpdatedAt time.Time           `gorm:"not null"`
	SplitAt         *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		CartID:            m.CartID,
		Subtotal:          m.Subtotal,
		Tax:               m.Tax,
		Shipping:          m.Shipping,
		Total:             m.Total,
		PaymentMethod:     m.PaymentMethod,
		Status:            m.Status,
		StatusUpdatedAt:   m.StatusUpdatedAt,
		SplitAt:           m.SplitAt,
		CancelReason:      m.CancelReason,
		CancelledAt:       m.CancelledAt,
		Lines:             make([]trade.OrderLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		order.Lines[i] = line.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.CartID = o.CartID
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.Shipping = o.Shipping
	m.Total = o.Total
	m.PaymentMethod = o.PaymentMethod
	m.Status = o.Status
	m.StatusUpdatedAt = o.StatusUpdatedAt
	m.SplitAt = o.SplitAt
	m.CancelReason = o.CancelReason
	m.CancelledAt = o.CancelledAt
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i := range o.Lines {
		m.Lines[i].FromDomain(&o.Lines[i])
		m.Lines[i].OrderID = o.ID
		m.Lines[i].Position = i
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for an order line.
type OrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ArticleID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ArticleName string          `gorm:"type:varchar(200);not null"`
	ProducerID  *uuid.UUID      `gorm:"type:uuid"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Position    int             `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine
func (m *OrderLineModel) ToDomain() trade.OrderLine {
	return trade.OrderLine{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ArticleID:   m.ArticleID,
		ArticleName: m.ArticleName,
		ProducerID:  m.ProducerID,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderLine
func (m *OrderLineModel) FromDomain(l *trade.OrderLine) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.ArticleID = l.ArticleID
	m.ArticleName = l.ArticleName
	m.ProducerID = l.ProducerID
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
	m.LineTotal = l.LineTotal
	m.CreatedAt = l.CreatedAt
}

// ProducerOrderModel is the persistence model for the ProducerOrder aggregate root.
// One row exists per (order, producer).
type ProducerOrderModel struct {
	AggregateModel
	OrderID         uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_producer_orders_order_producer,priority:1"`
	ProducerID      uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_producer_orders_order_producer,priority:2;index"`
	OrderNumber     string                    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status          trade.ProducerOrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Lines           []ProducerOrderLineModel  `gorm:"foreignKey:ProducerOrderID;references:ID"`
	Subtotal        decimal.Decimal           `gorm:"type:decimal(12,2);not null"`
	Notes           string                    `gorm:"type:text"`
	StatusUpdatedAt time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProducerOrderModel) TableName() string {
	return "producer_orders"
}

// ToDomain converts the persistence model to a domain ProducerOrder
func (m *ProducerOrderModel) ToDomain() *trade.ProducerOrder {
	po := &trade.ProducerOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderID:           m.OrderID,
		ProducerID:        m.ProducerID,
		OrderNumber:       m.OrderNumber,
		Status:            m.Status,
		Subtotal:          m.Subtotal,
		Notes:             m.Notes,
		StatusUpdatedAt:   m.StatusUpdatedAt,
		Lines:             make([]trade.ProducerOrderLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		po.Lines[i] = trade.ProducerOrderLine{
			ID:              line.ID,
			ProducerOrderID: line.ProducerOrderID,
			OrderLineID:     line.OrderLineID,
			ArticleID:       line.ArticleID,
			ArticleName:     line.ArticleName,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineTotal:       line.LineTotal,
		}
	}
	return po
}

// FromDomain populates the persistence model from a domain ProducerOrder
func (m *ProducerOrderModel) FromDomain(po *trade.ProducerOrder) {
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	m.OrderID = po.OrderID
	m.ProducerID = po.ProducerID
	m.OrderNumber = po.OrderNumber
	m.Status = po.Status
	m.Subtotal = po.Subtotal
	m.Notes = po.Notes
	m.StatusUpdatedAt = po.StatusUpdatedAt
	m.Lines = make([]ProducerOrderLineModel, len(po.Lines))
	for i, line := range po.Lines {
		m.Lines[i] = ProducerOrderLineModel{
			ID:              line.ID,
			ProducerOrderID: po.ID,
			OrderLineID:     line.OrderLineID,
			ArticleID:       line.ArticleID,
			ArticleName:     line.ArticleName,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineTotal:       line.LineTotal,
			Position:        i,
		}
	}
}

// ProducerOrderModelFromDomain creates a new persistence model from a domain ProducerOrder
func ProducerOrderModelFromDomain(po *trade.ProducerOrder) *ProducerOrderModel {
	m := &ProducerOrderModel{}
	m.FromDomain(po)
	return m
}

// ProducerOrderLineModel is the persistence model for a producer order line.
type ProducerOrderLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProducerOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderLineID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ArticleID       uuid.UUID       `gorm:"type:uuid;not null"`
	ArticleName     string          `gorm:"type:varchar(200);not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Position        int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProducerOrderLineModel) TableName() string {
	return "producer_order_lines"
}

// AllModels lists every model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&CustomerModel{},
		&ProducerModel{},
		&ArticleModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderLineModel{},
		&ProducerOrderModel{},
		&ProducerOrderLineModel{},
	}
}

