package trade

import (
	"time"

	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Cart DTOs ====================

// AddCartItemRequest represents a request to add units of an article to the cart
type AddCartItemRequest struct {
	ArticleID uuid.UUID `json:"article_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=9999"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ArticleID   uuid.UUID       `json:"article_id"`
	ArticleName string          `json:"article_name"`
	ProducerID  *uuid.UUID      `json:"producer_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartResponse represents the active cart in API responses.
// ID is nil when the customer has no cart yet.
type CartResponse struct {
	ID            *uuid.UUID         `json:"id,omitempty"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	Items         []CartItemResponse `json:"items"`
	ItemCount     int                `json:"item_count"`
	TotalQuantity int                `json:"total_quantity"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Shipping      decimal.Decimal    `json:"shipping"`
	Total         decimal.Decimal    `json:"total"`
	UpdatedAt     *time.Time         `json:"updated_at,omitempty"`
}

// ToCartResponse converts a domain cart to a response DTO
func ToCartResponse(cart *trade.Cart) CartResponse {
	items := make([]CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemResponse{
			ID:          item.ID,
			ArticleID:   item.ArticleID,
			ArticleName: item.ArticleName,
			ProducerID:  item.ProducerID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}
	id := cart.ID
	updatedAt := cart.UpdatedAt
	return CartResponse{
		ID:            &id,
		CustomerID:    cart.CustomerID,
		Items:         items,
		ItemCount:     cart.ItemCount(),
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      cart.Subtotal,
		Tax:           cart.Tax,
		Shipping:      cart.Shipping,
		Total:         cart.Total,
		UpdatedAt:     &updatedAt,
	}
}

// EmptyCartResponse is returned when the customer has no active cart
func EmptyCartResponse(customerID uuid.UUID) CartResponse {
	return CartResponse{
		CustomerID: customerID,
		Items:      []CartItemResponse{},
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		Shipping:   decimal.Zero,
		Total:      decimal.Zero,
	}
}

// ==================== Order DTOs ====================

// CreateOrderRequest represents a checkout request
type CreateOrderRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required,payment_method"`
	IdempotencyKey string `json:"-"`
}

// CancelOrderRequest represents a customer cancellation
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ArticleID   uuid.UUID       `json:"article_id"`
	ArticleName string          `json:"article_name"`
	ProducerID  *uuid.UUID      `json:"producer_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ProducerOrderSummary is the reference to a producer order embedded in an order
type ProducerOrderSummary struct {
	ID          uuid.UUID       `json:"id"`
	ProducerID  uuid.UUID       `json:"producer_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	LineCount   int             `json:"line_count"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	CustomerID      uuid.UUID              `json:"customer_id"`
	Status          string                 `json:"status"`
	PaymentMethod   string                 `json:"payment_method"`
	Lines           []OrderLineResponse    `json:"lines"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Tax             decimal.Decimal        `json:"tax"`
	Shipping        decimal.Decimal        `json:"shipping"`
	Total           decimal.Decimal        `json:"total"`
	ProducerOrders  []ProducerOrderSummary `json:"producer_orders"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	StatusUpdatedAt time.Time              `json:"status_updated_at"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ToOrderResponse converts a domain order and its producer orders to a response DTO
func ToOrderResponse(order *trade.Order, producerOrders []trade.ProducerOrder) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, l := range order.Lines {
		lines[i] = OrderLineResponse{
			ID:          l.ID,
			ArticleID:   l.ArticleID,
			ArticleName: l.ArticleName,
			ProducerID:  l.ProducerID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}
	summaries := make([]ProducerOrderSummary, len(producerOrders))
	for i := range producerOrders {
		summaries[i] = ToProducerOrderSummary(&producerOrders[i])
	}
	return OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		Status:          order.Status.String(),
		PaymentMethod:   string(order.PaymentMethod),
		Lines:           lines,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		Shipping:        order.Shipping,
		Total:           order.Total,
		ProducerOrders:  summaries,
		CancelReason:    order.CancelReason,
		CancelledAt:     order.CancelledAt,
		StatusUpdatedAt: order.StatusUpdatedAt,
		CreatedAt:       order.CreatedAt,
	}
}

// ToProducerOrderSummary converts a producer order to its embedded reference
func ToProducerOrderSummary(po *trade.ProducerOrder) ProducerOrderSummary {
	return ProducerOrderSummary{
		ID:          po.ID,
		ProducerID:  po.ProducerID,
		OrderNumber: po.OrderNumber,
		Status:      po.Status.String(),
		Subtotal:    po.Subtotal,
		LineCount:   len(po.Lines),
	}
}

// ==================== Producer Order DTOs ====================

// UpdateProducerOrderStatusRequest represents a producer moving its order forward
type UpdateProducerOrderStatusRequest struct {
	Status string `json:"status" binding:"required,producer_order_status"`
	Note   string `json:"note" binding:"max=1000"`
}

// ProducerOrderListFilter narrows the producer's listing
type ProducerOrderListFilter struct {
	Status string `form:"status" binding:"omitempty,producer_order_status"`
}

// ProducerOrderLineResponse represents a producer order line in API responses
type ProducerOrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ArticleID   uuid.UUID       `json:"article_id"`
	ArticleName string          `json:"article_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ProducerOrderResponse represents a producer order in API responses
type ProducerOrderResponse struct {
	ID              uuid.UUID                   `json:"id"`
	OrderID         uuid.UUID                   `json:"order_id"`
	ProducerID      uuid.UUID                   `json:"producer_id"`
	OrderNumber     string                      `json:"order_number"`
	Status          string                      `json:"status"`
	Lines           []ProducerOrderLineResponse `json:"lines"`
	Subtotal        decimal.Decimal             `json:"subtotal"`
	Notes           string                      `json:"notes,omitempty"`
	StatusUpdatedAt time.Time                   `json:"status_updated_at"`
	CreatedAt       time.Time                   `json:"created_at"`
	// OrderStatus is the rolled-up status of the parent order after the last change
	OrderStatus string `json:"order_status,omitempty"`
}

// ToProducerOrderResponse converts a domain producer order to a response DTO
func ToProducerOrderResponse(po *trade.ProducerOrder) ProducerOrderResponse {
	lines := make([]ProducerOrderLineResponse, len(po.Lines))
	for i, l := range po.Lines {
		lines[i] = ProducerOrderLineResponse{
			ID:          l.ID,
			ArticleID:   l.ArticleID,
			ArticleName: l.ArticleName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}
	return ProducerOrderResponse{
		ID:              po.ID,
		OrderID:         po.OrderID,
		ProducerID:      po.ProducerID,
		OrderNumber:     po.OrderNumber,
		Status:          po.Status.String(),
		Lines:           lines,
		Subtotal:        po.Subtotal,
		Notes:           po.Notes,
		StatusUpdatedAt: po.StatusUpdatedAt,
		CreatedAt:       po.CreatedAt,
	}
}

// ToProducerOrderResponses converts a list of producer orders
func ToProducerOrderResponses(orders []trade.ProducerOrder) []ProducerOrderResponse {
	responses := make([]ProducerOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToProducerOrderResponse(&orders[i])
	}
	return responses
}
