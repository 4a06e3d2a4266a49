package handler

import (
	"context"
	"strings"

	tradeapp "github.com/cosecha/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader lets clients retry a checkout safely
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds client supplied idempotency keys
const maxIdempotencyKeyLength = 255

// OrderService is the order use case surface the handler depends on
type OrderService interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, req tradeapp.CreateOrderRequest) (*tradeapp.OrderResponse, error)
	ListOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]tradeapp.OrderResponse, error)
	GetOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
	CancelOrder(ctx context.Context, customerID, orderID uuid.UUID, req tradeapp.CancelOrderRequest) (*tradeapp.OrderResponse, error)
}

// OrderHandler handles checkout and the customer's order history
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Check out the cart
// @Description  Converts the active cart into an order, debits stock and splits the order per producer
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry key, a repeated key returns the original order"
// @Param        request body tradeapp.CreateOrderRequest true "Payment method"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Insufficient stock, duplicate request or concurrent update"
// @Failure      422 {object} ErrorResponse "Incomplete profile, no active cart or empty cart"
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List the customer's orders
// @Description  Returns the customer's orders, newest first
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	orders, err := h.orderService.ListOrdersForCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithTotal(c, orders, len(orders))
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Description  Returns one of the customer's orders with its producer orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, ok := h.parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(c.Request.Context(), customerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Cancels a pending or confirmed order, cancels its producer orders and restores stock
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "Order can no longer be cancelled"
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req tradeapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), customerID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
