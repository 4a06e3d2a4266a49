package handler

import (
	"context"
	"fmt"
	"net/http"

	tradeapp "github.com/cosecha/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProducerOrderService is the producer use case surface the handler depends on
type ProducerOrderService interface {
	UpdateStatus(ctx context.Context, producerID, producerOrderID uuid.UUID, req tradeapp.UpdateProducerOrderStatusRequest) (*tradeapp.ProducerOrderResponse, error)
	ListForProducer(ctx context.Context, producerID uuid.UUID, filter tradeapp.ProducerOrderListFilter) ([]tradeapp.ProducerOrderResponse, error)
	Get(ctx context.Context, producerID, producerOrderID uuid.UUID) (*tradeapp.ProducerOrderResponse, error)
	PackingSlip(ctx context.Context, producerID, producerOrderID uuid.UUID) ([]byte, error)
}

// ProducerOrderHandler handles the producer's share of customer orders
type ProducerOrderHandler struct {
	BaseHandler
	service ProducerOrderService
}

// NewProducerOrderHandler creates a new ProducerOrderHandler
func NewProducerOrderHandler(service ProducerOrderService) *ProducerOrderHandler {
	return &ProducerOrderHandler{service: service}
}

// List godoc
// @ID           listProducerOrders
// @Summary      List the producer's orders
// @Description  Returns the producer orders assigned to the caller, newest first, optionally filtered by status
// @Tags         producer-orders
// @Produce      json
// @Param        status query string false "Status filter" Enums(PENDING, IN_PROCESS, SHIPPED, DELIVERED, CANCELLED)
// @Success      200 {object} APIResponse[[]tradeapp.ProducerOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /producer/orders [get]
func (h *ProducerOrderHandler) List(c *gin.Context) {
	producerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter tradeapp.ProducerOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, err := h.service.ListForProducer(c.Request.Context(), producerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithTotal(c, orders, len(orders))
}

// Get godoc
// @ID           getProducerOrder
// @Summary      Get a producer order
// @Tags         producer-orders
// @Produce      json
// @Param        id path string true "Producer order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.ProducerOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Producer order belongs to another producer"
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /producer/orders/{id} [get]
func (h *ProducerOrderHandler) Get(c *gin.Context) {
	producerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), producerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus godoc
// @ID           updateProducerOrderStatus
// @Summary      Move a producer order forward
// @Description  Applies a status transition and rolls the parent order status up from all of its producer orders
// @Tags         producer-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Producer order ID" format(uuid)
// @Param        request body tradeapp.UpdateProducerOrderStatusRequest true "Target status and optional note"
// @Success      200 {object} APIResponse[tradeapp.ProducerOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Concurrent update"
// @Failure      422 {object} ErrorResponse "Transition not allowed from the current status"
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /producer/orders/{id}/status [patch]
func (h *ProducerOrderHandler) UpdateStatus(c *gin.Context) {
	producerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req tradeapp.UpdateProducerOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), producerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// PackingSlip godoc
// @ID           getProducerOrderPackingSlip
// @Summary      Download the packing slip
// @Description  Renders the packing slip of a producer order as PDF
// @Tags         producer-orders
// @Produce      application/pdf
// @Param        id path string true "Producer order ID" format(uuid)
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse "Printing is not configured"
// @Security     BearerAuth
// @Router       /producer/orders/{id}/packing-slip [get]
func (h *ProducerOrderHandler) PackingSlip(c *gin.Context) {
	producerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	pdf, err := h.service.PackingSlip(c.Request.Context(), producerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="packing-slip-%s.pdf"`, id))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
