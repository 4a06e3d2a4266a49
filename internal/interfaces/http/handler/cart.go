package handler

import (
	"context"

	tradeapp "github.com/cosecha/backend/internal/application/trade"
	"github.com/cosecha/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartService is the cart use case surface the handler depends on
type CartService interface {
	View(ctx context.Context, customerID uuid.UUID) (*tradeapp.CartResponse, error)
	AddItem(ctx context.Context, customerID uuid.UUID, req tradeapp.AddCartItemRequest) (*tradeapp.CartResponse, error)
	DecrementItem(ctx context.Context, customerID, articleID uuid.UUID) (*tradeapp.CartResponse, error)
	Clear(ctx context.Context, customerID uuid.UUID) (*tradeapp.CartResponse, error)
}

// CartHandler handles the customer's shopping cart
type CartHandler struct {
	BaseHandler
	cartService CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddCartItemRequest represents a request to add units of an article to the cart
// @Description Request body for adding an article to the cart
type AddCartItemRequest struct {
	ArticleID string `json:"article_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=9999" example:"2"`
}

// View godoc
// @ID           viewCart
// @Summary      Get the active cart
// @Description  Returns the customer's active cart with totals. An empty cart is returned when none exists.
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) View(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	cart, err := h.cartService.View(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add an article to the cart
// @Description  Adds quantity units of an article, merging with an existing line. Stock is checked against the merged quantity.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body AddCartItemRequest true "Article and quantity"
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Insufficient stock or concurrent cart update"
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), customerID, tradeapp.AddCartItemRequest{
		ArticleID: uuid.MustParse(req.ArticleID),
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// DecrementItem godoc
// @ID           decrementCartItem
// @Summary      Remove one unit of an article
// @Description  Decrements the cart line of the article by one, dropping the line when it reaches zero
// @Tags         cart
// @Produce      json
// @Param        article_id path string true "Article ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{article_id}/decrement [post]
func (h *CartHandler) DecrementItem(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.ArticleIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid article ID format")
		return
	}

	cart, err := h.cartService.DecrementItem(c.Request.Context(), customerID, uuid.MustParse(uri.ArticleID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Description  Removes every line from the active cart. Clearing an empty cart succeeds.
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[tradeapp.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	customerID, err := actorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	cart, err := h.cartService.Clear(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}
