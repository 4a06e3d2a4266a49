package trade

import (
	"github.com/cosecha/backend/internal/domain/shared"
)

var (
	ErrInvalidQuantity        = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrQuantityTooLarge       = shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-line limit")
	ErrCartNotFound           = shared.NewDomainError("CART_NOT_FOUND", "Cart not found")
	ErrCartItemNotFound       = shared.NewDomainError("CART_ITEM_NOT_FOUND", "Article is not in the cart")
	ErrNoActiveCart           = shared.NewDomainError("NO_ACTIVE_CART", "There is no active cart")
	ErrEmptyCart              = shared.NewDomainError("EMPTY_CART", "The cart is empty")
	ErrCartFinalized          = shared.NewDomainError("CART_FINALIZED", "The cart has already been checked out")
	ErrOrderNotFound          = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrProducerOrderNotFound  = shared.NewDomainError("PRODUCER_ORDER_NOT_FOUND", "Producer order not found")
	ErrInvalidStateTransition = shared.NewDomainError("INVALID_STATE_TRANSITION", "Status transition is not allowed")
	ErrUnassignedProducer     = shared.NewDomainError("UNASSIGNED_PRODUCER", "Article has no producer assigned")
	ErrAlreadySplit           = shared.NewDomainError("ALREADY_SPLIT", "Order has already been split into producer orders")
	ErrInvalidPaymentMethod   = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not supported")
)

// NewInvalidTransitionError names the current and requested status
func NewInvalidTransitionError(current, requested string) *shared.DomainError {
	return shared.NewDomainErrorf(ErrInvalidStateTransition.Code,
		"Cannot change status from %s to %s", current, requested).
		WithDetail("current", current).
		WithDetail("requested", requested)
}
