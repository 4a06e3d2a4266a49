package trade

import (
	"context"
	"errors"
	"time"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService handles the customer's shopping cart.
// Adding to the cart only checks stock; units are debited at checkout.
type CartService struct {
	cartRepo    trade.CartRepository
	articleRepo catalog.ArticleRepository
	locker      shared.Locker
	opts        CheckoutOptions
	logger      *zap.Logger
}

// NewCartService creates a new CartService.
// locker may be nil, in which case cart operations are not serialized per customer.
func NewCartService(
	cartRepo trade.CartRepository,
	articleRepo catalog.ArticleRepository,
	locker shared.Locker,
	opts CheckoutOptions,
	logger *zap.Logger,
) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cartRepo:    cartRepo,
		articleRepo: articleRepo,
		locker:      locker,
		opts:        opts,
		logger:      logger,
	}
}

// View returns the active cart. A customer without a cart gets an empty view
// and no cart is created.
func (s *CartService) View(ctx context.Context, customerID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindActiveByCustomer(ctx, customerID)
	if errors.Is(err, trade.ErrNoActiveCart) {
		resp := EmptyCartResponse(customerID)
		return &resp, nil
	}
	if err != nil {
		return nil, err
	}
	cart.Reprice(s.opts.Pricing)
	resp := ToCartResponse(cart)
	return &resp, nil
}

// AddItem adds units of an article, creating the cart on first use
func (s *CartService) AddItem(ctx context.Context, customerID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	if req.Quantity < 1 {
		return nil, trade.ErrInvalidQuantity
	}

	var cart *trade.Cart
	err := withLock(ctx, s.locker, cartLockKey(customerID), s.opts.CartLockTTL, s.logger, func() error {
		article, err := s.articleRepo.FindByID(ctx, req.ArticleID)
		if err != nil {
			return err
		}

		cart, err = s.cartRepo.FindActiveByCustomer(ctx, customerID)
		if errors.Is(err, trade.ErrNoActiveCart) {
			cart, err = trade.NewCart(customerID)
		}
		if err != nil {
			return err
		}

		if _, err := cart.AddItem(article, req.Quantity, s.opts.Pricing); err != nil {
			return err
		}
		return s.cartRepo.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart item added",
		zap.String("customer_id", customerID.String()),
		zap.String("article_id", req.ArticleID.String()),
		zap.Int("quantity", req.Quantity),
	)
	resp := ToCartResponse(cart)
	return &resp, nil
}

// DecrementItem removes one unit of an article from the cart
func (s *CartService) DecrementItem(ctx context.Context, customerID, articleID uuid.UUID) (*CartResponse, error) {
	var cart *trade.Cart
	err := withLock(ctx, s.locker, cartLockKey(customerID), s.opts.CartLockTTL, s.logger, func() error {
		var err error
		cart, err = s.cartRepo.FindActiveByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if _, err := cart.DecrementItem(articleID, s.opts.Pricing); err != nil {
			return err
		}
		return s.cartRepo.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(cart)
	return &resp, nil
}

// Clear empties the cart. Clearing a missing or empty cart is a no-op.
func (s *CartService) Clear(ctx context.Context, customerID uuid.UUID) (*CartResponse, error) {
	var resp CartResponse
	err := withLock(ctx, s.locker, cartLockKey(customerID), s.opts.CartLockTTL, s.logger, func() error {
		cart, err := s.cartRepo.FindActiveByCustomer(ctx, customerID)
		if errors.Is(err, trade.ErrNoActiveCart) {
			resp = EmptyCartResponse(customerID)
			return nil
		}
		if err != nil {
			return err
		}
		changed, err := cart.Clear(s.opts.Pricing)
		if err != nil {
			return err
		}
		if changed {
			if err := s.cartRepo.Save(ctx, cart); err != nil {
				return err
			}
		}
		resp = ToCartResponse(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// withLock runs fn while holding key. A nil locker runs fn directly.
func withLock(ctx context.Context, locker shared.Locker, key string, ttl time.Duration, logger *zap.Logger, fn func() error) error {
	if locker == nil {
		return fn()
	}
	lock, err := locker.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn()
}
