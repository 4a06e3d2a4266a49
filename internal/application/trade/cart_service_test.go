package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest(locker shared.Locker) (*CartService, *MockCartRepository, *MockArticleRepository) {
	cartRepo := new(MockCartRepository)
	articleRepo := new(MockArticleRepository)
	return NewCartService(cartRepo, articleRepo, locker, testOptions(), nil), cartRepo, articleRepo
}

func TestCartService_View(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("no cart returns empty view without creating one", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(nil, trade.ErrNoActiveCart)

		resp, err := svc.View(ctx, customerID)
		require.NoError(t, err)
		assert.Nil(t, resp.ID)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.Total.IsZero())
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("existing cart is priced", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		producerID := uuid.New()
		cart := newCartWith(t, customerID, cartLine{newArticle(t, "Tomate", "2.00", 10, &producerID), 3})
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(cart, nil)

		resp, err := svc.View(ctx, customerID)
		require.NoError(t, err)
		require.NotNil(t, resp.ID)
		assert.Equal(t, cart.ID, *resp.ID)
		assert.True(t, decimal.RequireFromString("6.00").Equal(resp.Subtotal))
		assert.True(t, decimal.RequireFromString("1.26").Equal(resp.Tax))
		assert.True(t, decimal.RequireFromString("4.95").Equal(resp.Shipping))
		assert.True(t, decimal.RequireFromString("12.21").Equal(resp.Total))
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(nil, errors.New("db down"))

		_, err := svc.View(ctx, customerID)
		assert.EqualError(t, err, "db down")
	})
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	producerID := uuid.New()

	t.Run("creates cart on first add", func(t *testing.T) {
		svc, cartRepo, articleRepo := newCartServiceForTest(nil)
		article := newArticle(t, "Miel", "8.00", 5, &producerID)
		articleRepo.On("FindByID", ctx, article.ID).Return(article, nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(nil, trade.ErrNoActiveCart)
		cartRepo.On("Save", ctx, mock.MatchedBy(func(c *trade.Cart) bool {
			return c.CustomerID == customerID && len(c.Items) == 1 && c.Items[0].Quantity == 2
		})).Return(nil)

		resp, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ArticleID: article.ID, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.ItemCount)
		assert.Equal(t, 2, resp.TotalQuantity)
		assert.True(t, decimal.RequireFromString("16.00").Equal(resp.Subtotal))
		cartRepo.AssertExpectations(t)
	})

	t.Run("merges with existing line", func(t *testing.T) {
		svc, cartRepo, articleRepo := newCartServiceForTest(nil)
		article := newArticle(t, "Miel", "8.00", 5, &producerID)
		cart := newCartWith(t, customerID, cartLine{article, 2})
		articleRepo.On("FindByID", ctx, article.ID).Return(article, nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(cart, nil)
		cartRepo.On("Save", ctx, cart).Return(nil)

		resp, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ArticleID: article.ID, Quantity: 3})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 5, resp.Items[0].Quantity)
	})

	t.Run("rejects more units than in stock", func(t *testing.T) {
		svc, cartRepo, articleRepo := newCartServiceForTest(nil)
		article := newArticle(t, "Miel", "8.00", 3, &producerID)
		cart := newCartWith(t, customerID, cartLine{article, 2})
		articleRepo.On("FindByID", ctx, article.ID).Return(article, nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(cart, nil)

		_, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ArticleID: article.ID, Quantity: 2})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, 3, de.Details["available"])
		assert.Equal(t, 4, de.Details["requested"])
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive quantity before any lookup", func(t *testing.T) {
		svc, _, articleRepo := newCartServiceForTest(nil)

		_, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ArticleID: uuid.New(), Quantity: 0})
		assert.ErrorIs(t, err, trade.ErrInvalidQuantity)
		articleRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown article", func(t *testing.T) {
		svc, _, articleRepo := newCartServiceForTest(nil)
		articleID := uuid.New()
		articleRepo.On("FindByID", ctx, articleID).Return(nil, catalog.ErrArticleNotFound)

		_, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ArticleID: articleID, Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrArticleNotFound)
	})

	t.Run("holds the cart lock while mutating", func(t *testing.T) {
		locker := new(MockLocker)
		unlocker := new(MockUnlocker)
		svc, cartRepo, articleRepo := newCartServiceForTest(locker)
		article := newArticle(t, "Miel", "8.00", 5, &producerID)

		locker.On("Acquire", ctx, cartLockKey(customerID), testOptions().CartLockTTL).Return(unlocker, nil)
		unlocker.On("Release", mock.Anything).Return(nil)
		articleRepo.On("FindByID", ctx, article.ID).Return(article, nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(nil, trade.ErrNoActiveCart)
		cartRepo.On("Save", ctx, mock.Anything).Return(nil)

		_, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ArticleID: article.ID, Quantity: 1})
		require.NoError(t, err)
		locker.AssertExpectations(t)
		unlocker.AssertExpectations(t)
	})

	t.Run("lock contention is reported", func(t *testing.T) {
		locker := new(MockLocker)
		svc, _, articleRepo := newCartServiceForTest(locker)
		locker.On("Acquire", ctx, cartLockKey(customerID), mock.Anything).Return(nil, shared.ErrConcurrencyConflict)

		_, err := svc.AddItem(ctx, customerID, AddCartItemRequest{ArticleID: uuid.New(), Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		articleRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestCartService_DecrementItem(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	producerID := uuid.New()

	t.Run("removes line at zero", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		article := newArticle(t, "Tomate", "2.00", 10, &producerID)
		cart := newCartWith(t, customerID, cartLine{article, 1})
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(cart, nil)
		cartRepo.On("Save", ctx, cart).Return(nil)

		resp, err := svc.DecrementItem(ctx, customerID, article.ID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.Total.IsZero())
	})

	t.Run("no active cart", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(nil, trade.ErrNoActiveCart)

		_, err := svc.DecrementItem(ctx, customerID, uuid.New())
		assert.ErrorIs(t, err, trade.ErrNoActiveCart)
	})

	t.Run("article not in cart", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		cart := newCartWith(t, customerID, cartLine{newArticle(t, "Tomate", "2.00", 10, &producerID), 1})
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(cart, nil)

		_, err := svc.DecrementItem(ctx, customerID, uuid.New())
		assert.ErrorIs(t, err, trade.ErrCartItemNotFound)
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("missing cart is a no-op", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(nil, trade.ErrNoActiveCart)

		resp, err := svc.Clear(ctx, customerID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("empty cart is not written", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		cart := newCartWith(t, customerID)
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(cart, nil)

		_, err := svc.Clear(ctx, customerID)
		require.NoError(t, err)
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("clears lines", func(t *testing.T) {
		svc, cartRepo, _ := newCartServiceForTest(nil)
		producerID := uuid.New()
		cart := newCartWith(t, customerID, cartLine{newArticle(t, "Tomate", "2.00", 10, &producerID), 4})
		cartRepo.On("FindActiveByCustomer", ctx, customerID).Return(cart, nil)
		cartRepo.On("Save", ctx, cart).Return(nil)

		resp, err := svc.Clear(ctx, customerID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.Total.IsZero())
		cartRepo.AssertExpectations(t)
	})
}
