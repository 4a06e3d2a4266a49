package trade

import (
	"testing"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/partner"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newArticle(t *testing.T, name, price string, stock int, producerID *uuid.UUID) *catalog.Article {
	t.Helper()
	a, err := catalog.NewArticle(name, decimal.RequireFromString(price), stock, producerID)
	require.NoError(t, err)
	return a
}

func newCompleteCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(uuid.New(), "Lucía Fernández", "lucia@example.com")
	require.NoError(t, err)
	require.NoError(t, c.SetShippingContact("Calle Mayor 1, Valencia", "+34 600 000 000"))
	return c
}

type cartLine struct {
	article *catalog.Article
	qty     int
}

func newCartWith(t *testing.T, customerID uuid.UUID, lines ...cartLine) *trade.Cart {
	t.Helper()
	cart, err := trade.NewCart(customerID)
	require.NoError(t, err)
	for _, l := range lines {
		_, err := cart.AddItem(l.article, l.qty, trade.DefaultPricingPolicy())
		require.NoError(t, err)
	}
	return cart
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func testOptions() CheckoutOptions {
	return DefaultCheckoutOptions()
}
