package trade

import (
	"testing"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestArticle(t *testing.T, name string, price string, stock int, producerID *uuid.UUID) *catalog.Article {
	t.Helper()
	a, err := catalog.NewArticle(name, decimal.RequireFromString(price), stock, producerID)
	require.NoError(t, err)
	return a
}

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	return c
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

func line(producerID *uuid.UUID, qty int, price string) OrderLine {
	return OrderLine{
		ID:          uuid.New(),
		ArticleID:   uuid.New(),
		ArticleName: "article",
		ProducerID:  producerID,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		LineTotal:   decimal.RequireFromString(price).Mul(decimal.NewFromInt(int64(qty))),
	}
}
