package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ArticleRepository is the article lookup and stock mutation port used by checkout
type ArticleRepository interface {
	// FindByID returns ErrArticleNotFound for unknown ids
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)

	// FindByIDs returns the articles that exist; missing ids are simply absent
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Article, error)

	// AdjustStock atomically adds delta to the article's stock (negative to debit).
	// It fails with ErrArticleNotFound for unknown ids and with INSUFFICIENT_STOCK
	// when the result would be negative, leaving stock unchanged.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// Save creates or updates an article
	Save(ctx context.Context, article *Article) error
}
