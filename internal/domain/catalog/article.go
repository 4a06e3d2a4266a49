package catalog

import (
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrArticleNotFound is returned when an article id does not resolve
var ErrArticleNotFound = shared.NewDomainError("ARTICLE_NOT_FOUND", "Article not found")

// Article is a product listed by a producer.
// Stock is the number of units still available for checkout and never goes below zero.
type Article struct {
	shared.BaseAggregateRoot
	Name       string
	Price      decimal.Decimal
	Stock      int
	ProducerID *uuid.UUID
}

// NewArticle creates a new article
func NewArticle(name string, price decimal.Decimal, stock int, producerID *uuid.UUID) (*Article, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ARTICLE_NAME", "Article name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return &Article{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		Stock:             stock,
		ProducerID:        producerID,
	}, nil
}

// HasProducer reports whether the article is assigned to a producer
func (a *Article) HasProducer() bool {
	return a.ProducerID != nil && *a.ProducerID != uuid.Nil
}

// EnsureAvailable checks that requested units can be taken from stock
func (a *Article) EnsureAvailable(requested int) error {
	if a.Stock >= requested {
		return nil
	}
	return NewInsufficientStockError(a.ID, a.Name, a.Stock, requested)
}

// AdjustStock applies delta in memory. Persistence goes through
// ArticleRepository.AdjustStock, which performs the same check atomically.
func (a *Article) AdjustStock(delta int) error {
	if a.Stock+delta < 0 {
		return NewInsufficientStockError(a.ID, a.Name, a.Stock, -delta)
	}
	a.Stock += delta
	a.UpdatedAt = time.Now()
	return nil
}

// NewInsufficientStockError builds an INSUFFICIENT_STOCK error naming the article
// and the quantity still available so the caller can retry with less.
func NewInsufficientStockError(articleID uuid.UUID, name string, available, requested int) *shared.DomainError {
	if available < 0 {
		available = 0
	}
	return shared.NewDomainErrorf(shared.ErrInsufficientStock.Code,
		"Insufficient stock for %s: %d available, %d requested", name, available, requested).
		WithDetail("article_id", articleID.String()).
		WithDetail("article_name", name).
		WithDetail("available", available).
		WithDetail("requested", requested)
}
