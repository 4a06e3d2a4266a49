package models

import (
	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArticleModel is the persistence model for the Article aggregate root.
// The stock check constraint backs the conditional update in AdjustStock.
type ArticleModel struct {
	AggregateModel
	Name       string          `gorm:"type:varchar(200);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock      int             `gorm:"not null;default:0;check:chk_articles_stock,stock >= 0"`
	ProducerID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ArticleModel) TableName() string {
	return "articles"
}

// ToDomain converts the persistence model to a domain Article
func (m *ArticleModel) ToDomain() *catalog.Article {
	return &catalog.Article{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Price:             m.Price,
		Stock:             m.Stock,
		ProducerID:        m.ProducerID,
	}
}

// FromDomain populates the persistence model from a domain Article
func (m *ArticleModel) FromDomain(a *catalog.Article) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Price = a.Price
	m.Stock = a.Stock
	m.ProducerID = a.ProducerID
}

// ArticleModelFromDomain creates a new persistence model from a domain Article
func ArticleModelFromDomain(a *catalog.Article) *ArticleModel {
	m := &ArticleModel{}
	m.FromDomain(a)
	return m
}
