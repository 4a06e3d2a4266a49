package persistence

import (
	"context"
	"time"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormArticleRepository implements catalog.ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// FindByID finds an article by its ID
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, catalog.ErrArticleNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the articles with the given IDs; unknown IDs are skipped
func (r *GormArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Article, error) {
	if len(ids) == 0 {
		return []catalog.Article{}, nil
	}
	var rows []models.ArticleModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	articles := make([]catalog.Article, len(rows))
	for i := range rows {
		articles[i] = *rows[i].ToDomain()
	}
	return articles, nil
}

// AdjustStock adds delta to the stock in a single conditional UPDATE, so
// concurrent checkouts can never drive stock below zero.
func (r *GormArticleRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ArticleModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the article is gone or the stock is short.
	article, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return catalog.NewInsufficientStockError(article.ID, article.Name, article.Stock, -delta)
}

// Save creates or updates an article
func (r *GormArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	model := models.ArticleModelFromDomain(article)
	return translateError(r.db.WithContext(ctx).Save(model).Error, catalog.ErrArticleNotFound)
}

var _ catalog.ArticleRepository = (*GormArticleRepository)(nil)
