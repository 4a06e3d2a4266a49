package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/cosecha/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), NewGormConfig(WithPrepareStmt(false)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func seedArticle(t *testing.T, db *gorm.DB, name, price string, stock int, producerID *uuid.UUID) *catalog.Article {
	t.Helper()
	article, err := catalog.NewArticle(name, decimal.RequireFromString(price), stock, producerID)
	require.NoError(t, err)
	require.NoError(t, NewGormArticleRepository(db).Save(context.Background(), article))
	return article
}

// seedCart stores an active cart holding qty units of every article, in argument order
func seedCart(t *testing.T, db *gorm.DB, customerID uuid.UUID, qty int, articles ...*catalog.Article) *trade.Cart {
	t.Helper()
	cart, err := trade.NewCart(customerID)
	require.NoError(t, err)
	for _, a := range articles {
		_, err := cart.AddItem(a, qty, trade.DefaultPricingPolicy())
		require.NoError(t, err)
	}
	require.NoError(t, NewGormCartRepository(db).Save(context.Background(), cart))
	return cart
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}
