package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/cosecha/backend/internal/domain/catalog"
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var orderDay = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

// seedOrder checks out a fresh cart holding one unit of each article
func seedOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, number string, articles ...*catalog.Article) *trade.Order {
	t.Helper()
	cart := seedCart(t, db, customerID, 1, articles...)
	order, err := trade.NewOrderFromCart(cart, number, trade.PaymentMethodCard)
	require.NoError(t, err)
	require.NoError(t, NewGormOrderRepository(db).Create(context.Background(), order))
	return order
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	customerID := uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	tomate := seedArticle(t, db, "Tomate", "2.00", 10, ptr(p1))
	miel := seedArticle(t, db, "Miel", "8.00", 10, ptr(p2))
	pimiento := seedArticle(t, db, "Pimiento", "1.50", 10, ptr(p1))
	order := seedOrder(t, db, customerID, "PED-20261017-0001", tomate, miel, pimiento)

	for name, load := range map[string]func() (*trade.Order, error){
		"FindByID":          func() (*trade.Order, error) { return repo.FindByID(ctx, order.ID) },
		"FindByIDForUpdate": func() (*trade.Order, error) { return repo.FindByIDForUpdate(ctx, order.ID) },
	} {
		t.Run(name, func(t *testing.T) {
			found, err := load()
			require.NoError(t, err)
			assert.Equal(t, "PED-20261017-0001", found.OrderNumber)
			assert.Equal(t, trade.OrderStatusPending, found.Status)
			assert.Equal(t, trade.PaymentMethodCard, found.PaymentMethod)
			assert.Equal(t, "11.50", found.Subtotal.StringFixed(2))
			require.Len(t, found.Lines, 3)
			assert.Equal(t, []string{"Tomate", "Miel", "Pimiento"},
				[]string{found.Lines[0].ArticleName, found.Lines[1].ArticleName, found.Lines[2].ArticleName})
			assert.Equal(t, p2, *found.Lines[1].ProducerID)
			assert.Nil(t, found.SplitAt)
		})
	}

	t.Run("unknown order", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, trade.ErrOrderNotFound)
		_, err = repo.FindByIDForUpdate(ctx, uuid.New())
		assert.ErrorIs(t, err, trade.ErrOrderNotFound)
	})

	t.Run("number taken", func(t *testing.T) {
		exists, err := repo.ExistsByOrderNumber(ctx, "PED-20261017-0001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByOrderNumber(ctx, "PED-20261017-0002")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormOrderRepository_UniqueConstraints(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	customerID := uuid.New()
	miel := seedArticle(t, db, "Miel", "8.00", 10, nil)

	first := seedOrder(t, db, customerID, "PED-20261017-0001", miel)

	t.Run("duplicate order number", func(t *testing.T) {
		cart := seedCart(t, db, uuid.New(), 1, miel)
		dup, err := trade.NewOrderFromCart(cart, first.OrderNumber, trade.PaymentMethodBizum)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrConcurrencyConflict)
	})

	t.Run("second order for the same cart", func(t *testing.T) {
		cart, err := NewGormCartRepository(db).FindByID(ctx, first.CartID)
		require.NoError(t, err)
		again, err := trade.NewOrderFromCart(cart, "PED-20261017-0009", trade.PaymentMethodBizum)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, again), shared.ErrConcurrencyConflict)
	})
}

func TestGormOrderRepository_FindByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	customerID := uuid.New()
	miel := seedArticle(t, db, "Miel", "8.00", 10, nil)

	older := seedOrder(t, db, customerID, "PED-20261017-0001", miel)
	newer := seedOrder(t, db, customerID, "PED-20261017-0002", miel)
	seedOrder(t, db, uuid.New(), "PED-20261017-0003", miel)

	orders, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
	assert.Len(t, orders[0].Lines, 1)

	none, err := repo.FindByCustomer(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	miel := seedArticle(t, db, "Miel", "8.00", 10, nil)

	t.Run("writes status fields and bumps version", func(t *testing.T) {
		order := seedOrder(t, db, uuid.New(), "PED-20261017-0001", miel)
		require.NoError(t, order.MarkSplit())
		require.NoError(t, order.Cancel("me equivoqué"))

		require.NoError(t, repo.SaveWithLock(ctx, order))
		assert.Equal(t, 2, order.Version)

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusCancelled, found.Status)
		assert.Equal(t, "me equivoqué", found.CancelReason)
		assert.NotNil(t, found.CancelledAt)
		assert.NotNil(t, found.SplitAt)
		assert.Equal(t, 2, found.Version)
		assert.Len(t, found.Lines, 1)
	})

	t.Run("stale version", func(t *testing.T) {
		order := seedOrder(t, db, uuid.New(), "PED-20261017-0002", miel)
		stale, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)

		require.NoError(t, order.MarkSplit())
		require.NoError(t, repo.SaveWithLock(ctx, order))

		require.NoError(t, stale.MarkSplit())
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("missing order", func(t *testing.T) {
		ghost := &trade.Order{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Status: trade.OrderStatusPending}
		assert.ErrorIs(t, repo.SaveWithLock(ctx, ghost), trade.ErrOrderNotFound)
	})
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("first of the day", func(t *testing.T) {
		db := setupTestDB(t)
		number, err := NewGormOrderRepository(db).GenerateOrderNumber(ctx, orderDay)
		require.NoError(t, err)
		assert.Equal(t, "PED-20261017-0001", number)
	})

	t.Run("follows the last number of the day", func(t *testing.T) {
		db := setupTestDB(t)
		miel := seedArticle(t, db, "Miel", "8.00", 10, nil)
		seedOrder(t, db, uuid.New(), "PED-20261016-0042", miel)
		seedOrder(t, db, uuid.New(), "PED-20261017-0007", miel)
		seedOrder(t, db, uuid.New(), "PED-20261017-0003", miel)

		number, err := NewGormOrderRepository(db).GenerateOrderNumber(ctx, orderDay)
		require.NoError(t, err)
		assert.Equal(t, "PED-20261017-0008", number)
	})

	t.Run("wraps after 9999 and skips taken numbers", func(t *testing.T) {
		db := setupTestDB(t)
		miel := seedArticle(t, db, "Miel", "8.00", 10, nil)
		seedOrder(t, db, uuid.New(), "PED-20261017-9999", miel)
		seedOrder(t, db, uuid.New(), "PED-20261017-0001", miel)

		number, err := NewGormOrderRepository(db).GenerateOrderNumber(ctx, orderDay)
		require.NoError(t, err)
		assert.Equal(t, "PED-20261017-0002", number)
	})
}
