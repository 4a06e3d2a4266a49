package persistence

import (
	"context"
	"testing"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type splitFixture struct {
	order      *trade.Order
	p1, p2     uuid.UUID
	subOrders  []*trade.ProducerOrder
	byProducer map[uuid.UUID]*trade.ProducerOrder
}

// seedSplitOrder stores Tomate(p1), Miel(p2), Pimiento(p1) and its two producer orders
func seedSplitOrder(t *testing.T, db *gorm.DB, number string) *splitFixture {
	t.Helper()
	p1, p2 := uuid.New(), uuid.New()
	tomate := seedArticle(t, db, "Tomate", "2.00", 10, ptr(p1))
	miel := seedArticle(t, db, "Miel", "8.00", 10, ptr(p2))
	pimiento := seedArticle(t, db, "Pimiento", "1.50", 10, ptr(p1))
	order := seedOrder(t, db, uuid.New(), number, tomate, miel, pimiento)

	repo := NewGormProducerOrderRepository(db)
	split := trade.SplitByProducer(order.Lines)
	subOrders, err := trade.BuildProducerOrders(order, split, func(producerID uuid.UUID) (string, error) {
		return repo.GenerateOrderNumber(context.Background(), orderDay, producerID)
	})
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(context.Background(), subOrders))

	f := &splitFixture{order: order, p1: p1, p2: p2, subOrders: subOrders, byProducer: map[uuid.UUID]*trade.ProducerOrder{}}
	for _, po := range subOrders {
		f.byProducer[po.ProducerID] = po
	}
	return f
}

func TestGormProducerOrderRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProducerOrderRepository(db)
	ctx := context.Background()
	f := seedSplitOrder(t, db, "PED-20261017-0001")

	t.Run("one sub-order per producer with lines in order", func(t *testing.T) {
		found, err := repo.FindByOrder(ctx, f.order.ID)
		require.NoError(t, err)
		require.Len(t, found, 2)

		po, err := repo.FindByID(ctx, f.byProducer[f.p1].ID)
		require.NoError(t, err)
		assert.Equal(t, trade.ProducerOrderStatusPending, po.Status)
		assert.Equal(t, "9.00", po.Subtotal.StringFixed(2))
		assert.Equal(t, trade.FormatProducerOrderNumber(orderDay, f.p1, 1), po.OrderNumber)
		require.Len(t, po.Lines, 2)
		assert.Equal(t, "Tomate", po.Lines[0].ArticleName)
		assert.Equal(t, "Pimiento", po.Lines[1].ArticleName)
		assert.Equal(t, f.order.Lines[0].ID, po.Lines[0].OrderLineID)
	})

	t.Run("by orders", func(t *testing.T) {
		found, err := repo.FindByOrders(ctx, []uuid.UUID{f.order.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		empty, err := repo.FindByOrders(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, trade.ErrProducerOrderNotFound)
	})

	t.Run("one sub-order per producer and order", func(t *testing.T) {
		dup, err := trade.NewProducerOrder(f.order.ID, f.p2, "OVP-dup", f.order.Lines[1:2])
		require.NoError(t, err)
		assert.ErrorIs(t, repo.CreateBatch(ctx, []*trade.ProducerOrder{dup}), shared.ErrConcurrencyConflict)
	})
}

func TestGormProducerOrderRepository_FindByProducer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProducerOrderRepository(db)
	ctx := context.Background()
	f := seedSplitOrder(t, db, "PED-20261017-0001")

	// a second order for the same producer p1
	tomate, err := NewGormArticleRepository(db).FindByID(ctx, f.order.Lines[0].ArticleID)
	require.NoError(t, err)
	second := seedOrder(t, db, uuid.New(), "PED-20261017-0002", tomate)
	number, err := repo.GenerateOrderNumber(ctx, orderDay, f.p1)
	require.NoError(t, err)
	assert.Equal(t, trade.FormatProducerOrderNumber(orderDay, f.p1, 2), number)
	newer, err := trade.NewProducerOrder(second.ID, f.p1, number, second.Lines)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(ctx, []*trade.ProducerOrder{newer}))

	all, err := repo.FindByProducer(ctx, f.p1, trade.ProducerOrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, f.byProducer[f.p1].ID, all[1].ID)

	require.NoError(t, newer.TransitionTo(trade.ProducerOrderStatusInProcess, ""))
	require.NoError(t, repo.SaveWithLock(ctx, newer))

	inProcess := trade.ProducerOrderStatusInProcess
	filtered, err := repo.FindByProducer(ctx, f.p1, trade.ProducerOrderFilter{Status: &inProcess})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, newer.ID, filtered[0].ID)

	other, err := repo.FindByProducer(ctx, f.p2, trade.ProducerOrderFilter{})
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestGormProducerOrderRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProducerOrderRepository(db)
	ctx := context.Background()
	f := seedSplitOrder(t, db, "PED-20261017-0001")
	po := f.byProducer[f.p2]

	t.Run("persists status and appended notes", func(t *testing.T) {
		require.NoError(t, po.TransitionTo(trade.ProducerOrderStatusInProcess, "Recogida mañana"))
		require.NoError(t, po.TransitionTo(trade.ProducerOrderStatusShipped, "Enviado por SEUR"))
		require.NoError(t, repo.SaveWithLock(ctx, po))

		found, err := repo.FindByID(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.ProducerOrderStatusShipped, found.Status)
		assert.Equal(t, "Recogida mañana\nEnviado por SEUR", found.Notes)
		assert.Equal(t, po.Version, found.Version)
	})

	t.Run("stale version", func(t *testing.T) {
		stale := *f.byProducer[f.p1]
		fresh, err := repo.FindByID(ctx, stale.ID)
		require.NoError(t, err)
		require.NoError(t, fresh.TransitionTo(trade.ProducerOrderStatusInProcess, ""))
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.TransitionTo(trade.ProducerOrderStatusCancelled, ""))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, &stale), shared.ErrConcurrencyConflict)
	})

	t.Run("missing", func(t *testing.T) {
		ghost := &trade.ProducerOrder{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
		assert.ErrorIs(t, repo.SaveWithLock(ctx, ghost), trade.ErrProducerOrderNotFound)
	})
}

func TestGormProducerOrderRepository_GenerateOrderNumber_PerProducer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProducerOrderRepository(db)
	f := seedSplitOrder(t, db, "PED-20261017-0001")

	next, err := repo.GenerateOrderNumber(context.Background(), orderDay, f.p2)
	require.NoError(t, err)
	assert.Equal(t, trade.FormatProducerOrderNumber(orderDay, f.p2, 2), next)

	fresh, err := repo.GenerateOrderNumber(context.Background(), orderDay, uuid.New())
	require.NoError(t, err)
	assert.Contains(t, fresh, "-0001")
}
