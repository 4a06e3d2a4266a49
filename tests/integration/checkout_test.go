package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apptrade "github.com/cosecha/backend/internal/application/trade"
	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/domain/trade"
	"github.com/cosecha/backend/internal/infrastructure/cache"
	"github.com/cosecha/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	carts     *apptrade.CartService
	orders    *apptrade.OrderService
	producers *apptrade.ProducerOrderService
}

func newServices(tdb *TestDB, store cache.Store) services {
	opts := apptrade.DefaultCheckoutOptions()
	articles := persistence.NewGormArticleRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	poRepo := persistence.NewGormProducerOrderRepository(tdb.DB)
	scope := persistence.NewGormTransactionScope(tdb.DB)

	var orderOpts []apptrade.OrderServiceOption
	var locker shared.Locker
	if store != nil {
		locker = store
		orderOpts = append(orderOpts, apptrade.WithOrderLocker(store), apptrade.WithIdempotencyStore(store))
	}
	return services{
		carts:     apptrade.NewCartService(persistence.NewGormCartRepository(tdb.DB), articles, locker, opts, nil),
		orders:    apptrade.NewOrderService(scope, persistence.NewGormCustomerRepository(tdb.DB), orderRepo, poRepo, opts, nil, orderOpts...),
		producers: apptrade.NewProducerOrderService(scope, poRepo, orderRepo, nil),
	}
}

func TestCheckout_ConcurrentBuyersNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(tdb, nil)
	ctx := context.Background()

	producer := tdb.CreateProducer("Huerta Sol")
	article := tdb.CreateArticle("Aceite de oliva 1L", "9.90", 3, producer)

	const buyers = 6
	customers := make([]uuid.UUID, buyers)
	for i := range customers {
		customers[i] = tdb.CreateCustomer("Comprador").ID
		_, err := svc.carts.AddItem(ctx, customers[i], apptrade.AddCartItemRequest{ArticleID: article.ID, Quantity: 1})
		require.NoError(t, err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		shortages int
	)
	for _, id := range customers {
		wg.Add(1)
		go func(customerID uuid.UUID) {
			defer wg.Done()
			_, err := svc.orders.CreateOrder(ctx, customerID, apptrade.CreateOrderRequest{PaymentMethod: "CARD"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInsufficientStock):
				shortages++
			default:
				t.Errorf("unexpected checkout error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, buyers-3, shortages)
	assert.Equal(t, 0, tdb.Stock(article.ID))
	assert.Equal(t, int64(3), tdb.Count("orders"))
	assert.Equal(t, int64(3), tdb.Count("producer_orders"))
}

func TestCheckout_FulfilmentLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(tdb, nil)
	ctx := context.Background()

	customer := tdb.CreateCustomer("Marta")
	huerta := tdb.CreateProducer("Huerta Sol")
	queseria := tdb.CreateProducer("Quesería Alta")
	tomate := tdb.CreateArticle("Tomate rosa", "3.20", 20, huerta)
	queso := tdb.CreateArticle("Queso curado", "14.50", 5, queseria)

	_, err := svc.carts.AddItem(ctx, customer.ID, apptrade.AddCartItemRequest{ArticleID: tomate.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = svc.carts.AddItem(ctx, customer.ID, apptrade.AddCartItemRequest{ArticleID: queso.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := svc.orders.CreateOrder(ctx, customer.ID, apptrade.CreateOrderRequest{PaymentMethod: "BIZUM"})
	require.NoError(t, err)
	require.Len(t, order.ProducerOrders, 2)
	assert.Equal(t, string(trade.OrderStatusPending), order.Status)
	assert.Equal(t, 16, tdb.Stock(tomate.ID))
	assert.Equal(t, 4, tdb.Stock(queso.ID))

	cart, err := svc.carts.View(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "checkout finalizes the cart")

	for _, po := range order.ProducerOrders {
		for _, status := range []string{"IN_PROCESS", "SHIPPED", "DELIVERED"} {
			_, err := svc.producers.UpdateStatus(ctx, po.ProducerID, po.ID, apptrade.UpdateProducerOrderStatusRequest{Status: status})
			require.NoError(t, err)
		}
	}

	got, err := svc.orders.GetOrderByID(ctx, customer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.OrderStatusDelivered), got.Status)

	_, err = svc.orders.CancelOrder(ctx, customer.ID, order.ID, apptrade.CancelOrderRequest{Reason: "too late"})
	require.Error(t, err, "a delivered order cannot be cancelled")
	assert.Equal(t, 16, tdb.Stock(tomate.ID))
}

func TestCheckout_CancelRestocks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(tdb, nil)
	ctx := context.Background()

	customer := tdb.CreateCustomer("Iván")
	article := tdb.CreateArticle("Miel de romero", "7.00", 10, tdb.CreateProducer("Colmenas del Sur"))

	_, err := svc.carts.AddItem(ctx, customer.ID, apptrade.AddCartItemRequest{ArticleID: article.ID, Quantity: 3})
	require.NoError(t, err)
	order, err := svc.orders.CreateOrder(ctx, customer.ID, apptrade.CreateOrderRequest{PaymentMethod: "CASH_ON_DELIVERY"})
	require.NoError(t, err)
	assert.Equal(t, 7, tdb.Stock(article.ID))

	cancelled, err := svc.orders.CancelOrder(ctx, customer.ID, order.ID, apptrade.CancelOrderRequest{Reason: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, string(trade.OrderStatusCancelled), cancelled.Status)
	for _, po := range cancelled.ProducerOrders {
		assert.Equal(t, string(trade.ProducerOrderStatusCancelled), po.Status)
	}
	assert.Equal(t, 10, tdb.Stock(article.ID))
}

func TestCheckout_RedisIdempotencyAndLocks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	client := NewTestRedis(t)
	store := cache.NewRedisStore(client, "cosecha-test:", cache.WithRedisLockWait(2*time.Second))
	svc := newServices(tdb, store)
	ctx := context.Background()

	customer := tdb.CreateCustomer("Nuria")
	article := tdb.CreateArticle("Almendras 500g", "6.40", 10, tdb.CreateProducer("Finca Norte"))
	_, err := svc.carts.AddItem(ctx, customer.ID, apptrade.AddCartItemRequest{ArticleID: article.ID, Quantity: 2})
	require.NoError(t, err)

	req := apptrade.CreateOrderRequest{PaymentMethod: "CARD", IdempotencyKey: "checkout-1"}
	_, err = svc.orders.CreateOrder(ctx, customer.ID, req)
	require.NoError(t, err)

	_, err = svc.orders.CreateOrder(ctx, customer.ID, req)
	require.ErrorIs(t, err, shared.ErrDuplicateRequest)
	assert.Equal(t, int64(1), tdb.Count("orders"))
	assert.Equal(t, 8, tdb.Stock(article.ID))

	keys, err := client.Keys(ctx, "cosecha-test:lock:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys, "cart locks are released after checkout")
}
