package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kasir/internal/cart"
	"github.com/Skotchmaster/kasir/internal/checkout"
	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/mykafka"
	"github.com/Skotchmaster/kasir/internal/notify"
)

type salesFixture struct {
	svc  *SalesService
	rec  *recorder
	kopi models.Product
	roti models.Product
}

func newTestSales(t *testing.T) *salesFixture {
	t.Helper()
	r := newTestRepo(t)
	ctx := context.Background()

	kopi := models.Product{Name: "Kopi", Category: "Minuman", Price: 5000, Stock: 12, Barcode: strPtr("899100")}
	roti := models.Product{Name: "Roti", Category: "Makanan", Price: 7500, Stock: 40}
	require.NoError(t, r.CreateProduct(ctx, &kopi))
	require.NoError(t, r.CreateProduct(ctx, &roti))

	rec := &recorder{}
	return &salesFixture{
		svc: &SalesService{
			Repo:     r,
			Sessions: cart.NewSessions(),
			Engine:   NewCheckoutEngine(r, true),
			Notifier: notify.New(r, rec, notify.DefaultLowStockThreshold),
			Producer: rec,
		},
		rec:  rec,
		kopi: kopi,
		roti: roti,
	}
}

func TestSales_CartOperations(t *testing.T) {
	f := newTestSales(t)
	ctx := context.Background()
	id := f.svc.OpenCart().ID

	_, err := f.svc.AddItem(ctx, id, f.kopi.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.AddItem(ctx, id, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := f.svc.AddItem(ctx, id, f.kopi.ID, 2)
	require.NoError(t, err)
	view, err = f.svc.AddByBarcode(ctx, id, " 899100 ", 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 15000.0, view.Total)

	_, err = f.svc.AddByBarcode(ctx, id, "nope", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err = f.svc.AddItem(ctx, id, f.roti.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 22500.0, view.Total)

	view, err = f.svc.SetQuantity(id, f.kopi.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 12500.0, view.Total)

	_, err = f.svc.SetTendered(id, -1)
	assert.ErrorIs(t, err, ErrValidation)
	view, err = f.svc.SetTendered(id, 20000)
	require.NoError(t, err)
	assert.Equal(t, 7500.0, view.Change)

	view, err = f.svc.RemoveItem(id, f.roti.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, view.Total)

	view, err = f.svc.ClearCart(id)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Tendered)

	require.NoError(t, f.svc.CloseCart(id))
	_, err = f.svc.Cart(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.CloseCart(id), ErrNotFound)
}

func TestSales_Checkout(t *testing.T) {
	f := newTestSales(t)
	ctx := context.Background()
	id := f.svc.OpenCart().ID

	_, err := f.svc.AddItem(ctx, id, f.kopi.ID, 3)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, id, f.roti.ID, 2)
	require.NoError(t, err)
	_, err = f.svc.SetTendered(id, 50000)
	require.NoError(t, err)

	tx, err := f.svc.Checkout(ctx, id, nil)
	require.NoError(t, err)
	require.NotZero(t, tx.ID)
	assert.Equal(t, 30000.0, tx.Total)
	assert.Equal(t, 50000.0, tx.Tendered)
	assert.Equal(t, 20000.0, tx.Change)
	require.Len(t, tx.Items, 2)

	view, err := f.svc.Cart(id)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	kopi, err := f.svc.Repo.FindProduct(ctx, f.kopi.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, kopi.Stock)
	assert.True(t, kopi.LowStockNotified)

	sales := f.rec.topic(mykafka.TopicSaleEvents)
	require.Len(t, sales, 1)
	ev := sales[0].Event.(saleEvent)
	assert.Equal(t, tx.ID, ev.TransactionID)
	assert.Equal(t, 2, ev.Items)

	notes, err := f.svc.Repo.ListNotifications(ctx, false)
	require.NoError(t, err)
	kinds := map[models.Kind]int{}
	for _, n := range notes {
		kinds[n.Kind]++
	}
	assert.Equal(t, 1, kinds[models.KindTransaction])
	assert.Equal(t, 1, kinds[models.KindLowStock])

	stored, err := f.svc.Transaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.Items, stored.Items)

	recent, err := f.svc.RecentTransactions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestSales_CheckoutFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		qty      int
		tendered float64
		wantErr  error
	}{
		{name: "empty cart", qty: 0, tendered: 1000, wantErr: checkout.ErrEmptyCart},
		{name: "short payment", qty: 2, tendered: 9999, wantErr: checkout.ErrInsufficientPayment},
		{name: "not enough stock", qty: 13, tendered: 100000, wantErr: checkout.ErrInsufficientStock},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newTestSales(t)
			ctx := context.Background()
			id := f.svc.OpenCart().ID
			if tt.qty > 0 {
				_, err := f.svc.AddItem(ctx, id, f.kopi.ID, tt.qty)
				require.NoError(t, err)
			}

			_, err := f.svc.Checkout(ctx, id, &tt.tendered)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			view, err := f.svc.Cart(id)
			require.NoError(t, err)
			if tt.qty > 0 {
				assert.Len(t, view.Items, 1, "failed checkout keeps the cart")
			}

			kopi, err := f.svc.Repo.FindProduct(ctx, f.kopi.ID)
			require.NoError(t, err)
			assert.Equal(t, 12, kopi.Stock)
			assert.Empty(t, f.rec.topic(mykafka.TopicSaleEvents))
		})
	}
}

func TestSales_CheckoutUnknownSession(t *testing.T) {
	f := newTestSales(t)
	amount := 10.0
	_, err := f.svc.Checkout(context.Background(), uuid.New(), &amount)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSales_StockErrorNamesProduct(t *testing.T) {
	f := newTestSales(t)
	ctx := context.Background()
	id := f.svc.OpenCart().ID

	_, err := f.svc.AddItem(ctx, id, f.roti.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, id, f.kopi.ID, 20)
	require.NoError(t, err)

	amount := 500000.0
	_, err = f.svc.Checkout(ctx, id, &amount)
	var stockErr *checkout.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, f.kopi.ID, stockErr.ProductID)
	assert.Empty(t, stockErr.Decremented)

	roti, err := f.svc.Repo.FindProduct(ctx, f.roti.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, roti.Stock, "all-or-nothing checkout restores earlier lines")
}

func TestSales_Receipt(t *testing.T) {
	f := newTestSales(t)
	ctx := context.Background()
	id := f.svc.OpenCart().ID

	_, err := f.svc.AddItem(ctx, id, f.roti.ID, 2)
	require.NoError(t, err)
	amount := 20000.0
	tx, err := f.svc.Checkout(ctx, id, &amount)
	require.NoError(t, err)

	out, err := f.svc.Receipt(ctx, tx.ID)
	require.NoError(t, err)
	assert.Contains(t, out, DefaultStoreName)
	assert.Contains(t, out, "Rp15.000")
	assert.Contains(t, out, "Kembali")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "Terima kasih"))

	_, err = f.svc.Receipt(ctx, tx.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
