package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/repo"
)

func TestGreeting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hour int
		want string
	}{
		{hour: 0, want: "Selamat Pagi"},
		{hour: 10, want: "Selamat Pagi"},
		{hour: 11, want: "Selamat Siang"},
		{hour: 14, want: "Selamat Siang"},
		{hour: 17, want: "Selamat Sore"},
		{hour: 18, want: "Selamat Malam"},
		{hour: 23, want: "Selamat Malam"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, greeting(tt.hour))
		})
	}
}

func TestRankBestSellers(t *testing.T) {
	t.Parallel()

	txs := []models.Transaction{
		{Items: models.LineItems{
			{ProductID: 1, Name: "Teh", Quantity: 2, Subtotal: 8000},
			{ProductID: 2, Name: "Kopi", Quantity: 1, Subtotal: 5000},
		}},
		{Items: models.LineItems{
			{ProductID: 2, Name: "Kopi", Quantity: 1, Subtotal: 5000},
			{ProductID: 3, Name: "Air", Quantity: 2, Subtotal: 8000},
			{ProductID: 4, Name: "Roti", Quantity: 5, Subtotal: 37500},
		}},
	}

	got := rankBestSellers(txs, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "Roti", got[0].Name)
	assert.Equal(t, "Kopi", got[1].Name, "ties on quantity go to higher revenue")
	assert.Equal(t, "Air", got[2].Name, "remaining ties go by name")

	assert.Empty(t, rankBestSellers(nil, 5))
}

func seedSale(t *testing.T, r *repo.GormRepo, at time.Time, items ...models.LineItem) {
	t.Helper()
	tx := models.Transaction{Items: items, Timestamp: at.UTC()}
	for _, it := range items {
		tx.Total += it.Subtotal
	}
	tx.Tendered = tx.Total
	_, err := r.InsertTransaction(context.Background(), &tx)
	require.NoError(t, err)
}

func TestReports(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 11, 15, 30, 0, 0, time.UTC)

	for _, p := range []models.Product{
		{Name: "Kopi", Price: 5000, Stock: 4},
		{Name: "Roti", Price: 7500, Stock: 40},
		{Name: "Teh", Price: 4000, Stock: 10},
	} {
		p := p
		require.NoError(t, r.CreateProduct(ctx, &p))
	}

	kopi := models.LineItem{ProductID: 1, Name: "Kopi", UnitPrice: 5000, Quantity: 2, Subtotal: 10000}
	roti := models.LineItem{ProductID: 2, Name: "Roti", UnitPrice: 7500, Quantity: 1, Subtotal: 7500}
	seedSale(t, r, now.AddDate(0, 0, -2), kopi)
	seedSale(t, r, now.Add(-2*time.Hour), kopi, roti)
	seedSale(t, r, now.Add(-time.Hour), roti)

	svc := &ReportService{
		Repo:      r,
		Threshold: 10,
		Now:       func() time.Time { return now },
		Location:  time.UTC,
	}

	t.Run("dashboard", func(t *testing.T) {
		d, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Selamat Sore, "+DefaultStoreName, d.Greeting)
		assert.Equal(t, int64(3), d.TotalProducts)
		assert.Equal(t, int64(2), d.TodayTransactions)
		assert.Equal(t, 25000.0, d.TodayRevenue)
		assert.Equal(t, int64(2), d.LowStock)
		require.NotEmpty(t, d.BestSellers)
		assert.Equal(t, "Kopi", d.BestSellers[0].Name)
		assert.Equal(t, 4, d.BestSellers[0].Quantity)
		require.Len(t, d.Recent, 3)
		assert.True(t, d.Recent[0].Timestamp.After(d.Recent[1].Timestamp))
	})

	t.Run("revenue", func(t *testing.T) {
		rep, err := svc.Revenue(ctx, now.AddDate(0, 0, -7), now.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, 35000.0, rep.Total)
		assert.Equal(t, 3, rep.Count)
		require.Len(t, rep.Days, 2)
		assert.Equal(t, "2024-03-09", rep.Days[0].Date)
		assert.Equal(t, 1, rep.Days[0].Count)
		assert.Equal(t, "2024-03-11", rep.Days[1].Date)
		assert.Equal(t, 25000.0, rep.Days[1].Total)

		_, err = svc.Revenue(ctx, now, now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("best sellers", func(t *testing.T) {
		all, err := svc.BestSellers(ctx, time.Time{}, time.Time{}, 0)
		require.NoError(t, err)
		require.Len(t, all, 2)

		today, err := svc.BestSellers(ctx, now.Truncate(24*time.Hour), time.Time{}, 1)
		require.NoError(t, err)
		require.Len(t, today, 1)
		assert.Equal(t, "Roti", today[0].Name)
		assert.Equal(t, 2, today[0].Quantity)
	})
}
