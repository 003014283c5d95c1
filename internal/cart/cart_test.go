package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kasir/internal/models"
)

var (
	kopi = models.Product{ID: 1, Name: "Kopi", Price: 5000}
	roti = models.Product{ID: 2, Name: "Roti", Price: 7500}
)

func TestCart_AddMergesLines(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddProduct(kopi)
	c.AddProduct(roti)
	c.AddProductQuantity(kopi, 2)
	c.AddProductQuantity(roti, 0)

	require.Equal(t, 2, c.Len())
	items := c.Items()
	assert.Equal(t, uint(1), items[0].ProductID, "insertion order is kept")
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 15000.0, items[0].Subtotal)
	assert.Equal(t, 22500.0, c.Total())
}

func TestCart_PriceSnapshot(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddProduct(kopi)
	repriced := kopi
	repriced.Price = 9000
	repriced.Name = "Kopi Baru"
	c.AddProduct(repriced)

	it, ok := c.Item(kopi.ID)
	require.True(t, ok)
	assert.Equal(t, "Kopi", it.Name)
	assert.Equal(t, 5000.0, it.UnitPrice)
	assert.Equal(t, 10000.0, it.Subtotal)
}

func TestCart_SetQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		qty     int
		wantLen int
		want    float64
	}{
		{name: "increase", qty: 4, wantLen: 2, want: 27500},
		{name: "zero removes", qty: 0, wantLen: 1, want: 7500},
		{name: "negative removes", qty: -3, wantLen: 1, want: 7500},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New()
			c.AddProduct(kopi)
			c.AddProduct(roti)
			c.SetQuantity(kopi.ID, tt.qty)
			c.SetQuantity(99, 5)

			assert.Equal(t, tt.wantLen, c.Len())
			assert.Equal(t, tt.want, c.Total())
		})
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddProduct(kopi)
	c.AddProduct(roti)
	c.SetTendered(20000)

	c.RemoveItem(kopi.ID)
	c.RemoveItem(kopi.ID)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 12500.0, c.Change())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Total())
	assert.Zero(t, c.Tendered())
}

func TestCart_ChangeNeverNegative(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddProductQuantity(roti, 2)
	c.SetTendered(1000)
	assert.Zero(t, c.Change())
}

func TestCart_ItemsIsCopy(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddProduct(kopi)
	items := c.Items()
	items[0].Quantity = 100

	it, _ := c.Item(kopi.ID)
	assert.Equal(t, 1, it.Quantity)
}
