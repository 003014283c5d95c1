package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItems_ValueScan(t *testing.T) {
	t.Parallel()

	items := LineItems{
		{ProductID: 7, Name: "Kopi \"Tubruk\"", UnitPrice: 5000, Quantity: 2, Subtotal: 10000},
		{ProductID: 9, Name: "Roti", UnitPrice: 7500.5, Quantity: 1, Subtotal: 7500.5},
	}

	v, err := items.Value()
	require.NoError(t, err)
	s, ok := v.(string)
	require.True(t, ok)

	var fromString, fromBytes LineItems
	require.NoError(t, fromString.Scan(s))
	require.NoError(t, fromBytes.Scan([]byte(s)))
	assert.Equal(t, items, fromString)
	assert.Equal(t, items, fromBytes)
	assert.Equal(t, 17500.5, fromString.Total())
}

func TestLineItems_EdgeCases(t *testing.T) {
	t.Parallel()

	v, err := LineItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var li LineItems
	require.NoError(t, li.Scan(nil))
	assert.NotNil(t, li)
	assert.Empty(t, li)

	assert.Error(t, li.Scan(42))
	assert.Error(t, li.Scan("{not json"))
}

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		name string
	}{
		{kind: KindGeneral, name: "GENERAL"},
		{kind: KindTransaction, name: "TRANSACTION"},
		{kind: KindLowStock, name: "LOW_STOCK"},
		{kind: KindWeeklyReport, name: "WEEKLY_REPORT"},
		{kind: KindProductAdded, name: "PRODUCT_ADDED"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.name, tt.kind.String())
			parsed, err := ParseKind(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, parsed)

			v, err := tt.kind.Value()
			require.NoError(t, err)
			var scanned Kind
			require.NoError(t, scanned.Scan(v))
			assert.Equal(t, tt.kind, scanned)
		})
	}
}

func TestKind_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseKind("PROMO")
	assert.Error(t, err)

	bad := Kind(42)
	assert.False(t, bad.Valid())
	assert.Equal(t, "Kind(42)", bad.String())
	_, err = bad.Value()
	assert.Error(t, err)

	var n Notification
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"PROMO"}`), &n))
	_, err = json.Marshal(Notification{Kind: bad})
	assert.Error(t, err)
}
