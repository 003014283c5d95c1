package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		page, size       int
		wantFrom, wantSz int
	}{
		{name: "first page", page: 1, size: 20, wantFrom: 0, wantSz: 20},
		{name: "third page", page: 3, size: 5, wantFrom: 10, wantSz: 5},
		{name: "page below one", page: 0, size: 5, wantFrom: 0, wantSz: 5},
		{name: "size too large", page: 2, size: 500, wantFrom: 10, wantSz: 10},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			from, size := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantSz, size)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseIntDefault("7", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("-3", 1))
	assert.Equal(t, 1, ParseIntDefault("abc", 1))
}

func TestFormatIDR(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Rp20.000", FormatIDR(20000))
	assert.Equal(t, "Rp1.250.500", FormatIDR(1250499.6))
	assert.Equal(t, "Rp0", FormatIDR(0))
	assert.Equal(t, "-Rp5.000", FormatIDR(-5000))
}
