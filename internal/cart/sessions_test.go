package cart

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_Lifecycle(t *testing.T) {
	t.Parallel()

	s := NewSessions()
	a, b := s.Open(), s.Open()
	require.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.With(a, func(c *Cart) error {
		c.AddProduct(kopi)
		return nil
	}))
	require.NoError(t, s.With(b, func(c *Cart) error {
		assert.True(t, c.IsEmpty(), "carts are per session")
		return nil
	}))

	boom := errors.New("boom")
	assert.ErrorIs(t, s.With(a, func(*Cart) error { return boom }), boom)

	require.NoError(t, s.Close(a))
	assert.ErrorIs(t, s.Close(a), ErrSessionNotFound)
	assert.ErrorIs(t, s.With(a, func(*Cart) error { return nil }), ErrSessionNotFound)
	assert.ErrorIs(t, s.With(uuid.New(), func(*Cart) error { return nil }), ErrSessionNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestSessions_SerializesAccess(t *testing.T) {
	t.Parallel()

	s := NewSessions()
	id := s.Open()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(id, func(c *Cart) error {
				c.AddProduct(kopi)
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, s.With(id, func(c *Cart) error {
		it, ok := c.Item(kopi.ID)
		require.True(t, ok)
		assert.Equal(t, 50, it.Quantity)
		return nil
	}))
}
