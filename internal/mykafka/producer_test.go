package mykafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	p, err := NewProducer(nil)
	require.Error(t, err)
	assert.Nil(t, p)
}

func TestPublishEvent_EncodingErrorNeverReachesBroker(t *testing.T) {
	t.Parallel()

	p, err := NewProducer([]string{"127.0.0.1:1"})
	require.NoError(t, err)
	defer p.Close()

	err = p.PublishEvent(context.Background(), TopicSaleEvents, "1", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestNop_Discards(t *testing.T) {
	t.Parallel()

	var pub Publisher = Nop{}
	assert.NoError(t, pub.PublishEvent(context.Background(), TopicProductEvents, "k", struct{}{}))
}
