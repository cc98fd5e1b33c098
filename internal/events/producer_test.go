package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/config"
)

func TestNew_NoBrokersIsNoop(t *testing.T) {
	t.Parallel()

	p := New(nil)
	_, ok := p.(Noop)
	require.True(t, ok)
	assert.NoError(t, p.PublishEvent(context.Background(), TopicUsers, "1", map[string]any{"type": "x"}))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokers(t *testing.T) {
	t.Parallel()

	p := New([]string{"localhost:9092"})
	_, ok := p.(*Producer)
	assert.True(t, ok)
	assert.NoError(t, p.Close())
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"localhost:9092"})
	t.Cleanup(func() { _ = p.Close() })

	err := p.PublishEvent(context.Background(), TopicUsers, "1", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestProducer_PublishEvent_Integration(t *testing.T) {
	brokers := config.CSV(os.Getenv("TECHSTORE_TEST_KAFKA_BROKERS"))
	if len(brokers) == 0 {
		t.Skip("TECHSTORE_TEST_KAFKA_BROKERS is required for tests")
	}

	topic := "techstore_test_" + uuid.NewString()
	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
	_ = conn.Close()

	p := NewProducer(brokers)
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	require.NoError(t, p.PublishEvent(ctx, topic, "42", map[string]any{"type": "review_created", "review_id": 42}))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   time.Second,
	})
	defer r.Close()

	m, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", string(m.Key))

	var event map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &event))
	assert.Equal(t, "review_created", event["type"])
}
