package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"plate-server/internal/service"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducer struct {
	messages []*kafka.Message
	ack      error
	produce  error
	silent   bool
	flushed  bool
	closed   bool
}

func (s *stubProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if s.produce != nil {
		return s.produce
	}
	s.messages = append(s.messages, msg)
	if !s.silent {
		ack := *msg
		ack.TopicPartition.Error = s.ack
		deliveryChan <- &ack
	}
	return nil
}

func (s *stubProducer) Flush(int) int {
	s.flushed = true
	return 0
}

func (s *stubProducer) Close() {
	s.closed = true
}

func TestPublishWritesKeyedEvent(t *testing.T) {
	stub := &stubProducer{}
	p := &AuditPublisher{producer: stub, topic: "audit-events"}

	err := p.Publish(context.Background(), service.AuditEvent{
		Service:   "plate-server",
		EventType: service.EventUserLoggedIn,
		EntityID:  "user-1",
		Payload:   map[string]interface{}{"email": "user@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, stub.messages, 1)

	msg := stub.messages[0]
	assert.Equal(t, "audit-events", *msg.TopicPartition.Topic)
	assert.Equal(t, []byte("user-1"), msg.Key)
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte(service.EventUserLoggedIn)}}, msg.Headers)
	assert.False(t, msg.Timestamp.IsZero())

	var decoded service.AuditEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, service.EventUserLoggedIn, decoded.EventType)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func TestPublishReportsDeliveryFailure(t *testing.T) {
	stub := &stubProducer{ack: kafka.NewError(kafka.ErrMsgTimedOut, "timed out", false)}
	p := &AuditPublisher{producer: stub, topic: "audit-events"}

	err := p.Publish(context.Background(), service.AuditEvent{EntityID: "user-1"})
	assert.ErrorContains(t, err, "delivery failed")
}

func TestPublishProduceError(t *testing.T) {
	stub := &stubProducer{produce: errors.New("queue full")}
	p := &AuditPublisher{producer: stub, topic: "audit-events"}

	err := p.Publish(context.Background(), service.AuditEvent{EntityID: "user-1"})
	assert.ErrorContains(t, err, "queue full")
}

func TestPublishHonoursContext(t *testing.T) {
	stub := &stubProducer{silent: true}
	p := &AuditPublisher{producer: stub, topic: "audit-events"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, service.AuditEvent{EntityID: "user-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseFlushes(t *testing.T) {
	stub := &stubProducer{}
	(&AuditPublisher{producer: stub}).Close()
	assert.True(t, stub.flushed)
	assert.True(t, stub.closed)
}
