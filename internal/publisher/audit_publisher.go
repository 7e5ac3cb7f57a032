package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"plate-server/internal/service"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	log "github.com/sirupsen/logrus"
)

const (
	deliveryTimeout = 10 * time.Second
	flushTimeoutMs  = 15 * 1000
)

var ErrDeliveryTimeout = errors.New("audit event delivery timed out")

// producer is the part of *kafka.Producer the publisher relies on.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// AuditPublisher writes audit events to a Kafka topic, keyed by user id.
type AuditPublisher struct {
	producer producer
	topic    string
}

func NewAuditPublisher(bootstrapServers, topic string) (*AuditPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  bootstrapServers,
		"client.id":          "plate-server",
		"acks":               "all",
		"enable.idempotence": true,
		"message.timeout.ms": int(deliveryTimeout / time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.WithField("topic", topic).Info("Audit Kafka producer created")

	return &AuditPublisher{producer: p, topic: topic}, nil
}

// Publish blocks until the broker acknowledges the event, ctx is done or the delivery timeout passes.
func (p *AuditPublisher) Publish(ctx context.Context, event service.AuditEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)

	if err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.EntityID),
		Value:          payload,
		Timestamp:      event.OccurredAt,
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(event.EventType)}},
	}, deliveryChan); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	timer := time.NewTimer(deliveryTimeout)
	defer timer.Stop()

	select {
	case e := <-deliveryChan:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type: %T", e)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", msg.TopicPartition.Error)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: %s after %s", ErrDeliveryTimeout, event.EventType, deliveryTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AuditPublisher) Close() {
	log.Info("Closing audit Kafka producer...")
	if remaining := p.producer.Flush(flushTimeoutMs); remaining > 0 {
		log.WithField("pending", remaining).Warn("Audit events left unflushed")
	}
	p.producer.Close()
}
