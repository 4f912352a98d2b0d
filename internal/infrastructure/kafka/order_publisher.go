package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const eventTypeHeader = "event-type"

const OrderCreatedEventType = "order.created"

// OrderPublisher sends order events keyed by location so a location's
// orders land on one partition in creation order.
type OrderPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSyncProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = "restaurant-order"
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Timeout = 5 * time.Second
	saramaConfig.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("sarama.NewSyncProducer: %w", err)
	}

	return producer, nil
}

func NewOrderPublisher(producer sarama.SyncProducer, topic string) *OrderPublisher {
	return &OrderPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error {
	const op = "OrderPublisher.PublishOrderCreated"

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	headers := []sarama.RecordHeader{
		{Key: []byte(eventTypeHeader), Value: []byte(OrderCreatedEventType)},
	}
	if traceID := zapLogger.TraceIDFromContext(ctx); traceID != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte(zapLogger.TraceIDKey), Value: []byte(traceID)})
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.LocationID),
		Value:     sarama.ByteEncoder(payload),
		Headers:   headers,
		Timestamp: event.CreatedAt,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("%s: send: %w", op, err)
	}

	return nil
}

func (p *OrderPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is wired when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, models.OrderCreatedEvent) error {
	return nil
}
