package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/logx"
)

// Publisher sends delay notices to a Kafka topic. A nil *Publisher is valid
// and drops every notice.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewPublisher connects a synchronous producer. It returns nil, nil when
// Kafka is not configured.
func NewPublisher(brokers []string, topic string, logger logx.Logger) (*Publisher, error) {
	// без брокеров публикация отключена
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewPublisherWithProducer(producer, topic, logger), nil
}

// NewPublisherWithProducer wraps an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, logger logx.Logger) *Publisher {
	logger = logx.OrNop(logger)
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

// Publish sends one message per delay, keyed by account and service so a
// service's notices stay ordered within a partition. It returns the number
// of messages sent before the first failure.
func (p *Publisher) Publish(ctx context.Context, accountID, serviceID string, delays []domain.PickupDelay) (int, error) {
	if p == nil || len(delays) == 0 {
		return 0, nil
	}

	key := messageKey(accountID, serviceID)
	sent := 0
	for _, d := range delays {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		body, err := json.Marshal(FromDomain(accountID, serviceID, d))
		if err != nil {
			return sent, Permanent(fmt.Errorf("encode delay notice: %w", err))
		}
		partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(key),
			Value: sarama.ByteEncoder(body),
		})
		if err != nil {
			return sent, fmt.Errorf("kafka: send delay notice %s: %w", key, classify(err))
		}
		sent++
		p.logger.Debug("delay notice published",
			logx.String("key", key),
			logx.Date("original_date", d.Original),
			logx.Any("partition", partition),
			logx.Any("offset", offset),
		)
	}
	return sent, nil
}

// Close closes the producer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
