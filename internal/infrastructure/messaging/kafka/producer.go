// Package kafka publishes intervention alerts for high-risk regions so
// downstream case-management systems can act on them.
package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/gizitrack/stuntmap/internal/config"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// messageWriter is the slice of kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes messages to one topic.
type Producer struct {
	writer messageWriter
	topic  string
	logger logging.Logger
}

// NewProducer builds a producer for the configured alert topic.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	batchTimeout := cfg.Timeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{
		writer: writer,
		topic:  cfg.AlertTopic,
		logger: log.Named("kafka-producer"),
	}
}

// newProducerWithWriter is used by tests.
func newProducerWithWriter(w messageWriter, topic string, log logging.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: log}
}

// Publish writes one keyed message.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeAlertPublishFailed,
			"failed to publish to topic "+p.topic)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
