package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultKafkaBatchTimeout = time.Second
	defaultKafkaWriteTimeout = 10 * time.Second
	kafkaSource              = "series-registry"
)

var errKafkaSinkClosed = errors.New("kafka sink is closed")

type KafkaSinkConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// messageWriter is implemented by *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON. Messages are keyed by subscriber
// email, so all events for one address land on the same partition in order.
type KafkaSink struct {
	writer  messageWriter
	log     *zap.SugaredLogger
	closed  atomic.Bool
	written atomic.Int64
	failed  atomic.Int64
}

func NewKafkaSink(cfg KafkaSinkConfig, logger *zap.Logger) (*KafkaSink, error) {
	switch {
	case len(cfg.Brokers) == 0:
		return nil, errors.New("kafka audit sink: at least one broker is required")
	case cfg.Topic == "":
		return nil, errors.New("kafka audit sink: topic is required")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = defaultKafkaBatchTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultKafkaWriteTimeout
	}

	sink := newKafkaSinkWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
	}, logger)
	sink.log.Infow("Publishing audit events to Kafka", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return sink, nil
}

func newKafkaSinkWithWriter(w messageWriter, logger *zap.Logger) *KafkaSink {
	return &KafkaSink{writer: w, log: logger.Named("kafka-audit").Sugar()}
}

func (s *KafkaSink) Write(ctx context.Context, event *Event) error {
	if s.closed.Load() {
		return errKafkaSinkClosed
	}

	msg, err := kafkaMessage(event)
	if err != nil {
		s.failed.Add(1)
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.failed.Add(1)
		return fmt.Errorf("publish audit event %s: %w", event.ID, err)
	}
	s.written.Add(1)
	return nil
}

func kafkaMessage(event *Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode audit event %s: %w", event.ID, err)
	}
	key := event.Email
	if key == "" {
		key = event.ID
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte(kafkaSource)},
		},
	}, nil
}

// Close flushes and closes the writer. Later calls are no-ops.
func (s *KafkaSink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.log.Infow("Closing Kafka audit sink", "written", s.written.Load(), "failed", s.failed.Load())
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}

func (s *KafkaSink) Name() string { return "kafka" }
