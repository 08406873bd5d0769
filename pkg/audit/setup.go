package audit

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/telekom/series-registry/pkg/config"
)

// NewFromConfig builds the sink chain described by cfg and starts a Manager.
// It returns nil when auditing is disabled.
func NewFromConfig(cfg config.Config, logger *zap.Logger) (*Manager, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}

	sinks := []Sink{NewLogSink(logger)}
	if len(cfg.Audit.Kafka.Brokers) > 0 {
		ks, err := NewKafkaSink(KafkaSinkConfig{
			Brokers: cfg.Audit.Kafka.Brokers,
			Topic:   cfg.Audit.Kafka.Topic,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("configure kafka audit sink: %w", err)
		}
		sinks = append(sinks, ks)
	}
	if cfg.Audit.Webhook.URL != "" {
		sinks = append(sinks, NewWebhookSink(WebhookSinkConfig{
			URL:     cfg.Audit.Webhook.URL,
			Timeout: cfg.WebhookTimeout(),
		}, logger))
	}

	var sink Sink = sinks[0]
	if len(sinks) > 1 {
		sink = NewMultiSink(sinks, logger)
	}
	return NewManager(sink, ManagerConfig{QueueSize: cfg.Audit.QueueSize}, logger), nil
}
