package audit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookSink posts audit events as JSON to an external HTTP endpoint.
type WebhookSink struct {
	url    string
	client *resty.Client
	logger *zap.Logger

	eventsWritten atomic.Int64
	eventsFailed  atomic.Int64
}

// WebhookSinkConfig configures a WebhookSink.
type WebhookSinkConfig struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

// NewWebhookSink creates a new WebhookSink.
func NewWebhookSink(cfg WebhookSinkConfig, logger *zap.Logger) *WebhookSink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.Headers)

	sink := &WebhookSink{
		url:    cfg.URL,
		client: client,
		logger: logger.Named("webhook-sink"),
	}
	sink.logger.Info("Webhook audit sink created",
		zap.String("url", cfg.URL),
		zap.Duration("timeout", timeout))
	return sink
}

// Write sends the audit event to the webhook.
func (s *WebhookSink) Write(ctx context.Context, event *Event) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(event).
		Post(s.url)
	if err != nil {
		s.eventsFailed.Add(1)
		return fmt.Errorf("failed to send audit event to %s: %w", s.url, err)
	}
	if resp.IsError() {
		s.eventsFailed.Add(1)
		s.logger.Debug("webhook returned error",
			zap.String("event_id", event.ID),
			zap.Int("status_code", resp.StatusCode()))
		return fmt.Errorf("webhook %s returned error status: %d", s.url, resp.StatusCode())
	}

	s.eventsWritten.Add(1)
	return nil
}

// Stats returns the number of delivered and failed events.
func (s *WebhookSink) Stats() (written, failed int64) {
	return s.eventsWritten.Load(), s.eventsFailed.Load()
}

// Close is a no-op for WebhookSink.
func (s *WebhookSink) Close() error {
	s.logger.Info("closing webhook audit sink",
		zap.Int64("events_written", s.eventsWritten.Load()),
		zap.Int64("events_failed", s.eventsFailed.Load()))
	return nil
}

// Name returns the sink identifier.
func (s *WebhookSink) Name() string {
	return "webhook"
}
