package config

import "time"

const (
	DefaultListenAddress   = ":3000"
	DefaultStoragePath     = "./data/subscribers.json"
	DefaultSMTPPort        = 587
	DefaultSenderAddress   = "no-reply@example.com"
	DefaultSeriesTitle     = "Dienstagsfortbildung 2026"
	DefaultSubjectTag      = "Dienstagsfortbildung"
	DefaultNotifySubject   = "Dienstagsfortbildung Update"
	DefaultNotifyBody      = "Next lecture info"
	DefaultAuditQueueSize  = 1000
	DefaultAuditTopic      = "series-registry-audit"
	DefaultTraceExporter   = "otlp"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultWebhookTimeout  = 5 * time.Second
)

// Defaults fills every unset field that has a sensible fallback.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = DefaultListenAddress
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.Mail.Port <= 0 {
		c.Mail.Port = DefaultSMTPPort
	}
	if c.Registry.DefaultSeries == "" {
		c.Registry.DefaultSeries = DefaultSeriesTitle
	}
	if c.Registry.SubjectTag == "" {
		c.Registry.SubjectTag = DefaultSubjectTag
	}
	if c.Registry.NotifySubject == "" {
		c.Registry.NotifySubject = DefaultNotifySubject
	}
	if c.Registry.NotifyBody == "" {
		c.Registry.NotifyBody = DefaultNotifyBody
	}
	if c.Audit.QueueSize <= 0 {
		c.Audit.QueueSize = DefaultAuditQueueSize
	}
	if len(c.Audit.Kafka.Brokers) > 0 && c.Audit.Kafka.Topic == "" {
		c.Audit.Kafka.Topic = DefaultAuditTopic
	}
	if c.Telemetry.Exporter == "" {
		c.Telemetry.Exporter = DefaultTraceExporter
	}
	// zero means unset
	if c.Telemetry.SamplingRate <= 0 {
		c.Telemetry.SamplingRate = 1.0
	}
}
