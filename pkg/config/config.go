package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "./config.yaml"

type Server struct {
	ListenAddress string `yaml:"listenAddress"`
	TLSCertFile   string `yaml:"tlsCertFile"`
	TLSKeyFile    string `yaml:"tlsKeyFile"`
	// ShutdownTimeout bounds graceful shutdown (e.g. "10s").
	ShutdownTimeout string `yaml:"shutdownTimeout"`
}

type Storage struct {
	// Path of the JSON file holding the subscriber list.
	Path string `yaml:"path"`
}

// Mail holds the outbound mail transport selection. URL wins over the
// host/port bundle; with neither set no transport is configured.
type Mail struct {
	URL                string `yaml:"url"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Secure             bool   `yaml:"secure"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	// From is the sender identity used on every notification.
	From string `yaml:"from"`
	// OwnerAddress receives copies of subscribe/unsubscribe events.
	OwnerAddress string `yaml:"ownerAddress"`
}

// SenderAddress resolves the "from" identity: the configured sender, then
// the SMTP username, then a fixed placeholder.
func (m Mail) SenderAddress() string {
	if m.From != "" {
		return m.From
	}
	if m.User != "" {
		return m.User
	}
	return DefaultSenderAddress
}

// Configured reports whether any transport selector is present.
func (m Mail) Configured() bool {
	return m.URL != "" || m.Host != ""
}

type Registry struct {
	// DefaultSeries is stored on subscribers that did not name a series.
	DefaultSeries string `yaml:"defaultSeries"`
	// SubjectTag prefixes notification subjects when no series was given.
	SubjectTag    string `yaml:"subjectTag"`
	NotifySubject string `yaml:"notifySubject"`
	NotifyBody    string `yaml:"notifyBody"`
}

type Frontend struct {
	// Dir optionally serves a static frontend with SPA fallback.
	Dir         string   `yaml:"dir"`
	CORSOrigins []string `yaml:"corsOrigins"`
}

type KafkaAudit struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type WebhookAudit struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type Audit struct {
	Enabled   bool         `yaml:"enabled"`
	QueueSize int          `yaml:"queueSize"`
	Kafka     KafkaAudit   `yaml:"kafka"`
	Webhook   WebhookAudit `yaml:"webhook"`
}

// Telemetry configures OpenTelemetry tracing. Exporter is one of "otlp",
// "stdout" or "none".
type Telemetry struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
}

type Config struct {
	Server    Server    `yaml:"server"`
	Storage   Storage   `yaml:"storage"`
	Mail      Mail      `yaml:"mail"`
	Registry  Registry  `yaml:"registry"`
	Frontend  Frontend  `yaml:"frontend"`
	Audit     Audit     `yaml:"audit"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Load loads the registry configuration from a file path.
// If configPath is empty, defaults to "./config.yaml".
func Load(configPath ...string) (Config, error) {
	path := DefaultConfigPath
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open registry config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %w", path, err)
	}
	return config, nil
}

// Resolve builds the effective configuration: the YAML file (skipped when it
// does not exist and required is false), then environment overrides, then
// defaults.
func Resolve(path string, required bool) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		cfg = Config{}
	}
	cfg.ApplyEnv()
	cfg.Defaults()
	return cfg, nil
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c Config) ShutdownTimeout() time.Duration {
	return parseDurationOrDefault(c.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

// WebhookTimeout returns the parsed audit webhook timeout.
func (c Config) WebhookTimeout() time.Duration {
	return parseDurationOrDefault(c.Audit.Webhook.Timeout, DefaultWebhookTimeout)
}

func parseDurationOrDefault(value string, defaultVal time.Duration) time.Duration {
	if value == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
