package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overlays process environment variables on top of the file
// configuration. Only variables that are set take effect.
func (c *Config) ApplyEnv() {
	if port := getEnvString("PORT", ""); port != "" {
		c.Server.ListenAddress = ":" + port
	}
	c.Server.ListenAddress = getEnvString("LISTEN_ADDRESS", c.Server.ListenAddress)
	c.Storage.Path = getEnvString("DATA_FILE", c.Storage.Path)

	c.Mail.URL = getEnvString("SMTP_URL", c.Mail.URL)
	c.Mail.Host = getEnvString("SMTP_HOST", c.Mail.Host)
	c.Mail.Port = getEnvInt("SMTP_PORT", c.Mail.Port)
	c.Mail.User = getEnvString("SMTP_USER", c.Mail.User)
	c.Mail.Password = getEnvString("SMTP_PASS", c.Mail.Password)
	c.Mail.Secure = getEnvBool("SMTP_SECURE", c.Mail.Secure)
	c.Mail.InsecureSkipVerify = getEnvBool("SMTP_INSECURE_SKIP_VERIFY", c.Mail.InsecureSkipVerify)
	c.Mail.OwnerAddress = getEnvString("NOTIFY_EMAIL", c.Mail.OwnerAddress)
	c.Mail.From = getEnvString("NOTIFY_FROM", c.Mail.From)

	c.Registry.DefaultSeries = getEnvString("SERIES_TITLE", c.Registry.DefaultSeries)
	c.Frontend.Dir = getEnvString("FRONTEND_DIR", c.Frontend.Dir)

	if brokers := getEnvString("AUDIT_KAFKA_BROKERS", ""); brokers != "" {
		c.Audit.Kafka.Brokers = splitList(brokers)
		c.Audit.Enabled = true
	}
	c.Audit.Kafka.Topic = getEnvString("AUDIT_KAFKA_TOPIC", c.Audit.Kafka.Topic)
	if url := getEnvString("AUDIT_WEBHOOK_URL", ""); url != "" {
		c.Audit.Webhook.URL = url
		c.Audit.Enabled = true
	}

	if endpoint := getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", ""); endpoint != "" {
		c.Telemetry.Endpoint = endpoint
		c.Telemetry.Enabled = true
	}
	c.Telemetry.Exporter = getEnvString("OTEL_TRACES_EXPORTER", c.Telemetry.Exporter)
}

// getEnvString returns the value of an environment variable, or the provided default if not set.
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvInt falls back to the default on missing or non-numeric values.
func getEnvInt(key string, defaultVal int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
