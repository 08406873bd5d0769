package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/series-registry/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name               string
		configContent      string
		path               string
		expectedListenAddr string
		expectedMailHost   string
		expectError        bool
	}{
		{
			name: "full config",
			configContent: `
server:
  listenAddress: ":8080"
storage:
  path: "/var/lib/registry/subscribers.json"
mail:
  host: "smtp.example.com"
  port: 465
  user: "mailer@example.com"
  ownerAddress: "owner@example.com"
registry:
  defaultSeries: "Mittwochsrunde"
`,
			expectedListenAddr: ":8080",
			expectedMailHost:   "smtp.example.com",
		},
		{
			name: "minimal config",
			configContent: `
server:
  listenAddress: ":3000"
`,
			expectedListenAddr: ":3000",
		},
		{
			name:          "invalid YAML",
			configContent: `invalid: yaml: content [`,
			expectError:   true,
		},
		{
			name:        "file not found",
			path:        "/nonexistent/path/config.yaml",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if tt.configContent != "" {
				path = writeConfig(t, tt.configContent)
			}

			cfg, err := config.Load(path)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedListenAddr, cfg.Server.ListenAddress)
			assert.Equal(t, tt.expectedMailHost, cfg.Mail.Host)
		})
	}
}

func TestResolve_MissingOptionalFileUsesDefaults(t *testing.T) {
	cfg, err := config.Resolve(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultListenAddress, cfg.Server.ListenAddress)
	assert.Equal(t, config.DefaultStoragePath, cfg.Storage.Path)
	assert.Equal(t, config.DefaultSeriesTitle, cfg.Registry.DefaultSeries)
	assert.Equal(t, config.DefaultSMTPPort, cfg.Mail.Port)
	assert.False(t, cfg.Mail.Configured())
}

func TestResolve_MissingRequiredFileFails(t *testing.T) {
	_, err := config.Resolve(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.Error(t, err)
}

func TestResolve_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listenAddress: ":8080"
mail:
  host: "file.example.com"
  port: 25
  ownerAddress: "file-owner@example.com"
`)
	t.Setenv("PORT", "4000")
	t.Setenv("SMTP_HOST", "env.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("NOTIFY_EMAIL", "env-owner@example.com")
	t.Setenv("NOTIFY_FROM", "Fortbildung <noreply@example.com>")
	t.Setenv("AUDIT_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := config.Resolve(path, true)
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Server.ListenAddress)
	assert.Equal(t, "env.example.com", cfg.Mail.Host)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.True(t, cfg.Mail.Secure)
	assert.Equal(t, "env-owner@example.com", cfg.Mail.OwnerAddress)
	assert.Equal(t, "Fortbildung <noreply@example.com>", cfg.Mail.From)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Audit.Kafka.Brokers)
	assert.True(t, cfg.Audit.Enabled)
}

func TestResolve_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")

	cfg, err := config.Resolve(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSMTPPort, cfg.Mail.Port)
}

func TestMail_SenderAddress(t *testing.T) {
	tests := []struct {
		name string
		mail config.Mail
		want string
	}{
		{name: "explicit sender wins", mail: config.Mail{From: "from@example.com", User: "user@example.com"}, want: "from@example.com"},
		{name: "falls back to smtp user", mail: config.Mail{User: "user@example.com"}, want: "user@example.com"},
		{name: "placeholder when nothing set", mail: config.Mail{}, want: config.DefaultSenderAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mail.SenderAddress())
		})
	}
}
