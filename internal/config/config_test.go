package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DATABASE_DSN", "postgres://localhost/timeguard")
	t.Setenv("INITIAL_ADMIN_EMAIL", "admin@timeguard.local")
	t.Setenv("INITIAL_ADMIN_PASSWORD", "changeme123")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RABBITMQ_DSN", "amqp://localhost")
	t.Setenv("REDIS_PASSWORD", "redis")
	t.Setenv("EMAIL_SECURITY_ADDRESS", "security@timeguard.local")
	t.Setenv("EMAIL_SMTP_USERNAME", "mailer")
	t.Setenv("EMAIL_SMTP_PASSWORD", "mailer")
	t.Setenv("EMAIL_SMTP_HOST", "smtp.timeguard.local")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.Equal(t, 10, cfg.Database.QueryTimeout)
	assert.Equal(t, 20, cfg.Database.TransactionTimeout)
	assert.Equal(t, 15, cfg.Watchdog.LatenessGracePeriod)
	assert.Equal(t, 80, cfg.Watchdog.DealLookAheadMinutes)
}

func TestLoadConfigOverridesFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_TRANSACTION_TIMEOUT", "45")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Database.TransactionTimeout)
}
