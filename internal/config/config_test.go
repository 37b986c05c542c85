package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("EMAIL_USER", "ops@friendlyvoice.com")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, "friendlyvoice", cfg.MongoDatabase)
	assert.Equal(t, "ops@friendlyvoice.com", cfg.AdminNotifyTo)
	assert.Equal(t, MinBcryptCost, cfg.BcryptCost)
	assert.Equal(t, "INR", cfg.Currency)
	assert.False(t, cfg.TokensEnabled())
}

func TestLoadMySQLRequiresConnection(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestAdminAuthNeedsSecret(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("ADMIN_AUTH_REQUIRED", "true")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "calls", databaseFromURI("mongodb://u:p@host:27017/calls?authSource=admin"))
	assert.Equal(t, "friendlyvoice", databaseFromURI("mongodb+srv://cluster.example.net"))
}

func TestRateLimitNormalization(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 5*rl.RefillInterval, rl.TTL)
}
