package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, config.App.Storage)
	assert.Equal(t, 5*time.Second, config.Database.LockTimeout)
	assert.Equal(t, 3, config.Database.MaxRetries)
	assert.True(t, config.Booking.TicketPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, "admin", config.Admin.Username)
	assert.Equal(t, 5*time.Minute, config.Redis.UserCacheTTL)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeEnvFile(t, `
STORAGE_DRIVER=memory
TICKET_PRICE=12.50
DB_LOCK_TIMEOUT=250ms
DB_TX_MAX_RETRIES=5
JWT_SECRET=from-file
`)
	t.Setenv("JWT_SECRET", "from-env")

	config, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, config.App.Storage)
	assert.Equal(t, "12.5", config.Booking.TicketPrice.String())
	assert.Equal(t, 250*time.Millisecond, config.Database.LockTimeout)
	assert.Equal(t, 5, config.Database.MaxRetries)
	assert.Equal(t, "from-env", config.JWT.Secret)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"unknown storage":  "STORAGE_DRIVER=sqlite\n",
		"unparsable price": "TICKET_PRICE=ten\n",
		"negative price":   "TICKET_PRICE=-1\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfigFrom(writeEnvFile(t, content))
			assert.Error(t, err)
		})
	}
}
