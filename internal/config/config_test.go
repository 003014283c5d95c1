package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears key for the duration of the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://kasir@localhost/kasir")
	t.Setenv("ACCESS_TTL", "30m")
	t.Setenv("KAFKA_ADDRESS", " kafka-1:9092, ,kafka-2:9092")
	t.Setenv("CHECKOUT_ATOMIC", "false")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers())
	assert.False(t, cfg.CheckoutAtomic)
	assert.Equal(t, ":9000", cfg.Addr())
}

func TestLoad_EnvFile(t *testing.T) {
	unset(t, "JWT_SECRET")
	unset(t, "LOW_STOCK_THRESHOLD")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nLOW_STOCK_THRESHOLD=3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 3, cfg.LowStockThreshold)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		unset(t, "JWT_SECRET")
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})

	t.Run("bad driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{DBDriver: "SQLite", DatabaseURL: "kasir.db", AccessTTL: time.Hour, LowStockThreshold: 10}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: true},
		{name: "empty dsn", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: true},
		{name: "negative threshold", mutate: func(c *Config) { c.LowStockThreshold = -1 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.AccessTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV("a, b,,"))
	assert.Empty(t, CSV(" , "))
}

func TestInitDB(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := InitDB(ctx, "mysql", "dsn")
	assert.Error(t, err)
	_, err = InitDB(ctx, DriverSQLite, "")
	assert.Error(t, err)

	db, err := InitDB(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}
