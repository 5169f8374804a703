package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispatch/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults and .env values", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092")
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("DB_NAME=dispatch\nTARIFF_PER_KM_RATE=2500\nJWT_SECRET=ignored\n"), 0o600))
		t.Cleanup(func() {
			_ = os.Unsetenv("DB_NAME")
			_ = os.Unsetenv("TARIFF_PER_KM_RATE")
		})

		cfg, err := cmd.LoadConfig(envFile)

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, "dispatch", cfg.DBName)
		assert.Equal(t, "s3cret", cfg.JWTSecret)
		assert.Equal(t, int64(2500), cfg.Rates.PerKmRate)
		assert.Equal(t, int64(2000), cfg.Rates.ExpressSurcharge)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.True(t, cfg.KafkaEnabled())
		assert.Equal(t, 5*time.Minute, cfg.CourierPresenceTTL)
		assert.Contains(t, cfg.DSN(), "dbname=dispatch")
	})

	t.Run("should report every malformed variable", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DB_NAME", "dispatch")
		t.Setenv("TARIFF_PER_KM_RATE", "lots")
		t.Setenv("COURIER_PRESENCE_TTL", "soon")

		_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		require.Error(t, err)
		assert.ErrorContains(t, err, "TARIFF_PER_KM_RATE")
		assert.ErrorContains(t, err, "COURIER_PRESENCE_TTL")
		assert.ErrorContains(t, err, "JWT_SECRET is required")
	})
}
