package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "oglasnik.db", cfg.DB.Path)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "listing-events", cfg.Kafka.Topic)
	assert.Equal(t, 100, cfg.Log.MaxSize)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/var/lib/oglasnik/catalog.db")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("METRICS_ADDR", ":9100")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_WRITE_TIMEOUT", "2s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/oglasnik/catalog.db", cfg.DB.Path)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Kafka.WriteTimeout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oglasnik.yaml")
	err := os.WriteFile(path, []byte(`
db:
  path: listings.db
http:
  addr: ":7070"
log:
  path: /tmp/oglasnik.log
  max_backups: 5
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "listings.db", cfg.DB.Path)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/oglasnik.log", cfg.Log.Path)
	assert.Equal(t, 5, cfg.Log.MaxBackups)
	assert.Equal(t, 28, cfg.Log.MaxAge)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("LOG_MAX_SIZE", "0")
	t.Setenv("KAFKA_BROKERS", "not a broker")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Log.MaxSize")
	assert.Contains(t, err.Error(), "hostname_port")
}
