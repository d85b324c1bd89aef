package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
environment: test
data:
  start: "2025-01-01"
  end: "2025-12-31"
  fred:
    api_key: from-file
cache:
  backend: memory
  ttl: 1h
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "https://query1.finance.yahoo.com", c.Data.Yahoo.BaseURL)
	assert.Equal(t, "none", c.Archive.Backend)
	assert.Equal(t, time.Hour, c.Cache.TTL)

	start, end, err := c.Window()
	require.NoError(t, err)
	assert.Equal(t, 2025, start.Year())
	assert.Equal(t, time.December, end.Month())
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FRED_API_KEY", "from-env")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("ARCHIVE_BACKEND", "sqlite")

	_, err := LoadWithEnv(writeConfig(t, sample))
	require.Error(t, err, "sqlite archive without a path must not validate")

	c, err := LoadWithEnv(writeConfig(t, sample+"archive:\n  sqlite:\n    path: /tmp/a.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Data.FRED.APIKey)
	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "sqlite", c.Archive.Backend)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c, err := Load(writeConfig(t, sample))
		require.NoError(t, err)
		return c
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Data.FRED.APIKey = ""
	assert.ErrorContains(t, c.Validate(), "FRED_API_KEY")

	c.Data.Pages = []string{"regions"}
	assert.NoError(t, c.Validate(), "economy disabled needs no key")

	c = base()
	c.Data.Start, c.Data.End = "2025-12-31", "2025-01-01"
	assert.Error(t, c.Validate())

	c = base()
	c.Cache.Backend = "disk"
	assert.Error(t, c.Validate())

	c = base()
	c.Snapshots.Sink = "archive"
	assert.Error(t, c.Validate())

	c = base()
	c.Environment = ""
	assert.Error(t, c.Validate())
}
