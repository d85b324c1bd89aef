package di

import (
	"path/filepath"
	"testing"

	"StockWeather/internal/repository"
	"StockWeather/pkg/cache"
	"StockWeather/pkg/config"
	applogger "StockWeather/pkg/logger"
	"StockWeather/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	cfg := &config.Config{Environment: "test"}
	cfg.Data.Start = "2025-01-01"
	cfg.Data.End = "2025-12-31"
	cfg.Cache.Backend = "memory"
	cfg.Archive.Backend = "none"
	cfg.Snapshots.Sink = "none"
	return cfg
}

func TestProvideCacheBackends(t *testing.T) {
	cfg := baseConfig()
	svc, cleanup, err := ProvideCache(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &cache.MemoryCache{}, svc)

	cfg.Cache.Backend = "none"
	svc, cleanup2, err := ProvideCache(cfg)
	require.NoError(t, err)
	defer cleanup2()
	assert.IsType(t, cache.NoopCache{}, svc)
}

func TestProvideArchiveDisabledIsUntypedNil(t *testing.T) {
	a, cleanup, err := ProvideArchive(baseConfig(), applogger.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.True(t, a == nil)
}

func TestProvideArchiveSQLite(t *testing.T) {
	cfg := baseConfig()
	cfg.Archive.Backend = "sqlite"
	cfg.Archive.SQLite.Path = filepath.Join(t.TempDir(), "archive.db")

	a, cleanup, err := ProvideArchive(cfg, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &repository.SQLiteArchive{}, a)

	cfg.Snapshots.Sink = "archive"
	pub := ProvideSnapshotPublisher(cfg, nil, a)
	assert.IsType(t, &repository.ArchiveSnapshotPublisher{}, pub)
}

func TestProvideSnapshotPublisherWithoutSink(t *testing.T) {
	cfg := baseConfig()
	assert.True(t, ProvideSnapshotPublisher(cfg, nil, nil) == nil)

	cfg.Snapshots.Sink = "kafka"
	assert.True(t, ProvideSnapshotPublisher(cfg, nil, nil) == nil)
}

func TestOptionalComponentsOff(t *testing.T) {
	cfg := baseConfig()
	assert.Nil(t, ProvideLiveQuotes(cfg, metrics.Nop{}, nil))
	assert.True(t, ProvideRateLimiter(cfg) == nil)
	assert.IsType(t, metrics.Nop{}, ProvideMetrics(cfg))

	consumer, err := ProvideSnapshotConsumer(cfg, nil, metrics.Nop{}, nil)
	require.NoError(t, err)
	assert.Nil(t, consumer)

	q, cleanup, err := ProvideWarmQueue(cfg, nil, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, q)

	p, cleanup2, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	defer cleanup2()
	assert.Nil(t, p)
}

func TestProvideDashboardUsesConfiguredWindow(t *testing.T) {
	cfg := baseConfig()
	cfg.Data.Pages = []string{"commodities", "sectors"}
	loader := ProvideSeriesLoader(cfg, nil, nil, cache.NoopCache{}, nil, metrics.Nop{}, nil)
	b := ProvidePageBuilder(loader, metrics.Nop{}, nil)

	d, err := ProvideDashboard(cfg, ProvideCatalog(cfg), b, nil, nil, applogger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01..2025-12-31", d.DefaultWindow().String())
	assert.Len(t, d.Pages(), 2)

	h := ProvidePagesHandler(applogger.Nop(), d, nil, nil)
	assert.NotNil(t, h)

	cfg.Data.End = "bad"
	_, err = ProvideDashboard(cfg, ProvideCatalog(cfg), b, nil, nil, applogger.Nop())
	assert.Error(t, err)
}
