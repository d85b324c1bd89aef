//go:build wireinject
// +build wireinject

package di

import (
	"StockWeather/internal/usecase"
	"StockWeather/pkg/config"
	applogger "StockWeather/pkg/logger"
	"StockWeather/pkg/queue"
	"StockWeather/pkg/server"

	"github.com/google/wire"
)

var dashboardSet = wire.NewSet(
	ProvideMetrics,
	ProvideHTTPClient,
	ProvideMarketSource,
	ProvideMacroSource,
	ProvideCache,
	ProvideArchive,
	ProvideKafkaProducer,
	ProvideSnapshotPublisher,
	ProvideSeriesLoader,
	wire.Bind(new(usecase.SeriesFetcher), new(*usecase.SeriesLoader)),
	ProvideCatalog,
	ProvidePageBuilder,
	ProvideDashboard,
)

// InitializeApp wires the HTTP service with every background component.
func InitializeApp(cfg *config.Config, l *applogger.Logger) (*server.App, func(), error) {
	wire.Build(
		dashboardSet,
		ProvideLiveQuotes,
		ProvideRateLimiter,
		ProvidePagesHandler,
		ProvideSnapshotConsumer,
		ProvideWarmQueue,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeDashboard wires the page service alone, for one-shot commands.
func InitializeDashboard(cfg *config.Config, l *applogger.Logger) (*usecase.Dashboard, func(), error) {
	wire.Build(dashboardSet)
	return nil, nil, nil
}

// InitializeWarmPublisher wires a producer-only handle on the warm queue.
func InitializeWarmPublisher(cfg *config.Config, l *applogger.Logger) (*queue.RedisQueue, func(), error) {
	wire.Build(ProvideWarmPublisher)
	return nil, nil, nil
}
