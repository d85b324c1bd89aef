package repository

import (
	"context"
	"time"

	"StockWeather/internal/domain/models"
)

// MarketSource fetches daily OHLCV bars for a vendor ticker. The window end is inclusive.
type MarketSource interface {
	Bars(ctx context.Context, ticker string, w models.Window) (models.Series, error)
}

// MacroSource fetches a macroeconomic series by id. The window end is inclusive.
type MacroSource interface {
	Observations(ctx context.Context, seriesID string, w models.Window) (models.Series, error)
}

// MarketStream delivers live trades.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SnapshotPublisher emits page snapshots to a stream.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, s *models.PageSnapshot) error
	Close() error
}

// Archive persists fetched observations and page snapshots.
type Archive interface {
	Init(ctx context.Context) error // ensure tables
	StoreObservations(ctx context.Context, series []models.Series) error
	StoreSnapshot(ctx context.Context, s *models.PageSnapshot) error
	ListSnapshots(ctx context.Context, page string, limit int) ([]*models.PageSnapshot, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordFetch(source string, d time.Duration, err error)
	RecordCache(kind string, hit bool)
	RecordPageBuild(page string, d time.Duration)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
}
