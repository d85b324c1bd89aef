package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockWeather/internal/domain/models"
	drepo "StockWeather/internal/domain/repository"
	"StockWeather/pkg/cache"
	applogger "StockWeather/pkg/logger"
	pkgmetrics "StockWeather/pkg/metrics"
)

// SeriesFetcher returns one series per ticker, in request order.
type SeriesFetcher interface {
	Load(ctx context.Context, kind models.SeriesKind, tickers []string, w models.Window) ([]models.Series, error)
}

// SeriesLoader memoizes provider fetches per (kind, ticker set, window).
//
// Retention: entries live for ttl; a ttl of 0 keeps them for the lifetime of
// the cache backend. Concurrent loads of the same key may both fetch; the
// second write stores an equal value.
type SeriesLoader struct {
	market  drepo.MarketSource
	macro   drepo.MacroSource
	cache   cache.Service
	archive drepo.Archive
	metrics drepo.Metrics
	log     *applogger.Logger
	ttl     time.Duration
	prefix  string
}

var _ SeriesFetcher = (*SeriesLoader)(nil)

// LoaderOption configures SeriesLoader.
type LoaderOption func(*SeriesLoader)

// WithCacheTTL sets the memo retention; 0 means no expiry.
func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *SeriesLoader) { l.ttl = ttl }
}

// WithKeyPrefix namespaces cache keys.
func WithKeyPrefix(prefix string) LoaderOption {
	return func(l *SeriesLoader) { l.prefix = prefix }
}

// WithArchive stores every successful fetch in a; failures only log.
func WithArchive(a drepo.Archive) LoaderOption {
	return func(l *SeriesLoader) { l.archive = a }
}

func NewSeriesLoader(market drepo.MarketSource, macro drepo.MacroSource, c cache.Service, metrics drepo.Metrics, l *applogger.Logger, opts ...LoaderOption) *SeriesLoader {
	if c == nil {
		c = cache.NoopCache{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	sl := &SeriesLoader{market: market, macro: macro, cache: c, metrics: metrics, log: l, prefix: "series"}
	for _, opt := range opts {
		opt(sl)
	}
	return sl
}

// CacheKey is series:<kind>:<md5 of sorted tickers>:<start>:<end>.
func (l *SeriesLoader) CacheKey(kind models.SeriesKind, tickers []string, w models.Window) string {
	return cache.GenerateKeyWithParams(l.prefix, kind, cache.HashSet(tickers),
		w.Start.Format(models.DateLayout), w.End.Format(models.DateLayout))
}

func (l *SeriesLoader) Load(ctx context.Context, kind models.SeriesKind, tickers []string, w models.Window) ([]models.Series, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	key := l.CacheKey(kind, tickers, w)

	var cached []models.Series
	err := l.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		if out, ok := inRequestOrder(cached, tickers); ok {
			l.metrics.RecordCache(string(kind), true)
			return out, nil
		}
		l.log.Warn("cached series set does not match request", applogger.String("key", key))
	case !errors.Is(err, cache.ErrCacheMiss):
		l.log.Warn("cache get failed, refetching", applogger.String("key", key), applogger.Error(err))
	}
	l.metrics.RecordCache(string(kind), false)

	out := make([]models.Series, 0, len(tickers))
	for _, t := range tickers {
		s, err := l.fetch(ctx, kind, t, w)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	if err := l.cache.Set(ctx, key, out, l.ttl); err != nil {
		l.log.Warn("cache set failed", applogger.String("key", key), applogger.Error(err))
	}
	if l.archive != nil {
		if err := l.archive.StoreObservations(ctx, out); err != nil {
			l.metrics.RecordError("archive")
			l.log.Warn("archive observations failed", applogger.String("kind", string(kind)), applogger.Error(err))
		}
	}
	return out, nil
}

func (l *SeriesLoader) fetch(ctx context.Context, kind models.SeriesKind, ticker string, w models.Window) (models.Series, error) {
	var (
		s      models.Series
		err    error
		source string
	)
	start := time.Now()
	switch kind {
	case models.KindMarket:
		source = "yahoo"
		s, err = l.market.Bars(ctx, ticker, w)
	case models.KindMacro:
		source = "fred"
		s, err = l.macro.Observations(ctx, ticker, w)
	default:
		return models.Series{}, fmt.Errorf("unknown series kind %q", kind)
	}
	l.metrics.RecordFetch(source, time.Since(start), err)
	if err != nil {
		l.log.Error("fetch failed",
			applogger.String("source", source),
			applogger.String("ticker", ticker),
			applogger.String("window", w.String()),
			applogger.Error(err))
		return models.Series{}, &FetchError{Source: source, Ticker: ticker, Err: err}
	}
	s.Ticker, s.Kind = ticker, kind
	return s, nil
}

// inRequestOrder reorders a cached set to match tickers; the key is order independent.
func inRequestOrder(set []models.Series, tickers []string) ([]models.Series, bool) {
	if len(set) != len(tickers) {
		return nil, false
	}
	byTicker := make(map[string]models.Series, len(set))
	for _, s := range set {
		byTicker[s.Ticker] = s
	}
	out := make([]models.Series, len(tickers))
	for i, t := range tickers {
		s, ok := byTicker[t]
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}
