package usecase

import (
	"context"
	"sort"
	"sync"

	"StockWeather/internal/domain/models"
	drepo "StockWeather/internal/domain/repository"
	applogger "StockWeather/pkg/logger"
	pkgmetrics "StockWeather/pkg/metrics"
)

// LiveQuotes keeps the latest trade per symbol from a market stream.
type LiveQuotes struct {
	stream  drepo.MarketStream
	metrics drepo.Metrics
	log     *applogger.Logger

	mu     sync.RWMutex
	quotes map[string]*models.Quote
	done   chan struct{}
}

func NewLiveQuotes(stream drepo.MarketStream, metrics drepo.Metrics, l *applogger.Logger) *LiveQuotes {
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &LiveQuotes{stream: stream, metrics: metrics, log: l, quotes: make(map[string]*models.Quote)}
}

// IsConnected returns true if the market stream is connected.
func (q *LiveQuotes) IsConnected() bool {
	return q.stream.IsConnected()
}

// Start connects, subscribes and consumes in the background until ctx ends.
func (q *LiveQuotes) Start(ctx context.Context) error {
	if err := q.stream.Connect(ctx); err != nil {
		return err
	}
	if err := q.stream.Subscribe(ctx); err != nil {
		return err
	}
	q.done = make(chan struct{})
	go q.run(ctx)
	return nil
}

func (q *LiveQuotes) run(ctx context.Context) {
	defer close(q.done)
	for {
		trades, errs := q.stream.Read(ctx)
		err := q.consume(ctx, trades, errs)
		if ctx.Err() != nil {
			return
		}
		q.metrics.RecordError("stream")
		q.log.Warn("live stream interrupted, reconnecting", applogger.Error(err))
		for {
			err := q.stream.Reconnect(ctx)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			q.log.Error("live stream reconnect failed", applogger.Error(err))
		}
	}
}

// consume applies trades until the stream stops; it returns the stream error, if any.
func (q *LiveQuotes) consume(ctx context.Context, trades <-chan *models.Trade, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if ok && err != nil {
				// trades read before the failure are still valid
				for t := range trades {
					if t != nil {
						q.Apply(t)
					}
				}
				return err
			}
			errs = nil
		case t, ok := <-trades:
			if !ok {
				return nil
			}
			if t != nil {
				q.Apply(t)
			}
		}
	}
}

// Apply records t when it is not older than the current quote for its symbol.
func (q *LiveQuotes) Apply(t *models.Trade) {
	q.mu.Lock()
	cur, ok := q.quotes[t.Symbol]
	if ok && t.Timestamp.Before(cur.Timestamp) {
		q.mu.Unlock()
		return
	}
	if !ok {
		cur = &models.Quote{Symbol: t.Symbol}
		q.quotes[t.Symbol] = cur
	}
	cur.Price, cur.Volume, cur.Timestamp = t.Price, t.Volume, t.Timestamp
	cur.Updates++
	q.mu.Unlock()
	q.metrics.RecordLastPrice(t.Symbol, t.Price)
}

// Board returns a copy of every quote sorted by symbol.
func (q *LiveQuotes) Board() []models.Quote {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]models.Quote, 0, len(q.quotes))
	for _, v := range q.quotes {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Shutdown closes the stream and waits for the consumer to exit.
func (q *LiveQuotes) Shutdown(ctx context.Context) error {
	err := q.stream.Close()
	if q.done != nil {
		select {
		case <-q.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
