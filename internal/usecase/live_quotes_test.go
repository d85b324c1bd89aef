package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockWeather/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStream replays one batch of trades per Read; a batch with an error
// ends that read with the error, the last batch stays open until ctx ends.
type scriptedStream struct {
	mu         sync.Mutex
	batches    [][]*models.Trade
	errs       []error
	reads      int
	reconnects int
	connected  bool
}

func (s *scriptedStream) Connect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *scriptedStream) Subscribe(context.Context) error { return nil }

func (s *scriptedStream) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	s.mu.Lock()
	i := s.reads
	s.reads++
	s.mu.Unlock()

	trades := make(chan *models.Trade, 16)
	errs := make(chan error, 1)
	go func() {
		defer close(trades)
		defer close(errs)
		if i >= len(s.batches) {
			<-ctx.Done()
			return
		}
		for _, t := range s.batches[i] {
			trades <- t
		}
		if s.errs[i] != nil {
			errs <- s.errs[i]
			return
		}
		<-ctx.Done()
	}()
	return trades, errs
}

func (s *scriptedStream) Reconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnects++
	return nil
}

func (s *scriptedStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

func (s *scriptedStream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *scriptedStream) reconnectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconnects
}

func TestLiveQuotesReconnectsAndKeepsLatest(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	stream := &scriptedStream{
		batches: [][]*models.Trade{
			{{Symbol: "AAPL", Price: 190, Timestamp: t0}},
			{
				{Symbol: "AAPL", Price: 191, Timestamp: t0.Add(time.Second)},
				{Symbol: "AAPL", Price: 150, Timestamp: t0.Add(-time.Minute)},
				{Symbol: "BINANCE:BTCUSDT", Price: 64000, Timestamp: t0},
			},
		},
		errs: []error{errors.New("read: connection reset"), nil},
	}
	metrics := &recordingMetrics{}
	live := NewLiveQuotes(stream, metrics, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, live.Start(ctx))
	assert.True(t, live.IsConnected())

	require.Eventually(t, func() bool {
		b := live.Board()
		return len(b) == 2 && b[0].Price == 191
	}, 2*time.Second, 10*time.Millisecond)

	board := live.Board()
	assert.Equal(t, "AAPL", board[0].Symbol)
	assert.Equal(t, int64(2), board[0].Updates)
	assert.Equal(t, "BINANCE:BTCUSDT", board[1].Symbol)
	assert.Equal(t, 1, stream.reconnectCount())

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	require.NoError(t, live.Shutdown(shutdownCtx))
	assert.False(t, live.IsConnected())
}

func TestLiveQuotesApplyIgnoresStaleTrades(t *testing.T) {
	metrics := &recordingMetrics{}
	live := NewLiveQuotes(&scriptedStream{}, metrics, nil)
	now := time.Now()

	live.Apply(&models.Trade{Symbol: "MSFT", Price: 420, Timestamp: now})
	live.Apply(&models.Trade{Symbol: "MSFT", Price: 400, Timestamp: now.Add(-time.Second)})

	board := live.Board()
	require.Len(t, board, 1)
	assert.Equal(t, 420.0, board[0].Price)
	assert.Equal(t, 420.0, metrics.last["MSFT"])
}
