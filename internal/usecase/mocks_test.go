package usecase

import (
	"context"
	"time"

	"StockWeather/internal/domain/models"

	"github.com/stretchr/testify/mock"
)

type MockMarketSource struct {
	mock.Mock
}

func (m *MockMarketSource) Bars(ctx context.Context, ticker string, w models.Window) (models.Series, error) {
	args := m.Called(ctx, ticker, w)
	return args.Get(0).(models.Series), args.Error(1)
}

type MockMacroSource struct {
	mock.Mock
}

func (m *MockMacroSource) Observations(ctx context.Context, seriesID string, w models.Window) (models.Series, error) {
	args := m.Called(ctx, seriesID, w)
	return args.Get(0).(models.Series), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Init(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockArchive) StoreObservations(ctx context.Context, series []models.Series) error {
	return m.Called(ctx, series).Error(0)
}

func (m *MockArchive) StoreSnapshot(ctx context.Context, s *models.PageSnapshot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockArchive) ListSnapshots(ctx context.Context, page string, limit int) ([]*models.PageSnapshot, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PageSnapshot), args.Error(1)
}

func (m *MockArchive) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockArchive) Close() error {
	return m.Called().Error(0)
}

type MockSnapshotPublisher struct {
	mock.Mock
}

func (m *MockSnapshotPublisher) PublishSnapshot(ctx context.Context, s *models.PageSnapshot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSnapshotPublisher) Close() error {
	return m.Called().Error(0)
}

// recordingMetrics keeps the calls the tests look at.
type recordingMetrics struct {
	hits, misses int
	fetches      []string
	pages        []string
	errors       []string
	last         map[string]float64
}

func (r *recordingMetrics) RecordFetch(source string, _ time.Duration, _ error) {
	r.fetches = append(r.fetches, source)
}

func (r *recordingMetrics) RecordCache(_ string, hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *recordingMetrics) RecordPageBuild(page string, _ time.Duration) {
	r.pages = append(r.pages, page)
}

func (r *recordingMetrics) RecordError(kind string) { r.errors = append(r.errors, kind) }

func (r *recordingMetrics) RecordLastPrice(symbol string, price float64) {
	if r.last == nil {
		r.last = map[string]float64{}
	}
	r.last[symbol] = price
}

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testWindow() models.Window {
	return models.NewWindow(testStart, testStart.AddDate(1, 0, 0))
}

// series builds one bar per day starting at testStart; NaN values become undefined closes.
func series(ticker string, kind models.SeriesKind, closes ...float64) models.Series {
	s := models.Series{Ticker: ticker, Kind: kind}
	for i, c := range closes {
		s.Bars = append(s.Bars, models.Bar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   models.Number(c),
			High:   models.Number(c),
			Low:    models.Number(c),
			Close:  models.Number(c),
			Volume: 1000,
		})
	}
	return s
}

func linear(n int, from, to float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
