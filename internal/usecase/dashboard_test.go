package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockWeather/internal/domain/catalog"
	"StockWeather/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(t *testing.T, market *MockMarketSource, opts ...DashboardOption) *Dashboard {
	t.Helper()
	c, err := catalog.New(marketPage(models.CompareNormalized, "A", "B"))
	require.NoError(t, err)
	b := NewPageBuilder(NewSeriesLoader(market, nil, nil, nil, nil), nil, nil)
	return NewDashboard(c, b, testWindow(), nil, opts...)
}

func TestDashboardPagePublishesSnapshot(t *testing.T) {
	w := testWindow()
	market := new(MockMarketSource)
	market.On("Bars", mock.Anything, "A", w).Return(series("A", models.KindMarket, 1, 2, 3), nil)
	market.On("Bars", mock.Anything, "B", w).Return(series("B", models.KindMarket, 3, 2, 1), nil)
	pub := new(MockSnapshotPublisher)
	pub.On("PublishSnapshot", mock.Anything, mock.MatchedBy(func(s *models.PageSnapshot) bool {
		return s.Page == "test" && s.ID != "" && len(s.Summary.Rows) == 2
	})).Return(errors.New("broker down"))

	d := newTestDashboard(t, market, WithSnapshotPublisher(pub))
	res, err := d.Page(context.Background(), "test", w)
	require.NoError(t, err)
	assert.Equal(t, "test", res.Page.ID)
	pub.AssertExpectations(t)
}

func TestDashboardUnknownPage(t *testing.T) {
	d := newTestDashboard(t, new(MockMarketSource))
	_, err := d.Page(context.Background(), "nope", testWindow())
	assert.ErrorIs(t, err, ErrUnknownPage)
	_, err = d.Detail(context.Background(), "nope", "A", testWindow())
	assert.ErrorIs(t, err, ErrUnknownPage)
	_, err = d.Snapshots(context.Background(), "nope", 5)
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestDashboardSnapshots(t *testing.T) {
	d := newTestDashboard(t, new(MockMarketSource))
	_, err := d.Snapshots(context.Background(), "test", 5)
	assert.ErrorIs(t, err, ErrNoArchive)
	require.NoError(t, d.Health(context.Background()))

	archive := new(MockArchive)
	want := []*models.PageSnapshot{{ID: "1", Page: "test"}}
	archive.On("ListSnapshots", mock.Anything, "test", 5).Return(want, nil)
	archive.On("Health", mock.Anything).Return(nil)

	d = newTestDashboard(t, new(MockMarketSource), WithSnapshotArchive(archive))
	got, err := d.Snapshots(context.Background(), "test", 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	require.NoError(t, d.Health(context.Background()))
}

func TestDashboardWindowDefaults(t *testing.T) {
	d := newTestDashboard(t, new(MockMarketSource))

	w, err := d.Window("", "")
	require.NoError(t, err)
	assert.Equal(t, testWindow(), w)

	w, err = d.Window("2024-03-01", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, testWindow().End, w.End)

	_, err = d.Window("2024-13-01", "")
	assert.Error(t, err)
	_, err = d.Window("2025-06-01", "2025-01-01")
	assert.Error(t, err)
}

func TestDashboardPagesInfo(t *testing.T) {
	d := newTestDashboard(t, new(MockMarketSource))
	pages := d.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, "test", pages[0].ID)
	assert.Len(t, pages[0].Instruments, 2)
}
