package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockWeather/internal/domain/catalog"
	"StockWeather/internal/domain/models"
	"StockWeather/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboard struct {
	window  models.Window
	pageErr error
	archive bool
	lastW   models.Window
}

func (f *fakeDashboard) Pages() []models.PageInfo {
	return []models.PageInfo{catalog.Commodities().Info()}
}

func (f *fakeDashboard) Window(start, end string) (models.Window, error) {
	w := f.window
	if start != "" {
		t, _ := time.Parse(models.DateLayout, start)
		w.Start = t
	}
	if end != "" {
		t, _ := time.Parse(models.DateLayout, end)
		w.End = t
	}
	return w, w.Validate()
}

func (f *fakeDashboard) check(id string) error {
	if id != "commodities" {
		return usecase.ErrUnknownPage
	}
	return f.pageErr
}

func (f *fakeDashboard) Page(_ context.Context, id string, w models.Window) (*models.PageResult, error) {
	f.lastW = w
	if err := f.check(id); err != nil {
		return nil, err
	}
	return &models.PageResult{
		Page:   catalog.Commodities().Info(),
		Window: w,
		Summary: models.SummaryTable{
			Columns: []models.Column{{Key: "ret_1y", Label: "1Y", Format: models.FormatPercent}},
			Rows:    []models.SummaryRow{{Instrument: "Gold", Ticker: "GC=F", Values: map[string]models.Number{"ret_1y": models.Undefined}}},
		},
		Options: []string{"Gold"},
	}, nil
}

func (f *fakeDashboard) Detail(_ context.Context, id, instrument string, w models.Window) (*models.DetailResult, error) {
	if err := f.check(id); err != nil {
		return nil, err
	}
	if instrument != "Gold" {
		return nil, usecase.ErrUnknownInstrument
	}
	return &models.DetailResult{Page: id, Instrument: instrument, Ticker: "GC=F", Window: w}, nil
}

func (f *fakeDashboard) Panel(_ context.Context, id string, w models.Window) (*models.Panel, error) {
	if err := f.check(id); err != nil {
		return nil, err
	}
	return &models.Panel{
		Page:    id,
		Window:  w,
		Dates:   []time.Time{w.Start},
		Columns: []models.PanelColumn{{Instrument: "Gold", Ticker: "GC=F", Values: []float64{2062.4}}},
	}, nil
}

func (f *fakeDashboard) Snapshots(_ context.Context, id string, limit int) ([]*models.PageSnapshot, error) {
	if err := f.check(id); err != nil {
		return nil, err
	}
	if !f.archive {
		return nil, usecase.ErrNoArchive
	}
	out := make([]*models.PageSnapshot, 0, limit)
	for i := 0; i < limit && i < 3; i++ {
		out = append(out, &models.PageSnapshot{ID: "s", Page: id})
	}
	return out, nil
}

func (f *fakeDashboard) Health(context.Context) error { return nil }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type board struct{}

func (board) Board() []models.Quote {
	return []models.Quote{{Symbol: "AAPL", Price: 191.5}}
}
func (board) IsConnected() bool { return true }

func newDash() *fakeDashboard {
	return &fakeDashboard{window: models.NewWindow(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	)}
}

func serve(t *testing.T, h *PagesEchoHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPageRoute(t *testing.T) {
	dash := newDash()
	h := NewPagesEchoHandler(nil, dash)

	rec := serve(t, h, "/api/pages/commodities?start=2025-03-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03-01", dash.lastW.Start.Format(models.DateLayout))
	assert.Contains(t, rec.Body.String(), `"ret_1y":null`)

	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Gold"}, data["options"])
}

func TestPageRouteErrors(t *testing.T) {
	dash := newDash()
	h := NewPagesEchoHandler(nil, dash)

	assert.Equal(t, http.StatusNotFound, serve(t, h, "/api/pages/nope").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, h, "/api/pages/commodities?start=01-02-2025").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, h, "/api/pages/commodities?start=2025-06-01&end=2025-01-01").Code)

	dash.pageErr = &usecase.FetchError{Source: "yahoo", Ticker: "GC=F", Err: errors.New("status 500")}
	rec := serve(t, h, "/api/pages/commodities")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_UPSTREAM")
}

func TestDetailRoute(t *testing.T) {
	h := NewPagesEchoHandler(nil, newDash())

	assert.Equal(t, http.StatusOK, serve(t, h, "/api/pages/commodities/detail?instrument=Gold").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, "/api/pages/commodities/detail?instrument=Tin").Code)

	rec := serve(t, h, "/api/pages/commodities/detail")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_REQUIRED")
}

func TestReportRoute(t *testing.T) {
	h := NewPagesEchoHandler(nil, newDash())

	rec := serve(t, h, "/api/pages/commodities/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/markdown"))
	assert.Contains(t, rec.Body.String(), "| Gold | GC=F | n/a |")

	rec = serve(t, h, "/api/pages/commodities/report?format=html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<table>")

	assert.Equal(t, http.StatusBadRequest, serve(t, h, "/api/pages/commodities/report?format=pdf").Code)
}

func TestExportRoute(t *testing.T) {
	h := NewPagesEchoHandler(nil, newDash())

	rec := serve(t, h, "/api/pages/commodities/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "date,Gold\n2025-01-01,2062.4\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "commodities_2025-01-01_2025-12-31.csv")

	rec = serve(t, h, "/api/pages/commodities/export?format=parquet")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PAR1"))
}

func TestSnapshotsRoute(t *testing.T) {
	dash := newDash()
	h := NewPagesEchoHandler(nil, dash)
	assert.Equal(t, http.StatusNotFound, serve(t, h, "/api/pages/commodities/snapshots").Code)

	dash.archive = true
	rec := serve(t, h, "/api/pages/commodities/snapshots?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])

	assert.Equal(t, http.StatusBadRequest, serve(t, h, "/api/pages/commodities/snapshots?limit=1000").Code)
}

func TestLiveRoute(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(t, NewPagesEchoHandler(nil, newDash()), "/api/live").Code)

	rec := serve(t, NewPagesEchoHandler(nil, newDash(), WithLiveBoard(board{})), "/api/live")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"AAPL"`)
}

func TestRateLimitAndHealth(t *testing.T) {
	h := NewPagesEchoHandler(nil, newDash(), WithRateLimiter(denyAll{}))
	assert.Equal(t, http.StatusTooManyRequests, serve(t, h, "/api/pages").Code)

	rec := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
