package yahoo

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockWeather/internal/domain/models"
	xhttp "StockWeather/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-01-02 and 2025-01-03 14:30 UTC session opens, then a duplicate print of the 3rd.
const chartOK = `{"chart":{"result":[{
  "meta":{"symbol":"XLK","gmtoffset":-18000},
  "timestamp":[1735828200,1735914600,1735930000],
  "indicators":{
    "quote":[{"open":[100,102,103],"high":[101,104,104],"low":[99,101,102],"close":[100,null,103.5],"volume":[1000,2000,2500]}],
    "adjclose":[{"adjclose":[50,null,51.75]}]
  }}],"error":null}}`

const chartErr = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newServer(t *testing.T, body string, status int, seen *http.Request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func window() models.Window {
	return models.NewWindow(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
}

func TestBarsParsesChart(t *testing.T) {
	var seen http.Request
	srv := newServer(t, chartOK, http.StatusOK, &seen)
	defer srv.Close()

	c := New(srv.URL, xhttp.NewClient())
	s, err := c.Bars(context.Background(), "^GSPC", window())
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/%5EGSPC", seen.URL.EscapedPath())
	assert.Equal(t, "1d", seen.URL.Query().Get("interval"))
	// end is inclusive: period2 is the first second after 2025-01-03
	assert.Equal(t, "1735948800", seen.URL.Query().Get("period2"))

	require.Len(t, s.Bars, 2)
	assert.Equal(t, models.KindMarket, s.Kind)
	assert.Equal(t, "2025-01-02", s.Bars[0].Date.Format(models.DateLayout))
	assert.Equal(t, "2025-01-03", s.Bars[1].Date.Format(models.DateLayout))
	assert.Equal(t, 100.0, s.Bars[0].Close.Float())
	assert.Equal(t, 103.5, s.Bars[1].Close.Float(), "duplicate day keeps the newest print")
	assert.Equal(t, 2500.0, s.Bars[1].Volume.Float())
}

func TestBarsAutoAdjust(t *testing.T) {
	srv := newServer(t, chartOK, http.StatusOK, nil)
	defer srv.Close()

	c := New(srv.URL, xhttp.NewClient(), WithAutoAdjust(true))
	s, err := c.Bars(context.Background(), "XLK", window())
	require.NoError(t, err)

	assert.Equal(t, 50.0, s.Bars[0].Close.Float())
	assert.Equal(t, 50.0, s.Bars[0].Open.Float())
	assert.InDelta(t, 50.5, s.Bars[0].High.Float(), 1e-12)
	assert.InDelta(t, 51.0, s.Bars[1].Low.Float(), 1e-12)
}

func TestBarsNullBecomesNaN(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"gmtoffset":0},"timestamp":[1735776000,1735862400],
	"indicators":{"quote":[{"open":[1,2],"high":[1,2],"low":[1,2],"close":[1,null],"volume":[null,5]}]}}],"error":null}}`
	srv := newServer(t, body, http.StatusOK, nil)
	defer srv.Close()

	s, err := New(srv.URL, xhttp.NewClient()).Bars(context.Background(), "GC=F", window())
	require.NoError(t, err)
	require.Len(t, s.Bars, 2)
	assert.True(t, math.IsNaN(s.Bars[1].Close.Float()))
	assert.False(t, s.Bars[0].Volume.Defined())
}

func TestBarsChartError(t *testing.T) {
	srv := newServer(t, chartErr, http.StatusOK, nil)
	defer srv.Close()

	_, err := New(srv.URL, xhttp.NewClient()).Bars(context.Background(), "NOPE", window())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestBarsHTTPError(t *testing.T) {
	srv := newServer(t, chartErr, http.StatusNotFound, nil)
	defer srv.Close()

	_, err := New(srv.URL, xhttp.NewClient()).Bars(context.Background(), "NOPE", window())
	var se *xhttp.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestBarsEmptyWindow(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"gmtoffset":0},"indicators":{"quote":[{}]}}],"error":null}}`
	srv := newServer(t, body, http.StatusOK, nil)
	defer srv.Close()

	s, err := New(srv.URL, xhttp.NewClient()).Bars(context.Background(), "XLC", window())
	require.NoError(t, err)
	assert.Empty(t, s.Bars)
}
