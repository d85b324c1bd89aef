package yahoo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"StockWeather/internal/domain/models"
	drepo "StockWeather/internal/domain/repository"
	xhttp "StockWeather/pkg/http"
	"StockWeather/pkg/util"

	"github.com/PaesslerAG/jsonpath"
)

const (
	pathResult   = "$.chart.result[0]"
	pathError    = "$.chart.error"
	pathErrDesc  = "$.chart.error.description"
	pathTS       = pathResult + ".timestamp"
	pathGMT      = pathResult + ".meta.gmtoffset"
	pathQuote    = pathResult + ".indicators.quote[0]."
	pathAdjClose = pathResult + ".indicators.adjclose[0].adjclose"
)

// ErrNoResult is returned when the chart payload carries neither data nor an error.
var ErrNoResult = errors.New("yahoo: empty chart result")

// Client fetches daily bars from the Yahoo Finance chart API.
type Client struct {
	baseURL    string
	http       *xhttp.Client
	autoAdjust bool
}

// Option configures Client.
type Option func(*Client)

// WithAutoAdjust replaces Close with the adjusted close and scales Open/High/Low by the same factor.
func WithAutoAdjust(on bool) Option {
	return func(c *Client) {
		c.autoAdjust = on
	}
}

// New creates a Yahoo chart client.
func New(baseURL string, httpc *xhttp.Client, opts ...Option) *Client {
	c := &Client{baseURL: baseURL, http: httpc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ drepo.MarketSource = (*Client)(nil)

// Bars returns daily bars for ticker; both window ends are inclusive.
func (c *Client) Bars(ctx context.Context, ticker string, w models.Window) (models.Series, error) {
	var jobj any
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker)),
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(w.Start.Unix(), 10)},
			"period2":  {strconv.FormatInt(util.EndOfDay(w.End).Unix()+1, 10)},
			"interval": {"1d"},
			"events":   {"history"},
		},
		Headers: map[string]string{"Accept": "application/json"},
	}, &jobj)
	if err != nil {
		return models.Series{}, fmt.Errorf("yahoo %s: %w", ticker, err)
	}

	bars, err := c.parse(jobj, w)
	if err != nil {
		return models.Series{}, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	return models.Series{Ticker: ticker, Kind: models.KindMarket, Bars: bars}, nil
}

func (c *Client) parse(jobj any, w models.Window) ([]models.Bar, error) {
	if v, err := jsonpath.Get(pathError, jobj); err == nil && v != nil {
		desc, _ := jsonpath.Get(pathErrDesc, jobj)
		return nil, fmt.Errorf("chart error: %v", desc)
	}
	if _, err := jsonpath.Get(pathResult, jobj); err != nil {
		return nil, ErrNoResult
	}

	rawTS, err := jsonpath.Get(pathTS, jobj)
	if err != nil {
		// a valid ticker with no trading days in the window has no timestamp array
		return []models.Bar{}, nil
	}
	ts, err := numbers(rawTS, -1)
	if err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}
	n := len(ts)

	var offset int64
	if v, err := jsonpath.Get(pathGMT, jobj); err == nil {
		if f, ok := v.(float64); ok {
			offset = int64(f)
		}
	}

	cols := make(map[string][]float64, 5)
	for _, name := range []string{"open", "high", "low", "close", "volume"} {
		raw, err := jsonpath.Get(pathQuote+name, jobj)
		if err != nil {
			return nil, fmt.Errorf("%s column: %w", name, err)
		}
		col, err := numbers(raw, n)
		if err != nil {
			return nil, fmt.Errorf("%s column: %w", name, err)
		}
		cols[name] = col
	}

	if c.autoAdjust {
		if raw, err := jsonpath.Get(pathAdjClose, jobj); err == nil {
			adj, err := numbers(raw, n)
			if err != nil {
				return nil, fmt.Errorf("adjclose column: %w", err)
			}
			adjust(cols, adj)
		}
	}

	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		// Bars are stamped at the session open in exchange time; shift before taking the calendar day.
		day := util.Day(time.Unix(int64(ts[i])+offset, 0))
		if !w.Contains(day) {
			continue
		}
		bar := models.Bar{
			Date:   day,
			Open:   models.Number(cols["open"][i]),
			High:   models.Number(cols["high"][i]),
			Low:    models.Number(cols["low"][i]),
			Close:  models.Number(cols["close"][i]),
			Volume: models.Number(cols["volume"][i]),
		}
		// The live session can repeat the last day; keep the newest print.
		if k := len(bars); k > 0 && bars[k-1].Date.Equal(day) {
			bars[k-1] = bar
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func adjust(cols map[string][]float64, adj []float64) {
	closes := cols["close"]
	for i := range closes {
		ratio := math.NaN()
		if closes[i] != 0 && !math.IsNaN(closes[i]) {
			ratio = adj[i] / closes[i]
		}
		for _, name := range []string{"open", "high", "low"} {
			cols[name][i] *= ratio
		}
		closes[i] = adj[i]
	}
}

// numbers converts a JSON array of numbers and nulls; null becomes NaN.
// want < 0 accepts any length.
func numbers(raw any, want int) ([]float64, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("not an array: %T", raw)
	}
	if want >= 0 && len(list) != want {
		return nil, fmt.Errorf("length %d, want %d", len(list), want)
	}
	out := make([]float64, len(list))
	for i, v := range list {
		switch x := v.(type) {
		case nil:
			out[i] = math.NaN()
		case float64:
			out[i] = x
		default:
			return nil, fmt.Errorf("element %d: unexpected %T", i, v)
		}
	}
	return out, nil
}
