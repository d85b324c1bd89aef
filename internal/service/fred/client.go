package fred

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"StockWeather/internal/domain/models"
	drepo "StockWeather/internal/domain/repository"
	xhttp "StockWeather/pkg/http"
)

// ErrMissingAPIKey is returned at call time when no FRED key is configured.
var ErrMissingAPIKey = errors.New("fred: FRED_API_KEY is not set")

// missingValue is how FRED encodes a gap.
const missingValue = "."

// Client fetches series observations from the FRED API.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
}

// New creates a FRED client.
func New(baseURL, apiKey string, httpc *xhttp.Client) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpc}
}

var _ drepo.MacroSource = (*Client)(nil)

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsResponse struct {
	Count        int           `json:"count"`
	Observations []observation `json:"observations"`
}

// Observations returns the series between both inclusive window ends.
func (c *Client) Observations(ctx context.Context, seriesID string, w models.Window) (models.Series, error) {
	if c.apiKey == "" {
		return models.Series{}, ErrMissingAPIKey
	}

	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/fred/series/observations",
		QueryParams: map[string][]string{
			"series_id":         {seriesID},
			"api_key":           {c.apiKey},
			"file_type":         {"json"},
			"observation_start": {w.Start.Format(models.DateLayout)},
			"observation_end":   {w.End.Format(models.DateLayout)},
		},
	}, &resp)
	if err != nil {
		return models.Series{}, fmt.Errorf("fred %s: %w", seriesID, err)
	}

	bars := make([]models.Bar, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		day, err := time.Parse(models.DateLayout, o.Date)
		if err != nil {
			return models.Series{}, fmt.Errorf("fred %s: date %q: %w", seriesID, o.Date, err)
		}
		v := math.NaN()
		if o.Value != missingValue {
			v, err = strconv.ParseFloat(o.Value, 64)
			if err != nil {
				return models.Series{}, fmt.Errorf("fred %s: value %q on %s: %w", seriesID, o.Value, o.Date, err)
			}
		}
		bars = append(bars, models.Bar{
			Date:   day,
			Open:   models.Undefined,
			High:   models.Undefined,
			Low:    models.Undefined,
			Close:  models.Number(v),
			Volume: models.Undefined,
		})
	}
	return models.Series{Ticker: seriesID, Kind: models.KindMacro, Bars: bars}, nil
}
