package repository

import (
	"encoding/json"
	"fmt"

	"StockWeather/internal/domain/models"
)

// observation is one flattened archive row.
type observation struct {
	Ticker string
	Kind   string
	Bar    models.Bar
}

func flatten(series []models.Series) []observation {
	n := 0
	for _, s := range series {
		n += len(s.Bars)
	}
	out := make([]observation, 0, n)
	for _, s := range series {
		for _, b := range s.Bars {
			out = append(out, observation{Ticker: s.Ticker, Kind: string(s.Kind), Bar: b})
		}
	}
	return out
}

// nullable maps undefined numbers to SQL NULL.
func nullable(n models.Number) any {
	if !n.Defined() {
		return nil
	}
	return n.Float()
}

func encodeSummary(t models.SummaryTable) (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	return string(b), nil
}

func decodeSummary(raw string) (models.SummaryTable, error) {
	var t models.SummaryTable
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return t, fmt.Errorf("decode summary: %w", err)
	}
	return t, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 500:
		return 500
	default:
		return limit
	}
}
