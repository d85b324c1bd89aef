package stats

import "math"

// Horizon is a trailing window measured in trading days.
type Horizon struct {
	Label string
	Days  int
}

// Horizons are the fixed return horizons shown on every market page.
var Horizons = []Horizon{
	{Label: "1M", Days: 21},
	{Label: "3M", Days: 63},
	{Label: "6M", Days: 126},
	{Label: "1Y", Days: 252},
}

// PctChange computes day-over-day percent changes r_t = L_t / L_{t-1} - 1.
// The result has len(levels)-1 entries; an entry is NaN when either level is
// missing or the previous level is zero.
func PctChange(levels []float64) []float64 {
	if len(levels) < 2 {
		return nil
	}
	out := make([]float64, len(levels)-1)
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			out[i-1] = math.NaN()
			continue
		}
		out[i-1] = cur/prev - 1
	}
	return out
}

// HorizonReturn returns levels[-1] / levels[-h-1] - 1.
// A series shorter than h+1 observations yields an *InsufficientDataError.
func HorizonReturn(levels []float64, h int) (float64, error) {
	if h <= 0 {
		return math.NaN(), insufficient("horizon_return", 1, 0)
	}
	n := len(levels)
	if n < h+1 {
		return math.NaN(), insufficient("horizon_return", h+1, n)
	}
	base := levels[n-1-h]
	if base == 0 {
		return math.NaN(), nil
	}
	return levels[n-1]/base - 1, nil
}

// PeriodReturn is the change between the first and the last observation of the window.
func PeriodReturn(levels []float64) (float64, error) {
	if len(levels) < 2 {
		return math.NaN(), insufficient("period_return", 2, len(levels))
	}
	return HorizonReturn(levels, len(levels)-1)
}

// CumulativeIndex compounds returns into an index starting from 100:
// out[i] = 100 * prod(1 + r_0..r_i). Missing returns leave the index unchanged
// and are reported as NaN at their own position.
func CumulativeIndex(returns []float64) []float64 {
	out := make([]float64, len(returns))
	acc := 100.0
	for i, r := range returns {
		if math.IsNaN(r) {
			out[i] = math.NaN()
			continue
		}
		acc *= 1 + r
		out[i] = acc
	}
	return out
}

// GapReturns is the change from the previous observed level, indexed like levels.
// out[0] is NaN, as is every position whose own level is missing, so columns from
// different trading calendars can be correlated on the dates they share.
func GapReturns(levels []float64) []float64 {
	out := make([]float64, len(levels))
	prev := math.NaN()
	for i, v := range levels {
		out[i] = math.NaN()
		if math.IsNaN(v) {
			continue
		}
		if !math.IsNaN(prev) && prev != 0 {
			out[i] = v/prev - 1
		}
		prev = v
	}
	return out
}
