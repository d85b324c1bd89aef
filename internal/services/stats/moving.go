package stats

import "math"

// TrendLabel classifies the short vs long moving average crossover.
type TrendLabel string

const (
	Uptrend   TrendLabel = "Uptrend"
	Downtrend TrendLabel = "Downtrend"
	Neutral   TrendLabel = "Neutral"
)

// Default moving-average windows for the trend label.
const (
	ShortWindow = 50
	LongWindow  = 200
)

// SMA is the simple moving average over a trailing window. Positions before the
// window is full, or whose window contains a missing value, are NaN.
func SMA(levels []float64, window int) []float64 {
	out := make([]float64, len(levels))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sum := 0.0
	missing := 0
	for i, v := range levels {
		if math.IsNaN(v) {
			missing++
		} else {
			sum += v
		}
		if i >= window {
			old := levels[i-window]
			if math.IsNaN(old) {
				missing--
			} else {
				sum -= old
			}
		}
		if i < window-1 || missing > 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// Trend compares SMA(short) with SMA(long) at the latest observation.
// Fewer than long observations, or a gap inside either window, is reported as
// insufficient data rather than a label.
func Trend(levels []float64, short, long int) (TrendLabel, error) {
	n := len(levels)
	if n < long || n < short {
		return "", insufficient("trend", max(short, long), n)
	}
	s := SMA(levels[n-short:], short)[short-1]
	l := SMA(levels[n-long:], long)[long-1]
	if math.IsNaN(s) || math.IsNaN(l) {
		return "", insufficient("trend", max(short, long), n)
	}
	switch {
	case s > l:
		return Uptrend, nil
	case s < l:
		return Downtrend, nil
	default:
		return Neutral, nil
	}
}
