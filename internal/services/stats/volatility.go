package stats

import "math"

// TradingDaysPerYear annualizes daily statistics. Holidays and gaps are not adjusted for.
const TradingDaysPerYear = 252

// AnnualizedVolatility is the sample standard deviation of daily percent changes
// scaled by sqrt(252). Missing returns are skipped. A single observable return
// has no dispersion and yields 0.
func AnnualizedVolatility(levels []float64) (float64, error) {
	if len(levels) < 2 {
		return math.NaN(), insufficient("volatility", 2, len(levels))
	}
	rets := dropNaN(PctChange(levels))
	switch len(rets) {
	case 0:
		return math.NaN(), insufficient("volatility", 2, len(levels))
	case 1:
		return 0, nil
	}
	return StdDev(rets) * math.Sqrt(TradingDaysPerYear), nil
}

// StdDev is the sample (n-1) standard deviation. It returns NaN below two values.
func StdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	mean := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Mean of xs; NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
