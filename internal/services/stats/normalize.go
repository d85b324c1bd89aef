package stats

import "math"

// Normalize rescales a series so that its first non-missing observation is 100.
// Leading missing values stay NaN. A zero base cannot be rescaled and yields all NaN.
func Normalize(levels []float64) []float64 {
	out := make([]float64, len(levels))
	base := math.NaN()
	for _, v := range levels {
		if !math.IsNaN(v) {
			base = v
			break
		}
	}
	for i, v := range levels {
		if math.IsNaN(base) || base == 0 || math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v / base * 100
	}
	return out
}

// FillForwardBackward fills gaps with the previous known value, then fills any
// leading gap with the first known value. The input is not modified.
func FillForwardBackward(levels []float64) []float64 {
	out := make([]float64, len(levels))
	copy(out, levels)
	last := math.NaN()
	for i, v := range out {
		if math.IsNaN(v) {
			out[i] = last
			continue
		}
		last = v
	}
	next := math.NaN()
	for i := len(out) - 1; i >= 0; i-- {
		if math.IsNaN(out[i]) {
			out[i] = next
			continue
		}
		next = out[i]
	}
	return out
}
