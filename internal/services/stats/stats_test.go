package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func linear(n int, from, to float64) []float64 {
	out := make([]float64, n)
	steps := float64(n - 1)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/steps
	}
	return out
}

func TestHorizonReturnExact(t *testing.T) {
	s := make([]float64, 300)
	for i := range s {
		s[i] = 50 + math.Sin(float64(i)/7)*10 + float64(i)/3
	}
	got, err := HorizonReturn(s, 252)
	require.NoError(t, err)
	assert.Equal(t, s[len(s)-1]/s[len(s)-253]-1, got)
}

func TestHorizonReturnInsufficient(t *testing.T) {
	s := linear(252, 100, 120)
	got, err := HorizonReturn(s, 252)
	require.Error(t, err)
	assert.True(t, math.IsNaN(got))
	assert.True(t, errors.Is(err, ErrInsufficientData))

	var ide *InsufficientDataError
	require.True(t, errors.As(err, &ide))
	assert.Equal(t, 253, ide.Need)
	assert.Equal(t, 252, ide.Have)
}

func TestHorizonReturnShortHorizonsStillDefined(t *testing.T) {
	s := linear(100, 100, 110)
	for _, h := range Horizons {
		_, err := HorizonReturn(s, h.Days)
		if h.Days < 100 {
			assert.NoError(t, err, h.Label)
		} else {
			assert.ErrorIs(t, err, ErrInsufficientData, h.Label)
		}
	}
}

func TestPctChange(t *testing.T) {
	got := PctChange([]float64{100, 110, math.NaN(), 121, 0, 5})
	require.Len(t, got, 5)
	assert.InDelta(t, 0.1, got[0], 1e-12)
	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, math.IsNaN(got[2]))
	assert.InDelta(t, -1, got[3], 1e-12)
	assert.True(t, math.IsNaN(got[4]))
	assert.Nil(t, PctChange([]float64{1}))
}

func TestPeriodReturn(t *testing.T) {
	got, err := PeriodReturn([]float64{80, 90, 100})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-12)

	_, err = PeriodReturn([]float64{80})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFlatSeries(t *testing.T) {
	s := flat(300, 100)

	vol, err := AnnualizedVolatility(s)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vol)

	trend, err := Trend(s, ShortWindow, LongWindow)
	require.NoError(t, err)
	assert.Equal(t, Neutral, trend)

	for _, h := range Horizons {
		r, err := HorizonReturn(s, h.Days)
		require.NoError(t, err)
		assert.Equal(t, 0.0, r, h.Label)
	}
}

func TestLinearSeries(t *testing.T) {
	s := linear(253, 100, 200)

	r, err := HorizonReturn(s, 252)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	trend, err := Trend(s, ShortWindow, LongWindow)
	require.NoError(t, err)
	assert.Equal(t, Uptrend, trend)

	down := linear(253, 200, 100)
	trend, err = Trend(down, ShortWindow, LongWindow)
	require.NoError(t, err)
	assert.Equal(t, Downtrend, trend)
}

func TestTrendInsufficient(t *testing.T) {
	_, err := Trend(linear(199, 1, 2), ShortWindow, LongWindow)
	var ide *InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, "trend", ide.Op)
	assert.Equal(t, 200, ide.Need)
}

func TestVolatility(t *testing.T) {
	s := []float64{100, 101, 99, 102, 100, 103}
	a, err := AnnualizedVolatility(s)
	require.NoError(t, err)
	b, err := AnnualizedVolatility(s)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Greater(t, a, 0.0)

	rets := PctChange(s)
	assert.InDelta(t, StdDev(rets)*math.Sqrt(252), a, 1e-12)

	one, err := AnnualizedVolatility([]float64{100, 105})
	require.NoError(t, err)
	assert.Equal(t, 0.0, one)

	_, err = AnnualizedVolatility([]float64{100})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, math.NaN(), 6, 7, 8}, 3)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2, got[2], 1e-12)
	assert.InDelta(t, 3, got[3], 1e-12)
	assert.True(t, math.IsNaN(got[4]))
	assert.True(t, math.IsNaN(got[6]))
	assert.InDelta(t, 7, got[7], 1e-12)
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{math.NaN(), 50, 75, math.NaN(), 25})
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, 100.0, got[1])
	assert.InDelta(t, 150, got[2], 1e-12)
	assert.True(t, math.IsNaN(got[3]))
	assert.InDelta(t, 50, got[4], 1e-12)

	s := []float64{3.7, 1, 2}
	assert.Equal(t, 100.0, Normalize(s)[0])
	assert.Empty(t, Normalize(nil))
}

func TestCumulativeIndex(t *testing.T) {
	got := CumulativeIndex([]float64{0.1, math.NaN(), -0.5})
	assert.InDelta(t, 110, got[0], 1e-9)
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 55, got[2], 1e-9)
}

func TestFillForwardBackward(t *testing.T) {
	in := []float64{math.NaN(), 2, math.NaN(), 4, math.NaN()}
	got := FillForwardBackward(in)
	assert.Equal(t, []float64{2, 2, 2, 4, 4}, got)
	assert.True(t, math.IsNaN(in[0]), "input must not be modified")
}

func TestCorrelation(t *testing.T) {
	a := []float64{1, 3, 2, 5, 4, 6}
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}
	c := []float64{6, 4, 5, 2, 3, 1}
	k := []float64{7, 7, 7, 7, 7, 7}

	m := Correlation([][]float64{a, b, c, k})
	require.Len(t, m, 4)
	assert.InDelta(t, 1, m[0][1], 1e-12)
	assert.Less(t, m[0][2], 0.0)
	for i := range m {
		for j := range m {
			if math.IsNaN(m[i][j]) {
				assert.True(t, math.IsNaN(m[j][i]))
				continue
			}
			assert.Equal(t, m[i][j], m[j][i])
		}
	}
	assert.Equal(t, 1.0, m[0][0])
	assert.Equal(t, 1.0, m[2][2])
	assert.True(t, math.IsNaN(m[3][3]))
	assert.True(t, math.IsNaN(m[0][3]))
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	a := []float64{1, 2, math.NaN(), 4, 5}
	b := []float64{2, 4, 100, 8, 10}
	m := Correlation([][]float64{a, b})
	assert.InDelta(t, 1, m[0][1], 1e-12)

	short := Correlation([][]float64{{1, math.NaN()}, {math.NaN(), 2}})
	assert.True(t, math.IsNaN(short[0][1]))
}

func TestGapReturnsSkipsMissingDays(t *testing.T) {
	nan := math.NaN()
	got := GapReturns([]float64{100, nan, 110, 121, nan})
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 0.10, got[2], 1e-12)
	assert.InDelta(t, 0.10, got[3], 1e-12)
	assert.True(t, math.IsNaN(got[4]))
}
