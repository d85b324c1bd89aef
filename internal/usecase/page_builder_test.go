package usecase

import (
	"context"
	"math"
	"testing"

	"StockWeather/internal/domain/catalog"
	"StockWeather/internal/domain/models"
	"StockWeather/internal/services/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func marketPage(comparison models.ComparisonMode, names ...string) catalog.PageDef {
	p := catalog.PageDef{
		ID:         "test",
		Title:      "Test",
		Kind:       models.PageMarket,
		Comparison: comparison,
		ShortMA:    5,
		LongMA:     10,
	}
	for _, n := range names {
		p.Instruments = append(p.Instruments, models.Instrument{Name: n, Ticker: n})
	}
	return p
}

func rowFor(t *testing.T, res *models.PageResult, name string) models.SummaryRow {
	t.Helper()
	for _, r := range res.Summary.Rows {
		if r.Instrument == name {
			return r
		}
	}
	t.Fatalf("no row for %s", name)
	return models.SummaryRow{}
}

func chartByID(t *testing.T, charts []models.Chart, id string) models.Chart {
	t.Helper()
	for _, c := range charts {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("no chart %s", id)
	return models.Chart{}
}

func TestBuildMarketSummary(t *testing.T) {
	w := testWindow()
	market := new(MockMarketSource)
	market.On("Bars", mock.Anything, "FLAT", w).Return(series("FLAT", models.KindMarket, flat(300, 100)...), nil)
	market.On("Bars", mock.Anything, "LIN", w).Return(series("LIN", models.KindMarket, linear(253, 100, 200)...), nil)
	market.On("Bars", mock.Anything, "NEW", w).Return(series("NEW", models.KindMarket, linear(30, 10, 20)...), nil)
	metrics := &recordingMetrics{}

	b := NewPageBuilder(NewSeriesLoader(market, nil, nil, nil, nil), metrics, nil)
	res, err := b.Build(context.Background(), marketPage(models.CompareNormalized, "FLAT", "LIN", "NEW"), w)
	require.NoError(t, err)

	assert.Equal(t, []string{"FLAT", "LIN", "NEW"}, res.Options)
	assert.Equal(t, []string{"test"}, metrics.pages)
	assert.False(t, res.GeneratedAt.IsZero())

	fl := rowFor(t, res, "FLAT")
	assert.Equal(t, models.Number(0), fl.Cell(ColVolatility))
	assert.Equal(t, string(stats.Neutral), fl.Labels[ColTrend])
	for _, h := range stats.Horizons {
		assert.Equal(t, models.Number(0), fl.Cell(HorizonColumn(h)), h.Label)
	}

	lin := rowFor(t, res, "LIN")
	assert.InDelta(t, 1.0, lin.Cell("ret_1y").Float(), 1e-12)
	assert.Equal(t, string(stats.Uptrend), lin.Labels[ColTrend])
	assert.InDelta(t, 200, lin.Cell(ColLast).Float(), 1e-9)

	young := rowFor(t, res, "NEW")
	assert.False(t, young.Cell("ret_1y").Defined())
	assert.True(t, young.Cell("ret_1m").Defined())
	_, hasTrend := young.Labels[ColTrend]
	assert.False(t, hasTrend)
	assert.Contains(t, res.Notes, "NEW: trend needs 200 observations, have 30")
	assert.Contains(t, res.Notes, "NEW: 1Y return needs 253 observations, have 30")
}

func TestBuildMarketCharts(t *testing.T) {
	w := testWindow()
	a := linear(40, 100, 140)
	doubled := make([]float64, len(a))
	for i, v := range a {
		doubled[i] = 2 * v
	}
	noisy := make([]float64, len(a))
	for i := range noisy {
		noisy[i] = 50 + 5*math.Sin(float64(i))
	}
	market := new(MockMarketSource)
	market.On("Bars", mock.Anything, "A", w).Return(series("A", models.KindMarket, a...), nil)
	market.On("Bars", mock.Anything, "B", w).Return(series("B", models.KindMarket, doubled...), nil)
	market.On("Bars", mock.Anything, "C", w).Return(series("C", models.KindMarket, noisy...), nil)

	b := NewPageBuilder(NewSeriesLoader(market, nil, nil, nil, nil), nil, nil)
	res, err := b.Build(context.Background(), marketPage(models.CompareNormalized, "A", "B", "C"), w)
	require.NoError(t, err)
	require.Len(t, res.Charts, 3)

	cmp := chartByID(t, res.Charts, ChartComparison)
	assert.Equal(t, models.ChartLine, cmp.Kind)
	require.Len(t, cmp.Series, 3)
	for _, s := range cmp.Series {
		assert.InDelta(t, 100, s.Values[0].Float(), 1e-9)
	}
	assert.Len(t, cmp.Dates, 40)

	vol := chartByID(t, res.Charts, ChartVolatility)
	assert.Equal(t, "C", vol.Categories[0])
	for i := 1; i < len(vol.Values); i++ {
		assert.GreaterOrEqual(t, vol.Values[i-1].Float(), vol.Values[i].Float())
	}

	corr := chartByID(t, res.Charts, ChartCorrelation)
	assert.Equal(t, []string{"A", "B", "C"}, corr.Categories)
	require.Len(t, corr.Matrix, 3)
	assert.InDelta(t, 1, corr.Matrix[0][1].Float(), 1e-9)
	for i := range corr.Matrix {
		assert.InDelta(t, 1, corr.Matrix[i][i].Float(), 1e-9)
		for j := range corr.Matrix {
			assert.Equal(t, corr.Matrix[i][j], corr.Matrix[j][i])
		}
	}
}

func TestBuildCumulativeComparisonAlignsCalendars(t *testing.T) {
	w := testWindow()
	full := series("US", models.KindMarket, 100, 110, 121, 133.1)
	// second exchange is closed on day 2
	gappy := series("JP", models.KindMarket, 50, 55, 60.5, 66.55)
	gappy.Bars = append(gappy.Bars[:2:2], gappy.Bars[3])

	market := new(MockMarketSource)
	market.On("Bars", mock.Anything, "US", w).Return(full, nil)
	market.On("Bars", mock.Anything, "JP", w).Return(gappy, nil)

	p := marketPage(models.CompareCumulative, "US", "JP")
	p.AlignCalendars = true
	b := NewPageBuilder(NewSeriesLoader(market, nil, nil, nil, nil), nil, nil)

	res, err := b.Build(context.Background(), p, w)
	require.NoError(t, err)
	cmp := chartByID(t, res.Charts, ChartComparison)
	require.Len(t, cmp.Dates, 4)
	us := cmp.Series[0].Values
	assert.InDelta(t, 100, us[0].Float(), 1e-9)
	assert.InDelta(t, 133.1, us[3].Float(), 1e-9)
	jp := cmp.Series[1].Values
	assert.InDelta(t, 110, jp[2].Float(), 1e-9)
	assert.InDelta(t, 133.1, jp[3].Float(), 1e-9)

	panel, err := b.Panel(context.Background(), p, w)
	require.NoError(t, err)
	assert.Equal(t, 55.0, panel.Columns[1].Values[2])
}

func TestBuildMacroPage(t *testing.T) {
	w := testWindow()
	macro := new(MockMacroSource)
	macro.On("Observations", mock.Anything, "CPIAUCSL", w).Return(series("CPIAUCSL", models.KindMacro, 300, math.NaN(), 303), nil)
	macro.On("Observations", mock.Anything, "GDP", w).Return(series("GDP", models.KindMacro, 28000), nil)

	p := catalog.PageDef{
		ID:         "econ",
		Kind:       models.PageMacro,
		Comparison: models.CompareNormalized,
		Instruments: []models.Instrument{
			{Name: "CPI", Ticker: "CPIAUCSL"},
			{Name: "GDP", Ticker: "GDP"},
		},
	}
	b := NewPageBuilder(NewSeriesLoader(nil, macro, nil, nil, nil), nil, nil)
	res, err := b.Build(context.Background(), p, w)
	require.NoError(t, err)
	require.Len(t, res.Charts, 1)

	cpi := rowFor(t, res, "CPI")
	assert.Equal(t, models.Number(303), cpi.Cell(ColLatest))
	assert.Equal(t, models.Number(2), cpi.Cell(ColObservations))
	assert.InDelta(t, 0.01, cpi.Cell(ColChange).Float(), 1e-12)
	assert.Equal(t, "2024-01-03", cpi.Labels[ColLastDate])

	gdp := rowFor(t, res, "GDP")
	assert.False(t, gdp.Cell(ColChange).Defined())
	assert.Contains(t, res.Notes, "GDP: change needs 2 observations, have 1")
}

func TestDetailMovingAveragesAndVolume(t *testing.T) {
	w := testWindow()
	market := new(MockMarketSource)
	market.On("Bars", mock.Anything, "A", w).Return(series("A", models.KindMarket, linear(8, 1, 8)...), nil)

	p := marketPage(models.CompareCumulative, "A")
	p.ShowVolume = true
	b := NewPageBuilder(NewSeriesLoader(market, nil, nil, nil, nil), nil, nil)

	res, err := b.Detail(context.Background(), p, "a", w)
	require.NoError(t, err)
	assert.Equal(t, "A", res.Ticker)
	require.Len(t, res.Charts, 2)

	price := chartByID(t, res.Charts, ChartPrice)
	require.Len(t, price.Series, 3)
	assert.Equal(t, "MA 5", price.Series[1].Name)
	assert.False(t, price.Series[1].Values[3].Defined())
	assert.InDelta(t, 3, price.Series[1].Values[4].Float(), 1e-12)
	assert.Equal(t, []string{"MA 10 needs 10 observations, have 8"}, res.Notes)

	vol := chartByID(t, res.Charts, ChartVolume)
	assert.Len(t, vol.Values, 8)

	_, err = b.Detail(context.Background(), p, "missing", w)
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}
