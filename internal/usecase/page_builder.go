package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"StockWeather/internal/domain/catalog"
	"StockWeather/internal/domain/models"
	drepo "StockWeather/internal/domain/repository"
	"StockWeather/internal/services/stats"
	applogger "StockWeather/pkg/logger"
	pkgmetrics "StockWeather/pkg/metrics"
)

// Summary column keys.
const (
	ColLast       = "last"
	ColPeriod     = "period"
	ColVolatility = "volatility"
	ColTrend      = "trend"

	ColLatest       = "latest"
	ColFirst        = "first"
	ColChange       = "change"
	ColObservations = "observations"
	ColLastDate     = "last_date"
)

// Chart ids.
const (
	ChartComparison  = "comparison"
	ChartVolatility  = "volatility"
	ChartCorrelation = "correlation"
	ChartPrice       = "price"
	ChartVolume      = "volume"
	ChartSeries      = "series"
)

// HorizonColumn is the summary key of a return horizon, e.g. ret_1m.
func HorizonColumn(h stats.Horizon) string {
	switch h.Label {
	case "1M":
		return "ret_1m"
	case "3M":
		return "ret_3m"
	case "6M":
		return "ret_6m"
	default:
		return "ret_1y"
	}
}

// PageBuilder is the single page pipeline: page definition plus window in, page result out.
type PageBuilder struct {
	series  SeriesFetcher
	metrics drepo.Metrics
	log     *applogger.Logger
	now     func() time.Time
}

func NewPageBuilder(series SeriesFetcher, metrics drepo.Metrics, l *applogger.Logger) *PageBuilder {
	if l == nil {
		l = applogger.Nop()
	}
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	return &PageBuilder{series: series, metrics: metrics, log: l, now: time.Now}
}

func seriesKind(p catalog.PageDef) models.SeriesKind {
	if p.Kind == models.PageMacro {
		return models.KindMacro
	}
	return models.KindMarket
}

// Build produces the summary table, charts and options of page p over w.
func (b *PageBuilder) Build(ctx context.Context, p catalog.PageDef, w models.Window) (*models.PageResult, error) {
	start := b.now()
	series, err := b.series.Load(ctx, seriesKind(p), p.Tickers(), w)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", p.ID, err)
	}

	res := &models.PageResult{
		Page:    p.Info(),
		Window:  w,
		Options: p.Names(),
	}
	panel := alignPanel(p, w, series)
	compare := comparisonChart(p, panel)

	if p.Kind == models.PageMacro {
		res.Summary, res.Notes = macroSummary(p, series)
		res.Charts = []models.Chart{compare}
	} else {
		res.Summary, res.Notes = marketSummary(p, series)
		res.Charts = []models.Chart{
			compare,
			volatilityChart(res.Summary),
			correlationChart(p, panel),
		}
	}

	res.GeneratedAt = b.now().UTC()
	elapsed := res.GeneratedAt.Sub(start)
	b.metrics.RecordPageBuild(p.ID, elapsed)
	b.log.Info("page built",
		applogger.String("page", p.ID),
		applogger.String("window", w.String()),
		applogger.Int("instruments", len(series)),
		applogger.Int("notes", len(res.Notes)),
		applogger.Duration("duration_ms", elapsed))
	return res, nil
}

// Detail is the drill-down of one instrument: price with moving averages (and
// volume when the page shows it) for market pages, the raw series for macro pages.
func (b *PageBuilder) Detail(ctx context.Context, p catalog.PageDef, name string, w models.Window) (*models.DetailResult, error) {
	in, err := p.Instrument(name)
	if err != nil {
		return nil, err
	}
	loaded, err := b.series.Load(ctx, seriesKind(p), []string{in.Ticker}, w)
	if err != nil {
		return nil, fmt.Errorf("detail %s/%s: %w", p.ID, in.Name, err)
	}
	if len(loaded) != 1 {
		return nil, fmt.Errorf("detail %s/%s: got %d series", p.ID, in.Name, len(loaded))
	}
	s := loaded[0].Defined()

	res := &models.DetailResult{
		Page:       p.ID,
		Instrument: in.Name,
		Ticker:     in.Ticker,
		Window:     w,
	}
	dates := formatDates(s.Dates())
	closes := s.Closes()

	if p.Kind == models.PageMacro {
		res.Charts = []models.Chart{{
			ID:     ChartSeries,
			Title:  in.Name,
			Kind:   models.ChartLine,
			Dates:  dates,
			Series: []models.ChartSeries{{Name: in.Name, Values: models.Numbers(closes)}},
		}}
		return res, nil
	}

	price := models.Chart{
		ID:     ChartPrice,
		Title:  in.Name + " price",
		Kind:   models.ChartLine,
		YLabel: "close",
		Dates:  dates,
		Series: []models.ChartSeries{{Name: "Close", Values: models.Numbers(closes)}},
	}
	for _, window := range []int{p.ShortMA, p.LongMA} {
		if window <= 0 {
			continue
		}
		price.Series = append(price.Series, models.ChartSeries{
			Name:   fmt.Sprintf("MA %d", window),
			Values: models.Numbers(stats.SMA(closes, window)),
		})
		if len(closes) < window {
			res.Notes = append(res.Notes, fmt.Sprintf("MA %d needs %d observations, have %d", window, window, len(closes)))
		}
	}
	res.Charts = append(res.Charts, price)

	if p.ShowVolume {
		res.Charts = append(res.Charts, models.Chart{
			ID:         ChartVolume,
			Title:      in.Name + " volume",
			Kind:       models.ChartBar,
			YLabel:     "volume",
			Categories: dates,
			Values:     models.Numbers(s.Volumes()),
		})
	}
	return res, nil
}

// Panel is the wide export matrix of page p, aligned the same way as the comparison chart.
func (b *PageBuilder) Panel(ctx context.Context, p catalog.PageDef, w models.Window) (*models.Panel, error) {
	series, err := b.series.Load(ctx, seriesKind(p), p.Tickers(), w)
	if err != nil {
		return nil, fmt.Errorf("panel %s: %w", p.ID, err)
	}
	raw := alignPanel(p, w, series)
	out := &models.Panel{Page: p.ID, Window: w, Dates: raw.Dates, Columns: raw.Columns}
	if p.AlignCalendars {
		out.Columns = filled(raw.Columns)
	}
	return out, nil
}

// alignPanel puts every close on the union of observation dates; days an
// instrument did not trade are NaN.
func alignPanel(p catalog.PageDef, w models.Window, series []models.Series) *models.Panel {
	seen := make(map[time.Time]struct{})
	for _, s := range series {
		for _, bar := range s.Bars {
			seen[bar.Date] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	panel := &models.Panel{Page: p.ID, Window: w, Dates: dates}
	for i, s := range series {
		col := make([]float64, len(dates))
		for j := range col {
			col[j] = math.NaN()
		}
		for _, bar := range s.Bars {
			col[index[bar.Date]] = bar.Close.Float()
		}
		panel.Columns = append(panel.Columns, models.PanelColumn{
			Instrument: p.Instruments[i].Name,
			Ticker:     s.Ticker,
			Values:     col,
		})
	}
	return panel
}

func filled(cols []models.PanelColumn) []models.PanelColumn {
	out := make([]models.PanelColumn, len(cols))
	for i, c := range cols {
		c.Values = stats.FillForwardBackward(c.Values)
		out[i] = c
	}
	return out
}

func comparisonChart(p catalog.PageDef, raw *models.Panel) models.Chart {
	cols := raw.Columns
	if p.AlignCalendars {
		cols = filled(cols)
	}
	c := models.Chart{
		ID:    ChartComparison,
		Kind:  models.ChartLine,
		Dates: formatDates(raw.Dates),
	}
	switch p.Comparison {
	case models.CompareCumulative:
		c.Title = "Growth of 100"
		c.YLabel = "index (start = 100)"
	default:
		c.Title = "Normalized performance"
		c.YLabel = "index (first = 100)"
	}
	for _, col := range cols {
		var values []float64
		if p.Comparison == models.CompareCumulative {
			values = cumulative(col.Values)
		} else {
			values = stats.Normalize(col.Values)
		}
		c.Series = append(c.Series, models.ChartSeries{Name: col.Instrument, Values: models.Numbers(values)})
	}
	return c
}

// cumulative is 100 on the first date, then the compounded daily returns.
func cumulative(levels []float64) []float64 {
	if len(levels) == 0 {
		return nil
	}
	return append([]float64{100}, stats.CumulativeIndex(stats.PctChange(levels))...)
}

func marketSummary(p catalog.PageDef, series []models.Series) (models.SummaryTable, []string) {
	t := models.SummaryTable{Columns: []models.Column{{Key: ColLast, Label: "Last", Format: models.FormatNumber}}}
	for _, h := range stats.Horizons {
		t.Columns = append(t.Columns, models.Column{Key: HorizonColumn(h), Label: h.Label, Format: models.FormatPercent})
	}
	t.Columns = append(t.Columns,
		models.Column{Key: ColPeriod, Label: "Period", Format: models.FormatPercent},
		models.Column{Key: ColVolatility, Label: "Volatility", Format: models.FormatPercent},
		models.Column{Key: ColTrend, Label: "Trend", Format: models.FormatText},
	)

	var notes []string
	note := func(name, what string, err error) {
		var ide *stats.InsufficientDataError
		if errors.As(err, &ide) {
			notes = append(notes, fmt.Sprintf("%s: %s needs %d observations, have %d", name, what, ide.Need, ide.Have))
		}
	}

	for i, s := range series {
		name := p.Instruments[i].Name
		levels := s.Defined().Closes()
		row := models.SummaryRow{
			Instrument: name,
			Ticker:     s.Ticker,
			Values:     map[string]models.Number{ColLast: models.Undefined},
			Labels:     map[string]string{},
		}
		if n := len(levels); n > 0 {
			row.Values[ColLast] = models.Number(levels[n-1])
		}
		for _, h := range stats.Horizons {
			r, err := stats.HorizonReturn(levels, h.Days)
			note(name, h.Label+" return", err)
			row.Values[HorizonColumn(h)] = models.Number(r)
		}
		r, err := stats.PeriodReturn(levels)
		note(name, "period return", err)
		row.Values[ColPeriod] = models.Number(r)

		v, err := stats.AnnualizedVolatility(levels)
		note(name, "volatility", err)
		row.Values[ColVolatility] = models.Number(v)

		trend, err := stats.Trend(levels, stats.ShortWindow, stats.LongWindow)
		note(name, "trend", err)
		if err == nil {
			row.Labels[ColTrend] = string(trend)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, notes
}

func macroSummary(p catalog.PageDef, series []models.Series) (models.SummaryTable, []string) {
	t := models.SummaryTable{Columns: []models.Column{
		{Key: ColLatest, Label: "Latest", Format: models.FormatNumber},
		{Key: ColFirst, Label: "First", Format: models.FormatNumber},
		{Key: ColChange, Label: "Change", Format: models.FormatPercent},
		{Key: ColObservations, Label: "Observations", Format: models.FormatInteger},
		{Key: ColLastDate, Label: "Last date", Format: models.FormatText},
	}}
	var notes []string
	for i, s := range series {
		name := p.Instruments[i].Name
		d := s.Defined()
		levels := d.Closes()
		row := models.SummaryRow{
			Instrument: name,
			Ticker:     s.Ticker,
			Values: map[string]models.Number{
				ColLatest:       models.Undefined,
				ColFirst:        models.Undefined,
				ColChange:       models.Undefined,
				ColObservations: models.Number(len(levels)),
			},
			Labels: map[string]string{},
		}
		if n := len(levels); n > 0 {
			row.Values[ColLatest] = models.Number(levels[n-1])
			row.Values[ColFirst] = models.Number(levels[0])
			row.Labels[ColLastDate] = d.Bars[n-1].Date.Format(models.DateLayout)
		}
		if r, err := stats.PeriodReturn(levels); err == nil {
			row.Values[ColChange] = models.Number(r)
		} else {
			notes = append(notes, fmt.Sprintf("%s: change needs 2 observations, have %d", name, len(levels)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, notes
}

// volatilityChart ranks instruments by annualized volatility, highest first;
// undefined values go last.
func volatilityChart(t models.SummaryTable) models.Chart {
	rows := append([]models.SummaryRow(nil), t.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Cell(ColVolatility), rows[j].Cell(ColVolatility)
		if !b.Defined() {
			return a.Defined()
		}
		return a.Defined() && a > b
	})
	c := models.Chart{ID: ChartVolatility, Title: "Annualized volatility", Kind: models.ChartBar, YLabel: "volatility"}
	for _, r := range rows {
		c.Categories = append(c.Categories, r.Instrument)
		c.Values = append(c.Values, r.Cell(ColVolatility))
	}
	return c
}

// correlationChart correlates daily returns measured between each column's own
// observations, so instruments on different calendars still line up on shared days.
func correlationChart(p catalog.PageDef, raw *models.Panel) models.Chart {
	cols := make([][]float64, len(raw.Columns))
	c := models.Chart{ID: ChartCorrelation, Title: "Correlation of daily returns", Kind: models.ChartHeatmap}
	for i, col := range raw.Columns {
		cols[i] = stats.GapReturns(col.Values)
		c.Categories = append(c.Categories, col.Instrument)
	}
	for _, row := range stats.Correlation(cols) {
		c.Matrix = append(c.Matrix, models.Numbers(row))
	}
	return c
}

func formatDates(ds []time.Time) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Format(models.DateLayout)
	}
	return out
}
