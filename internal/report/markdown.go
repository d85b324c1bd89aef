// Package report renders page results as markdown, HTML or terminal text and
// exports aligned panels as CSV or Parquet.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"StockWeather/internal/domain/models"

	"github.com/shopspring/decimal"
)

// NA is printed for undefined cells.
const NA = "n/a"

// TopPairs is how many correlated pairs the report lists.
const TopPairs = 5

// FormatCell prints one summary cell; percent columns hold fractions.
func FormatCell(row models.SummaryRow, col models.Column) string {
	if col.Format == models.FormatText {
		if s, ok := row.Labels[col.Key]; ok && s != "" {
			return s
		}
		return NA
	}
	return formatNumber(row.Cell(col.Key), col.Format)
}

func formatNumber(n models.Number, f models.ColumnFormat) string {
	v := n.Float()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	switch f {
	case models.FormatPercent:
		return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
	case models.FormatInteger:
		return decimal.NewFromFloat(v).StringFixed(0)
	default:
		return decimal.NewFromFloat(v).StringFixed(2)
	}
}

// Markdown renders a page result as a GitHub-flavoured markdown document.
func Markdown(res *models.PageResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", res.Page.Title)
	if res.Page.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", res.Page.Description)
	}
	fmt.Fprintf(&b, "Window: %s, generated %s\n\n", res.Window.String(), res.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Summary\n\n")
	writeSummary(&b, res.Summary)

	for _, c := range res.Charts {
		switch c.ID {
		case "volatility":
			writeVolatility(&b, c)
		case "correlation":
			writePairs(&b, c)
		}
	}

	if len(res.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range res.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeSummary(b *strings.Builder, t models.SummaryTable) {
	b.WriteString("| Instrument | Ticker |")
	for _, c := range t.Columns {
		fmt.Fprintf(b, " %s |", c.Label)
	}
	b.WriteString("\n|---|---|")
	for _, c := range t.Columns {
		if c.Format == models.FormatText {
			b.WriteString("---|")
		} else {
			b.WriteString("---:|")
		}
	}
	b.WriteString("\n")
	for _, r := range t.Rows {
		fmt.Fprintf(b, "| %s | %s |", escape(r.Instrument), escape(r.Ticker))
		for _, c := range t.Columns {
			fmt.Fprintf(b, " %s |", FormatCell(r, c))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeVolatility(b *strings.Builder, c models.Chart) {
	b.WriteString("## Volatility ranking\n\n")
	for i, name := range c.Categories {
		fmt.Fprintf(b, "%d. %s: %s\n", i+1, escape(name), formatNumber(c.Values[i], models.FormatPercent))
	}
	b.WriteString("\n")
}

// Pair is two instruments and the correlation of their daily returns.
type Pair struct {
	A, B string
	R    float64
}

// TopCorrelated returns up to n defined pairs from a correlation heatmap, most correlated first.
func TopCorrelated(c models.Chart, n int) []Pair {
	var pairs []Pair
	for i := range c.Matrix {
		for j := i + 1; j < len(c.Matrix[i]); j++ {
			r := c.Matrix[i][j]
			if !r.Defined() {
				continue
			}
			pairs = append(pairs, Pair{A: c.Categories[i], B: c.Categories[j], R: r.Float()})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].R > pairs[j].R })
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

func writePairs(b *strings.Builder, c models.Chart) {
	pairs := TopCorrelated(c, TopPairs)
	if len(pairs) == 0 {
		return
	}
	b.WriteString("## Most correlated pairs\n\n| Pair | Correlation |\n|---|---:|\n")
	for _, p := range pairs {
		fmt.Fprintf(b, "| %s / %s | %s |\n", escape(p.A), escape(p.B), formatNumber(models.Number(p.R), models.FormatNumber))
	}
	b.WriteString("\n")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
