package models

import "time"

// PageKind selects the provider and the summary layout of a page.
type PageKind string

const (
	PageMarket PageKind = "market"
	PageMacro  PageKind = "macro"
)

// ComparisonMode selects how instruments are put on a common scale.
type ComparisonMode string

const (
	CompareNormalized ComparisonMode = "normalized"
	CompareCumulative ComparisonMode = "cumulative"
)

// Instrument maps a display name to a vendor ticker or series id.
type Instrument struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// PageInfo describes a page without its data.
type PageInfo struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Kind        PageKind       `json:"kind"`
	Comparison  ComparisonMode `json:"comparison"`
	Instruments []Instrument   `json:"instruments"`
}

// ColumnFormat tells renderers how to print a summary cell.
type ColumnFormat string

const (
	FormatPercent ColumnFormat = "percent"
	FormatNumber  ColumnFormat = "number"
	FormatInteger ColumnFormat = "integer"
	FormatText    ColumnFormat = "text"
)

// Column of a summary table.
type Column struct {
	Key    string       `json:"key"`
	Label  string       `json:"label"`
	Format ColumnFormat `json:"format"`
}

// SummaryRow holds numeric cells in Values and text cells in Labels, both keyed by column key.
type SummaryRow struct {
	Instrument string            `json:"instrument"`
	Ticker     string            `json:"ticker"`
	Values     map[string]Number `json:"values"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// Cell returns the numeric value for key, undefined when absent.
func (r SummaryRow) Cell(key string) Number {
	if v, ok := r.Values[key]; ok {
		return v
	}
	return Undefined
}

// SummaryTable is the per-instrument descriptive table of a page.
type SummaryTable struct {
	Columns []Column     `json:"columns"`
	Rows    []SummaryRow `json:"rows"`
}

// PageResult is everything a rendering shell needs for one page.
type PageResult struct {
	Page        PageInfo     `json:"page"`
	Window      Window       `json:"window"`
	GeneratedAt time.Time    `json:"generated_at"`
	Summary     SummaryTable `json:"summary"`
	Charts      []Chart      `json:"charts"`
	Options     []string     `json:"options"`
	Notes       []string     `json:"notes,omitempty"`
}

// DetailResult is the single-instrument drill-down.
type DetailResult struct {
	Page       string   `json:"page"`
	Instrument string   `json:"instrument"`
	Ticker     string   `json:"ticker"`
	Window     Window   `json:"window"`
	Charts     []Chart  `json:"charts"`
	Notes      []string `json:"notes,omitempty"`
}

// PanelColumn is one instrument column of an aligned panel.
type PanelColumn struct {
	Instrument string
	Ticker     string
	Values     []float64
}

// Panel is a wide date x instrument matrix aligned on the union of dates.
type Panel struct {
	Page    string
	Window  Window
	Dates   []time.Time
	Columns []PanelColumn
}
