package models

// ChartKind is the rendering hint for a chart payload.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartHeatmap ChartKind = "heatmap"
)

// ChartSeries is one named line over Chart.Dates.
type ChartSeries struct {
	Name   string   `json:"name"`
	Values []Number `json:"values"`
}

// Chart is a renderer-agnostic chart handle. Line charts use Dates and Series,
// bar charts use Categories and Values, heatmaps use Categories and Matrix.
type Chart struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Kind       ChartKind     `json:"kind"`
	YLabel     string        `json:"y_label,omitempty"`
	Dates      []string      `json:"dates,omitempty"`
	Series     []ChartSeries `json:"series,omitempty"`
	Categories []string      `json:"categories,omitempty"`
	Values     []Number      `json:"values,omitempty"`
	Matrix     [][]Number    `json:"matrix,omitempty"`
}
