package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"StockWeather/internal/domain/models"

	"github.com/parquet-go/parquet-go"
)

// PanelRow is one observation of the long export format.
type PanelRow struct {
	Date       string   `parquet:"date"`
	Instrument string   `parquet:"instrument"`
	Ticker     string   `parquet:"ticker"`
	Value      *float64 `parquet:"value,optional"`
}

// WriteCSV writes the wide panel: a date column then one column per instrument.
// Undefined values are empty cells.
func WriteCSV(w io.Writer, p *models.Panel) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(p.Columns)+1)
	header = append(header, "date")
	for _, c := range p.Columns {
		header = append(header, c.Instrument)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for i, d := range p.Dates {
		rec[0] = d.Format(models.DateLayout)
		for j, c := range p.Columns {
			rec[j+1] = floatStr(c.Values[i])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func floatStr(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Rows flattens a panel into the long format, date-major.
func Rows(p *models.Panel) []PanelRow {
	rows := make([]PanelRow, 0, len(p.Dates)*len(p.Columns))
	for i, d := range p.Dates {
		date := d.Format(models.DateLayout)
		for _, c := range p.Columns {
			row := PanelRow{Date: date, Instrument: c.Instrument, Ticker: c.Ticker}
			if v := c.Values[i]; !math.IsNaN(v) {
				row.Value = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteParquet writes the long format rows of p.
func WriteParquet(w io.Writer, p *models.Panel) error {
	if err := parquet.Write(w, Rows(p)); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}
