package models

import (
	"fmt"
	"time"
)

// SeriesKind tells which provider a series comes from.
type SeriesKind string

const (
	KindMarket SeriesKind = "market"
	KindMacro  SeriesKind = "macro"
)

// DateLayout is the calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// Bar is one dated observation. Macro series carry their value in Close and leave
// the other fields undefined.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   Number    `json:"open"`
	High   Number    `json:"high"`
	Low    Number    `json:"low"`
	Close  Number    `json:"close"`
	Volume Number    `json:"volume"`
}

// Series is a date-ordered sequence of observations for one vendor ticker or series id.
type Series struct {
	Ticker string     `json:"ticker"`
	Kind   SeriesKind `json:"kind"`
	Bars   []Bar      `json:"bars"`
}

// Closes returns the close (or macro value) column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = float64(b.Close)
	}
	return out
}

// Volumes returns the volume column.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// Dates returns the observation dates.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

// Defined drops observations whose close is undefined.
func (s Series) Defined() Series {
	bars := make([]Bar, 0, len(s.Bars))
	for _, b := range s.Bars {
		if b.Close.Defined() {
			bars = append(bars, b)
		}
	}
	return Series{Ticker: s.Ticker, Kind: s.Kind, Bars: bars}
}

// Window is an inclusive calendar date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow truncates both ends to UTC calendar dates.
func NewWindow(start, end time.Time) Window {
	return Window{Start: truncateDay(start), End: truncateDay(end)}
}

// ParseWindow parses YYYY-MM-DD bounds.
func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Window{}, fmt.Errorf("parse start: %w", err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Window{}, fmt.Errorf("parse end: %w", err)
	}
	w := NewWindow(s, e)
	return w, w.Validate()
}

// Validate rejects empty and inverted windows.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("window bounds are required")
	}
	if !w.Start.Before(w.End) {
		return fmt.Errorf("window start %s must be before end %s", w.Start.Format(DateLayout), w.End.Format(DateLayout))
	}
	return nil
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
