package catalog

import (
	"errors"
	"fmt"
	"strings"

	"StockWeather/internal/domain/models"
)

var (
	ErrUnknownPage       = errors.New("unknown page")
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// PageDef is the parameter set of the page pipeline.
type PageDef struct {
	ID          string
	Title       string
	Description string
	Kind        models.PageKind
	Comparison  models.ComparisonMode
	Instruments []models.Instrument
	// Drill-down moving-average windows.
	ShortMA int
	LongMA  int
	// AlignCalendars fills gaps across exchanges before comparing.
	AlignCalendars bool
	ShowVolume     bool
}

// Info strips the pipeline parameters.
func (p PageDef) Info() models.PageInfo {
	return models.PageInfo{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Kind:        p.Kind,
		Comparison:  p.Comparison,
		Instruments: append([]models.Instrument(nil), p.Instruments...),
	}
}

// Tickers in display order.
func (p PageDef) Tickers() []string {
	out := make([]string, len(p.Instruments))
	for i, in := range p.Instruments {
		out[i] = in.Ticker
	}
	return out
}

// Names in display order, used as selectable options.
func (p PageDef) Names() []string {
	out := make([]string, len(p.Instruments))
	for i, in := range p.Instruments {
		out[i] = in.Name
	}
	return out
}

// Instrument looks up by display name (case-insensitive) or ticker.
func (p PageDef) Instrument(name string) (models.Instrument, error) {
	for _, in := range p.Instruments {
		if strings.EqualFold(in.Name, name) || in.Ticker == name {
			return in, nil
		}
	}
	return models.Instrument{}, fmt.Errorf("%w: %q on page %s", ErrUnknownInstrument, name, p.ID)
}

// Catalog is an ordered set of pages.
type Catalog struct {
	pages []PageDef
	byID  map[string]int
}

// New builds a catalog; page ids must be unique.
func New(pages ...PageDef) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(pages))}
	for _, p := range pages {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: page without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate page %s", p.ID)
		}
		if len(p.Instruments) == 0 {
			return nil, fmt.Errorf("catalog: page %s has no instruments", p.ID)
		}
		c.byID[p.ID] = len(c.pages)
		c.pages = append(c.pages, p)
	}
	return c, nil
}

// Default returns the built-in four-page catalog, optionally restricted to enabled ids.
func Default(enabled ...string) *Catalog {
	pages := []PageDef{Commodities(), Regions(), Sectors(), Economy()}
	if len(enabled) > 0 {
		keep := make(map[string]bool, len(enabled))
		for _, id := range enabled {
			keep[id] = true
		}
		filtered := pages[:0]
		for _, p := range pages {
			if keep[p.ID] {
				filtered = append(filtered, p)
			}
		}
		pages = filtered
	}
	c, _ := New(pages...)
	return c
}

// Pages in display order.
func (c *Catalog) Pages() []PageDef {
	return append([]PageDef(nil), c.pages...)
}

// Page looks up a page by id.
func (c *Catalog) Page(id string) (PageDef, error) {
	i, ok := c.byID[id]
	if !ok {
		return PageDef{}, fmt.Errorf("%w: %q", ErrUnknownPage, id)
	}
	return c.pages[i], nil
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}
