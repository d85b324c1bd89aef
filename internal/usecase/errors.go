package usecase

import (
	"errors"
	"fmt"

	"StockWeather/internal/domain/catalog"
)

var (
	ErrUnknownPage       = catalog.ErrUnknownPage
	ErrUnknownInstrument = catalog.ErrUnknownInstrument
	ErrNoArchive         = errors.New("no archive configured")
	ErrLiveDisabled      = errors.New("live quotes disabled")
)

// FetchError is a provider failure for one ticker. It aborts the whole page build.
type FetchError struct {
	Source string
	Ticker string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Ticker, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
