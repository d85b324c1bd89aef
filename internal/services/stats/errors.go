package stats

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned (wrapped) when a window needs more observations than the series holds.
var ErrInsufficientData = errors.New("stats: insufficient data")

// InsufficientDataError reports which operation could not be computed and why.
type InsufficientDataError struct {
	Op   string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("stats: %s needs %d observations, have %d", e.Op, e.Need, e.Have)
}

// Is lets errors.Is(err, ErrInsufficientData) match.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

func insufficient(op string, need, have int) error {
	return &InsufficientDataError{Op: op, Need: need, Have: have}
}
