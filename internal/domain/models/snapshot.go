package models

import (
	"time"

	"github.com/google/uuid"
)

// PageSnapshot is the archived summary of one page build.
type PageSnapshot struct {
	ID          string       `json:"id"`
	Page        string       `json:"page"`
	Window      Window       `json:"window"`
	GeneratedAt time.Time    `json:"generated_at"`
	Summary     SummaryTable `json:"summary"`
}

// NewPageSnapshot stamps a page result with a fresh id.
func NewPageSnapshot(res *PageResult) *PageSnapshot {
	return &PageSnapshot{
		ID:          uuid.NewString(),
		Page:        res.Page.ID,
		Window:      res.Window,
		GeneratedAt: res.GeneratedAt,
		Summary:     res.Summary,
	}
}
