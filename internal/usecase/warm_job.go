package usecase

import (
	"context"
	"fmt"

	"StockWeather/pkg/queue"
)

// WarmJobType is the queue message type of a page warm-up.
const WarmJobType = "page.warm"

// WarmPayload asks for one page build; empty bounds use the default window.
type WarmPayload struct {
	Page  string `json:"page"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// WarmJob builds pages off the request path so the memo cache is populated.
type WarmJob struct {
	dashboard *Dashboard
}

var _ queue.Job = (*WarmJob)(nil)

func NewWarmJob(d *Dashboard) *WarmJob { return &WarmJob{dashboard: d} }

func (j *WarmJob) Name() string { return "page-warmer" }
func (j *WarmJob) Type() string { return WarmJobType }

func (j *WarmJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[WarmPayload](payload)
	if err != nil {
		return err
	}
	w, err := j.dashboard.Window(p.Start, p.End)
	if err != nil {
		return fmt.Errorf("warm %s: %w", p.Page, err)
	}
	_, err = j.dashboard.Page(ctx, p.Page, w)
	return err
}

// EnqueueWarmups publishes one warm-up per page id.
func EnqueueWarmups(ctx context.Context, pub queue.Publisher, pages []string, start, end string) error {
	for _, id := range pages {
		if err := pub.PublishMessage(ctx, WarmJobType, WarmPayload{Page: id, Start: start, End: end}); err != nil {
			return fmt.Errorf("enqueue warm %s: %w", id, err)
		}
	}
	return nil
}
