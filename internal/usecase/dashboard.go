package usecase

import (
	"context"
	"fmt"

	"StockWeather/internal/domain/catalog"
	"StockWeather/internal/domain/models"
	drepo "StockWeather/internal/domain/repository"
	applogger "StockWeather/pkg/logger"
	xutil "StockWeather/pkg/util"
)

// Dashboard is the entry point used by the HTTP handlers, the CLI and the warm-up job.
type Dashboard struct {
	catalog   *catalog.Catalog
	builder   *PageBuilder
	archive   drepo.Archive
	snapshots drepo.SnapshotPublisher
	window    models.Window
	log       *applogger.Logger
}

// DashboardOption configures Dashboard.
type DashboardOption func(*Dashboard)

// WithSnapshotArchive enables Snapshots reads from a.
func WithSnapshotArchive(a drepo.Archive) DashboardOption {
	return func(d *Dashboard) { d.archive = a }
}

// WithSnapshotPublisher emits a snapshot after every page build.
func WithSnapshotPublisher(p drepo.SnapshotPublisher) DashboardOption {
	return func(d *Dashboard) { d.snapshots = p }
}

// NewDashboard serves the pages of c; def is used for missing window bounds.
func NewDashboard(c *catalog.Catalog, b *PageBuilder, def models.Window, l *applogger.Logger, opts ...DashboardOption) *Dashboard {
	if l == nil {
		l = applogger.Nop()
	}
	d := &Dashboard{catalog: c, builder: b, window: def, log: l}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dashboard) Pages() []models.PageInfo {
	pages := d.catalog.Pages()
	out := make([]models.PageInfo, len(pages))
	for i, p := range pages {
		out[i] = p.Info()
	}
	return out
}

// DefaultWindow is the configured window.
func (d *Dashboard) DefaultWindow() models.Window { return d.window }

// Window resolves optional YYYY-MM-DD bounds against the default window.
func (d *Dashboard) Window(start, end string) (models.Window, error) {
	s, e := d.window.Start, d.window.End
	if start != "" {
		t, ok := xutil.ParseDate(start)
		if !ok {
			return models.Window{}, fmt.Errorf("invalid start date %q", start)
		}
		s = t
	}
	if end != "" {
		t, ok := xutil.ParseDate(end)
		if !ok {
			return models.Window{}, fmt.Errorf("invalid end date %q", end)
		}
		e = t
	}
	w := models.NewWindow(s, e)
	return w, w.Validate()
}

func (d *Dashboard) Page(ctx context.Context, id string, w models.Window) (*models.PageResult, error) {
	p, err := d.catalog.Page(id)
	if err != nil {
		return nil, err
	}
	res, err := d.builder.Build(ctx, p, w)
	if err != nil {
		return nil, err
	}
	d.publish(ctx, res)
	return res, nil
}

func (d *Dashboard) publish(ctx context.Context, res *models.PageResult) {
	if d.snapshots == nil {
		return
	}
	s := models.NewPageSnapshot(res)
	if err := d.snapshots.PublishSnapshot(ctx, s); err != nil {
		d.log.Warn("publish snapshot failed",
			applogger.String("page", s.Page),
			applogger.String("snapshot_id", s.ID),
			applogger.Error(err))
	}
}

func (d *Dashboard) Detail(ctx context.Context, id, instrument string, w models.Window) (*models.DetailResult, error) {
	p, err := d.catalog.Page(id)
	if err != nil {
		return nil, err
	}
	return d.builder.Detail(ctx, p, instrument, w)
}

func (d *Dashboard) Panel(ctx context.Context, id string, w models.Window) (*models.Panel, error) {
	p, err := d.catalog.Page(id)
	if err != nil {
		return nil, err
	}
	return d.builder.Panel(ctx, p, w)
}

// Snapshots lists archived summaries of page id, newest first.
func (d *Dashboard) Snapshots(ctx context.Context, id string, limit int) ([]*models.PageSnapshot, error) {
	if !d.catalog.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	if d.archive == nil {
		return nil, ErrNoArchive
	}
	return d.archive.ListSnapshots(ctx, id, limit)
}

// Health pings the archive when one is configured.
func (d *Dashboard) Health(ctx context.Context) error {
	if d.archive == nil {
		return nil
	}
	return d.archive.Health(ctx)
}
