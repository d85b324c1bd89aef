package repository

import (
	"context"
	"fmt"
	"time"

	"StockWeather/internal/domain/models"
	domrepo "StockWeather/internal/domain/repository"
	pkgch "StockWeather/pkg/clickhouse"
	applogger "StockWeather/pkg/logger"
)

// ClickHouseArchive stores observations in a ReplacingMergeTree keyed by
// (kind, ticker, date), so refetching a window replaces older rows on merge.
type ClickHouseArchive struct {
	ch *pkgch.Client
	db string
	l  *applogger.Logger
}

var _ domrepo.Archive = (*ClickHouseArchive)(nil)

func NewClickHouseArchive(ch *pkgch.Client, l *applogger.Logger) *ClickHouseArchive {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseArchive{ch: ch, db: ch.Database(), l: l}
}

func (a *ClickHouseArchive) observationsTable() string { return a.db + ".observations" }
func (a *ClickHouseArchive) snapshotsTable() string    { return a.db + ".page_snapshots" }

func (a *ClickHouseArchive) Init(ctx context.Context) error {
	return a.ch.InitSchema(ctx, []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, a.db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			date       Date,
			ticker     String,
			kind       LowCardinality(String),
			open       Nullable(Float64),
			high       Nullable(Float64),
			low        Nullable(Float64),
			close      Nullable(Float64),
			volume     Nullable(Float64),
			fetched_at DateTime64(3, 'UTC')
		) ENGINE = ReplacingMergeTree(fetched_at)
		ORDER BY (kind, ticker, date)`, a.observationsTable()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id           String,
			page         LowCardinality(String),
			window_start Date,
			window_end   Date,
			generated_at DateTime64(3, 'UTC'),
			summary      String
		) ENGINE = MergeTree
		ORDER BY (page, generated_at)`, a.snapshotsTable()),
	})
}

func (a *ClickHouseArchive) StoreObservations(ctx context.Context, series []models.Series) error {
	start := time.Now()
	obs := flatten(series)
	if len(obs) == 0 {
		return nil
	}
	fetched := time.Now().UTC()
	rows := make([][]any, len(obs))
	for i, o := range obs {
		rows[i] = []any{
			o.Bar.Date, o.Ticker, o.Kind,
			nullable(o.Bar.Open), nullable(o.Bar.High), nullable(o.Bar.Low),
			nullable(o.Bar.Close), nullable(o.Bar.Volume),
			fetched,
		}
	}
	q := fmt.Sprintf(`INSERT INTO %s (date, ticker, kind, open, high, low, close, volume, fetched_at)`, a.observationsTable())
	if err := a.ch.InsertBatch(ctx, q, rows); err != nil {
		a.l.Error("clickhouse store_observations error", applogger.Int("rows", len(rows)), applogger.Error(err))
		return fmt.Errorf("store observations: %w", err)
	}
	a.l.Debug("clickhouse store_observations ok",
		applogger.Int("series", len(series)),
		applogger.Int("rows", len(rows)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

func (a *ClickHouseArchive) StoreSnapshot(ctx context.Context, s *models.PageSnapshot) error {
	summary, err := encodeSummary(s.Summary)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, page, window_start, window_end, generated_at, summary)`, a.snapshotsTable())
	err = a.ch.InsertBatch(ctx, q, [][]any{{
		s.ID, s.Page, s.Window.Start, s.Window.End, s.GeneratedAt.UTC(), summary,
	}})
	if err != nil {
		a.l.Error("clickhouse store_snapshot error", applogger.String("page", s.Page), applogger.Error(err))
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) ListSnapshots(ctx context.Context, page string, limit int) ([]*models.PageSnapshot, error) {
	q := fmt.Sprintf(`
		SELECT id, page, window_start, window_end, generated_at, summary
		FROM %s
		WHERE page = ?
		ORDER BY generated_at DESC
		LIMIT ?`, a.snapshotsTable())
	rows, err := a.ch.DB().QueryContext(ctx, q, page, clampLimit(limit))
	if err != nil {
		a.l.Error("clickhouse list_snapshots query error", applogger.String("page", page), applogger.Error(err))
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*models.PageSnapshot
	for rows.Next() {
		var (
			s   models.PageSnapshot
			raw string
		)
		if err := rows.Scan(&s.ID, &s.Page, &s.Window.Start, &s.Window.End, &s.GeneratedAt, &raw); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if s.Summary, err = decodeSummary(raw); err != nil {
			return nil, err
		}
		s.Window = models.NewWindow(s.Window.Start, s.Window.End)
		s.GeneratedAt = s.GeneratedAt.UTC()
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.ch.Health(ctx)
}

func (a *ClickHouseArchive) Close() error {
	return a.ch.Close()
}
