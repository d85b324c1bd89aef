package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockWeather/internal/domain/models"
	domrepo "StockWeather/internal/domain/repository"
	applogger "StockWeather/pkg/logger"
	pkgsqlite "StockWeather/pkg/sqlite"
)

// SQLiteArchive is the embedded archive. Observations are upserted on (ticker, date).
type SQLiteArchive struct {
	c *pkgsqlite.Client
	l *applogger.Logger
}

var _ domrepo.Archive = (*SQLiteArchive)(nil)

func NewSQLiteArchive(c *pkgsqlite.Client, l *applogger.Logger) *SQLiteArchive {
	if l == nil {
		l = applogger.Nop()
	}
	return &SQLiteArchive{c: c, l: l}
}

func (a *SQLiteArchive) Init(ctx context.Context) error {
	return a.c.InitSchema(ctx, []string{
		`CREATE TABLE IF NOT EXISTS observations (
			ticker     TEXT NOT NULL,
			kind       TEXT NOT NULL,
			date       TEXT NOT NULL,
			open       REAL,
			high       REAL,
			low        REAL,
			close      REAL,
			volume     REAL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (ticker, date)
		)`,
		`CREATE TABLE IF NOT EXISTS page_snapshots (
			id           TEXT PRIMARY KEY,
			page         TEXT NOT NULL,
			window_start TEXT NOT NULL,
			window_end   TEXT NOT NULL,
			generated_at INTEGER NOT NULL,
			summary      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_page_snapshots_page ON page_snapshots (page, generated_at DESC)`,
	})
}

func (a *SQLiteArchive) StoreObservations(ctx context.Context, series []models.Series) error {
	obs := flatten(series)
	if len(obs) == 0 {
		return nil
	}
	tx, err := a.c.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (ticker, kind, date, open, high, low, close, volume, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker, date) DO UPDATE SET
			kind = excluded.kind,
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	fetched := time.Now().UTC().UnixMilli()
	for _, o := range obs {
		_, err := stmt.ExecContext(ctx,
			o.Ticker, o.Kind, o.Bar.Date.Format(models.DateLayout),
			nullable(o.Bar.Open), nullable(o.Bar.High), nullable(o.Bar.Low),
			nullable(o.Bar.Close), nullable(o.Bar.Volume),
			fetched)
		if err != nil {
			_ = tx.Rollback()
			a.l.Error("sqlite store_observations error", applogger.String("ticker", o.Ticker), applogger.Error(err))
			return fmt.Errorf("store observations: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Observations reads back archived bars for ticker inside w, oldest first.
func (a *SQLiteArchive) Observations(ctx context.Context, ticker string, w models.Window) (models.Series, error) {
	rows, err := a.c.DB().QueryContext(ctx, `
		SELECT kind, date, open, high, low, close, volume
		FROM observations
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`,
		ticker, w.Start.Format(models.DateLayout), w.End.Format(models.DateLayout))
	if err != nil {
		return models.Series{}, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	s := models.Series{Ticker: ticker}
	for rows.Next() {
		var (
			kind, date                  string
			open, high, low, cl, volume sql.NullFloat64
		)
		if err := rows.Scan(&kind, &date, &open, &high, &low, &cl, &volume); err != nil {
			return models.Series{}, fmt.Errorf("scan observation: %w", err)
		}
		d, err := time.Parse(models.DateLayout, date)
		if err != nil {
			return models.Series{}, fmt.Errorf("parse date %q: %w", date, err)
		}
		s.Kind = models.SeriesKind(kind)
		s.Bars = append(s.Bars, models.Bar{
			Date:   d,
			Open:   fromNull(open),
			High:   fromNull(high),
			Low:    fromNull(low),
			Close:  fromNull(cl),
			Volume: fromNull(volume),
		})
	}
	return s, rows.Err()
}

func fromNull(n sql.NullFloat64) models.Number {
	if !n.Valid {
		return models.Undefined
	}
	return models.Number(n.Float64)
}

func (a *SQLiteArchive) StoreSnapshot(ctx context.Context, s *models.PageSnapshot) error {
	summary, err := encodeSummary(s.Summary)
	if err != nil {
		return err
	}
	_, err = a.c.DB().ExecContext(ctx, `
		INSERT INTO page_snapshots (id, page, window_start, window_end, generated_at, summary)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		s.ID, s.Page,
		s.Window.Start.Format(models.DateLayout), s.Window.End.Format(models.DateLayout),
		s.GeneratedAt.UTC().UnixMilli(), summary)
	if err != nil {
		a.l.Error("sqlite store_snapshot error", applogger.String("page", s.Page), applogger.Error(err))
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (a *SQLiteArchive) ListSnapshots(ctx context.Context, page string, limit int) ([]*models.PageSnapshot, error) {
	rows, err := a.c.DB().QueryContext(ctx, `
		SELECT id, page, window_start, window_end, generated_at, summary
		FROM page_snapshots
		WHERE page = ?
		ORDER BY generated_at DESC
		LIMIT ?`, page, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*models.PageSnapshot
	for rows.Next() {
		var (
			s            models.PageSnapshot
			wStart, wEnd string
			generated    int64
			rawSummary   string
		)
		if err := rows.Scan(&s.ID, &s.Page, &wStart, &wEnd, &generated, &rawSummary); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if s.Window, err = models.ParseWindow(wStart, wEnd); err != nil {
			return nil, fmt.Errorf("snapshot %s window: %w", s.ID, err)
		}
		if s.Summary, err = decodeSummary(rawSummary); err != nil {
			return nil, err
		}
		s.GeneratedAt = time.UnixMilli(generated).UTC()
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (a *SQLiteArchive) Health(ctx context.Context) error {
	return a.c.Health(ctx)
}

func (a *SQLiteArchive) Close() error {
	return a.c.Close()
}
