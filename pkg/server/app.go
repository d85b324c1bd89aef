package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockWeather/internal/usecase"
	"StockWeather/pkg/config"
	xhttp "StockWeather/pkg/http"
	pkgkafka "StockWeather/pkg/kafka"
	applogger "StockWeather/pkg/logger"
	"StockWeather/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	dashboard  *usecase.Dashboard
	handler    xhttp.Handler
	logSink    *pkgkafka.Producer
	consumer   *pkgkafka.Consumer
	warm       *queue.RedisQueue
	live       *usecase.LiveQuotes
	cleanup    func()
	httpServer *xhttp.Server
}

// Option attaches an optional component. Nil components are skipped.
type Option func(*App)

// WithLogShipping forwards aggregated logs to Kafka when log.collect is enabled.
func WithLogShipping(p *pkgkafka.Producer) Option {
	return func(a *App) { a.logSink = p }
}

func WithSnapshotConsumer(c *pkgkafka.Consumer) Option {
	return func(a *App) { a.consumer = c }
}

func WithWarmQueue(q *queue.RedisQueue) Option {
	return func(a *App) { a.warm = q }
}

func WithLiveQuotes(q *usecase.LiveQuotes) Option {
	return func(a *App) { a.live = q }
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, d *usecase.Dashboard, h xhttp.Handler, opts ...Option) *App {
	if l == nil {
		l = applogger.Nop()
	}
	a := &App{cfg: cfg, log: l, dashboard: d, handler: h}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetCleanup registers the resource release run after shutdown.
func (a *App) SetCleanup(fn func()) { a.cleanup = fn }

// Dashboard exposes the page service for in-process callers.
func (a *App) Dashboard() *usecase.Dashboard { return a.dashboard }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := a.Start(ctx); err != nil {
		_ = a.Shutdown(context.Background())
		return err
	}
	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Start brings up every configured component; ctx bounds the background loops.
func (a *App) Start(ctx context.Context) error {
	if a.logSink != nil && a.cfg.Log.Collect.Enabled {
		a.log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   a.cfg.Log.Collect.Interval,
			CountThreshold: a.cfg.Log.Collect.CountThreshold,
			Topic:          a.cfg.Log.Collect.Topic,
			Publisher:      a.logSink,
		})
	}

	serverOpts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(len(a.cfg.Server.CORSOrigins) > 0, a.cfg.Server.CORSOrigins...),
		xhttp.WithLogger(a.log),
	}
	if a.cfg.Metrics.Enabled {
		serverOpts = append(serverOpts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	}
	a.httpServer = xhttp.NewServer(a.handler, serverOpts...)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.consumer != nil {
		if err := a.consumer.Start(ctx); err != nil {
			return err
		}
	}

	if a.warm != nil {
		if err := a.warm.Start(); err != nil {
			a.log.Error("warm queue start error", applogger.Error(err))
			return err
		}
		if a.cfg.Queue.WarmOnStart {
			pages := make([]string, 0)
			for _, p := range a.dashboard.Pages() {
				pages = append(pages, p.ID)
			}
			if err := usecase.EnqueueWarmups(ctx, a.warm, pages, "", ""); err != nil {
				a.log.Warn("warm-up enqueue failed", applogger.Error(err))
			} else {
				a.log.Info("warm-up enqueued", applogger.Strings("pages", pages))
			}
		}
	}

	if a.live != nil {
		if err := a.live.Start(ctx); err != nil {
			// quotes are optional; pages keep working without them
			a.log.Warn("live quotes unavailable", applogger.Error(err))
			a.live = nil
		} else {
			a.log.Info("live quotes started", applogger.Strings("symbols", a.cfg.Live.Symbols))
		}
	}
	return nil
}

// Shutdown stops components in reverse start order and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.live != nil {
		if err := a.live.Shutdown(ctx); err != nil {
			a.log.Warn("live quotes stop error", applogger.Error(err))
		}
	}
	if a.warm != nil {
		if err := a.warm.Stop(ctx); err != nil {
			a.log.Warn("warm queue stop error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}
	a.log.RemoveCollector()
	if a.cleanup != nil {
		a.cleanup()
	}
	a.log.Info("shutdown complete")
	return nil
}
