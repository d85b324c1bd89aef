package di

import (
	"context"
	"fmt"
	"time"

	"StockWeather/internal/domain/catalog"
	"StockWeather/internal/domain/models"
	"StockWeather/internal/domain/repository"
	"StockWeather/internal/handler/api"
	internalrepo "StockWeather/internal/repository"
	"StockWeather/internal/service/finnhub"
	"StockWeather/internal/service/fred"
	"StockWeather/internal/service/ratelimit"
	"StockWeather/internal/service/yahoo"
	"StockWeather/internal/usecase"
	"StockWeather/pkg/cache"
	pkgch "StockWeather/pkg/clickhouse"
	"StockWeather/pkg/config"
	xhttp "StockWeather/pkg/http"
	"StockWeather/pkg/http/middleware"
	pkgkafka "StockWeather/pkg/kafka"
	applogger "StockWeather/pkg/logger"
	"StockWeather/pkg/metrics"
	"StockWeather/pkg/queue"
	"StockWeather/pkg/server"
	pkgsqlite "StockWeather/pkg/sqlite"

	"github.com/redis/go-redis/v9"
)

func noop() {}

// ProvideMetrics creates a Prometheus metrics recorder, or a no-op one when metrics are off.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New(nil)
}

// ProvideHTTPClient is the outbound client shared by the data providers.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Data.Timeout),
		xhttp.WithUserAgent(cfg.Data.Yahoo.UserAgent),
	)
}

func ProvideMarketSource(cfg *config.Config, httpc *xhttp.Client) repository.MarketSource {
	return yahoo.New(cfg.Data.Yahoo.BaseURL, httpc, yahoo.WithAutoAdjust(cfg.Data.AutoAdjust))
}

func ProvideMacroSource(cfg *config.Config, httpc *xhttp.Client) repository.MacroSource {
	return fred.New(cfg.Data.FRED.BaseURL, cfg.Data.FRED.APIKey, httpc)
}

// ProvideCache builds the memo cache backend selected by cache.backend.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	memory := func() *cache.MemoryCache {
		opts := []cache.MemoryOption{cache.WithMemoryMaxSize(cfg.Cache.MaxSize)}
		if cfg.Cache.TTL > 0 {
			opts = append(opts, cache.WithMemoryCleanup(cfg.Cache.TTL))
		}
		return cache.NewMemoryCache(opts...)
	}
	remote := func() (*cache.RedisCache, error) {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.KeyPrefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	}

	var svc cache.Service
	switch cfg.Cache.Backend {
	case "none":
		svc = cache.NoopCache{}
	case "redis":
		rc, err := remote()
		if err != nil {
			return nil, nil, err
		}
		svc = rc
	case "layered":
		rc, err := remote()
		if err != nil {
			return nil, nil, err
		}
		svc = cache.NewLayeredCache(memory(), rc)
	default:
		svc = memory()
	}
	return svc, func() { _ = svc.Close() }, nil
}

// ProvideArchive opens the archive backend and ensures its tables. It returns
// a nil Archive when archive.backend is none.
func ProvideArchive(cfg *config.Config, l *applogger.Logger) (repository.Archive, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var a repository.Archive
	switch cfg.Archive.Backend {
	case "clickhouse":
		chc := cfg.Archive.ClickHouse
		client, err := pkgch.NewClient(ctx,
			pkgch.WithHost(chc.Host),
			pkgch.WithPort(chc.Port),
			pkgch.WithDatabase(chc.Database),
			pkgch.WithCredentials(chc.User, chc.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(chc.UseHTTP),
			pkgch.WithAsyncInsert(chc.AsyncInsert, chc.WaitForAsync),
			pkgch.WithTimeouts(chc.DialTimeout, chc.ReadTimeout),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse client: %w", err)
		}
		a = internalrepo.NewClickHouseArchive(client, l)
	case "sqlite":
		client, err := pkgsqlite.Open(ctx, cfg.Archive.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		a = internalrepo.NewSQLiteArchive(client, l)
	default:
		return nil, noop, nil
	}

	if err := a.Init(ctx); err != nil {
		_ = a.Close()
		return nil, nil, fmt.Errorf("archive schema: %w", err)
	}
	l.Info("archive ready", applogger.String("backend", cfg.Archive.Backend))
	return a, func() { _ = a.Close() }, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, noop, nil
	}
	p := cfg.Kafka.Producer
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(p.BatchSize, p.BatchBytes, p.Linger),
		pkgkafka.WithWriteTimeout(p.WriteTimeout),
		pkgkafka.WithMaxAttempts(p.MaxAttempts),
		pkgkafka.WithAsync(p.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideSnapshotPublisher picks the sink for page snapshots; nil disables publishing.
func ProvideSnapshotPublisher(cfg *config.Config, producer *pkgkafka.Producer, archive repository.Archive) repository.SnapshotPublisher {
	switch cfg.Snapshots.Sink {
	case "kafka":
		if producer == nil {
			return nil
		}
		return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.SnapshotTopic)
	case "archive":
		if archive == nil {
			return nil
		}
		return internalrepo.NewArchiveSnapshotPublisher(archive)
	default:
		return nil
	}
}

func ProvideSeriesLoader(
	cfg *config.Config,
	market repository.MarketSource,
	macro repository.MacroSource,
	c cache.Service,
	archive repository.Archive,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SeriesLoader {
	opts := []usecase.LoaderOption{usecase.WithCacheTTL(cfg.Cache.TTL)}
	if archive != nil {
		opts = append(opts, usecase.WithArchive(archive))
	}
	return usecase.NewSeriesLoader(market, macro, c, m, l, opts...)
}

// ProvideCatalog restricts the built-in pages to data.pages.
func ProvideCatalog(cfg *config.Config) *catalog.Catalog {
	return catalog.Default(cfg.Data.Pages...)
}

func ProvidePageBuilder(series usecase.SeriesFetcher, m repository.Metrics, l *applogger.Logger) *usecase.PageBuilder {
	return usecase.NewPageBuilder(series, m, l)
}

func ProvideDashboard(
	cfg *config.Config,
	cat *catalog.Catalog,
	b *usecase.PageBuilder,
	archive repository.Archive,
	pub repository.SnapshotPublisher,
	l *applogger.Logger,
) (*usecase.Dashboard, error) {
	start, end, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	var opts []usecase.DashboardOption
	if archive != nil {
		opts = append(opts, usecase.WithSnapshotArchive(archive))
	}
	if pub != nil {
		opts = append(opts, usecase.WithSnapshotPublisher(pub))
	}
	return usecase.NewDashboard(cat, b, models.NewWindow(start, end), l, opts...), nil
}

// ProvideLiveQuotes creates the Finnhub quote board, or nil when live quotes are off.
func ProvideLiveQuotes(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *usecase.LiveQuotes {
	if !cfg.Live.Enabled {
		return nil
	}
	stream := finnhub.New(
		cfg.Live.APIKey,
		cfg.Live.WebSocketURL,
		cfg.Live.Symbols,
		cfg.Live.ReconnectDelay,
		cfg.Live.PingInterval,
		l,
	)
	return usecase.NewLiveQuotes(stream, m, l)
}

// ProvideRateLimiter returns nil when rate limiting is off.
func ProvideRateLimiter(cfg *config.Config) middleware.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

func ProvidePagesHandler(l *applogger.Logger, dash *usecase.Dashboard, live *usecase.LiveQuotes, limiter middleware.Limiter) *api.PagesEchoHandler {
	var opts []api.PagesOption
	if live != nil {
		opts = append(opts, api.WithLiveBoard(live))
	}
	if limiter != nil {
		opts = append(opts, api.WithRateLimiter(limiter))
	}
	return api.NewPagesEchoHandler(l, dash, opts...)
}

// ProvideSnapshotConsumer builds the Kafka consumer that archives published
// snapshots, or nil when snapshots.consume is off.
func ProvideSnapshotConsumer(cfg *config.Config, archive repository.Archive, m repository.Metrics, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Snapshots.Consume || archive == nil {
		return nil, nil
	}
	kc := cfg.Kafka.Consumer
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(kc.GroupID),
		pkgkafka.WithConsumerWorkers(kc.Workers),
		pkgkafka.WithConsumerBufferSize(kc.BufferSize),
		pkgkafka.WithConsumerRetry(kc.RetryMax, kc.BackoffMin, kc.BackoffMax),
		pkgkafka.WithConsumerDLQ(kc.DLQTopic),
		pkgkafka.WithConsumerFetch(kc.MinBytes, kc.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.TraceHook())
	consumer.RegisterHandler(usecase.NewSnapshotHandler(cfg.Kafka.SnapshotTopic, archive, m))
	return consumer, nil
}

func newQueueClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.Redis.Addr,
		Password: cfg.Queue.Redis.Password,
		DB:       cfg.Queue.Redis.DB,
	})
}

// ProvideWarmQueue builds the Redis queue that runs page warm-ups, or nil when the queue is off.
func ProvideWarmQueue(cfg *config.Config, dash *usecase.Dashboard, l *applogger.Logger) (*queue.RedisQueue, func(), error) {
	if !cfg.Queue.Enabled {
		return nil, noop, nil
	}
	client := newQueueClient(cfg)
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:      cfg.Queue.Workers,
		PollInterval: cfg.Queue.PollInterval,
	}, client, queue.ModeProducerConsumer, queue.WithKeyPrefix(cfg.Queue.Name))
	q.RegisterJob(usecase.NewWarmJob(dash))
	return q, func() { _ = client.Close() }, nil
}

// ProvideWarmPublisher is a producer-only queue for the warm CLI.
func ProvideWarmPublisher(cfg *config.Config, l *applogger.Logger) (*queue.RedisQueue, func(), error) {
	if cfg.Queue.Redis.Addr == "" {
		return nil, nil, fmt.Errorf("queue.redis.addr is required")
	}
	client := newQueueClient(cfg)
	q := queue.NewRedisPublisher(l, client, queue.WithKeyPrefix(cfg.Queue.Name))
	if err := q.Start(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return q, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = q.Stop(ctx)
		_ = client.Close()
	}, nil
}

func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	dash *usecase.Dashboard,
	handler *api.PagesEchoHandler,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	warm *queue.RedisQueue,
	live *usecase.LiveQuotes,
) *server.App {
	return server.New(cfg, l, dash, handler,
		server.WithLogShipping(producer),
		server.WithSnapshotConsumer(consumer),
		server.WithWarmQueue(warm),
		server.WithLiveQuotes(live),
	)
}
