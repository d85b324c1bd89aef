package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Log struct {
		Level   string `yaml:"level"`
		Format  string `yaml:"format"`
		Output  string `yaml:"output"`
		Collect struct {
			Enabled        bool          `yaml:"enabled"`
			Interval       time.Duration `yaml:"interval"`
			CountThreshold int           `yaml:"count_threshold"`
			Topic          string        `yaml:"topic"`
		} `yaml:"collect"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Data struct {
		Start      string        `yaml:"start"`
		End        string        `yaml:"end"`
		Pages      []string      `yaml:"pages"`
		Timeout    time.Duration `yaml:"timeout"`
		AutoAdjust bool          `yaml:"auto_adjust"`
		Yahoo      struct {
			BaseURL   string `yaml:"base_url"`
			UserAgent string `yaml:"user_agent"`
		} `yaml:"yahoo"`
		FRED struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"fred"`
	} `yaml:"data"`
	Cache struct {
		Backend   string        `yaml:"backend"` // memory, redis, layered, none
		TTL       time.Duration `yaml:"ttl"`     // 0 keeps entries for the process lifetime
		MaxSize   int           `yaml:"max_size"`
		KeyPrefix string        `yaml:"key_prefix"`
		Redis     RedisConfig   `yaml:"redis"`
	} `yaml:"cache"`
	Archive struct {
		Backend    string `yaml:"backend"` // none, clickhouse, sqlite
		ClickHouse struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Database     string        `yaml:"database"`
			User         string        `yaml:"user"`
			Password     string        `yaml:"password"`
			UseHTTP      bool          `yaml:"use_http"`
			AsyncInsert  bool          `yaml:"async_insert"`
			WaitForAsync bool          `yaml:"wait_for_async_insert"`
			DialTimeout  time.Duration `yaml:"dial_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
		} `yaml:"clickhouse"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
	} `yaml:"archive"`
	Snapshots struct {
		Sink    string `yaml:"sink"` // none, kafka, archive
		Consume bool   `yaml:"consume"`
	} `yaml:"snapshots"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		SnapshotTopic string   `yaml:"snapshot_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Queue struct {
		Enabled      bool          `yaml:"enabled"`
		Name         string        `yaml:"name"`
		Workers      int           `yaml:"workers"`
		PollInterval time.Duration `yaml:"poll_interval"`
		WarmOnStart  bool          `yaml:"warm_on_start"`
		Redis        RedisConfig   `yaml:"redis"`
	} `yaml:"queue"`
	Live struct {
		Enabled        bool          `yaml:"enabled"`
		APIKey         string        `yaml:"api_key"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Symbols        []string      `yaml:"symbols"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"live"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
	} `yaml:"ratelimit"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// envOverrides are the variables that win over the YAML file.
type envOverrides struct {
	FREDAPIKey     string   `env:"FRED_API_KEY"`
	FinnhubAPIKey  string   `env:"FINNHUB_API_KEY"`
	Environment    string   `env:"APP_ENV"`
	HTTPPort       int      `env:"HTTP_PORT"`
	CacheBackend   string   `env:"CACHE_BACKEND"`
	RedisAddr      string   `env:"REDIS_ADDR"`
	KafkaBrokers   []string `env:"KAFKA_BROKERS" envSeparator:","`
	ArchiveBackend string   `env:"ARCHIVE_BACKEND"`
}

// Load reads and parses a YAML configuration file without validating it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

// LoadWithEnv loads config from YAML, applies environment overrides and validates the result.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.FREDAPIKey != "" {
		c.Data.FRED.APIKey = o.FREDAPIKey
	}
	if o.FinnhubAPIKey != "" {
		c.Live.APIKey = o.FinnhubAPIKey
	}
	if o.Environment != "" {
		c.Environment = o.Environment
	}
	if o.HTTPPort != 0 {
		c.Server.Port = o.HTTPPort
	}
	if o.CacheBackend != "" {
		c.Cache.Backend = o.CacheBackend
	}
	if o.RedisAddr != "" {
		c.Cache.Redis.Addr = o.RedisAddr
		c.Queue.Redis.Addr = o.RedisAddr
	}
	if len(o.KafkaBrokers) > 0 {
		c.Kafka.Brokers = o.KafkaBrokers
	}
	if o.ArchiveBackend != "" {
		c.Archive.Backend = o.ArchiveBackend
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Data.Timeout == 0 {
		c.Data.Timeout = 30 * time.Second
	}
	if c.Data.Yahoo.BaseURL == "" {
		c.Data.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Data.FRED.BaseURL == "" {
		c.Data.FRED.BaseURL = "https://api.stlouisfed.org"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Archive.Backend == "" {
		c.Archive.Backend = "none"
	}
	if c.Snapshots.Sink == "" {
		c.Snapshots.Sink = "none"
	}
	if c.Queue.Name == "" {
		c.Queue.Name = "stockweather"
	}
	if c.Queue.Workers == 0 {
		c.Queue.Workers = 1
	}
}

// Window parses the default date window.
func (c *Config) Window() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, c.Data.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data.start: %w", err)
	}
	end, err := time.Parse(dateLayout, c.Data.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data.end: %w", err)
	}
	return start, end, nil
}

// PageEnabled reports whether page id is served; an empty list enables every page.
func (c *Config) PageEnabled(id string) bool {
	if len(c.Data.Pages) == 0 {
		return true
	}
	for _, p := range c.Data.Pages {
		if p == id {
			return true
		}
	}
	return false
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	start, end, err := c.Window()
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("data.start %s must be before data.end %s", c.Data.Start, c.Data.End)
	}
	if c.PageEnabled("economy") && c.Data.FRED.APIKey == "" {
		return fmt.Errorf("FRED_API_KEY is required when the economy page is enabled")
	}
	switch c.Cache.Backend {
	case "memory", "none":
	case "redis", "layered":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for cache.backend %q", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis', 'layered' or 'none', got '%s'", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 || c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache.ttl and cache.max_size must not be negative")
	}
	switch c.Archive.Backend {
	case "none":
	case "clickhouse":
		if c.Archive.ClickHouse.Host == "" {
			return fmt.Errorf("archive.clickhouse.host is required")
		}
	case "sqlite":
		if c.Archive.SQLite.Path == "" {
			return fmt.Errorf("archive.sqlite.path is required")
		}
	default:
		return fmt.Errorf("archive.backend must be 'none', 'clickhouse' or 'sqlite', got '%s'", c.Archive.Backend)
	}
	switch c.Snapshots.Sink {
	case "none":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 || c.Kafka.SnapshotTopic == "" {
			return fmt.Errorf("kafka.brokers and kafka.snapshot_topic are required for snapshots.sink kafka")
		}
	case "archive":
		if c.Archive.Backend == "none" {
			return fmt.Errorf("snapshots.sink archive needs an archive backend")
		}
	default:
		return fmt.Errorf("snapshots.sink must be 'none', 'kafka' or 'archive', got '%s'", c.Snapshots.Sink)
	}
	if c.Snapshots.Consume && (c.Archive.Backend == "none" || len(c.Kafka.Brokers) == 0) {
		return fmt.Errorf("snapshots.consume needs kafka brokers and an archive backend")
	}
	if c.Queue.Enabled && c.Queue.Redis.Addr == "" {
		return fmt.Errorf("queue.redis.addr is required when the queue is enabled")
	}
	if c.Live.Enabled {
		if c.Live.APIKey == "" {
			return fmt.Errorf("FINNHUB_API_KEY is required when live quotes are enabled")
		}
		if len(c.Live.Symbols) == 0 {
			return fmt.Errorf("live.symbols cannot be empty")
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("ratelimit.rps and ratelimit.burst must be positive")
	}
	return nil
}
