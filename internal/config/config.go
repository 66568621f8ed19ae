package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"brandish-progression"`
	Version     string `env:"VERSION" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// APIKey guards the player API. Empty leaves the API unmounted.
	APIKey         string   `env:"API_KEY"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	DBUser     string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost     string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string        `env:"DB_PORT" envDefault:"5432"`
	DBName     string        `env:"DB_NAME" envDefault:"progression"`
	DBMaxConns int32         `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMaxIdle  time.Duration `env:"DB_MAX_IDLE" envDefault:"5m"`
	DBMaxLife  time.Duration `env:"DB_MAX_LIFE" envDefault:"1h"`

	// RedisAddr enables the redis lock and event bus when set
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL       time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	LockWait      time.Duration `env:"LOCK_WAIT" envDefault:"5s"`

	StreakTimezone   string        `env:"STREAK_TIMEZONE" envDefault:"UTC"`
	CatalogDir       string        `env:"CATALOG_DIR"`
	CatalogCacheSize int           `env:"CATALOG_CACHE_SIZE" envDefault:"512"`
	CatalogCacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	// CatalogReloadInterval re-syncs CATALOG_DIR while serving. 0 disables.
	CatalogReloadInterval time.Duration `env:"CATALOG_RELOAD_INTERVAL" envDefault:"0s"`

	DeadLetterPath  string        `env:"DEAD_LETTER_PATH" envDefault:"logs/event_deadletter.jsonl"`
	EventMaxRetries int           `env:"EVENT_MAX_RETRIES" envDefault:"5"`
	EventRetryDelay time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
	OTelEndpoint    string        `env:"OTEL_ENDPOINT"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseEnv, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and that the streak timezone resolves
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf(ErrMsgInvalidPort, c.Port)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf(ErrMsgInvalidMaxConns, c.DBMaxConns)
	}
	if c.CatalogCacheSize < 1 {
		return fmt.Errorf(ErrMsgInvalidCacheSize, c.CatalogCacheSize)
	}
	if c.CatalogReloadInterval < 0 {
		return fmt.Errorf(ErrMsgInvalidReload, c.CatalogReloadInterval)
	}
	if c.EventMaxRetries < 0 {
		return fmt.Errorf(ErrMsgInvalidRetries, c.EventMaxRetries)
	}
	if c.LockTTL <= 0 || c.LockWait <= 0 {
		return fmt.Errorf(ErrMsgInvalidLockTiming, c.LockTTL, c.LockWait)
	}
	if _, err := c.StreakLocation(); err != nil {
		return err
	}
	return nil
}

// StreakLocation resolves STREAK_TIMEZONE
func (c *Config) StreakLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInvalidTimezone, c.StreakTimezone, err)
	}
	return loc, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
