package config

// Error message formats
const (
	ErrMsgParseEnv          = "failed to parse environment: %w"
	ErrMsgInvalidPort       = "invalid PORT value: %d"
	ErrMsgInvalidMaxConns   = "DB_MAX_CONNS must be positive, got %d"
	ErrMsgInvalidCacheSize  = "CATALOG_CACHE_SIZE must be positive, got %d"
	ErrMsgInvalidReload     = "CATALOG_RELOAD_INTERVAL must not be negative, got %s"
	ErrMsgInvalidRetries    = "EVENT_MAX_RETRIES must not be negative, got %d"
	ErrMsgInvalidLockTiming = "LOCK_TTL and LOCK_WAIT must be positive, got %s and %s"
	ErrMsgInvalidTimezone   = "invalid STREAK_TIMEZONE %q: %w"
)

// Environment validation
const (
	ErrMsgSchemaVersionUnset    = "ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)"
	ErrMsgSchemaVersionMismatch = "ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated"
	ErrMsgMissingEnvVars        = "missing required environment variables: %s"

	WarnInsecurePassword = "DB_PASSWORD is a default or example value - please use a secure password"
	WarnNoRedis          = "REDIS_ADDR is not set - player locks and events stay in-process, run a single instance only"
	WarnNoAPIKey         = "API_KEY is not set - the player API is not mounted"
	WarnReloadWithoutDir = "CATALOG_RELOAD_INTERVAL has no effect without CATALOG_DIR"
)
