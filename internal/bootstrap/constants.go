package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat sorts lexically in creation order
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	LogFileNamePattern = "session_%s.log"
	LogFileExtension   = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting progression service"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory: %w"
	ErrMsgFailedOpenLogFile   = "failed to open log file: %w"
)

// =============================================================================
// Event System
// =============================================================================

const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory: %w"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher: %w"
	ErrMsgFailedStartRedisBus            = "failed to start redis event bus: %w"

	EventBusMemory = "memory"
	EventBusRedis  = "redis"
)

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	LogMsgLevelUpEvent               = "Player leveled up"
	LogMsgBadgeUnlockedEvent         = "Player unlocked badge"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector: %w"
)

// =============================================================================
// Redis
// =============================================================================

const (
	// RedisPingTimeout bounds the connectivity check made at startup
	RedisPingTimeout = 3 * time.Second

	LogMsgRedisConnected    = "Connected to redis"
	LogMsgRedisDisabled     = "REDIS_ADDR not set, using in-process locks and event bus"
	ErrMsgFailedRedisPing   = "failed to reach redis at %s: %w"
	LogMsgLockerInitialized = "Player locker initialized"

	LockerLocal = "local"
	LockerRedis = "redis"
)

// =============================================================================
// Store and Catalog
// =============================================================================

const (
	MigrateUp = "up"

	LogMsgMigrationsApplied = "Database migrations applied"
	ErrMsgFailedOpenPool    = "failed to open database pool: %w"
	ErrMsgFailedMigrate     = "failed to migrate database: %w"

	LogMsgSyncingCatalog    = "Syncing catalog"
	LogMsgCatalogSynced     = "Catalog synced"
	ErrMsgFailedLoadCatalog = "failed to load catalog: %w"
	ErrMsgFailedSyncCatalog = "failed to sync catalog to database: %w"
	ErrMsgInvalidTimezone   = "invalid streak timezone: %w"

	CatalogSourceEmbedded = "embedded"

	LogMsgCatalogReloadScheduled = "Catalog reload scheduled"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgStoppingWorkers            = "Stopping background workers..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgRedisBusCloseFailed        = "Redis event bus close failed"
	LogMsgRedisCloseFailed           = "Redis client close failed"
	LogMsgTelemetryShutdownFailed    = "Telemetry shutdown failed"
	LogMsgDatabaseClosed             = "Database pool closed"
)
