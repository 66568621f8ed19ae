package catalog

import "time"

// Catalog file formats
const (
	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
)

// Cache defaults, overridden by CATALOG_CACHE_SIZE and CATALOG_CACHE_TTL
const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 5 * time.Minute

	// cache key for the full badge list
	badgeListKey = "*"
)

// Generated level badge attributes
const (
	LevelBadgeCategory = "level"
	LevelBadgeName     = "Level %d"
	LevelBadgeDesc     = "Reach level %d"
)

// Log messages
const (
	LogMsgCatalogLoaded       = "Catalog loaded"
	LogMsgCatalogSyncStarted  = "Catalog sync started"
	LogMsgCatalogSyncComplete = "Catalog sync complete"
	LogMsgCacheInvalidated    = "Catalog cache invalidated"
)

// Error messages
const (
	ErrMsgReadFile       = "failed to read catalog file %s: %w"
	ErrMsgReadDir        = "failed to read catalog directory %s: %w"
	ErrMsgParseYAML      = "failed to parse catalog yaml %s: %w"
	ErrMsgParseJSON      = "failed to parse catalog json %s: %w"
	ErrMsgSchema         = "catalog %s does not match schema: %w"
	ErrMsgUpsertItem     = "failed to upsert item %s: %w"
	ErrMsgUpsertBadge    = "failed to upsert badge %s: %w"
	ErrMsgUpsertDaily    = "failed to upsert daily reward %d: %w"
	ErrMsgLoadDefault    = "failed to load embedded catalog: %w"
	ErrMsgUnsupportedExt = "unsupported catalog extension %q"
)
