package worker

// Log messages - worker pool
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgJobDropped      = "Worker queue full, job dropped"
)

// Log messages - catalog reload
const (
	LogMsgCatalogUnchanged = "Catalog unchanged, skipping reload"
	LogMsgCatalogReloaded  = "Catalog reloaded"
	ErrMsgReloadLoad       = "failed to load catalog from %s: %w"
	ErrMsgReloadSync       = "failed to sync reloaded catalog: %w"
	ErrMsgReloadHash       = "failed to fingerprint catalog: %w"
)
