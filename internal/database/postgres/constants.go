package postgres

// Error message formats
const (
	ErrMsgBeginTx       = "failed to begin transaction: %w"
	ErrMsgCommitTx      = "failed to commit transaction: %w"
	ErrMsgQuery         = "failed to query %s: %w"
	ErrMsgScan          = "failed to scan %s: %w"
	ErrMsgWrite         = "failed to write %s: %w"
	ErrMsgEncode        = "failed to encode %s: %w"
	ErrMsgDecode        = "failed to decode %s: %w"
	ErrMsgPing          = "failed to ping database: %w"
	LogMsgRollbackError = "Failed to rollback transaction"
)

// Entity names used in error messages
const (
	entityLevelState   = "level state"
	entityDailyState   = "daily state"
	entityPlayerBadge  = "player badge"
	entityBadgeCounter = "badge counter"
	entitySlot         = "inventory slot"
	entityWallet       = "wallet"
	entityTitle        = "title"
	entityStats        = "stats"
	entityHistory      = "reward history"
	entityItem         = "item"
	entityBadge        = "badge"
	entityDailyReward  = "daily reward"
)
