package economy

// Error messages
const (
	ErrMsgGetWalletFailed  = "failed to get wallet: %w"
	ErrMsgListTitlesFailed = "failed to list titles: %w"
	ErrMsgUnknownCurrency  = "unknown currency %q"
)

// Log messages
const (
	LogMsgWalletLoaded = "Wallet loaded"
)
