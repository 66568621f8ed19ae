package reward

// Span and operation names
const (
	SpanApplyReward = "reward.ApplyReward"
	OpApplyReward   = "apply_reward"
)

// DefaultHistoryLimit bounds History when the caller passes limit <= 0
const DefaultHistoryLimit = 50

// Log messages
const (
	LogMsgRewardApplied       = "Reward applied"
	LogMsgRewardSkipped       = "Reward skipped, already granted from source"
	LogMsgRewardFailed        = "Reward application failed"
	LogMsgMissingCollaborator = "Reward processor is missing a collaborator"
)

// Error messages
const (
	ErrMsgNotWired        = "reward processor has no handler for %s rewards"
	ErrMsgCheckHistory    = "failed to check reward history: %w"
	ErrMsgCreditCurrency  = "failed to credit %s: %w"
	ErrMsgAddTitle        = "failed to add title: %w"
	ErrMsgAppendHistory   = "failed to append reward history: %w"
	ErrMsgLoadLevelState  = "failed to load level state: %w"
	ErrMsgListHistory     = "failed to list reward history: %w"
	ErrMsgAwardBadge      = "failed to award badge: %w"
	ErrMsgAddItem         = "failed to add item: %w"
	ErrMsgGrantExperience = "failed to grant experience: %w"
)
