package experience

// Span and operation names
const (
	SpanAddExperience  = "experience.AddExperience"
	SpanReconcile      = "experience.ReconcileLevelRewards"
	OpAddExperience    = "add_experience"
	OpReconcileRewards = "reconcile_level_rewards"
)

// Log messages
const (
	LogMsgExperienceAdded     = "Experience added"
	LogMsgLevelUp             = "Player leveled up"
	LogMsgLevelRewardFailed   = "Level reward failed"
	LogMsgNotifyFailed        = "Failed to deliver level up notification"
	LogMsgLevelBadgeCheck     = "Level badge check failed"
	LogMsgRewardsReconciled   = "Level rewards reconciled"
	LogMsgReconcileIncomplete = "Level reward reconciliation left rewards unapplied"
)

// Error messages
const (
	ErrMsgLoadState     = "failed to load level state: %w"
	ErrMsgSaveState     = "failed to save level state: %w"
	ErrMsgAppendHistory = "failed to record experience history: %w"
)
