package badge

// Span and operation names
const (
	SpanCheckAndAward = "badge.CheckAndAwardBadges"
	SpanAwardBadge    = "badge.AwardBadge"
	OpCheckAndAward   = "check_badges"
)

// Log messages
const (
	LogMsgBadgeAwarded      = "Badge awarded"
	LogMsgBadgeRewardFailed = "Badge reward failed"
	LogMsgNotifyFailed      = "Failed to deliver badge unlock notification"
	LogMsgSkipNoRequirement = "Badge has no requirement, skipping evaluation"
)

// Error messages
const (
	ErrMsgLoadBadges     = "failed to load badge catalog: %w"
	ErrMsgLoadBadge      = "failed to load badge: %w"
	ErrMsgLoadProgress   = "failed to load badge progress: %w"
	ErrMsgSaveProgress   = "failed to save badge progress: %w"
	ErrMsgMarkEarned     = "failed to mark badge earned: %w"
	ErrMsgIncrement      = "failed to update badge counters: %w"
	ErrMsgAppendHistory  = "failed to record badge history: %w"
	ErrMsgStatistics     = "failed to load badge statistics: %w"
	ErrMsgUnknownTrigger = "unknown badge trigger %q"
)
