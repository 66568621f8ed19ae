package stats

// Span and operation names
const (
	SpanRecordQuest = "stats.RecordQuestCompletion"
	OpRecordQuest   = "record_quest"
)

// Log messages
const (
	LogMsgQuestRecorded    = "Quest completion recorded"
	LogMsgBadgeCheckFailed = "Badge check after quest completion failed"
)

// Error messages
const (
	ErrMsgRecordQuest = "failed to record quest completion: %w"
	ErrMsgLoadStats   = "failed to load player stats: %w"
	ErrMsgLoadLevel   = "failed to load level state: %w"
	ErrMsgLoadStreak  = "failed to load daily state: %w"
)
