package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "progression_events_published_total"
	MetricNameEventHandlerErrors = "progression_event_handler_errors_total"
)

// Progression metric names
const (
	MetricNameExperienceGranted   = "progression_experience_granted_total"
	MetricNameLevelUps            = "progression_level_ups_total"
	MetricNameRewardsApplied      = "progression_rewards_applied_total"
	MetricNameDailyClaims         = "progression_daily_claims_total"
	MetricNameBadgesAwarded       = "progression_badges_awarded_total"
	MetricNameItemsUsed           = "progression_items_used_total"
	MetricNameInventoryRejections = "progression_inventory_rejections_total"
	MetricNameOperationDuration   = "progression_operation_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Progression metric help text
const (
	HelpTextExperienceGranted   = "Total experience granted after boosts"
	HelpTextLevelUps            = "Total number of levels gained"
	HelpTextRewardsApplied      = "Total number of rewards processed by kind and outcome"
	HelpTextDailyClaims         = "Total number of daily reward claims by result"
	HelpTextBadgesAwarded       = "Total number of badges awarded"
	HelpTextItemsUsed           = "Total number of consumables used"
	HelpTextInventoryRejections = "Total number of rejected inventory operations"
	HelpTextOperationDuration   = "Duration of progression operations in seconds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelKind      = "kind"
	LabelResult    = "result"
	LabelBadge     = "badge"
	LabelItem      = "item"
	LabelReason    = "reason"
	LabelOperation = "operation"
)

// Daily claim results
const (
	ClaimResultClaimed        = "claimed"
	ClaimResultAlreadyClaimed = "already_claimed"
)

// Inventory rejection reasons
const (
	RejectStackLimit           = "stack_limit"
	RejectInsufficientQuantity = "insufficient_quantity"
	RejectNotConsumable        = "not_consumable"
	RejectUnknownItem          = "unknown_item"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// OperationLatencyBuckets covers in-process operations, which include one or
// more database transactions.
var OperationLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
)
