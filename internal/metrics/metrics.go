package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Progression Metrics
var (
	ExperienceGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameExperienceGranted,
			Help: HelpTextExperienceGranted,
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	RewardsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsApplied,
			Help: HelpTextRewardsApplied,
		},
		[]string{LabelKind, LabelStatus},
	)

	DailyClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDailyClaims,
			Help: HelpTextDailyClaims,
		},
		[]string{LabelResult},
	)

	BadgesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBadgesAwarded,
			Help: HelpTextBadgesAwarded,
		},
		[]string{LabelBadge},
	)

	ItemsUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsUsed,
			Help: HelpTextItemsUsed,
		},
		[]string{LabelItem},
	)

	InventoryRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInventoryRejections,
			Help: HelpTextInventoryRejections,
		},
		[]string{LabelReason},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameOperationDuration,
			Help:    HelpTextOperationDuration,
			Buckets: OperationLatencyBuckets,
		},
		[]string{LabelOperation},
	)
)

// ObserveOperation starts a timer for operation. Call the returned func when it finishes.
func ObserveOperation(operation string) func() {
	start := time.Now()
	return func() {
		OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
