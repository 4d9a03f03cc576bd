package metrics

import (
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

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRateLimited,
			Help: HelpTextRateLimited,
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

// Spin Metrics
var (
	SpinRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinRequests,
			Help: HelpTextSpinRequests,
		},
		[]string{LabelOutcome},
	)

	SpinCommitConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSpinCommitRetry,
			Help: HelpTextSpinCommitRetry,
		},
	)

	SpinDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSpinDuration,
			Help:    HelpTextSpinDuration,
			Buckets: HTTPLatencyBuckets,
		},
	)

	RewardsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsAwarded,
			Help: HelpTextRewardsAwarded,
		},
		[]string{LabelReward},
	)

	GoldenHourSpins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldenHourSpins,
			Help: HelpTextGoldenHourSpins,
		},
	)

	SpinsFinalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSpinsFinalized,
			Help: HelpTextSpinsFinalized,
		},
	)

	EventsDeactivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEventsDeactivate,
			Help: HelpTextEventsDeactivate,
		},
	)
)
