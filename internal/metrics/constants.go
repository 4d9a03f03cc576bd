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
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Spin metric names
const (
	MetricNameSpinRequests     = "spin_requests_total"
	MetricNameSpinCommitRetry  = "spin_commit_conflicts_total"
	MetricNameSpinDuration     = "spin_duration_seconds"
	MetricNameRewardsAwarded   = "rewards_awarded_total"
	MetricNameGoldenHourSpins  = "golden_hour_spins_total"
	MetricNameSpinsFinalized   = "spins_finalized_total"
	MetricNameEventsDeactivate = "events_deactivated_total"
	MetricNameRateLimited      = "rate_limited_requests_total"
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

// Spin metric help text
const (
	HelpTextSpinRequests     = "Total number of spin requests by outcome"
	HelpTextSpinCommitRetry  = "Total number of ledger commit attempts that lost a version race"
	HelpTextSpinDuration     = "Spin allocation latency in seconds"
	HelpTextRewardsAwarded   = "Total number of rewards awarded"
	HelpTextGoldenHourSpins  = "Total number of winning spins inside a golden hour"
	HelpTextSpinsFinalized   = "Total number of winning spins finalized"
	HelpTextEventsDeactivate = "Total number of events deactivated after their end date"
	HelpTextRateLimited      = "Total number of requests rejected by the rate limiter"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelOutcome = "outcome"
	LabelReward  = "reward"
)

// Spin outcome label values
const (
	OutcomeWin         = "win"
	OutcomeLose        = "lose"
	OutcomeNotEligible = "not_eligible"
	OutcomeNotFound    = "not_found"
	OutcomeContention  = "contention"
	OutcomeError       = "error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadInvalid = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
