package identity

import "sync/atomic"

// MetricID identifies one flow counter.
type MetricID uint16

const (
	MetricSignupSuccess MetricID = iota
	MetricSignupFailure
	MetricSignupDuplicate
	MetricLoginSuccess
	MetricLoginFailure
	MetricOAuthSuccess
	MetricOAuthFailure
	MetricOAuthLinked
	MetricOAuthConflict
	MetricVerifySuccess
	MetricVerifyExpired
	MetricVerifyInvalid
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricStoreError

	metricCount
)

var metricNames = [metricCount]string{
	MetricSignupSuccess:   "signup_success",
	MetricSignupFailure:   "signup_failure",
	MetricSignupDuplicate: "signup_duplicate",
	MetricLoginSuccess:    "login_success",
	MetricLoginFailure:    "login_failure",
	MetricOAuthSuccess:    "oauth_success",
	MetricOAuthFailure:    "oauth_failure",
	MetricOAuthLinked:     "oauth_linked",
	MetricOAuthConflict:   "oauth_conflict",
	MetricVerifySuccess:   "verify_success",
	MetricVerifyExpired:   "verify_expired",
	MetricVerifyInvalid:   "verify_invalid",
	MetricRefreshSuccess:  "refresh_success",
	MetricRefreshFailure:  "refresh_failure",
	MetricStoreError:      "store_error",
}

// String returns the stable wire name for the metric.
func (id MetricID) String() string {
	if id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// Metrics is a fixed-size atomic counter registry. All methods are safe for
// concurrent use; a disabled registry is a no-op.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

func newMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies every counter. Counters that never fired are included
// with value zero so consumers see a stable key set.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
