package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Count of handled bot commands by name.",
		},
		[]string{"command"},
	)

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_submissions_total",
			Help: "Cargo submissions by outcome (ok/rejected/api_error).",
		},
		[]string{"outcome"},
	)

	trackingRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracking_request_seconds",
			Help:    "Tracking API call latency distribution in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"success"},
	)

	quotaGrantedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_quota_granted_total",
			Help: "Sum of quota units granted by the admin.",
		},
	)

	adminDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_admin_denied_total",
			Help: "Admin-only commands silently ignored for non-admin senders.",
		},
	)
)

func init() {
	register(commandsTotal, submissionsTotal, trackingRequestSeconds, quotaGrantedTotal, adminDeniedTotal)
}

// IncCommand counts one handled command by name (without the leading slash).
func IncCommand(command string) {
	commandsTotal.WithLabelValues(command).Inc()
}

// IncSubmission counts one submission by outcome: "ok", "rejected", "api_error".
func IncSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveTrackingRequest records one tracking API call.
func ObserveTrackingRequest(d time.Duration, success bool) {
	trackingRequestSeconds.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
}

// AddQuotaGranted records units granted via the grant command.
func AddQuotaGranted(n int) {
	if n > 0 {
		quotaGrantedTotal.Add(float64(n))
	}
}

// IncAdminDenied counts a silently ignored admin command.
func IncAdminDenied() {
	adminDeniedTotal.Inc()
}
