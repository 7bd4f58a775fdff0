package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fitbot"

var (
	once sync.Once

	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Count of processed updates by kind.",
		},
		[]string{"kind"},
	)

	updateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_duration_seconds",
			Help:      "Time spent processing a single update.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	registrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Count of completed registration forms.",
		},
	)

	activitiesLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_logged_total",
			Help:      "Count of activity records by category.",
		},
		[]string{"category"},
	)

	moderationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_decisions_total",
			Help:      "Count of admin decisions over users.",
		},
		[]string{"decision"},
	)

	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Count of outbound notifications by result.",
		},
		[]string{"result"},
	)

	errorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Count of updates that failed with an internal error.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(updatesTotal, updateDuration, registrations,
			activitiesLogged, moderationDecisions, deliveries, errorsTotal)
	})
}

func IncUpdate(kind string) {
	updatesTotal.WithLabelValues(kind).Inc()
}

func ObserveUpdate(start time.Time) {
	updateDuration.Observe(time.Since(start).Seconds())
}

func IncRegistration() {
	registrations.Inc()
}

func IncActivity(category string) {
	activitiesLogged.WithLabelValues(category).Inc()
}

func IncModeration(decision string) {
	moderationDecisions.WithLabelValues(decision).Inc()
}

func IncDelivery(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	deliveries.WithLabelValues(result).Inc()
}

func IncError() {
	errorsTotal.Inc()
}
