package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OperationHold    = "hold"
	OperationConfirm = "confirm"
	OperationRelease = "release"

	// StatusError labels operations that failed on infrastructure rather than with an outcome.
	StatusError = "ERROR"
)

var (
	// BookingOperations counts Hold, Confirm and Release outcomes by status.
	BookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "operations_total",
			Help:      "The total number of booking operations by outcome",
		},
		[]string{"operation", "status"},
	)

	BookingOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "booking",
			Name:      "operation_duration_seconds",
			Help:      "Time spent serving booking operations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// SeatConflicts counts holds rejected because a seat was already taken.
	SeatConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "seat_conflicts_total",
			Help:      "The total number of holds rejected because a seat was already held or booked",
		},
	)
)

// Observe records one finished operation.
func Observe(operation, status string, started time.Time) {
	BookingOperations.WithLabelValues(operation, status).Inc()
	BookingOperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())

	if status == "CONFLICT" && operation == OperationHold {
		SeatConflicts.Inc()
	}
}
