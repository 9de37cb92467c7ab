// Package metrics exposes Prometheus counters for the booking flow.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lab_reservation",
		Name:      "reservations_created_total",
		Help:      "Reservations committed successfully.",
	})

	reservationConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lab_reservation",
		Name:      "reservation_conflicts_total",
		Help:      "Reservation attempts rejected because the slot was unavailable.",
	})

	reservationsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lab_reservation",
		Name:      "reservations_cancelled_total",
		Help:      "Reservations deleted by their owner.",
	})
)

// Register registers the booking metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationsCreated, reservationConflicts, reservationsCancelled)
	})
}

// IncCreated counts a committed reservation.
func IncCreated() { reservationsCreated.Inc() }

// IncConflict counts a slot-unavailable rejection.
func IncConflict() { reservationConflicts.Inc() }

// IncCancelled counts a deleted reservation.
func IncCancelled() { reservationsCancelled.Inc() }
