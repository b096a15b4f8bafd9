package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	availabilityChecks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tavolina",
			Name:      "availability_checks_total",
			Help:      "Count of per-date availability computations.",
		},
	)

	validationVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tavolina",
			Name:      "reservation_validations_total",
			Help:      "Count of reservation validation verdicts by outcome.",
		},
		[]string{"outcome"},
	)

	reservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tavolina",
			Name:      "reservations_created_total",
			Help:      "Count of reservation create attempts by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(availabilityChecks, validationVerdicts, reservationsCreated)
	})
}

func IncAvailabilityCheck() {
	availabilityChecks.Inc()
}

func IncValidation(outcome string) {
	validationVerdicts.WithLabelValues(outcome).Inc()
}

func IncReservationCreated(result string) {
	reservationsCreated.WithLabelValues(result).Inc()
}
