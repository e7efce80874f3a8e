package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	conversationTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dentalcare",
			Name:      "conversation_turns_total",
			Help:      "Count of processed utterances by resulting stage.",
		},
		[]string{"stage"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dentalcare",
			Name:      "submissions_total",
			Help:      "Count of appointment submissions by result.",
		},
		[]string{"result"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dentalcare",
			Name:      "validation_failures_total",
			Help:      "Count of rejected user inputs by field.",
		},
		[]string{"field"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(conversationTurns, submissions, validationFailures)
	})
}

func IncTurn(stage string) {
	conversationTurns.WithLabelValues(stage).Inc()
}

func IncSubmission(result string) {
	submissions.WithLabelValues(result).Inc()
}

func IncValidationFailure(field string) {
	validationFailures.WithLabelValues(field).Inc()
}
