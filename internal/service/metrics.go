package service

import "github.com/prometheus/client_golang/prometheus"

var (
	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Registration and login attempts by outcome",
		},
		[]string{"event", "outcome"},
	)
	taskMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_mutations_total",
			Help: "Committed task changes by operation",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(authEvents)
	prometheus.MustRegister(taskMutations)
}
