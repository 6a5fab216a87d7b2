package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jokecast_messages_total",
			Help: "Single-send outcomes by stage",
		},
		[]string{"stage"}, // sent|failed
	)

	BroadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jokecast_broadcasts_total",
			Help: "Broadcast runs by result",
		},
		[]string{"result"}, // ok|no_template|joke_failed|store_failed
	)

	BroadcastOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jokecast_broadcast_outcomes_total",
			Help: "Per-recipient broadcast outcomes",
		},
		[]string{"status"}, // invoked|render_failed|invoke_failed
	)

	registerOnce sync.Once
)

// MustRegister registers the collectors once; later calls are no-ops.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			MessagesTotal,
			BroadcastsTotal,
			BroadcastOutcomesTotal,
		)
	})
}
