package bypass

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Invalidations counts cleared bypass states, normally one per detected
	// challenge signature
	Invalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "txhound_bypass_invalidations_total",
			Help: "Total number of persisted bypass states cleared",
		},
	)
)
