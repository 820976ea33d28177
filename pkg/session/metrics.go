package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sessionDuration tracks end-to-end category session runtime
	sessionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "txhound_session_duration_seconds",
		Help:    "End-to-end duration of a category session in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"category"})

	// uniqueHashes reports the unique hash count of the most recent session
	uniqueHashes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "txhound_hashes_unique",
		Help: "Unique hashes accumulated by the most recent session",
	}, []string{"category"})
)
