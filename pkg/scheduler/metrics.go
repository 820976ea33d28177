package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pagesFetchedTotal tracks page outcomes by category (ok, insufficient, blocked, transient_error)
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txhound_pages_fetched_total",
		Help: "Total pages fetched by category and outcome",
	}, []string{"category", "status"})

	// pageFetchDuration tracks per-page fetch duration including rendering
	pageFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "txhound_page_fetch_duration_seconds",
		Help:    "Page fetch duration in seconds by category",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"category"})

	// errorsTotal tracks fetch failures by class
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txhound_errors_total",
		Help: "Total page fetch errors by class",
	}, []string{"class"})

	// waveDelaysTotal tracks inter-wave delays by tier
	waveDelaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txhound_wave_delays_total",
		Help: "Total inter-wave delays applied by tier",
	}, []string{"tier"})

	// pagesDroppedTotal tracks pages abandoned after the retry pass
	pagesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txhound_pages_dropped_total",
		Help: "Total pages permanently dropped after the retry pass",
	}, []string{"category"})

	// hashesExtractedTotal tracks identifiers reported by pages before cross-page dedup
	hashesExtractedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txhound_hashes_extracted_total",
		Help: "Total identifiers extracted from pages before deduplication",
	}, []string{"category"})
)
