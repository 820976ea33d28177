// Package metrics provides the centralized Prometheus metrics registry for txhound.
// All metrics are defined in their respective packages (scheduler, session, bypass)
// to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by txhound.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Page Metrics (pkg/scheduler):
//   - txhound_pages_fetched_total{category, status} (Counter): Pages by category and outcome
//     (ok, insufficient, blocked, transient_error)
//   - txhound_page_fetch_duration_seconds{category} (Histogram): Per-page fetch duration
//     including rendering
//   - txhound_errors_total{class} (Counter): Errors by class (navigation, timeout,
//     insufficient, blocked, detection)
//   - txhound_wave_delays_total{tier} (Counter): Inter-wave delays by tier (critical,
//     warning, base)
//   - txhound_pages_dropped_total{category} (Counter): Pages abandoned after the retry pass
//   - txhound_hashes_extracted_total{category} (Counter): Identifiers reported by pages,
//     before cross-page dedup
//
// Retry Metrics (pkg/scheduler):
//   - txhound_retries_total{error_class} (Counter): Inline retry attempts by error class
//   - txhound_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - txhound_retry_exhausted_total{error_class} (Counter): Tasks that exhausted inline retries
//
// Session Metrics (pkg/session):
//   - txhound_session_duration_seconds{category} (Histogram): End-to-end category session
//     runtime
//   - txhound_hashes_unique{category} (Gauge): Unique identifiers accumulated by the most
//     recent session
//
// Bypass Metrics (pkg/bypass):
//   - txhound_bypass_invalidations_total (Counter): Persisted bypass states cleared after a
//     challenge signature was detected
//
// Example Prometheus Queries:
//
//   # Page Success Rate
//   sum(rate(txhound_pages_fetched_total{status="ok"}[5m])) /
//   sum(rate(txhound_pages_fetched_total[5m]))
//
//   # Error Rate by Class
//   rate(txhound_errors_total[5m])
//
//   # P95 Page Fetch Latency
//   histogram_quantile(0.95, rate(txhound_page_fetch_duration_seconds_bucket[5m]))
//
//   # Dropped Page Rate
//   rate(txhound_pages_dropped_total[5m])
