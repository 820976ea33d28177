package scheduler

import (
	"time"
)

// Thresholds for inter-wave backoff decisions. Rising failure counts are read
// as approaching the source's rate limit and widen the spacing between waves.
const (
	// WaveErrorsCritical applies the critical delay when the error count of
	// the preceding wave exceeds this value.
	WaveErrorsCritical = 5

	// WaveErrorsWarning applies the warning delay when the error count of
	// the preceding wave exceeds this value.
	WaveErrorsWarning = 2
)

// Inter-wave delays per tier.
const (
	// WaveDelayCritical spaces waves after a heavily failing wave.
	WaveDelayCritical = 2000 * time.Millisecond

	// WaveDelayWarning spaces waves after a moderately failing wave.
	WaveDelayWarning = 800 * time.Millisecond
)

// Tier labels for logs and the wave delay metric.
const (
	tierCritical = "critical"
	tierWarning  = "warning"
	tierBase     = "base"
)

// waveDelay returns the delay before the next wave and the tier label for
// the observed error count. baseDelay applies when the wave was healthy.
func waveDelay(errorsInWave int, baseDelay time.Duration) (time.Duration, string) {
	switch {
	case errorsInWave > WaveErrorsCritical:
		return WaveDelayCritical, tierCritical
	case errorsInWave > WaveErrorsWarning:
		return WaveDelayWarning, tierWarning
	default:
		return baseDelay, tierBase
	}
}
