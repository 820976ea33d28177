// Package session runs transaction hash harvests against an explorer and
// accumulates the deduplicated results. A Session covers one listing
// category; the Harvester runs both categories of an address concurrently.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/txhound/txhound/pkg/bypass"
	"github.com/txhound/txhound/pkg/extract"
	"github.com/txhound/txhound/pkg/logging"
	"github.com/txhound/txhound/pkg/scheduler"
)

// Session harvests one listing category for one target address.
type Session struct {
	cfg    *Config
	logger zerolog.Logger
}

// Result reports one category session. It is populated even when the run
// was degraded by dropped pages or cancellation.
type Result struct {
	// Category is the listing category this result covers.
	Category string

	// Hashes are the unique transaction hashes, ascending.
	Hashes []string

	// PagesOK counts pages that yielded content.
	PagesOK int

	// DetectedTotalPages is the total reported by page 1, 0 when detection
	// failed.
	DetectedTotalPages int

	// EffectiveTotalPages is the page budget actually scheduled.
	EffectiveTotalPages int

	// DroppedPages lists pages, ascending, whose hashes are missing from
	// Hashes because every attempt failed.
	DroppedPages []int

	// Elapsed is the wall-clock session duration.
	Elapsed time.Duration
}

// NewSession validates the configuration and prepares a session. Defaults
// are applied for unset fields; TargetAddress, BaseURL and Factory must be
// provided.
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}

	logger := logging.NewLogger("session").With().
		Str("category", cfg.Category).
		Logger()

	return &Session{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run executes the harvest. Page-level failures degrade the result instead
// of failing it; the error is non-nil only when the renderer pool could not
// be built or the context was cancelled, and in the latter case the Result
// still carries the partial harvest.
func (s *Session) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	s.logger.Info().
		Str("address", s.cfg.TargetAddress).
		Int("max_windows", s.cfg.MaxWindows).
		Int("requested_pages", s.cfg.TotalPages).
		Msg("Session starting")

	s.logBypassState(ctx)

	set := NewHashSet()

	sched, err := scheduler.New(ctx, s.cfg.Factory, scheduler.Config{
		Category:          s.cfg.Category,
		MaxWindows:        s.cfg.MaxWindows,
		TotalPages:        s.cfg.TotalPages,
		PageURL:           s.cfg.listingURL,
		Classifier:        extract.NewClassifier(s.cfg.Signatures),
		Bypass:            s.cfg.Bypass,
		PerRequestTimeout: s.cfg.PerRequestTimeout,
		PerSlotCooldown:   s.cfg.PerSlotCooldown,
		TaskDeadline:      s.cfg.TaskDeadline,
		BatchBaseDelay:    s.cfg.BatchBaseDelay,
		MaxTaskRetries:    s.cfg.MaxTaskRetries,
	})
	if err != nil {
		return Result{Category: s.cfg.Category}, fmt.Errorf("starting renderer pool: %w", err)
	}
	defer func() {
		if cerr := sched.Close(ctx); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("Failed to close renderer pool")
		}
	}()

	schedRes, runErr := sched.Run(ctx, set)

	elapsed := time.Since(start)
	sessionDuration.WithLabelValues(s.cfg.Category).Observe(elapsed.Seconds())
	uniqueHashes.WithLabelValues(s.cfg.Category).Set(float64(set.Len()))

	result := Result{
		Category:            s.cfg.Category,
		Hashes:              set.Values(),
		PagesOK:             schedRes.PagesOK,
		DetectedTotalPages:  schedRes.DetectedTotalPages,
		EffectiveTotalPages: schedRes.EffectiveTotalPages,
		DroppedPages:        schedRes.DroppedPages,
		Elapsed:             elapsed,
	}

	s.logger.Info().
		Int("hashes", len(result.Hashes)).
		Int("pages_ok", result.PagesOK).
		Int("pages_dropped", len(result.DroppedPages)).
		Dur("elapsed", elapsed).
		Msg("Session complete")

	return result, runErr
}

// logBypassState reports the persisted challenge outcome once at session
// start. Read failures are logged and ignored.
func (s *Session) logBypassState(ctx context.Context) {
	if s.cfg.Bypass == nil {
		return
	}

	state, err := s.cfg.Bypass.State(ctx)
	switch {
	case errors.Is(err, bypass.ErrStateNotFound):
		s.logger.Info().Msg("No challenge bypass state recorded")
	case err != nil:
		s.logger.Warn().Err(err).Msg("Failed to read challenge bypass state")
	case state.Passed:
		s.logger.Info().
			Time("passed_at", state.PassedAt).
			Msg("Challenge bypass previously passed")
	default:
		s.logger.Info().Msg("Challenge bypass not passed")
	}
}
