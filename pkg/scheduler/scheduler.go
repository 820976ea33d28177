package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/txhound/txhound/pkg/bypass"
	"github.com/txhound/txhound/pkg/extract"
	"github.com/txhound/txhound/pkg/renderer"
)

// Defaults applied by validate when a Config field is unset.
const (
	// DefaultPerRequestTimeout bounds one navigation attempt.
	DefaultPerRequestTimeout = 30 * time.Second

	// DefaultPerSlotCooldown spaces consecutive request starts on a slot.
	DefaultPerSlotCooldown = 500 * time.Millisecond

	// DefaultTaskDeadline is the wall-clock ceiling for a whole task,
	// inline retries included.
	DefaultTaskDeadline = 45 * time.Second

	// DefaultBatchBaseDelay is the inter-wave delay after a healthy wave.
	DefaultBatchBaseDelay = 100 * time.Millisecond

	// DefaultMaxTaskRetries is the fetch attempt budget per task within a
	// wave, counting the initial attempt.
	DefaultMaxTaskRetries = 2
)

// Config holds the scheduler configuration for one category run.
type Config struct {
	// Category labels logs and metrics for this run, e.g. "transactions".
	Category string

	// MaxWindows is the slot count: the hard ceiling on concurrent fetches
	// and on renderer handles.
	MaxWindows int

	// TotalPages is the caller-requested page budget. The effective budget
	// is the smaller of this and the detected total.
	TotalPages int

	// PageURL renders the listing URL for a page number.
	PageURL func(page int) string

	// Classifier buckets fetched content before extraction.
	Classifier *extract.Classifier

	// Bypass persists the challenge outcome. Cleared when the challenge
	// signature reappears in fetched content. Optional.
	Bypass bypass.Store

	// PerRequestTimeout bounds a single navigation attempt.
	PerRequestTimeout time.Duration

	// PerSlotCooldown is the minimum spacing between request starts on one
	// slot. Retry-pass tasks are exempt.
	PerSlotCooldown time.Duration

	// TaskDeadline bounds a whole task including inline retries.
	TaskDeadline time.Duration

	// BatchBaseDelay is the inter-wave delay when a wave finishes healthy.
	BatchBaseDelay time.Duration

	// MaxTaskRetries is the fetch attempt budget per task within a wave,
	// counting the initial attempt.
	MaxTaskRetries int
}

func (c *Config) validate() error {
	if c.MaxWindows <= 0 {
		return fmt.Errorf("max windows must be positive, got %d", c.MaxWindows)
	}
	if c.TotalPages <= 0 {
		return fmt.Errorf("total pages must be positive, got %d", c.TotalPages)
	}
	if c.PageURL == nil {
		return fmt.Errorf("page URL builder is required")
	}
	if c.Classifier == nil {
		return fmt.Errorf("classifier is required")
	}

	if c.PerRequestTimeout <= 0 {
		c.PerRequestTimeout = DefaultPerRequestTimeout
	}
	if c.PerSlotCooldown <= 0 {
		c.PerSlotCooldown = DefaultPerSlotCooldown
	}
	if c.TaskDeadline <= 0 {
		c.TaskDeadline = DefaultTaskDeadline
	}
	if c.BatchBaseDelay <= 0 {
		c.BatchBaseDelay = DefaultBatchBaseDelay
	}
	if c.MaxTaskRetries <= 0 {
		c.MaxTaskRetries = DefaultMaxTaskRetries
	}

	return nil
}

// Accumulator receives extracted hashes as pages settle. Add reports how
// many were new. The scheduler calls Add from a single goroutine.
type Accumulator interface {
	Add(hashes []string) int
}

// Result reports one scheduler run.
type Result struct {
	// PagesOK counts pages that yielded content, in the waves or in the
	// retry pass.
	PagesOK int

	// DetectedTotalPages is the total reported by page 1, or 0 when
	// detection failed.
	DetectedTotalPages int

	// EffectiveTotalPages is the page budget actually scheduled.
	EffectiveTotalPages int

	// Waves is the number of waves dispatched.
	Waves int

	// DroppedPages lists pages, ascending, that failed their inline budget
	// and the retry pass. Their hashes are missing from the accumulator.
	DroppedPages []int
}

// Scheduler owns a pool of worker slots and drives page fetches through
// them in waves. Create one per category run.
type Scheduler struct {
	cfg    Config
	slots  []*Slot
	logger zerolog.Logger

	runOnce sync.Once
}

// New builds the slot pool, creating one renderer handle per slot. Handle
// construction is the only fatal setup step: without a full pool the static
// page-to-slot assignment cannot hold.
func New(ctx context.Context, factory renderer.Factory, cfg Config) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}

	logger := log.With().
		Str("component", "scheduler").
		Str("category", cfg.Category).
		Logger()

	slots := make([]*Slot, 0, cfg.MaxWindows)
	for i := 0; i < cfg.MaxWindows; i++ {
		r, err := factory.New(ctx)
		if err != nil {
			for _, s := range slots {
				s.renderer.Close(ctx)
			}
			return nil, fmt.Errorf("creating renderer for slot %d: %w", i, err)
		}
		slots = append(slots, newSlot(i, r, cfg, logger))
	}

	logger.Info().
		Int("slots", cfg.MaxWindows).
		Int("requested_pages", cfg.TotalPages).
		Msg("Scheduler initialized")

	return &Scheduler{
		cfg:    cfg,
		slots:  slots,
		logger: logger,
	}, nil
}

// Close releases the slot renderer handles. Call after Run returns.
func (s *Scheduler) Close(ctx context.Context) error {
	var firstErr error
	for _, slot := range s.slots {
		if err := slot.renderer.Close(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing renderer for slot %d: %w", slot.index, err)
		}
	}
	return firstErr
}

// Run detects the total page count, schedules the effective budget in waves
// and gives failed pages one unpaced second chance. Page failures degrade
// the result instead of aborting it. The returned error is non-nil only
// when the context is cancelled, and the Result is still meaningful then.
//
// Run may be called at most once per Scheduler.
func (s *Scheduler) Run(ctx context.Context, acc Accumulator) (Result, error) {
	var called bool
	s.runOnce.Do(func() { called = true })
	if !called {
		return Result{}, fmt.Errorf("scheduler run already consumed")
	}

	start := time.Now()

	detected, effective := s.detectPageBudget(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workers sync.WaitGroup
	for _, slot := range s.slots {
		workers.Add(1)
		go func(sl *Slot) {
			defer workers.Done()
			sl.run(runCtx)
		}(slot)
	}
	defer func() {
		for _, slot := range s.slots {
			close(slot.tasks)
		}
		workers.Wait()
	}()

	// Sized so slots never block delivering results while the loop is
	// still enqueueing, in the waves or in the retry pass.
	results := make(chan pageResult, effective+s.cfg.MaxWindows)

	registry := NewFailureRegistry()
	pagesOK := 0
	waves := 0

	for waveStart := 1; waveStart <= effective; waveStart += s.cfg.MaxWindows {
		waveEnd := min(waveStart+s.cfg.MaxWindows-1, effective)
		waves++

		for page := waveStart; page <= waveEnd; page++ {
			s.slots[slotForPage(page, s.cfg.MaxWindows)].enqueue(&task{
				page:     page,
				paced:    true,
				attempts: s.cfg.MaxTaskRetries,
				results:  results,
			})
		}

		errorsInWave := 0
		for i := 0; i < waveEnd-waveStart+1; i++ {
			res := <-results
			if res.err != nil {
				errorsInWave++
				registry.Record(res.page, classifyFetchErr(res.err))
				continue
			}
			pagesOK++
			acc.Add(res.hashes)
		}

		s.logger.Debug().
			Int("wave", waves).
			Int("first_page", waveStart).
			Int("last_page", waveEnd).
			Int("errors_in_wave", errorsInWave).
			Int("pages_ok", pagesOK).
			Msg("Wave complete")

		if ctxErr := runCtx.Err(); ctxErr != nil {
			s.logger.Warn().Err(ctxErr).
				Int("wave", waves).
				Msg("Run cancelled mid-schedule")
			return s.finish(start, detected, effective, waves, pagesOK, registry), ctxErr
		}

		if waveEnd < effective {
			delay, tier := waveDelay(errorsInWave, s.cfg.BatchBaseDelay)
			waveDelaysTotal.WithLabelValues(tier).Inc()

			event := s.logger.Debug()
			if tier != tierBase {
				event = s.logger.Warn()
			}
			event.
				Int("errors_in_wave", errorsInWave).
				Dur("delay", delay).
				Str("tier", tier).
				Msg("Inter-wave delay")

			select {
			case <-runCtx.Done():
				return s.finish(start, detected, effective, waves, pagesOK, registry), runCtx.Err()
			case <-time.After(delay):
			}
		}
	}

	if failed := registry.Pages(); len(failed) > 0 {
		s.logger.Info().
			Int("failed_pages", len(failed)).
			Ints("pages", failed).
			Msg("Starting retry pass")

		for _, page := range failed {
			s.slots[slotForPage(page, s.cfg.MaxWindows)].enqueue(&task{
				page:     page,
				paced:    false,
				attempts: 1,
				results:  results,
			})
		}

		recovered := 0
		for i := 0; i < len(failed); i++ {
			res := <-results
			if res.err != nil {
				registry.Record(res.page, classifyFetchErr(res.err))
				continue
			}
			registry.Remove(res.page)
			recovered++
			pagesOK++
			acc.Add(res.hashes)
		}

		s.logger.Info().
			Int("recovered", recovered).
			Int("still_failed", registry.Len()).
			Msg("Retry pass complete")
	}

	return s.finish(start, detected, effective, waves, pagesOK, registry), nil
}

// finish assembles the Result and emits the run summary.
func (s *Scheduler) finish(start time.Time, detected, effective, waves, pagesOK int, registry *FailureRegistry) Result {
	dropped := registry.Pages()
	if len(dropped) > 0 {
		pagesDroppedTotal.WithLabelValues(s.cfg.Category).Add(float64(len(dropped)))
		s.logger.Error().
			Ints("pages", dropped).
			Msg("Pages dropped after retry pass")
	}

	s.logger.Info().
		Int("pages_ok", pagesOK).
		Int("pages_dropped", len(dropped)).
		Int("detected_total", detected).
		Int("effective_total", effective).
		Int("waves", waves).
		Dur("duration", time.Since(start)).
		Msg("Schedule complete")

	return Result{
		PagesOK:             pagesOK,
		DetectedTotalPages:  detected,
		EffectiveTotalPages: effective,
		Waves:               waves,
		DroppedPages:        dropped,
	}
}

// detectPageBudget fetches page 1 once through slot 0's renderer and clamps
// the requested budget to the detected total. Detection failure falls back
// to a single page rather than failing the run. Slot workers are idle until
// the waves start, so the handle is free here.
func (s *Scheduler) detectPageBudget(ctx context.Context) (detected, effective int) {
	slot := s.slots[0]

	if err := slot.limiter.Wait(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Page detection cancelled, falling back to a single page")
		return 0, 1
	}
	slot.lastRequestAt = time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.PerRequestTimeout)
	defer cancel()

	content, err := slot.renderer.Navigate(fetchCtx, s.cfg.PageURL(1))
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDetection)).Inc()
		s.logger.Warn().
			Err(fmt.Errorf("%w: %v", ErrDetectionFailed, err)).
			Msg("Total page detection failed, falling back to a single page")
		return 0, 1
	}

	detected = extract.DetectTotalPages(content)
	effective = min(s.cfg.TotalPages, detected)

	s.logger.Info().
		Int("detected_total", detected).
		Int("requested_total", s.cfg.TotalPages).
		Int("effective_total", effective).
		Msg("Page budget detected")

	return detected, effective
}

// slotForPage is the static page-to-slot assignment. Pages of one wave land
// on distinct slots, and a page keeps its slot in the retry pass.
func slotForPage(page, maxWindows int) int {
	return (page - 1) % maxWindows
}
