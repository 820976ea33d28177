package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/txhound/txhound/pkg/extract"
	"github.com/txhound/txhound/pkg/renderer"
)

// task is one unit of fetch work routed to a slot.
type task struct {
	page     int
	paced    bool // retry-pass tasks skip cooldown pacing
	attempts int
	results  chan<- pageResult
}

// pageResult is delivered to the scheduler loop as a task settles. Exactly
// one result is delivered per task.
type pageResult struct {
	page     int
	hashes   []string
	err      error
	duration time.Duration
}

// Slot is one exclusive concurrent fetch channel bound to one renderer
// handle. A single goroutine consumes its queue, so at most one task is in
// flight per slot and tasks execute in enqueue order.
type Slot struct {
	index    int
	renderer renderer.Renderer
	limiter  *rate.Limiter
	tasks    chan *task
	cfg      Config
	logger   zerolog.Logger

	// lastRequestAt is the start of the slot's most recent request. Written
	// only by the slot's goroutine (and by detection before workers run).
	lastRequestAt time.Time
}

func newSlot(index int, r renderer.Renderer, cfg Config, logger zerolog.Logger) *Slot {
	queueCap := cfg.TotalPages/cfg.MaxWindows + 2

	return &Slot{
		index:    index,
		renderer: r,
		limiter:  rate.NewLimiter(rate.Every(cfg.PerSlotCooldown), 1),
		tasks:    make(chan *task, queueCap),
		cfg:      cfg,
		logger:   logger.With().Int("slot", index).Logger(),
	}
}

// enqueue adds a task to the slot's queue. Queues are sized for the page
// budget, so this does not block during a run.
func (s *Slot) enqueue(t *task) {
	s.tasks <- t
}

// run consumes the task queue until it is closed.
func (s *Slot) run(ctx context.Context) {
	for t := range s.tasks {
		s.execute(ctx, t)
	}
}

// execute runs one task: cooldown pacing, then the fetch attempts under the
// task deadline. A result is always delivered, even when the context is
// already cancelled.
func (s *Slot) execute(ctx context.Context, t *task) {
	start := time.Now()

	if t.paced {
		waitStart := time.Now()
		if err := s.limiter.Wait(ctx); err != nil {
			t.results <- pageResult{
				page: t.page,
				err:  fmt.Errorf("%w: %v", ErrContextCancelled, err),
			}
			return
		}
		if waited := time.Since(waitStart); waited > time.Millisecond {
			s.logger.Debug().
				Int("page", t.page).
				Dur("delay", waited).
				Msg("Slot cooldown wait")
		}
	}

	s.lastRequestAt = time.Now()

	// The task deadline is a coarser ceiling than the per-request timeout:
	// it covers rendering, extraction and inline retries together. Expiry
	// cancels the in-flight fetch through the context.
	taskCtx, cancel := context.WithTimeout(ctx, s.cfg.TaskDeadline)
	defer cancel()

	hashes, err := attemptWithRetry(taskCtx, t.page, t.attempts, s.logger, func(attempt int) ([]string, error) {
		return s.fetchPage(taskCtx, t.page, attempt)
	})

	duration := time.Since(start)
	pageFetchDuration.WithLabelValues(s.cfg.Category).Observe(duration.Seconds())

	if err != nil {
		pagesFetchedTotal.WithLabelValues(s.cfg.Category, string(classificationFor(classifyFetchErr(err)))).Inc()
	} else {
		pagesFetchedTotal.WithLabelValues(s.cfg.Category, string(extract.ClassOk)).Inc()
	}

	t.results <- pageResult{
		page:     t.page,
		hashes:   hashes,
		err:      err,
		duration: duration,
	}
}

// fetchPage performs one attempt: navigate, classify, extract.
func (s *Slot) fetchPage(ctx context.Context, page int, attempt int) ([]string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.PerRequestTimeout)
	defer cancel()

	pageURL := s.cfg.PageURL(page)
	s.logger.Debug().
		Int("page", page).
		Int("attempt", attempt).
		Str("url", pageURL).
		Msg("Fetching page")

	content, err := s.renderer.Navigate(attemptCtx, pageURL)
	if err != nil {
		class := classifyNavigation(err)
		errorsTotal.WithLabelValues(string(class)).Inc()
		return nil, &FetchError{Page: page, Class: class, Message: "navigation failed", Err: err}
	}

	class, sig := s.cfg.Classifier.Classify(content)
	switch class {
	case extract.ClassInsufficient:
		errorsTotal.WithLabelValues(string(ErrorClassInsufficient)).Inc()
		return nil, &FetchError{
			Page:    page,
			Class:   ErrorClassInsufficient,
			Message: fmt.Sprintf("content too small (%d bytes)", len(content)),
		}
	case extract.ClassBlocked:
		errorsTotal.WithLabelValues(string(ErrorClassBlocked)).Inc()
		s.logger.Warn().
			Int("page", page).
			Int("attempt", attempt).
			Str("signature", sig.Name).
			Msg("Block signature detected")
		if sig.Challenge {
			s.invalidateBypass(ctx)
		}
		return nil, &FetchError{
			Page:    page,
			Class:   ErrorClassBlocked,
			Message: "block signature: " + sig.Name,
		}
	}

	hashes := extract.Extract(content)
	hashesExtractedTotal.WithLabelValues(s.cfg.Category).Add(float64(len(hashes)))
	s.logger.Debug().
		Int("page", page).
		Int("hashes", len(hashes)).
		Msg("Page extracted")

	return hashes, nil
}

// invalidateBypass clears the persisted challenge state so a future session
// re-runs the interactive bypass.
func (s *Slot) invalidateBypass(ctx context.Context) {
	if s.cfg.Bypass == nil {
		return
	}

	s.logger.Warn().Msg("Challenge signature detected, clearing bypass state")
	if err := s.cfg.Bypass.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear bypass state")
	}
}

// classificationFor maps a settled task's error class to the content
// classification bucket reported on the page outcome metric. Navigation,
// timeout and cancellation failures all land in the transient bucket.
func classificationFor(class ErrorClass) extract.Classification {
	switch class {
	case ErrorClassInsufficient:
		return extract.ClassInsufficient
	case ErrorClassBlocked:
		return extract.ClassBlocked
	default:
		return extract.ClassTransientError
	}
}
