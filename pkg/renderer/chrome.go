package renderer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"

// ChromeOptions configures the shared headless browser.
type ChromeOptions struct {
	// UserAgent overrides the browser user agent (default: a desktop Chrome UA).
	UserAgent string

	// MaxBodyBytes caps the captured markup size (default: 5 MiB).
	MaxBodyBytes int64

	// SettleDelay is waited after the document reports ready, giving script
	// driven listings time to fill their tables (default: 250ms).
	SettleDelay time.Duration

	// DisableHeadless runs a visible browser, useful when diagnosing blocks.
	DisableHeadless bool
}

// DefaultChromeOptions returns the default browser configuration.
func DefaultChromeOptions() ChromeOptions {
	return ChromeOptions{
		UserAgent:    defaultUserAgent,
		MaxBodyBytes: 5 * 1024 * 1024,
		SettleDelay:  250 * time.Millisecond,
	}
}

// ChromeFactory shares one browser process across handles; each handle owns
// one tab.
type ChromeFactory struct {
	opts        ChromeOptions
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      zerolog.Logger
}

// NewChromeFactory starts the allocator for a shared browser process. The
// process itself launches lazily with the first handle.
func NewChromeFactory(opts ChromeOptions) *ChromeFactory {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5 * 1024 * 1024
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 250 * time.Millisecond
	}

	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", !opts.DisableHeadless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		execOpts = append(execOpts, chromedp.UserAgent(ua))
	} else {
		execOpts = append(execOpts, chromedp.UserAgent(defaultUserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)

	return &ChromeFactory{
		opts:        opts,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		logger:      log.With().Str("component", "renderer").Logger(),
	}
}

// New opens a tab in the shared browser.
func (f *ChromeFactory) New(ctx context.Context) (Renderer, error) {
	tabCtx, tabCancel := chromedp.NewContext(f.allocCtx)

	// A no-op run forces the browser (on the first tab) and the tab itself
	// to start, so construction failures surface here and not mid-session.
	if err := runWithContext(ctx, tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("starting browser tab: %w", err)
	}

	f.logger.Debug().Msg("browser tab started")

	return &ChromeRenderer{
		opts:      f.opts,
		tabCtx:    tabCtx,
		tabCancel: tabCancel,
		logger:    f.logger,
	}, nil
}

// Close shuts down the shared browser process. Handles become unusable.
func (f *ChromeFactory) Close(ctx context.Context) error {
	f.allocCancel()
	return nil
}

// ChromeRenderer is one browser tab. Navigations replace the tab's document,
// so an aborted load is superseded by the next Navigate call.
type ChromeRenderer struct {
	opts      ChromeOptions
	tabCtx    context.Context
	tabCancel context.CancelFunc
	logger    zerolog.Logger
}

// Navigate loads the URL, waits for the document to report ready plus a
// short settle delay, and returns the captured markup. Cancelling ctx aborts
// the wait; the tab stays usable for the next navigation.
func (r *ChromeRenderer) Navigate(ctx context.Context, pageURL string) (string, error) {
	start := time.Now()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		waitForDocumentReady(),
		chromedp.Sleep(r.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}

	if err := runWithContext(ctx, r.tabCtx, actions...); err != nil {
		return "", fmt.Errorf("navigating %s: %w", pageURL, err)
	}

	if int64(len(html)) > r.opts.MaxBodyBytes {
		html = html[:r.opts.MaxBodyBytes]
	}

	r.logger.Debug().
		Str("url", pageURL).
		Int("html_bytes", len(html)).
		Dur("duration", time.Since(start)).
		Msg("navigation complete")

	return html, nil
}

// Evaluate runs script in the tab and unmarshals the result into out.
func (r *ChromeRenderer) Evaluate(ctx context.Context, script string, out any) error {
	if err := runWithContext(ctx, r.tabCtx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("evaluating script: %w", err)
	}
	return nil
}

// Close closes the tab.
func (r *ChromeRenderer) Close(ctx context.Context) error {
	err := chromedp.Cancel(r.tabCtx)
	r.tabCancel()
	if err != nil {
		return fmt.Errorf("closing browser tab: %w", err)
	}
	return nil
}

// runWithContext runs actions against the tab while honoring the caller's
// context. The tab context outlives individual calls; the caller's
// cancellation only aborts the in-flight actions.
func runWithContext(ctx context.Context, tabCtx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(tabCtx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		// Report the caller's deadline rather than the derived cancellation.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// waitForDocumentReady polls document.readyState until the page reports
// complete.
func waitForDocumentReady() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			var readyState string
			if err := chromedp.Evaluate(`document.readyState`, &readyState).Do(ctx); err != nil {
				return err
			}
			if readyState == "complete" {
				return nil
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}
