// Package renderer provides the page-rendering capability consumed by the
// scheduler: navigate to a URL and return the rendered markup, optionally
// evaluate script against the loaded document.
//
// Two implementations are provided: ChromeRenderer drives a headless browser
// tab via chromedp for sources that assemble their listings with JavaScript,
// and HTTPRenderer performs plain GET requests for sources that serve full
// markup directly.
package renderer

import (
	"context"
	"errors"
)

// Renderer is one exclusive rendering handle. A handle is owned by a single
// worker slot; callers must not issue concurrent operations on it.
type Renderer interface {
	// Navigate loads the URL and returns the rendered document markup.
	// Cancelling ctx aborts the in-flight navigation.
	Navigate(ctx context.Context, url string) (string, error)

	// Evaluate runs script against the current document and unmarshals the
	// result into out.
	Evaluate(ctx context.Context, script string, out any) error

	// Close releases the handle.
	Close(ctx context.Context) error
}

// Factory creates renderer handles, one per worker slot, plus shared
// resources behind them.
type Factory interface {
	New(ctx context.Context) (Renderer, error)

	// Close releases resources shared across handles. Individual handles
	// must be closed first.
	Close(ctx context.Context) error
}

// ErrEvaluateUnsupported is returned by renderers that cannot execute script.
var ErrEvaluateUnsupported = errors.New("renderer: evaluate not supported")
