// Package bypass persists whether the source's interactive anti-bot
// challenge has already been cleared for a given explorer host. Sessions
// check the flag once before scheduling; detecting the challenge signature
// in fetched content clears it so a future run re-triggers the interactive
// step.
package bypass

import (
	"context"
	"errors"
	"time"
)

// ErrStateNotFound indicates no bypass state has been recorded for the host.
var ErrStateNotFound = errors.New("bypass state not found")

// State records a cleared challenge.
type State struct {
	Passed   bool      `json:"passed"`
	PassedAt time.Time `json:"passed_at"`
}

// Store persists bypass state for one explorer host.
type Store interface {
	// State returns the recorded state, or ErrStateNotFound.
	State(ctx context.Context) (State, error)

	// MarkPassed records that the challenge has been cleared now.
	MarkPassed(ctx context.Context) error

	// Clear removes the recorded state.
	Clear(ctx context.Context) error
}
