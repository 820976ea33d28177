package session

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/txhound/txhound/pkg/bypass"
	"github.com/txhound/txhound/pkg/extract"
	"github.com/txhound/txhound/pkg/renderer"
	"github.com/txhound/txhound/pkg/scheduler"
)

// Default session settings.
const (
	// DefaultMaxWindows is the worker slot count per category session.
	DefaultMaxWindows = 10

	// DefaultTotalPages is the requested page budget per category session.
	// The effective budget is clamped to the total the source reports.
	DefaultTotalPages = 500
)

// Config holds the settings for a harvest session.
type Config struct {
	// TargetAddress is the account address whose transaction listings are
	// harvested.
	TargetAddress string

	// BaseURL is the explorer origin, e.g. "https://explorer.example.com".
	BaseURL string

	// Category is the listing path segment under BaseURL, e.g. "txs".
	Category string

	// MaxWindows is the worker slot count, the hard ceiling on concurrent
	// fetches and renderer handles for this session.
	MaxWindows int

	// TotalPages is the requested page budget.
	TotalPages int

	// MaxTaskRetries is the fetch attempt budget per page within a wave,
	// counting the initial attempt.
	MaxTaskRetries int

	// PerRequestTimeout bounds a single navigation attempt.
	PerRequestTimeout time.Duration

	// PerSlotCooldown is the minimum spacing between request starts on one
	// slot.
	PerSlotCooldown time.Duration

	// TaskDeadline bounds a whole page task including inline retries.
	TaskDeadline time.Duration

	// BatchBaseDelay is the inter-wave delay after a healthy wave.
	BatchBaseDelay time.Duration

	// Signatures is the block signature table used to classify fetched
	// content. Empty falls back to the built-in table.
	Signatures extract.SignatureTable

	// Factory creates the renderer handles for the session's slots.
	Factory renderer.Factory

	// Bypass persists the anti-bot challenge outcome across sessions.
	// Optional.
	Bypass bypass.Store
}

// DefaultConfig returns a session configuration with sensible defaults.
// TargetAddress, BaseURL and Factory must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		Category:          CategoryTransactions,
		MaxWindows:        DefaultMaxWindows,
		TotalPages:        DefaultTotalPages,
		MaxTaskRetries:    scheduler.DefaultMaxTaskRetries,
		PerRequestTimeout: scheduler.DefaultPerRequestTimeout,
		PerSlotCooldown:   scheduler.DefaultPerSlotCooldown,
		TaskDeadline:      scheduler.DefaultTaskDeadline,
		BatchBaseDelay:    scheduler.DefaultBatchBaseDelay,
		Signatures:        extract.DefaultSignatureTable(),
	}
}

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	if c.TargetAddress == "" {
		return fmt.Errorf("target address is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL %q must include scheme and host", c.BaseURL)
	}
	if c.Category == "" {
		return fmt.Errorf("category is required")
	}
	if c.Factory == nil {
		return fmt.Errorf("renderer factory is required")
	}
	if c.MaxWindows <= 0 {
		return fmt.Errorf("max windows must be positive, got %d", c.MaxWindows)
	}
	if c.TotalPages <= 0 {
		return fmt.Errorf("total pages must be positive, got %d", c.TotalPages)
	}
	return nil
}

// applyDefaults fills unset numeric fields and the signature table.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Category == "" {
		c.Category = def.Category
	}
	if c.MaxWindows == 0 {
		c.MaxWindows = def.MaxWindows
	}
	if c.TotalPages == 0 {
		c.TotalPages = def.TotalPages
	}
	if c.MaxTaskRetries == 0 {
		c.MaxTaskRetries = def.MaxTaskRetries
	}
	if c.PerRequestTimeout == 0 {
		c.PerRequestTimeout = def.PerRequestTimeout
	}
	if c.PerSlotCooldown == 0 {
		c.PerSlotCooldown = def.PerSlotCooldown
	}
	if c.TaskDeadline == 0 {
		c.TaskDeadline = def.TaskDeadline
	}
	if c.BatchBaseDelay == 0 {
		c.BatchBaseDelay = def.BatchBaseDelay
	}
	if len(c.Signatures.Signatures) == 0 {
		c.Signatures = def.Signatures
	}
}

// listingURL renders the URL for one listing page of the session's category.
func (c *Config) listingURL(page int) string {
	q := url.Values{}
	q.Set("a", c.TargetAddress)
	q.Set("p", strconv.Itoa(page))
	return strings.TrimRight(c.BaseURL, "/") + "/" + c.Category + "?" + q.Encode()
}
