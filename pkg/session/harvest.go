package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/txhound/txhound/pkg/logging"
)

// Listing categories harvested for a target address.
const (
	// CategoryTransactions is the regular transaction listing.
	CategoryTransactions = "txs"

	// CategoryInternalTransactions is the internal transaction listing.
	CategoryInternalTransactions = "txsInternal"
)

// HarvestResult combines the two category sessions of one address. The hash
// sets stay separate: a hash may legitimately appear in both categories, and
// TotalHashes is the plain sum of both counts.
type HarvestResult struct {
	Transactions         Result
	InternalTransactions Result

	// TotalHashes is len(Transactions.Hashes) + len(InternalTransactions.Hashes).
	TotalHashes int

	// Elapsed is the wall-clock duration of the combined run.
	Elapsed time.Duration
}

// Harvester runs the transaction and internal transaction sessions of one
// target address concurrently. Both sessions share the renderer factory and
// the bypass store but keep separate slot pools and hash sets.
type Harvester struct {
	transactions *Session
	internal     *Session
	logger       zerolog.Logger
}

// NewHarvester prepares both category sessions from one configuration. The
// Category field of cfg is ignored.
func NewHarvester(cfg *Config) (*Harvester, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	txCfg := *cfg
	txCfg.Category = CategoryTransactions
	transactions, err := NewSession(&txCfg)
	if err != nil {
		return nil, err
	}

	internalCfg := *cfg
	internalCfg.Category = CategoryInternalTransactions
	internal, err := NewSession(&internalCfg)
	if err != nil {
		return nil, err
	}

	return &Harvester{
		transactions: transactions,
		internal:     internal,
		logger:       logging.NewLogger("harvester"),
	}, nil
}

// Harvest runs both category sessions for one configuration. It is the
// one-call entry point for callers that do not need to hold a Harvester.
func Harvest(ctx context.Context, cfg *Config) (HarvestResult, error) {
	h, err := NewHarvester(cfg)
	if err != nil {
		return HarvestResult{}, err
	}
	return h.Run(ctx)
}

// Run executes both category sessions concurrently and combines their
// results. A failure in one category does not stop the other; the joined
// error reports what failed while the result keeps everything that was
// harvested.
func (h *Harvester) Run(ctx context.Context) (HarvestResult, error) {
	start := time.Now()

	var (
		wg            sync.WaitGroup
		txRes, intRes Result
		txErr, intErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		txRes, txErr = h.transactions.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		intRes, intErr = h.internal.Run(ctx)
	}()
	wg.Wait()

	result := HarvestResult{
		Transactions:         txRes,
		InternalTransactions: intRes,
		TotalHashes:          len(txRes.Hashes) + len(intRes.Hashes),
		Elapsed:              time.Since(start),
	}

	h.logger.Info().
		Int("transaction_hashes", len(txRes.Hashes)).
		Int("internal_hashes", len(intRes.Hashes)).
		Int("total_hashes", result.TotalHashes).
		Dur("elapsed", result.Elapsed).
		Msg("Harvest complete")

	return result, errors.Join(txErr, intErr)
}
