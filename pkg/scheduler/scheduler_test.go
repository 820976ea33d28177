package scheduler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/txhound/txhound/pkg/bypass"
	"github.com/txhound/txhound/pkg/extract"
	"github.com/txhound/txhound/pkg/renderer"
)

// testHash returns a unique 64-hex-char transaction hash seeded by n.
func testHash(n int) string {
	return fmt.Sprintf("0x%064x", n)
}

// pageContent builds a listing page with a pagination marker, one /tx/ link
// per hash and padding past the minimum content size.
func pageContent(page, total int, hashes ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><body><p>Page %d of %d</p><table>", page, total)
	for _, h := range hashes {
		fmt.Fprintf(&b, `<tr><td><a href="/tx/%s">%s</a></td></tr>`, h, h)
	}
	b.WriteString("</table>")
	if pad := extract.MinContentBytes - b.Len(); pad > 0 {
		b.WriteString(strings.Repeat("x", pad+64))
	}
	b.WriteString("</body></html>")
	return b.String()
}

// blockedContent builds a page carrying a block signature marker, large
// enough to pass the minimum size check.
func blockedContent(marker string) string {
	return "<html><body>" + marker + strings.Repeat("x", extract.MinContentBytes) + "</body></html>"
}

type fakeOutcome struct {
	content string
	err     error
}

// fakeExplorer scripts per-page outcomes and records how pages were served.
// Outcomes are consumed in order; the last one repeats.
type fakeExplorer struct {
	mu       sync.Mutex
	outcomes map[int][]fakeOutcome
	calls    map[int]int
	served   map[int][]int
	times    map[int][]time.Time
	overlaps int
}

func newFakeExplorer() *fakeExplorer {
	return &fakeExplorer{
		outcomes: make(map[int][]fakeOutcome),
		calls:    make(map[int]int),
		served:   make(map[int][]int),
		times:    make(map[int][]time.Time),
	}
}

func (f *fakeExplorer) scriptPage(page int, outcomes ...fakeOutcome) {
	f.outcomes[page] = outcomes
}

func (f *fakeExplorer) serve(rendererID int, rawURL string) (string, error) {
	page := pageFromTestURL(rawURL)

	f.mu.Lock()
	f.calls[page]++
	call := f.calls[page]
	f.served[page] = append(f.served[page], rendererID)
	f.times[page] = append(f.times[page], time.Now())
	script := f.outcomes[page]
	f.mu.Unlock()

	if len(script) == 0 {
		return "", fmt.Errorf("no scripted outcome for page %d", page)
	}
	idx := call - 1
	if idx >= len(script) {
		idx = len(script) - 1
	}
	return script[idx].content, script[idx].err
}

func (f *fakeExplorer) pageCalls(page int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[page]
}

func (f *fakeExplorer) pagesServed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeExplorer) callTimes(page int) []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.times[page]...)
}

func pageFromTestURL(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	page, _ := strconv.Atoi(u.Query().Get("p"))
	return page
}

// fakeRenderer serves scripted content and flags overlapping navigations on
// the same handle.
type fakeRenderer struct {
	id       int
	explorer *fakeExplorer
	busy     atomic.Bool
	closed   atomic.Bool
}

func (r *fakeRenderer) Navigate(ctx context.Context, rawURL string) (string, error) {
	if !r.busy.CompareAndSwap(false, true) {
		r.explorer.mu.Lock()
		r.explorer.overlaps++
		r.explorer.mu.Unlock()
	}
	defer r.busy.Store(false)

	time.Sleep(2 * time.Millisecond)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.explorer.serve(r.id, rawURL)
}

func (r *fakeRenderer) Evaluate(ctx context.Context, script string, out any) error {
	return renderer.ErrEvaluateUnsupported
}

func (r *fakeRenderer) Close(ctx context.Context) error {
	r.closed.Store(true)
	return nil
}

// fakeFactory creates fake renderers with ids in creation order, so ids
// line up with slot indexes.
type fakeFactory struct {
	explorer *fakeExplorer
	mu       sync.Mutex
	created  []*fakeRenderer
	failAt   int
}

func (f *fakeFactory) New(ctx context.Context) (renderer.Renderer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAt > 0 && len(f.created)+1 == f.failAt {
		return nil, errors.New("allocator exhausted")
	}
	r := &fakeRenderer{id: len(f.created), explorer: f.explorer}
	f.created = append(f.created, r)
	return r, nil
}

func (f *fakeFactory) Close(ctx context.Context) error {
	return nil
}

// setAccumulator is a minimal deduplicating sink for Run.
type setAccumulator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newSetAccumulator() *setAccumulator {
	return &setAccumulator{seen: make(map[string]struct{})}
}

func (a *setAccumulator) Add(hashes []string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	added := 0
	for _, h := range hashes {
		if _, ok := a.seen[h]; ok {
			continue
		}
		a.seen[h] = struct{}{}
		added++
	}
	return added
}

func (a *setAccumulator) contains(hash string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.seen[hash]
	return ok
}

func (a *setAccumulator) size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}

func testConfig() Config {
	return Config{
		Category:          "transactions",
		MaxWindows:        2,
		TotalPages:        4,
		PageURL:           func(page int) string { return fmt.Sprintf("https://explorer.test/txs?a=0xabc&p=%d", page) },
		Classifier:        extract.NewClassifier(extract.DefaultSignatureTable()),
		PerRequestTimeout: 2 * time.Second,
		PerSlotCooldown:   time.Millisecond,
		TaskDeadline:      5 * time.Second,
		BatchBaseDelay:    time.Millisecond,
		MaxTaskRetries:    2,
	}
}

func runScheduler(t *testing.T, explorer *fakeExplorer, cfg Config) (Result, *setAccumulator, error) {
	t.Helper()

	factory := &fakeFactory{explorer: explorer}
	sched, err := New(context.Background(), factory, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { sched.Close(context.Background()) })

	acc := newSetAccumulator()
	res, err := sched.Run(context.Background(), acc)
	return res, acc, err
}

func TestRunHappyPath(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 4, testHash(10), testHash(11))})
	// Page 2 repeats a hash from page 1
	explorer.scriptPage(2, fakeOutcome{content: pageContent(2, 4, testHash(20), testHash(10))})
	explorer.scriptPage(3, fakeOutcome{content: pageContent(3, 4, testHash(30), testHash(31))})
	explorer.scriptPage(4, fakeOutcome{content: pageContent(4, 4, testHash(40), testHash(41))})

	res, acc, err := runScheduler(t, explorer, testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.DetectedTotalPages != 4 {
		t.Errorf("DetectedTotalPages = %d, want 4", res.DetectedTotalPages)
	}
	if res.EffectiveTotalPages != 4 {
		t.Errorf("EffectiveTotalPages = %d, want 4", res.EffectiveTotalPages)
	}
	if res.PagesOK != 4 {
		t.Errorf("PagesOK = %d, want 4", res.PagesOK)
	}
	if res.Waves != 2 {
		t.Errorf("Waves = %d, want 2", res.Waves)
	}
	if len(res.DroppedPages) != 0 {
		t.Errorf("DroppedPages = %v, want none", res.DroppedPages)
	}

	// 8 links, one repeated across pages
	if acc.size() != 7 {
		t.Errorf("accumulated hashes = %d, want 7", acc.size())
	}

	// Page 1 is fetched once for detection and once in wave 1
	if got := explorer.pageCalls(1); got != 2 {
		t.Errorf("page 1 fetches = %d, want 2", got)
	}
	for page := 2; page <= 4; page++ {
		if got := explorer.pageCalls(page); got != 1 {
			t.Errorf("page %d fetches = %d, want 1", page, got)
		}
	}

	// Static assignment: page p is always served by slot (p-1) mod maxWindows
	for page, ids := range explorer.served {
		want := slotForPage(page, 2)
		for _, id := range ids {
			if id != want {
				t.Errorf("page %d served by renderer %d, want %d", page, id, want)
			}
		}
	}
	if explorer.overlaps != 0 {
		t.Errorf("detected %d overlapping navigations on one renderer", explorer.overlaps)
	}
}

func TestRunClampsBudgetToDetectedTotal(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 3, testHash(1))})
	explorer.scriptPage(2, fakeOutcome{content: pageContent(2, 3, testHash(2))})
	explorer.scriptPage(3, fakeOutcome{content: pageContent(3, 3, testHash(3))})

	cfg := testConfig()
	cfg.TotalPages = 500

	res, acc, err := runScheduler(t, explorer, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.DetectedTotalPages != 3 {
		t.Errorf("DetectedTotalPages = %d, want 3", res.DetectedTotalPages)
	}
	if res.EffectiveTotalPages != 3 {
		t.Errorf("EffectiveTotalPages = %d, want 3", res.EffectiveTotalPages)
	}
	if res.PagesOK != 3 {
		t.Errorf("PagesOK = %d, want 3", res.PagesOK)
	}
	if got := explorer.pagesServed(); got != 3 {
		t.Errorf("distinct pages fetched = %d, want 3 despite a 500 page request", got)
	}
	if acc.size() != 3 {
		t.Errorf("accumulated hashes = %d, want 3", acc.size())
	}
}

func TestRunKeepsRequestedBudgetWhenDetectedLarger(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 37, testHash(1))})
	explorer.scriptPage(2, fakeOutcome{content: pageContent(2, 37, testHash(2))})

	cfg := testConfig()
	cfg.TotalPages = 2

	res, acc, err := runScheduler(t, explorer, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.DetectedTotalPages != 37 {
		t.Errorf("DetectedTotalPages = %d, want 37", res.DetectedTotalPages)
	}
	if res.EffectiveTotalPages != 2 {
		t.Errorf("EffectiveTotalPages = %d, want the requested 2", res.EffectiveTotalPages)
	}
	if got := explorer.pagesServed(); got != 2 {
		t.Errorf("distinct pages fetched = %d, want 2", got)
	}
	if acc.size() != 2 {
		t.Errorf("accumulated hashes = %d, want 2", acc.size())
	}
}

func TestRunDetectionFallbackSinglePage(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1,
		fakeOutcome{err: errors.New("tls handshake failure")},
		fakeOutcome{content: pageContent(1, 9, testHash(1))},
	)

	res, acc, err := runScheduler(t, explorer, testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.DetectedTotalPages != 0 {
		t.Errorf("DetectedTotalPages = %d, want 0 after failed detection", res.DetectedTotalPages)
	}
	if res.EffectiveTotalPages != 1 {
		t.Errorf("EffectiveTotalPages = %d, want 1", res.EffectiveTotalPages)
	}
	if res.PagesOK != 1 {
		t.Errorf("PagesOK = %d, want 1", res.PagesOK)
	}
	if got := explorer.pagesServed(); got != 1 {
		t.Errorf("distinct pages fetched = %d, want only page 1", got)
	}
	if !acc.contains(testHash(1)) {
		t.Error("expected the fallback page's hash to be accumulated")
	}
}

func TestRunInlineRetryThenRetryPassRecovery(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 4, testHash(1))})
	explorer.scriptPage(2, fakeOutcome{content: pageContent(2, 4, testHash(2))})
	// Page 3 burns its inline budget, then recovers in the retry pass
	explorer.scriptPage(3,
		fakeOutcome{err: errors.New("connection reset")},
		fakeOutcome{err: errors.New("connection reset")},
		fakeOutcome{content: pageContent(3, 4, testHash(3))},
	)
	explorer.scriptPage(4, fakeOutcome{content: pageContent(4, 4, testHash(4))})

	res, acc, err := runScheduler(t, explorer, testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.PagesOK != 4 {
		t.Errorf("PagesOK = %d, want 4", res.PagesOK)
	}
	if len(res.DroppedPages) != 0 {
		t.Errorf("DroppedPages = %v, want none after the retry pass recovery", res.DroppedPages)
	}
	if got := explorer.pageCalls(3); got != 3 {
		t.Errorf("page 3 fetches = %d, want 2 inline + 1 retry pass", got)
	}
	if !acc.contains(testHash(3)) {
		t.Error("expected the recovered page's hash to be accumulated")
	}

	// The page keeps its slot in the retry pass
	for _, id := range explorer.served[3] {
		if want := slotForPage(3, 2); id != want {
			t.Errorf("page 3 served by renderer %d, want %d", id, want)
		}
	}
}

func TestRunDropsPageAfterRetryPass(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 4, testHash(1))})
	explorer.scriptPage(2, fakeOutcome{err: errors.New("connection refused")})
	explorer.scriptPage(3, fakeOutcome{content: pageContent(3, 4, testHash(3))})
	explorer.scriptPage(4, fakeOutcome{content: pageContent(4, 4, testHash(4))})

	res, acc, err := runScheduler(t, explorer, testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.PagesOK != 3 {
		t.Errorf("PagesOK = %d, want 3", res.PagesOK)
	}
	if len(res.DroppedPages) != 1 || res.DroppedPages[0] != 2 {
		t.Errorf("DroppedPages = %v, want [2]", res.DroppedPages)
	}
	if got := explorer.pageCalls(2); got != 3 {
		t.Errorf("page 2 fetches = %d, want 2 inline + 1 retry pass", got)
	}
	if acc.contains(testHash(2)) {
		t.Error("dropped page's hash must not be accumulated")
	}
	if acc.size() != 3 {
		t.Errorf("accumulated hashes = %d, want 3", acc.size())
	}
}

func TestRunRetryPassSkipsCooldownPacing(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 2, testHash(1))})
	// Page 2 fails its single inline attempt and recovers in the retry pass
	explorer.scriptPage(2,
		fakeOutcome{err: errors.New("connection reset")},
		fakeOutcome{content: pageContent(2, 2, testHash(2))},
	)

	cfg := testConfig()
	cfg.MaxWindows = 1
	cfg.TotalPages = 2
	cfg.MaxTaskRetries = 1
	cfg.PerSlotCooldown = 400 * time.Millisecond

	res, _, err := runScheduler(t, explorer, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.PagesOK != 2 {
		t.Errorf("PagesOK = %d, want 2", res.PagesOK)
	}
	times := explorer.callTimes(2)
	if len(times) != 2 {
		t.Fatalf("page 2 fetches = %d, want 1 inline + 1 retry pass", len(times))
	}
	// A paced re-fetch would wait out the 400ms cooldown on the slot. The
	// retry pass must land well inside it.
	if gap := times[1].Sub(times[0]); gap >= 200*time.Millisecond {
		t.Errorf("retry pass fetch came %v after the inline attempt, want an unpaced re-fetch", gap)
	}
}

func TestRunChallengeSignatureClearsBypassState(t *testing.T) {
	ctx := context.Background()

	store := bypass.NewMemoryStore()
	if err := store.MarkPassed(ctx); err != nil {
		t.Fatalf("MarkPassed failed: %v", err)
	}

	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 2, testHash(1))})
	explorer.scriptPage(2, fakeOutcome{content: blockedContent("checking your browser: challenge-platform")})

	cfg := testConfig()
	cfg.TotalPages = 2
	cfg.Bypass = store

	res, _, err := runScheduler(t, explorer, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.DroppedPages) != 1 || res.DroppedPages[0] != 2 {
		t.Errorf("DroppedPages = %v, want [2]", res.DroppedPages)
	}
	if _, err := store.State(ctx); !errors.Is(err, bypass.ErrStateNotFound) {
		t.Errorf("State error = %v, want ErrStateNotFound after a challenge", err)
	}
}

func TestRunNonChallengeBlockKeepsBypassState(t *testing.T) {
	ctx := context.Background()

	store := bypass.NewMemoryStore()
	if err := store.MarkPassed(ctx); err != nil {
		t.Fatalf("MarkPassed failed: %v", err)
	}

	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 2, testHash(1))})
	explorer.scriptPage(2, fakeOutcome{content: blockedContent("access denied")})

	cfg := testConfig()
	cfg.TotalPages = 2
	cfg.Bypass = store

	_, _, err := runScheduler(t, explorer, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := store.State(ctx); err != nil {
		t.Errorf("State error = %v, want surviving state for a non-challenge block", err)
	}
}

func TestRunInsufficientContentDropped(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 2, testHash(1))})
	explorer.scriptPage(2, fakeOutcome{content: "<html></html>"})

	cfg := testConfig()
	cfg.TotalPages = 2

	res, _, err := runScheduler(t, explorer, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.DroppedPages) != 1 || res.DroppedPages[0] != 2 {
		t.Errorf("DroppedPages = %v, want [2]", res.DroppedPages)
	}
}

func TestRunCancelledContext(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 2, testHash(1))})

	factory := &fakeFactory{explorer: explorer}
	sched, err := New(context.Background(), factory, testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer sched.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sched.Run(ctx, newSetAccumulator())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if res.PagesOK != 0 {
		t.Errorf("PagesOK = %d, want 0", res.PagesOK)
	}
	if res.EffectiveTotalPages != 1 {
		t.Errorf("EffectiveTotalPages = %d, want the detection fallback", res.EffectiveTotalPages)
	}
}

func TestRunSecondCallRejected(t *testing.T) {
	explorer := newFakeExplorer()
	explorer.scriptPage(1, fakeOutcome{content: pageContent(1, 1, testHash(1))})

	cfg := testConfig()
	cfg.TotalPages = 1

	factory := &fakeFactory{explorer: explorer}
	sched, err := New(context.Background(), factory, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer sched.Close(context.Background())

	if _, err := sched.Run(context.Background(), newSetAccumulator()); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if _, err := sched.Run(context.Background(), newSetAccumulator()); err == nil {
		t.Fatal("expected the second Run to be rejected")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_windows", func(c *Config) { c.MaxWindows = 0 }},
		{"zero_pages", func(c *Config) { c.TotalPages = 0 }},
		{"missing_page_url", func(c *Config) { c.PageURL = nil }},
		{"missing_classifier", func(c *Config) { c.Classifier = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			factory := &fakeFactory{explorer: newFakeExplorer()}
			if _, err := New(context.Background(), factory, cfg); err == nil {
				t.Fatal("expected a config error")
			}
			if len(factory.created) != 0 {
				t.Errorf("factory created %d renderers before validation", len(factory.created))
			}
		})
	}
}

func TestNewClosesHandlesOnFactoryFailure(t *testing.T) {
	factory := &fakeFactory{explorer: newFakeExplorer(), failAt: 3}

	cfg := testConfig()
	cfg.MaxWindows = 4

	if _, err := New(context.Background(), factory, cfg); err == nil {
		t.Fatal("expected pool construction to fail")
	}
	if len(factory.created) != 2 {
		t.Fatalf("created = %d renderers, want 2 before the failure", len(factory.created))
	}
	for i, r := range factory.created {
		if !r.closed.Load() {
			t.Errorf("renderer %d left open after construction failure", i)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{
		MaxWindows: 1,
		TotalPages: 1,
		PageURL:    func(page int) string { return "https://explorer.test/txs?p=1" },
		Classifier: extract.NewClassifier(extract.DefaultSignatureTable()),
	}

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.PerRequestTimeout != DefaultPerRequestTimeout {
		t.Errorf("PerRequestTimeout = %v, want %v", cfg.PerRequestTimeout, DefaultPerRequestTimeout)
	}
	if cfg.PerSlotCooldown != DefaultPerSlotCooldown {
		t.Errorf("PerSlotCooldown = %v, want %v", cfg.PerSlotCooldown, DefaultPerSlotCooldown)
	}
	if cfg.TaskDeadline != DefaultTaskDeadline {
		t.Errorf("TaskDeadline = %v, want %v", cfg.TaskDeadline, DefaultTaskDeadline)
	}
	if cfg.BatchBaseDelay != DefaultBatchBaseDelay {
		t.Errorf("BatchBaseDelay = %v, want %v", cfg.BatchBaseDelay, DefaultBatchBaseDelay)
	}
	if cfg.MaxTaskRetries != DefaultMaxTaskRetries {
		t.Errorf("MaxTaskRetries = %d, want %d", cfg.MaxTaskRetries, DefaultMaxTaskRetries)
	}
}

func TestSlotForPage(t *testing.T) {
	tests := []struct {
		page       int
		maxWindows int
		want       int
	}{
		{1, 2, 0},
		{2, 2, 1},
		{3, 2, 0},
		{4, 2, 1},
		{1, 10, 0},
		{10, 10, 9},
		{11, 10, 0},
		{37, 1, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page_%d_windows_%d", tt.page, tt.maxWindows), func(t *testing.T) {
			if got := slotForPage(tt.page, tt.maxWindows); got != tt.want {
				t.Errorf("slotForPage(%d, %d) = %d, want %d", tt.page, tt.maxWindows, got, tt.want)
			}
		})
	}
}
