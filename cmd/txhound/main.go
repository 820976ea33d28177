package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/txhound/txhound/pkg/bypass"
	"github.com/txhound/txhound/pkg/extract"
	"github.com/txhound/txhound/pkg/logging"
	"github.com/txhound/txhound/pkg/renderer"
	"github.com/txhound/txhound/pkg/session"
)

const usageText = `Usage: txhound <targetAddress> [maxWindows] [totalPages]

Harvests the unique transaction hashes of an address from a block explorer
and prints the combined result as JSON to stdout.

Arguments:
  targetAddress   account address whose listings are harvested
  maxWindows      concurrent renderer slots per category (default 10)
  totalPages      requested page budget per category (default 500)

Environment:
  EXPLORER_BASE_URL  explorer origin, e.g. https://explorer.example.com (required)
  RENDERER           chrome or http (default chrome)
  REDIS_URL          redis address for challenge bypass state (optional)
  SIGNATURES_FILE    YAML block signature table (optional)
  METRICS_ADDR       address serving /metrics and /health (optional)
  LOG_LEVEL          debug, info, warn or error (default info)
  LOG_PRETTY         console log format when "true" (default false)
`

// cliArgs holds the parsed positional arguments.
type cliArgs struct {
	targetAddress string
	maxWindows    int
	totalPages    int
	help          bool
}

func parseArgs(args []string) (cliArgs, error) {
	parsed := cliArgs{
		maxWindows: session.DefaultMaxWindows,
		totalPages: session.DefaultTotalPages,
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			parsed.help = true
			return parsed, nil
		}
	}

	if len(args) < 1 || len(args) > 3 {
		return parsed, fmt.Errorf("expected 1 to 3 arguments, got %d", len(args))
	}

	parsed.targetAddress = args[0]
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return parsed, fmt.Errorf("invalid maxWindows %q", args[1])
		}
		parsed.maxWindows = n
	}
	if len(args) >= 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return parsed, fmt.Errorf("invalid totalPages %q", args[2])
		}
		parsed.totalPages = n
	}

	return parsed, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	parsed, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "txhound: %v\n\n%s", err, usageText)
		return 2
	}
	if parsed.help {
		fmt.Fprint(os.Stdout, usageText)
		return 0
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "false") == "true",
		Output: os.Stderr,
	})

	baseURL := os.Getenv("EXPLORER_BASE_URL")
	if baseURL == "" {
		logger.Error().Msg("EXPLORER_BASE_URL is required")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	signatures, err := loadSignatures(os.Getenv("SIGNATURES_FILE"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load signature table")
		return 1
	}

	store, storeCleanup, err := newBypassStore(ctx, os.Getenv("REDIS_URL"), baseURL, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect bypass store")
		return 1
	}
	defer storeCleanup()

	factory, err := selectFactory(getEnv("RENDERER", "chrome"))
	if err != nil {
		logger.Error().Err(err).Msg("Invalid renderer selection")
		return 2
	}
	defer func() {
		if cerr := factory.Close(context.Background()); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close renderer factory")
		}
	}()

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go serveMetrics(addr, logger)
	}

	harvester, err := session.NewHarvester(&session.Config{
		TargetAddress: parsed.targetAddress,
		BaseURL:       baseURL,
		MaxWindows:    parsed.maxWindows,
		TotalPages:    parsed.totalPages,
		Signatures:    signatures,
		Factory:       factory,
		Bypass:        store,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Invalid harvest configuration")
		return 1
	}

	result, runErr := harvester.Run(ctx)
	if runErr != nil {
		logger.Error().Err(runErr).Msg("Harvest finished with errors")
	}

	if err := json.NewEncoder(os.Stdout).Encode(buildOutput(parsed.targetAddress, result)); err != nil {
		logger.Error().Err(err).Msg("Failed to write result")
		return 1
	}
	if runErr != nil {
		return 1
	}
	return 0
}

// output is the JSON document printed to stdout.
type output struct {
	TargetAddress        string         `json:"target_address"`
	Transactions         categoryOutput `json:"transactions"`
	InternalTransactions categoryOutput `json:"internal_transactions"`
	TotalHashes          int            `json:"total_hashes"`
	ElapsedSeconds       float64        `json:"elapsed_seconds"`
}

type categoryOutput struct {
	Category            string   `json:"category"`
	Hashes              []string `json:"hashes"`
	UniqueHashes        int      `json:"unique_hashes"`
	PagesOK             int      `json:"pages_ok"`
	DetectedTotalPages  int      `json:"detected_total_pages"`
	EffectiveTotalPages int      `json:"effective_total_pages"`
	DroppedPages        []int    `json:"dropped_pages"`
}

func buildOutput(targetAddress string, result session.HarvestResult) output {
	return output{
		TargetAddress:        targetAddress,
		Transactions:         buildCategoryOutput(result.Transactions),
		InternalTransactions: buildCategoryOutput(result.InternalTransactions),
		TotalHashes:          result.TotalHashes,
		ElapsedSeconds:       result.Elapsed.Seconds(),
	}
}

func buildCategoryOutput(res session.Result) categoryOutput {
	hashes := res.Hashes
	if hashes == nil {
		hashes = []string{}
	}
	dropped := res.DroppedPages
	if dropped == nil {
		dropped = []int{}
	}
	return categoryOutput{
		Category:            res.Category,
		Hashes:              hashes,
		UniqueHashes:        len(hashes),
		PagesOK:             res.PagesOK,
		DetectedTotalPages:  res.DetectedTotalPages,
		EffectiveTotalPages: res.EffectiveTotalPages,
		DroppedPages:        dropped,
	}
}

// loadSignatures reads the signature table from path, or returns the
// built-in table when path is empty.
func loadSignatures(path string) (extract.SignatureTable, error) {
	if path == "" {
		return extract.DefaultSignatureTable(), nil
	}
	return extract.LoadSignatureTable(path)
}

// newBypassStore connects the redis-backed store when redisURL is set and
// falls back to the in-memory store otherwise.
func newBypassStore(ctx context.Context, redisURL, baseURL string, logger zerolog.Logger) (bypass.Store, func(), error) {
	if redisURL == "" {
		logger.Info().Msg("No REDIS_URL set, bypass state is kept in memory")
		return bypass.NewMemoryStore(), func() {}, nil
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisURL})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", redisURL, err)
	}
	logger.Info().Str("redis", redisURL).Msg("Connected to Redis for bypass state")

	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	cleanup := func() { redisClient.Close() }
	return bypass.NewRedisStore(redisClient, host), cleanup, nil
}

// selectFactory maps the RENDERER env value to a renderer factory.
func selectFactory(name string) (renderer.Factory, error) {
	switch name {
	case "chrome":
		return renderer.NewChromeFactory(renderer.DefaultChromeOptions()), nil
	case "http":
		return renderer.NewHTTPFactory(renderer.DefaultHTTPOptions()), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q, expected chrome or http", name)
	}
}

func newMetricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	return mux
}

func serveMetrics(addr string, logger zerolog.Logger) {
	logger.Info().Str("addr", addr).Msg("Serving metrics")
	if err := http.ListenAndServe(addr, newMetricsMux()); err != nil {
		logger.Error().Err(err).Msg("Metrics server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
