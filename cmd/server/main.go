// Package main runs the TVL service: a scheduled report pipeline that
// aggregates bridge balance records into daily charts, plus an HTTP
// surface serving the cached report, health and metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bridge-tvl/internal/coingecko"
	"bridge-tvl/internal/config"
	"bridge-tvl/internal/observability"
	"bridge-tvl/internal/report"
	"bridge-tvl/internal/scheduler"
	"bridge-tvl/internal/storage"
	chstore "bridge-tvl/internal/storage/clickhouse"
	"bridge-tvl/internal/storage/memory"
	"bridge-tvl/internal/storage/migrations"
	pgstore "bridge-tvl/internal/storage/postgres"
)

// Server holds all components of the service.
type Server struct {
	reports *report.Controller
	sched   *scheduler.Scheduler
	logger  *log.Logger
}

// allStores holds all storage implementations.
type allStores struct {
	recordStore storage.BalanceRecordStore
	priceStore  storage.PriceStore
	blockStore  storage.BlockNumberStore
	cacheStore  storage.CachedReportStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	projectsFile := flag.String("projects", envOr("PROJECTS_FILE", "projects.json"), "Path to project definitions JSON")
	coingeckoURL := flag.String("coingecko-url", os.Getenv("COINGECKO_URL"), "CoinGecko API base URL override")
	reportInterval := flag.Duration("report-interval", 5*time.Minute, "Report generation interval")
	syncAllowance := flag.Int64("sync-allowance", report.DefaultSyncAllowance, "Max block lag before a record is dropped as stale")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	httpAddr := flag.String("http-addr", ":8080", "HTTP listen address")
	verbose := flag.Bool("verbose", false, "Verbose pipeline logging")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	projects, err := config.LoadProjects(*projectsFile)
	if err != nil {
		logger.Fatalf("Failed to load projects: %v", err)
	}
	logger.Printf("Tracking %d projects", len(projects))

	ctx, cancel := context.WithCancel(context.Background())

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Price provider
	var clientOpts []coingecko.ClientOption
	if *coingeckoURL != "" {
		clientOpts = append(clientOpts, coingecko.WithBaseURL(*coingeckoURL))
	}
	prices := coingecko.NewQueryService(coingecko.NewClient(clientOpts...)).
		WithPriceStore(stores.priceStore)

	controller := report.NewController(report.Options{
		RecordStore:   stores.recordStore,
		CacheStore:    stores.cacheStore,
		Prices:        prices,
		Projects:      projects,
		SyncAllowance: *syncAllowance,
		Logger:        logger,
		Verbose:       *verbose,
	})
	sched := scheduler.New("report", *reportInterval, controller.Run, logger)

	server := &Server{
		reports: controller,
		sched:   sched,
		logger:  logger,
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	go server.startHTTPServer(*httpAddr)

	err = sched.Start(ctx)
	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			recordStore: memory.NewBalanceRecordStore(),
			priceStore:  memory.NewPriceStore(),
			blockStore:  memory.NewBlockNumberStore(),
			cacheStore:  memory.NewCachedReportStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
	}

	// ClickHouse
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		// PostgreSQL stores (report input and output)
		recordStore: pgstore.NewBalanceRecordStore(pool),
		blockStore:  pgstore.NewBlockNumberStore(pool),
		cacheStore:  pgstore.NewCachedReportStore(pool),

		// ClickHouse stores (price archive)
		priceStore: chstore.NewPriceStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Report and status endpoints
	mux.HandleFunc("/api/tvl", s.handleTVL)
	mux.HandleFunc("/status", s.handleStatus)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// handleTVL serves the latest cached report. It never triggers a
// recomputation; before the first successful run it returns 404.
func (s *Server) handleTVL(w http.ResponseWriter, r *http.Request) {
	output, err := s.reports.GetDaily(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not generated yet"})
			return
		}
		s.logger.Printf("Failed to read cached report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// handleStatus returns scheduler state as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "running",
		"scheduler": s.sched.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
