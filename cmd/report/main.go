// Package main runs the report pipeline once and writes the resulting
// daily TVL report as JSON, without touching the cache. Useful for
// inspecting what the scheduled run would publish.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"bridge-tvl/internal/coingecko"
	"bridge-tvl/internal/config"
	"bridge-tvl/internal/report"
	chstore "bridge-tvl/internal/storage/clickhouse"
	"bridge-tvl/internal/storage/migrations"
	pgstore "bridge-tvl/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	projectsFile := flag.String("projects", "projects.json", "Path to project definitions JSON")
	coingeckoURL := flag.String("coingecko-url", os.Getenv("COINGECKO_URL"), "CoinGecko API base URL override")
	syncAllowance := flag.Int64("sync-allowance", report.DefaultSyncAllowance, "Max block lag before a record is dropped as stale")
	output := flag.String("output", "-", "Output file, or - for stdout")
	flag.Parse()

	ctx := context.Background()

	if *postgresDSN == "" || *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn are required")
		os.Exit(1)
	}

	projects, err := config.LoadProjects(*projectsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading projects: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	chConn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
		os.Exit(1)
	}
	defer chConn.Close()

	var clientOpts []coingecko.ClientOption
	if *coingeckoURL != "" {
		clientOpts = append(clientOpts, coingecko.WithBaseURL(*coingeckoURL))
	}
	prices := coingecko.NewQueryService(coingecko.NewClient(clientOpts...)).
		WithPriceStore(chstore.NewPriceStore(chConn))

	controller := report.NewController(report.Options{
		RecordStore:   pgstore.NewBalanceRecordStore(pool),
		CacheStore:    pgstore.NewCachedReportStore(pool),
		Prices:        prices,
		Projects:      projects,
		SyncAllowance: *syncAllowance,
	})

	result, stats, err := controller.GenerateDaily(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %d entries over %d days from %d records\n",
		stats.Entries, stats.ChartDays, stats.RecordsFetched)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *output == "-" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
}
