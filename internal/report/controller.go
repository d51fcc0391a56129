package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/observability"
	"bridge-tvl/internal/storage"
)

// Controller coordinates the report pipeline.
// Flow: fetch records → project filter → sync filter → aggregation →
// synthetic token pricing → output → cache save
type Controller struct {
	records storage.BalanceRecordStore
	cache   storage.CachedReportStore
	prices  PriceHistorySource

	projects      []domain.ProjectInfo
	syncAllowance int64

	now     func() domain.UnixTime
	logger  *log.Logger
	verbose bool
}

// Options for creating Controller.
type Options struct {
	// Required stores
	RecordStore storage.BalanceRecordStore
	CacheStore  storage.CachedReportStore
	Prices      PriceHistorySource

	// Tracked projects
	Projects []domain.ProjectInfo

	// SyncAllowance bounds how far a record's block may lag the highest
	// block seen at its timestamp. Zero uses DefaultSyncAllowance.
	SyncAllowance int64

	// Options
	Now     func() domain.UnixTime // defaults to wall clock
	Logger  *log.Logger
	Verbose bool
}

// NewController creates a new Controller.
func NewController(opts Options) *Controller {
	allowance := opts.SyncAllowance
	if allowance == 0 {
		allowance = DefaultSyncAllowance
	}
	now := opts.Now
	if now == nil {
		now = func() domain.UnixTime { return domain.UnixTime(time.Now().Unix()) }
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		records:       opts.RecordStore,
		cache:         opts.CacheStore,
		prices:        opts.Prices,
		projects:      opts.Projects,
		syncAllowance: allowance,
		now:           now,
		logger:        logger,
		verbose:       opts.Verbose,
	}
}

// RunResult contains counts from a pipeline run.
type RunResult struct {
	RecordsFetched  int
	RecordsFiltered int
	RecordsSynced   int
	Entries         int
	ChartDays       int
}

// GenerateDaily executes the pipeline up to the output stage without
// touching the cache.
func (c *Controller) GenerateDaily(ctx context.Context) (*domain.ReportOutput, *RunResult, error) {
	result := &RunResult{}

	c.log("fetching daily records")
	records, err := c.records.GetDaily(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch daily records: %w", err)
	}
	result.RecordsFetched = len(records)

	records = FilterByProjects(records, c.projects)
	result.RecordsFiltered = len(records)

	records = SufficientlySynced(records, c.syncAllowance)
	result.RecordsSynced = len(records)
	c.log("%d records after filtering, %d sufficiently synced", result.RecordsFiltered, result.RecordsSynced)

	entries := AggregateDaily(records, c.projects)
	result.Entries = len(entries)

	if err := InjectSyntheticTokens(ctx, entries, c.projects, c.prices); err != nil {
		return nil, nil, fmt.Errorf("price synthetic tokens: %w", err)
	}

	output := BuildOutput(entries, c.now())
	result.ChartDays = len(output.Aggregate)
	return output, result, nil
}

// GenerateAndCache runs the full pipeline and publishes the report. The
// cache keeps its previous contents when any stage fails.
func (c *Controller) GenerateAndCache(ctx context.Context) (*RunResult, error) {
	started := time.Now()

	output, result, err := c.GenerateDaily(ctx)
	if err != nil {
		observability.RecordReportRun("error", time.Since(started).Seconds())
		return nil, err
	}

	if err := c.cache.Save(ctx, output); err != nil {
		observability.RecordReportRun("error", time.Since(started).Seconds())
		return nil, fmt.Errorf("save cached report: %w", err)
	}

	observability.RecordReportRun("ok", time.Since(started).Seconds())
	observability.RecordReportSuccess(output.GeneratedAt.Seconds(), result.Entries, result.ChartDays)
	c.log("report published: %d entries over %d days", result.Entries, result.ChartDays)
	return result, nil
}

// GetDaily returns the latest published report. It never recomputes;
// storage.ErrNotFound means no run has completed yet.
func (c *Controller) GetDaily(ctx context.Context) (*domain.ReportOutput, error) {
	return c.cache.Get(ctx)
}

// Run satisfies the scheduler job signature.
func (c *Controller) Run(ctx context.Context) error {
	_, err := c.GenerateAndCache(ctx)
	return err
}

func (c *Controller) log(format string, args ...interface{}) {
	if c.verbose {
		c.logger.Printf(format, args...)
	}
}
