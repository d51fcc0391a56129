package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/storage"
)

// CachedReportStore implements storage.CachedReportStore using PostgreSQL.
// The report lives in a single JSONB row replaced on every save, so readers
// always see one complete report.
type CachedReportStore struct {
	pool *Pool
}

// NewCachedReportStore creates a new CachedReportStore.
func NewCachedReportStore(pool *Pool) *CachedReportStore {
	return &CachedReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CachedReportStore = (*CachedReportStore)(nil)

// Save stores the report, replacing any previous one.
func (s *CachedReportStore) Save(ctx context.Context, report *domain.ReportOutput) error {
	if report == nil {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	query := `
		INSERT INTO cached_reports (id, report, saved_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			report = EXCLUDED.report,
			saved_at = EXCLUDED.saved_at
	`
	if _, err := s.pool.Exec(ctx, query, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("save cached report: %w", err)
	}
	return nil
}

// Get retrieves the latest report. Returns ErrNotFound when no run has
// completed yet.
func (s *CachedReportStore) Get(ctx context.Context) (*domain.ReportOutput, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT report FROM cached_reports WHERE id = 1`).Scan(&data)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get cached report: %w", err)
	}

	var report domain.ReportOutput
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal cached report: %w", err)
	}
	return &report, nil
}
