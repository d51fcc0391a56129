package storage

import (
	"context"

	"bridge-tvl/internal/domain"
)

// BalanceRecordStore provides access to raw bridge balance snapshots.
type BalanceRecordStore interface {
	// GetDaily retrieves all midnight-aligned records, ordered by timestamp ASC.
	GetDaily(ctx context.Context) ([]domain.BalanceRecord, error)

	// GetAll retrieves every record without ordering guarantees.
	GetAll(ctx context.Context) ([]domain.BalanceRecord, error)

	// UpsertMany inserts records keyed (block_number, bridge_address, asset_id).
	// Conflicting keys are overwritten, last write wins.
	UpsertMany(ctx context.Context, records []domain.BalanceRecord) error

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error
}

// PriceStore archives provider prices keyed (coin_id, unix_timestamp).
type PriceStore interface {
	// AddOrUpdate inserts prices, overwriting rows with the same key.
	AddOrUpdate(ctx context.Context, prices []domain.PriceRecord) error

	// GetAll retrieves every stored price.
	GetAll(ctx context.Context) ([]domain.PriceRecord, error)

	// GetByCoin retrieves all prices for a coin, ordered by timestamp ASC.
	GetByCoin(ctx context.Context, coin domain.CoinID) ([]domain.PriceRecord, error)

	// DeleteAll removes every price.
	DeleteAll(ctx context.Context) error
}

// BlockNumberStore maps block numbers to mining timestamps.
type BlockNumberStore interface {
	// Add inserts a record. Returns ErrDuplicateKey if the block exists.
	Add(ctx context.Context, record domain.BlockNumberRecord) error

	// GetAll retrieves every record.
	GetAll(ctx context.Context) ([]domain.BlockNumberRecord, error)

	// FindByTimestamp retrieves the record mined exactly at the given
	// timestamp. Returns ErrNotFound if none exists.
	FindByTimestamp(ctx context.Context, timestamp domain.UnixTime) (domain.BlockNumberRecord, error)

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error
}

// CachedReportStore persists the latest successfully computed report.
// Save replaces the previous report atomically; readers observe either the
// old or the new complete report, never a mix.
type CachedReportStore interface {
	// Save stores the report, replacing any previous one.
	Save(ctx context.Context, report *domain.ReportOutput) error

	// Get retrieves the latest report. Returns ErrNotFound when no run
	// has ever completed successfully.
	Get(ctx context.Context) (*domain.ReportOutput, error)
}
