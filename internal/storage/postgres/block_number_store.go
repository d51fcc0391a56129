package postgres

import (
	"context"
	"fmt"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/storage"
)

// BlockNumberStore implements storage.BlockNumberStore using PostgreSQL.
type BlockNumberStore struct {
	pool *Pool
}

// NewBlockNumberStore creates a new BlockNumberStore.
func NewBlockNumberStore(pool *Pool) *BlockNumberStore {
	return &BlockNumberStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BlockNumberStore = (*BlockNumberStore)(nil)

// Add inserts a record. Returns ErrDuplicateKey if the block exists.
func (s *BlockNumberStore) Add(ctx context.Context, record domain.BlockNumberRecord) error {
	query := `INSERT INTO block_numbers (block_number, unix_timestamp) VALUES ($1, $2)`

	_, err := s.pool.Exec(ctx, query, record.BlockNumber, record.Timestamp.Seconds())
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert block number: %w", err)
	}
	return nil
}

// GetAll retrieves every record ordered by block number ASC.
func (s *BlockNumberStore) GetAll(ctx context.Context) ([]domain.BlockNumberRecord, error) {
	query := `SELECT block_number, unix_timestamp FROM block_numbers ORDER BY block_number ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query block numbers: %w", err)
	}
	defer rows.Close()

	var records []domain.BlockNumberRecord
	for rows.Next() {
		var (
			r       domain.BlockNumberRecord
			seconds int64
		)
		if err := rows.Scan(&r.BlockNumber, &seconds); err != nil {
			return nil, fmt.Errorf("scan block number: %w", err)
		}
		r.Timestamp = domain.UnixTime(seconds)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate block numbers: %w", err)
	}
	return records, nil
}

// FindByTimestamp retrieves the record mined exactly at the given timestamp.
// Returns ErrNotFound if none exists.
func (s *BlockNumberStore) FindByTimestamp(ctx context.Context, timestamp domain.UnixTime) (domain.BlockNumberRecord, error) {
	query := `SELECT block_number, unix_timestamp FROM block_numbers WHERE unix_timestamp = $1`

	var (
		r       domain.BlockNumberRecord
		seconds int64
	)
	err := s.pool.QueryRow(ctx, query, timestamp.Seconds()).Scan(&r.BlockNumber, &seconds)
	if err != nil {
		if isNotFoundError(err) {
			return domain.BlockNumberRecord{}, storage.ErrNotFound
		}
		return domain.BlockNumberRecord{}, fmt.Errorf("find block number: %w", err)
	}
	r.Timestamp = domain.UnixTime(seconds)
	return r, nil
}

// DeleteAll removes every record.
func (s *BlockNumberStore) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM block_numbers`); err != nil {
		return fmt.Errorf("delete block numbers: %w", err)
	}
	return nil
}
