package postgres

import (
	"context"
	"fmt"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/storage"
)

// BalanceRecordStore implements storage.BalanceRecordStore using PostgreSQL.
type BalanceRecordStore struct {
	pool *Pool
}

// NewBalanceRecordStore creates a new BalanceRecordStore.
func NewBalanceRecordStore(pool *Pool) *BalanceRecordStore {
	return &BalanceRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BalanceRecordStore = (*BalanceRecordStore)(nil)

const balanceRecordColumns = `
	block_number, unix_timestamp, bridge_address, asset_id,
	balance, usd_value, eth_value
`

// UpsertMany inserts records atomically. Rows with an existing
// (block_number, bridge_address, asset_id) key are overwritten.
func (s *BalanceRecordStore) UpsertMany(ctx context.Context, records []domain.BalanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO balance_records (
			block_number, unix_timestamp, bridge_address, asset_id,
			balance, usd_value, eth_value, is_daily
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (block_number, bridge_address, asset_id) DO UPDATE SET
			unix_timestamp = EXCLUDED.unix_timestamp,
			balance = EXCLUDED.balance,
			usd_value = EXCLUDED.usd_value,
			eth_value = EXCLUDED.eth_value,
			is_daily = EXCLUDED.is_daily
	`

	for _, r := range records {
		_, err := tx.Exec(ctx, query,
			r.BlockNumber, r.Timestamp.Seconds(), string(r.BridgeAddress), string(r.AssetID),
			r.Balance, r.USDValue, r.ETHValue, r.IsDaily(),
		)
		if err != nil {
			return fmt.Errorf("upsert balance record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetDaily retrieves all midnight-aligned records ordered by timestamp ASC.
func (s *BalanceRecordStore) GetDaily(ctx context.Context) ([]domain.BalanceRecord, error) {
	query := `
		SELECT ` + balanceRecordColumns + `
		FROM balance_records
		WHERE is_daily
		ORDER BY unix_timestamp ASC, bridge_address, asset_id
	`
	return s.query(ctx, query)
}

// GetAll retrieves every record.
func (s *BalanceRecordStore) GetAll(ctx context.Context) ([]domain.BalanceRecord, error) {
	query := `
		SELECT ` + balanceRecordColumns + `
		FROM balance_records
		ORDER BY unix_timestamp ASC, bridge_address, asset_id
	`
	return s.query(ctx, query)
}

// DeleteAll removes every record.
func (s *BalanceRecordStore) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM balance_records`); err != nil {
		return fmt.Errorf("delete balance records: %w", err)
	}
	return nil
}

func (s *BalanceRecordStore) query(ctx context.Context, query string) ([]domain.BalanceRecord, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query balance records: %w", err)
	}
	defer rows.Close()

	var records []domain.BalanceRecord
	for rows.Next() {
		var (
			r       domain.BalanceRecord
			seconds int64
			bridge  string
			asset   string
		)
		err := rows.Scan(
			&r.BlockNumber, &seconds, &bridge, &asset,
			&r.Balance, &r.USDValue, &r.ETHValue,
		)
		if err != nil {
			return nil, fmt.Errorf("scan balance record: %w", err)
		}
		r.Timestamp = domain.UnixTime(seconds)
		r.BridgeAddress = domain.EthereumAddress(bridge)
		r.AssetID = domain.AssetID(asset)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance records: %w", err)
	}
	return records, nil
}
