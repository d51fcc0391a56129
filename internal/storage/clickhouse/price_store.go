package clickhouse

import (
	"context"
	"fmt"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/storage"
)

// PriceStore implements storage.PriceStore using ClickHouse. The table is a
// ReplacingMergeTree keyed (coin_id, unix_timestamp), so re-inserting a key
// overwrites the old price once merges settle; reads use FINAL to observe
// the replacement immediately.
type PriceStore struct {
	conn *Conn
}

// NewPriceStore creates a new PriceStore.
func NewPriceStore(conn *Conn) *PriceStore {
	return &PriceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceStore = (*PriceStore)(nil)

// AddOrUpdate inserts prices, overwriting rows with the same key.
func (s *PriceStore) AddOrUpdate(ctx context.Context, prices []domain.PriceRecord) error {
	if len(prices) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO prices (coin_id, unix_timestamp, price_usd)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range prices {
		if err := batch.Append(string(p.CoinID), p.Timestamp.Seconds(), p.PriceUSD); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetAll retrieves every stored price ordered by coin then timestamp.
func (s *PriceStore) GetAll(ctx context.Context) ([]domain.PriceRecord, error) {
	query := `
		SELECT coin_id, unix_timestamp, price_usd
		FROM prices FINAL
		ORDER BY coin_id, unix_timestamp ASC
	`
	return s.query(ctx, query)
}

// GetByCoin retrieves all prices for a coin ordered by timestamp ASC.
func (s *PriceStore) GetByCoin(ctx context.Context, coin domain.CoinID) ([]domain.PriceRecord, error) {
	query := `
		SELECT coin_id, unix_timestamp, price_usd
		FROM prices FINAL
		WHERE coin_id = ?
		ORDER BY unix_timestamp ASC
	`
	return s.query(ctx, query, string(coin))
}

// DeleteAll removes every price.
func (s *PriceStore) DeleteAll(ctx context.Context) error {
	if err := s.conn.Exec(ctx, `TRUNCATE TABLE prices`); err != nil {
		return fmt.Errorf("truncate prices: %w", err)
	}
	return nil
}

func (s *PriceStore) query(ctx context.Context, query string, args ...interface{}) ([]domain.PriceRecord, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var prices []domain.PriceRecord
	for rows.Next() {
		var (
			coin    string
			seconds int64
			price   float64
		)
		if err := rows.Scan(&coin, &seconds, &price); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, domain.PriceRecord{
			CoinID:    domain.CoinID(coin),
			Timestamp: domain.UnixTime(seconds),
			PriceUSD:  price,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prices: %w", err)
	}
	return prices, nil
}
