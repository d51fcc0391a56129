// Package memory provides in-memory storage backends, used by tests and the
// --use-memory server mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bridge-tvl/internal/domain"
)

// BalanceRecordStore is an in-memory implementation of storage.BalanceRecordStore.
type BalanceRecordStore struct {
	mu   sync.RWMutex
	data map[string]domain.BalanceRecord // keyed by (block_number, bridge_address, asset_id)
}

// NewBalanceRecordStore creates a new in-memory balance record store.
func NewBalanceRecordStore() *BalanceRecordStore {
	return &BalanceRecordStore{
		data: make(map[string]domain.BalanceRecord),
	}
}

func recordKey(r domain.BalanceRecord) string {
	return fmt.Sprintf("%d|%s|%s", r.BlockNumber, r.BridgeAddress, r.AssetID)
}

// UpsertMany inserts records, last write wins on conflicting keys.
func (s *BalanceRecordStore) UpsertMany(_ context.Context, records []domain.BalanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.data[recordKey(r)] = r
	}
	return nil
}

// GetDaily retrieves all midnight-aligned records, ordered by timestamp ASC.
func (s *BalanceRecordStore) GetDaily(_ context.Context) ([]domain.BalanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.BalanceRecord
	for _, r := range s.data {
		if r.IsDaily() {
			result = append(result, r)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}

// GetAll retrieves every record.
func (s *BalanceRecordStore) GetAll(_ context.Context) ([]domain.BalanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BalanceRecord, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, r)
	}
	return result, nil
}

// DeleteAll removes every record.
func (s *BalanceRecordStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]domain.BalanceRecord)
	return nil
}
