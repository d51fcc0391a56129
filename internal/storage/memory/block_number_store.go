package memory

import (
	"context"
	"sync"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/storage"
)

// BlockNumberStore is an in-memory implementation of storage.BlockNumberStore.
type BlockNumberStore struct {
	mu   sync.RWMutex
	data map[int64]domain.BlockNumberRecord // keyed by block_number
}

// NewBlockNumberStore creates a new in-memory block number store.
func NewBlockNumberStore() *BlockNumberStore {
	return &BlockNumberStore{
		data: make(map[int64]domain.BlockNumberRecord),
	}
}

// Add inserts a record. Returns ErrDuplicateKey if the block exists.
func (s *BlockNumberStore) Add(_ context.Context, record domain.BlockNumberRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[record.BlockNumber]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[record.BlockNumber] = record
	return nil
}

// GetAll retrieves every record.
func (s *BlockNumberStore) GetAll(_ context.Context) ([]domain.BlockNumberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BlockNumberRecord, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, r)
	}
	return result, nil
}

// FindByTimestamp retrieves the record mined exactly at the given timestamp.
func (s *BlockNumberStore) FindByTimestamp(_ context.Context, timestamp domain.UnixTime) (domain.BlockNumberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.data {
		if r.Timestamp == timestamp {
			return r, nil
		}
	}
	return domain.BlockNumberRecord{}, storage.ErrNotFound
}

// DeleteAll removes every record.
func (s *BlockNumberStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[int64]domain.BlockNumberRecord)
	return nil
}
