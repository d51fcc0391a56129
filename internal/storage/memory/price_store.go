package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bridge-tvl/internal/domain"
)

// PriceStore is an in-memory implementation of storage.PriceStore.
type PriceStore struct {
	mu   sync.RWMutex
	data map[string]domain.PriceRecord // keyed by (coin_id, unix_timestamp)
}

// NewPriceStore creates a new in-memory price store.
func NewPriceStore() *PriceStore {
	return &PriceStore{
		data: make(map[string]domain.PriceRecord),
	}
}

func priceKey(coin domain.CoinID, timestamp domain.UnixTime) string {
	return fmt.Sprintf("%s|%d", coin, timestamp)
}

// AddOrUpdate inserts prices, overwriting rows with the same key.
func (s *PriceStore) AddOrUpdate(_ context.Context, prices []domain.PriceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range prices {
		s.data[priceKey(p.CoinID, p.Timestamp)] = p
	}
	return nil
}

// GetAll retrieves every stored price.
func (s *PriceStore) GetAll(_ context.Context) ([]domain.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PriceRecord, 0, len(s.data))
	for _, p := range s.data {
		result = append(result, p)
	}
	return result, nil
}

// GetByCoin retrieves all prices for a coin, ordered by timestamp ASC.
func (s *PriceStore) GetByCoin(_ context.Context, coin domain.CoinID) ([]domain.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.PriceRecord
	for _, p := range s.data {
		if p.CoinID == coin {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result, nil
}

// DeleteAll removes every price.
func (s *PriceStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]domain.PriceRecord)
	return nil
}
