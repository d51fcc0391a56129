package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/storage"
)

// CachedReportStore is an in-memory implementation of storage.CachedReportStore.
// The report is held as opaque serialized bytes and the slot is replaced in a
// single assignment, so readers never observe a partially written report.
type CachedReportStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewCachedReportStore creates a new in-memory cached report store.
func NewCachedReportStore() *CachedReportStore {
	return &CachedReportStore{}
}

// Save stores the report, replacing any previous one.
func (s *CachedReportStore) Save(_ context.Context, report *domain.ReportOutput) error {
	if report == nil {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// Get retrieves the latest report. Returns ErrNotFound when no report was saved.
func (s *CachedReportStore) Get(_ context.Context) (*domain.ReportOutput, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return nil, storage.ErrNotFound
	}

	var report domain.ReportOutput
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}
