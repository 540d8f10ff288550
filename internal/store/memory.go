package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

// MemoryStore keeps records in process memory. It backs the CLI and tests,
// and is the fallback when no remote store is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.UsageRecord
}

// NewMemoryStore returns an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.UsageRecord)}
}

func (s *MemoryStore) Save(ctx context.Context, record domain.UsageRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if record.MatchesSummary(existing.Summarize()) {
			return "", domain.ErrDuplicateRecord
		}
	}

	now := time.Now().UTC()
	record.ID = newRecordID(record, now)
	record.CreatedAt = now
	s.records[record.ID] = record
	return record.ID, nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (domain.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return domain.UsageRecord{}, domain.ErrRecordNotFound
	}
	return record, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]domain.RecordSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.RecordSummary, 0, len(s.records))
	for _, record := range s.records {
		summaries = append(summaries, record.Summarize())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(s.records, id)
	return nil
}

var _ RecordStore = (*MemoryStore)(nil)
