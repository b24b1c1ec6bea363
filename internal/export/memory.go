package export

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryStore keeps export history for the life of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns an empty in-process history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(rec Record) error {
	s.mu.Lock()
	s.records = append(s.records, rec)
	evicted := 0
	if over := len(s.records) - HistoryLimit; over > 0 {
		s.records = append(s.records[:0:0], s.records[over:]...)
		evicted = over
	}
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"record_id": rec.ID,
		"evicted":   evicted,
	}).Debug("Export recorded")
	return nil
}

func (s *MemoryStore) List() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		rec.Image = nil
		out = append(out, rec)
	}
	return out, nil
}

func (s *MemoryStore) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
