package store

import (
	"fmt"
	"sync"

	"github.com/voxinvoice/invoice-assistant/internal/domain"
	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// MemoryStore owns every ingested invoice for the lifetime of the process.
// It keeps a map for id lookups plus an insertion-ordered slice for the
// retriever's linear scan; Add and Delete mutate both under the write lock
// so no partial state is ever visible to readers.
type MemoryStore struct {
	mu        sync.RWMutex
	byID      map[string]*domain.InvoiceRecord
	ordered   []*domain.InvoiceRecord
	dimension int
}

// NewMemoryStore creates an empty store. All embeddings added to it must
// have the given dimension.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{
		byID:      make(map[string]*domain.InvoiceRecord),
		dimension: dimension,
	}
}

// Dimension returns the embedding dimension the store enforces.
func (s *MemoryStore) Dimension() int { return s.dimension }

// Add appends a record. It rejects duplicate ids and embeddings of the
// wrong dimension.
func (s *MemoryStore) Add(rec *domain.InvoiceRecord) error {
	if len(rec.Embedding) != s.dimension {
		return fmt.Errorf("add %s: %w: got %d, want %d",
			rec.ID, port.ErrDimensionMismatch, len(rec.Embedding), s.dimension)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.ID]; exists {
		return fmt.Errorf("add: %w: %s", port.ErrDuplicateID, rec.ID)
	}
	s.byID[rec.ID] = rec
	s.ordered = append(s.ordered, rec)
	return nil
}

// Get returns the record with the given id, or ErrInvoiceNotFound.
func (s *MemoryStore) Get(id string) (*domain.InvoiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, port.ErrInvoiceNotFound)
	}
	return rec, nil
}

// Delete removes the record from both indices atomically and reports
// whether anything was removed. Deleting an unknown id has no side effects.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, rec := range s.ordered {
		if rec.ID == id {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}
	return true
}

// List returns all records in insertion order. The returned slice is a copy;
// the records themselves are shared and must not be mutated by callers.
func (s *MemoryStore) List() []*domain.InvoiceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.InvoiceRecord, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Count returns the number of stored records.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ordered)
}
