package storage

import (
	"context"
	"sync"

	"github.com/jacentio/quill/internal/objectid"
)

// MemoryStore implements Store in process memory. It backs tests and local
// development runs; records are copied on the way in and out so callers
// never alias internal state.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Record)}
}

func (s *MemoryStore) collection(name string) map[string]Record {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]Record)
		s.collections[name] = c
	}
	return c
}

// Insert persists rec under a fresh id.
func (s *MemoryStore) Insert(ctx context.Context, collection string, rec Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := Clone(rec)
	stored["id"] = objectid.New()
	s.collection(collection)[stored["id"]] = stored
	return stored["id"], nil
}

// FindByID retrieves a record by id, returning ErrNotFound if missing.
func (s *MemoryStore) FindByID(ctx context.Context, collection, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return Clone(rec), nil
}

// FindAll returns every record ordered ascending by sortField.
func (s *MemoryStore) FindAll(ctx context.Context, collection, sortField string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []Record
	for _, rec := range s.collections[collection] {
		records = append(records, Clone(rec))
	}
	sortRecords(records, sortField)
	return records, nil
}

// FindWhere returns records whose field equals value.
func (s *MemoryStore) FindWhere(ctx context.Context, collection, field, value string, projection []string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []Record
	for _, rec := range s.collections[collection] {
		if rec[field] != value {
			continue
		}
		if len(projection) == 0 {
			records = append(records, Clone(rec))
			continue
		}
		projected := make(Record, len(projection))
		for _, p := range projection {
			if v, ok := rec[p]; ok {
				projected[p] = v
			}
		}
		records = append(records, projected)
	}
	sortRecords(records, "id")
	return records, nil
}

// UpdateByID replaces the record's non-id fields.
func (s *MemoryStore) UpdateByID(ctx context.Context, collection, id string, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return nil, ErrNotFound
	}
	stored := Clone(rec)
	stored["id"] = id
	s.collections[collection][id] = stored
	return Clone(stored), nil
}

// DeleteByID removes a record and returns it as stored.
func (s *MemoryStore) DeleteByID(ctx context.Context, collection, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.collections[collection], id)
	return Clone(rec), nil
}

// Count returns the number of records in the collection.
func (s *MemoryStore) Count(ctx context.Context, collection string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.collections[collection])), nil
}

// DeleteAll removes every record in the collection.
func (s *MemoryStore) DeleteAll(ctx context.Context, collection string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := int64(len(s.collections[collection]))
	delete(s.collections, collection)
	return removed, nil
}
