package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process RowStore used by tests and local development.
// The mutex only protects the internal maps from concurrent mutation; it
// does not serialize a caller's read-check-write sequence, so the race
// behavior matches the remote backends.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]*memTable
}

type memTable struct {
	headers []string
	rows    []Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*memTable)}
}

func (s *MemoryStore) table(name string) *memTable {
	t, ok := s.tables[name]
	if !ok {
		t = &memTable{}
		s.tables[name] = t
	}
	return t
}

// ListRows returns copies of every data row in sheet order.
func (s *MemoryStore) ListRows(_ context.Context, table string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	out := make([]Record, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Headers returns a copy of the table's canonical header list.
func (s *MemoryStore) Headers(_ context.Context, table string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	return append([]string(nil), t.headers...), nil
}

// AppendRow adds a row at the end of the table.
func (s *MemoryStore) AppendRow(_ context.Context, table string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	t.headers = mergeHeaders(t.headers, rec)
	t.rows = append(t.rows, normalizeRow(t.headers, rec))
	return nil
}

// WriteRowAt overwrites the row at the given sheet position.
func (s *MemoryStore) WriteRowAt(_ context.Context, table string, pos int, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	i := pos - 2
	if i < 0 || i >= len(t.rows) {
		return ErrRowNotFound
	}
	t.headers = mergeHeaders(t.headers, rec)
	t.rows[i] = normalizeRow(t.headers, rec)
	return nil
}

// FindRow scans for the first row whose keyField matches keyValue.
func (s *MemoryStore) FindRow(_ context.Context, table, keyField, keyValue string) (int, Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	for i, r := range t.rows {
		if matchKey(r.Get(keyField), keyValue) {
			return i + 2, r.Clone(), nil
		}
	}
	return 0, nil, ErrRowNotFound
}

// DeleteRowAt removes the row at the given sheet position.
func (s *MemoryStore) DeleteRowAt(_ context.Context, table string, pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	i := pos - 2
	if i < 0 || i >= len(t.rows) {
		return ErrRowNotFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

// DeleteRowsMatching removes every row whose field equals value after
// trimming, scanning bottom-up.  Unlike FindRow the comparison keeps case.
func (s *MemoryStore) DeleteRowsMatching(_ context.Context, table, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	for i := len(t.rows) - 1; i >= 0; i-- {
		if strings.TrimSpace(t.rows[i].Get(field)) == strings.TrimSpace(value) {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
		}
	}
	return nil
}
