package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each table as a single JSON document under one Redis
// key.  Every operation loads the whole document, mutates it and writes it
// back, which mirrors the full-scan access pattern of the spreadsheet the
// application was built against.  Two concurrent writers can overwrite each
// other; last write wins.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// redisTable is the persisted form of one table.
type redisTable struct {
	Headers []string `json:"headers"`
	Rows    []Record `json:"rows"`
}

// NewRedisStore wraps an already-connected Redis client.  The prefix
// namespaces table keys; pass "" for the default "sheet".
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "sheet"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(table string) string {
	return s.prefix + ":" + table
}

func (s *RedisStore) load(ctx context.Context, table string) (*redisTable, error) {
	raw, err := s.rdb.Get(ctx, s.key(table)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &redisTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis store: load %s: %w", table, err)
	}
	var t redisTable
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("redis store: decode %s: %w", table, err)
	}
	return &t, nil
}

func (s *RedisStore) save(ctx context.Context, table string, t *redisTable) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("redis store: encode %s: %w", table, err)
	}
	if err := s.rdb.Set(ctx, s.key(table), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis store: save %s: %w", table, err)
	}
	return nil
}

// ListRows returns every data row of the table.
func (s *RedisStore) ListRows(ctx context.Context, table string) ([]Record, error) {
	t, err := s.load(ctx, table)
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

// Headers returns the table's canonical header list.
func (s *RedisStore) Headers(ctx context.Context, table string) ([]string, error) {
	t, err := s.load(ctx, table)
	if err != nil {
		return nil, err
	}
	return t.Headers, nil
}

// AppendRow adds a row at the end of the table.
func (s *RedisStore) AppendRow(ctx context.Context, table string, rec Record) error {
	t, err := s.load(ctx, table)
	if err != nil {
		return err
	}
	t.Headers = mergeHeaders(t.Headers, rec)
	t.Rows = append(t.Rows, normalizeRow(t.Headers, rec))
	return s.save(ctx, table, t)
}

// WriteRowAt overwrites the row at the given sheet position.
func (s *RedisStore) WriteRowAt(ctx context.Context, table string, pos int, rec Record) error {
	t, err := s.load(ctx, table)
	if err != nil {
		return err
	}
	i := pos - 2
	if i < 0 || i >= len(t.Rows) {
		return ErrRowNotFound
	}
	t.Headers = mergeHeaders(t.Headers, rec)
	t.Rows[i] = normalizeRow(t.Headers, rec)
	return s.save(ctx, table, t)
}

// FindRow scans for the first row whose keyField matches keyValue.
func (s *RedisStore) FindRow(ctx context.Context, table, keyField, keyValue string) (int, Record, error) {
	t, err := s.load(ctx, table)
	if err != nil {
		return 0, nil, err
	}
	for i, r := range t.Rows {
		if matchKey(r.Get(keyField), keyValue) {
			return i + 2, r, nil
		}
	}
	return 0, nil, ErrRowNotFound
}

// DeleteRowAt removes the row at the given sheet position.
func (s *RedisStore) DeleteRowAt(ctx context.Context, table string, pos int) error {
	t, err := s.load(ctx, table)
	if err != nil {
		return err
	}
	i := pos - 2
	if i < 0 || i >= len(t.Rows) {
		return ErrRowNotFound
	}
	t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
	return s.save(ctx, table, t)
}

// DeleteRowsMatching removes every row whose field equals value after
// trimming (exact case), bottom-up.
func (s *RedisStore) DeleteRowsMatching(ctx context.Context, table, field, value string) error {
	t, err := s.load(ctx, table)
	if err != nil {
		return err
	}
	for i := len(t.Rows) - 1; i >= 0; i-- {
		if strings.TrimSpace(t.Rows[i].Get(field)) == strings.TrimSpace(value) {
			t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
		}
	}
	return s.save(ctx, table, t)
}
