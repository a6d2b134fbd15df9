package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLStore keeps tables in two generic MySQL relations: sheet_headers holds
// one JSON header list per table and sheet_rows one JSON object per row,
// keyed by (table, position).  Positions use sheet numbering (first data row
// is 2) so the three backends are interchangeable.  There are deliberately
// no transactions around a caller's read-check-write sequence.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open database handle.  database.Bootstrap must have
// run against it.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) headers(ctx context.Context, table string) ([]string, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT headers FROM sheet_headers WHERE tbl = ?`, table).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sql store: headers %s: %w", table, err)
	}
	var hs []string
	if err := json.Unmarshal(raw, &hs); err != nil {
		return nil, fmt.Errorf("sql store: decode headers %s: %w", table, err)
	}
	return hs, nil
}

func (s *SQLStore) saveHeaders(ctx context.Context, table string, hs []string) error {
	raw, err := json.Marshal(hs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sheet_headers (tbl, headers) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE headers = VALUES(headers)`, table, raw)
	if err != nil {
		return fmt.Errorf("sql store: save headers %s: %w", table, err)
	}
	return nil
}

// ListRows returns every data row of the table in position order.
func (s *SQLStore) ListRows(ctx context.Context, table string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM sheet_rows WHERE tbl = ? ORDER BY pos`, table)
	if err != nil {
		return nil, fmt.Errorf("sql store: list %s: %w", table, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("sql store: decode row in %s: %w", table, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Headers returns the table's canonical header list.
func (s *SQLStore) Headers(ctx context.Context, table string) ([]string, error) {
	return s.headers(ctx, table)
}

// AppendRow adds a row after the current last position.
func (s *SQLStore) AppendRow(ctx context.Context, table string, rec Record) error {
	hs, err := s.headers(ctx, table)
	if err != nil {
		return err
	}
	hs = mergeHeaders(hs, rec)
	if err := s.saveHeaders(ctx, table, hs); err != nil {
		return err
	}
	raw, err := json.Marshal(normalizeRow(hs, rec))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sheet_rows (tbl, pos, data)
		 SELECT ?, COALESCE(MAX(pos), 1) + 1, ? FROM sheet_rows WHERE tbl = ?`,
		table, raw, table)
	if err != nil {
		return fmt.Errorf("sql store: append %s: %w", table, err)
	}
	return nil
}

// WriteRowAt overwrites the row at the given sheet position.
func (s *SQLStore) WriteRowAt(ctx context.Context, table string, pos int, rec Record) error {
	hs, err := s.headers(ctx, table)
	if err != nil {
		return err
	}
	hs = mergeHeaders(hs, rec)
	if err := s.saveHeaders(ctx, table, hs); err != nil {
		return err
	}
	raw, err := json.Marshal(normalizeRow(hs, rec))
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sheet_rows SET data = ? WHERE tbl = ? AND pos = ?`, raw, table, pos)
	if err != nil {
		return fmt.Errorf("sql store: write %s@%d: %w", table, pos, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical content; distinguish missing rows.
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM sheet_rows WHERE tbl = ? AND pos = ?`, table, pos).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRowNotFound
		}
		return err
	}
	return nil
}

// FindRow scans for the first row whose keyField matches keyValue.
func (s *SQLStore) FindRow(ctx context.Context, table, keyField, keyValue string) (int, Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pos, data FROM sheet_rows WHERE tbl = ? ORDER BY pos`, table)
	if err != nil {
		return 0, nil, fmt.Errorf("sql store: find in %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos int
		var raw []byte
		if err := rows.Scan(&pos, &raw); err != nil {
			return 0, nil, err
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return 0, nil, fmt.Errorf("sql store: decode row in %s: %w", table, err)
		}
		if matchKey(rec.Get(keyField), keyValue) {
			return pos, rec, nil
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}
	return 0, nil, ErrRowNotFound
}

// DeleteRowAt removes the row at the given position and shifts the rows
// below it up by one, keeping sheet numbering contiguous.
func (s *SQLStore) DeleteRowAt(ctx context.Context, table string, pos int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_rows WHERE tbl = ? AND pos = ?`, table, pos)
	if err != nil {
		return fmt.Errorf("sql store: delete %s@%d: %w", table, pos, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRowNotFound
	}
	// ORDER BY keeps the primary key unique while decrementing.
	_, err = s.db.ExecContext(ctx,
		`UPDATE sheet_rows SET pos = pos - 1 WHERE tbl = ? AND pos > ? ORDER BY pos`,
		table, pos)
	if err != nil {
		return fmt.Errorf("sql store: reindex %s: %w", table, err)
	}
	return nil
}

// DeleteRowsMatching removes every row whose field equals value after
// trimming (exact case), bottom-up so positions stay valid mid-loop.
func (s *SQLStore) DeleteRowsMatching(ctx context.Context, table, field, value string) error {
	all, err := s.ListRows(ctx, table)
	if err != nil {
		return err
	}
	want := strings.TrimSpace(value)
	for i := len(all) - 1; i >= 0; i-- {
		if strings.TrimSpace(all[i].Get(field)) == want {
			if err := s.DeleteRowAt(ctx, table, i+2); err != nil && !errors.Is(err, ErrRowNotFound) {
				return err
			}
		}
	}
	return nil
}
