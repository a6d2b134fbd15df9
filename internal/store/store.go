// Package store implements the row store the rest of the application is
// built on: named tables of string cells addressed by header-named columns,
// with no schema enforcement and no transactions.  The column set of a table
// is dynamic; a write carrying an unknown field extends the header list
// (append-only, never reordered).  Field lookup is case-insensitive on both
// the read and the write path, so a payload field "email" lands in an
// existing "Email" column instead of creating a duplicate.
//
// Row positions follow spreadsheet numbering: row 1 is the header row and
// the first data row is position 2.  Every operation is a full-table round
// trip to the backing store; there is no caching and no locking across a
// read-check-write sequence, so concurrent callers can lose updates.  That
// limitation is deliberate and documented rather than hidden.
package store

import (
	"context"
	"errors"
	"strings"
)

// MaxCellLen is the per-cell ceiling of the backing store.  Values longer
// than this are truncated with TruncMarker appended so a single oversized
// field cannot fail a whole row write.  Callers must not assume round-trip
// fidelity for oversized fields.
const MaxCellLen = 40000

// TruncMarker is appended to a truncated cell so the data loss is visible.
const TruncMarker = "...(TRUNCATED)"

// ErrRowNotFound is returned by FindRow when no row matches the key.
var ErrRowNotFound = errors.New("store: row not found")

// Record is a single row keyed by column header.  All cells are strings,
// exactly as the backing store holds them.
type Record map[string]string

// Get returns the value of the named field, matching the field name
// case-insensitively.  Missing fields yield the empty string.
func (r Record) Get(field string) string {
	if v, ok := r[field]; ok {
		return v
	}
	for k, v := range r {
		if strings.EqualFold(k, field) {
			return v
		}
	}
	return ""
}

// Set stores a value under the named field.  When a field with the same
// name but different casing already exists, the value lands there instead
// of creating a second key.
func (r Record) Set(field, value string) {
	if _, ok := r[field]; ok {
		r[field] = value
		return
	}
	for k := range r {
		if strings.EqualFold(k, field) {
			r[k] = value
			return
		}
	}
	r[field] = value
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RowStore is the contract every backing implementation satisfies.  All
// methods take the table name; tables are created on first use.
type RowStore interface {
	// ListRows returns every data row of the table, header row excluded,
	// in sheet order.
	ListRows(ctx context.Context, table string) ([]Record, error)
	// Headers returns the table's current canonical header list.
	Headers(ctx context.Context, table string) ([]string, error)
	// AppendRow adds a row at the end of the table, extending headers for
	// any new fields.
	AppendRow(ctx context.Context, table string, rec Record) error
	// WriteRowAt overwrites the row at the given sheet position (2-based).
	WriteRowAt(ctx context.Context, table string, pos int, rec Record) error
	// FindRow scans for the first row whose keyField equals keyValue after
	// trimming and case folding.  Returns the row's sheet position.
	FindRow(ctx context.Context, table, keyField, keyValue string) (int, Record, error)
	// DeleteRowAt removes the row at the given sheet position.
	DeleteRowAt(ctx context.Context, table string, pos int) error
	// DeleteRowsMatching removes every row whose field equals value after
	// trimming (exact case), scanning bottom-up so positions stay valid.
	DeleteRowsMatching(ctx context.Context, table, field, value string) error
}

// mergeHeaders extends headers with any record field not yet present,
// matching case-insensitively.  The original slice is never reordered.
func mergeHeaders(headers []string, rec Record) []string {
	index := make(map[string]bool, len(headers))
	for _, h := range headers {
		index[strings.ToLower(h)] = true
	}
	out := headers
	for k := range rec {
		if !index[strings.ToLower(k)] {
			out = append(out, k)
			index[strings.ToLower(k)] = true
		}
	}
	return out
}

// normalizeRow flattens a record onto the canonical header list, truncating
// oversized cells.  Fields are matched case-insensitively; headers absent
// from the record yield empty cells.
func normalizeRow(headers []string, rec Record) Record {
	out := make(Record, len(headers))
	for _, h := range headers {
		out[h] = truncateCell(rec.Get(h))
	}
	return out
}

func truncateCell(v string) string {
	if len(v) > MaxCellLen {
		return v[:MaxCellLen] + TruncMarker
	}
	return v
}

// matchKey reports whether a cell matches the lookup value the way FindRow
// compares: both sides trimmed and case-folded.
func matchKey(cell, value string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), strings.TrimSpace(value))
}
