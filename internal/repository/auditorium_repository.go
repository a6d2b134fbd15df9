package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// AuditoriumRepo manages venue records.  Auditoriums are keyed by Name,
// unique case-insensitively; there is no separate ID.
type AuditoriumRepo struct {
	store store.RowStore
}

// NewAuditoriumRepo returns an AuditoriumRepo bound to the given store.
func NewAuditoriumRepo(st store.RowStore) *AuditoriumRepo {
	return &AuditoriumRepo{store: st}
}

// List returns every auditorium row as stored.
func (r *AuditoriumRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.store.ListRows(ctx, store.TableAuditoriums)
}

// Names returns the sorted venue names from the Auditoriums table.  When
// the table is empty callers fall back to EventRepo.VenueNames.
func (r *AuditoriumRepo) Names(ctx context.Context) ([]string, error) {
	rows, err := r.store.ListRows(ctx, store.TableAuditoriums)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, rec := range rows {
		if name := strings.TrimSpace(rec.Get("Name")); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Add appends a venue row.  Fails with ErrDuplicateName when a venue with
// the same name (compared case-insensitively) already exists.
func (r *AuditoriumRepo) Add(ctx context.Context, rec store.Record) error {
	rows, err := r.store.ListRows(ctx, store.TableAuditoriums)
	if err != nil {
		return err
	}
	name := strings.ToLower(strings.TrimSpace(rec.Get("Name")))
	for _, existing := range rows {
		if strings.ToLower(strings.TrimSpace(existing.Get("Name"))) == name {
			return ErrDuplicateName
		}
	}
	return r.store.AppendRow(ctx, store.TableAuditoriums, rec)
}

// Update merges the given fields into the venue row keyed by Name.
func (r *AuditoriumRepo) Update(ctx context.Context, name string, updates map[string]string) error {
	pos, rec, err := r.store.FindRow(ctx, store.TableAuditoriums, "Name", name)
	if err != nil {
		return ErrNotFound
	}
	for k, v := range updates {
		rec.Set(k, v)
	}
	return r.store.WriteRowAt(ctx, store.TableAuditoriums, pos, rec)
}
