package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// PeopleRepo manages the Speakers and Coordinators catalogs.  Both are
// deduplicated case-insensitively by Name: adding an existing name is a
// no-op reported as ErrDuplicateName, never an update.  Event creation
// upserts its speaker/coordinator payload through this repo as a side
// effect and ignores the duplicate result.
type PeopleRepo struct {
	store store.RowStore
}

// NewPeopleRepo returns a PeopleRepo bound to the given store.
func NewPeopleRepo(st store.RowStore) *PeopleRepo { return &PeopleRepo{store: st} }

// Speakers returns every speaker row as stored.
func (r *PeopleRepo) Speakers(ctx context.Context) ([]store.Record, error) {
	return r.store.ListRows(ctx, store.TableSpeakers)
}

// Coordinators returns every coordinator row as stored.
func (r *PeopleRepo) Coordinators(ctx context.Context) ([]store.Record, error) {
	return r.store.ListRows(ctx, store.TableCoordinators)
}

func nameExists(rows []store.Record, name string) bool {
	for _, rec := range rows {
		if strings.EqualFold(strings.TrimSpace(rec.Get("Name")), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// AddSpeaker appends a speaker row, assigning an SP<NNN> ID when absent.
// An existing name (case-insensitive) fails with ErrDuplicateName without
// writing.
func (r *PeopleRepo) AddSpeaker(ctx context.Context, rec store.Record) error {
	rows, err := r.store.ListRows(ctx, store.TableSpeakers)
	if err != nil {
		return err
	}
	if nameExists(rows, rec.Get("Name")) {
		return ErrDuplicateName
	}
	if rec.Get("ID") == "" {
		rec.Set("ID", fmt.Sprintf("SP%03d", len(rows)+1))
	}
	return r.store.AppendRow(ctx, store.TableSpeakers, rec)
}

// AddCoordinator appends a coordinator row.  Coordinators are keyed by USN
// for updates; when the payload has none a TEMP<NNN> placeholder is
// assigned.  An existing name fails with ErrDuplicateName without writing.
func (r *PeopleRepo) AddCoordinator(ctx context.Context, rec store.Record) error {
	rows, err := r.store.ListRows(ctx, store.TableCoordinators)
	if err != nil {
		return err
	}
	if nameExists(rows, rec.Get("Name")) {
		return ErrDuplicateName
	}
	if strings.TrimSpace(rec.Get("USN")) == "" {
		rec.Set("USN", fmt.Sprintf("TEMP%03d", len(rows)+1))
	}
	return r.store.AppendRow(ctx, store.TableCoordinators, rec)
}

// DeleteSpeaker removes the speaker row keyed by ID.
func (r *PeopleRepo) DeleteSpeaker(ctx context.Context, id string) error {
	pos, _, err := r.store.FindRow(ctx, store.TableSpeakers, "ID", id)
	if err != nil {
		return ErrNotFound
	}
	return r.store.DeleteRowAt(ctx, store.TableSpeakers, pos)
}

// DeleteCoordinator removes the coordinator row keyed by USN.
func (r *PeopleRepo) DeleteCoordinator(ctx context.Context, usn string) error {
	pos, _, err := r.store.FindRow(ctx, store.TableCoordinators, "USN", usn)
	if err != nil {
		return ErrNotFound
	}
	return r.store.DeleteRowAt(ctx, store.TableCoordinators, pos)
}
