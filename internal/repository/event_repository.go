package repository

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// EventRepo manages the Events table and owns the cross-table consistency
// the store itself does not provide: deleting an event also removes its
// bookings and attendance rows, as separate compensating writes.
type EventRepo struct {
	store store.RowStore
}

// NewEventRepo returns a new EventRepo bound to the given store.
func NewEventRepo(st store.RowStore) *EventRepo { return &EventRepo{store: st} }

// List returns every event row as stored.
func (r *EventRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.store.ListRows(ctx, store.TableEvents)
}

// Get returns the event row for the given ID.
func (r *EventRepo) Get(ctx context.Context, id string) (store.Record, error) {
	_, rec, err := r.store.FindRow(ctx, store.TableEvents, "ID", id)
	if err != nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// NextID scans existing event IDs of form EV<digits>, takes the maximum
// numeric suffix and returns it incremented, zero-padded to two digits.
// Values of 100 and above simply widen the string.  Gaps and out-of-order
// rows do not matter; the result is always strictly greater than every
// existing suffix.
func NextID(rows []store.Record) string {
	maxNum := 0
	for _, rec := range rows {
		id := strings.ToUpper(strings.TrimSpace(rec.Get("ID")))
		if !strings.HasPrefix(id, "EV") {
			continue
		}
		if n, err := strconv.Atoi(id[2:]); err == nil && n > maxNum {
			maxNum = n
		}
	}
	return fmt.Sprintf("EV%02d", maxNum+1)
}

// heavyFields are the columns cleared on the fail-safe retry: serialized
// layouts, images and nested arrays are the usual cause of a rejected row.
var heavyFields = []string{"SeatLayout", "Poster", "Speakers", "Coordinators"}

// Create appends an event row, assigning the next EV<NN> ID when the
// payload has none.  If the store rejects the write it is retried once with
// the heavy fields cleared and the About text annotated so the data loss is
// visible; a second rejection propagates the original error.  Returns the
// ID the event was stored under.
func (r *EventRepo) Create(ctx context.Context, rec store.Record) (string, error) {
	if strings.TrimSpace(rec.Get("ID")) == "" {
		rows, err := r.store.ListRows(ctx, store.TableEvents)
		if err != nil {
			return "", err
		}
		rec.Set("ID", NextID(rows))
	}
	id := rec.Get("ID")

	if err := r.store.AppendRow(ctx, store.TableEvents, rec); err != nil {
		log.Printf("events: save failed for %s: %v; retrying with heavy fields cleared", id, err)
		clean := rec.Clone()
		for _, f := range heavyFields {
			clean.Set(f, "")
		}
		clean.Set("About", clean.Get("About")+" [AUTO-RECOVERED: Some data omitted due to size error]")
		if err2 := r.store.AppendRow(ctx, store.TableEvents, clean); err2 != nil {
			log.Printf("events: recovery save failed for %s: %v", id, err2)
			return "", err
		}
	}
	return id, nil
}

// Update merges the given fields into the event row keyed by ID.  Field
// filtering (the mutable allow-list) is the caller's concern.
func (r *EventRepo) Update(ctx context.Context, id string, updates map[string]string) error {
	pos, rec, err := r.store.FindRow(ctx, store.TableEvents, "ID", id)
	if err != nil {
		return ErrNotFound
	}
	for k, v := range updates {
		rec.Set(k, v)
	}
	return r.store.WriteRowAt(ctx, store.TableEvents, pos, rec)
}

// SetVisibility stores the visibility flag on the event row.
func (r *EventRepo) SetVisibility(ctx context.Context, id, flag string) error {
	return r.Update(ctx, id, map[string]string{"Visibility": flag})
}

// Delete removes the event row, then cascades to every booking and
// attendance row referencing its ID.  The steps are independent writes,
// not a transaction: a crash in between leaves orphaned rows behind.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	pos, _, err := r.store.FindRow(ctx, store.TableEvents, "ID", id)
	if err != nil {
		return ErrNotFound
	}
	if err := r.store.DeleteRowAt(ctx, store.TableEvents, pos); err != nil {
		return err
	}
	if err := r.store.DeleteRowsMatching(ctx, store.TableBookings, "EventID", id); err != nil {
		return err
	}
	return r.store.DeleteRowsMatching(ctx, store.TableAttendance, "EventID", id)
}

// VenueNames returns the distinct auditorium names events reference,
// sorted.  It is the legacy fallback used when the Auditoriums table is
// empty.
func (r *EventRepo) VenueNames(ctx context.Context) ([]string, error) {
	rows, err := r.store.ListRows(ctx, store.TableEvents)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, rec := range rows {
		name := strings.TrimSpace(rec.Get("Auditorium"))
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
