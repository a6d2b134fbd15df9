package repository

import (
	"context"
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// AttendanceRepo is the check-in ledger.  It is a signal separate from the
// Attended flag a booking carries; the two are reconciled only at read
// time by BookingRepo.MergeAttendance.
type AttendanceRepo struct {
	store store.RowStore
}

// NewAttendanceRepo returns an AttendanceRepo bound to the given store.
func NewAttendanceRepo(st store.RowStore) *AttendanceRepo {
	return &AttendanceRepo{store: st}
}

// List returns every ledger row as stored.
func (r *AttendanceRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.store.ListRows(ctx, store.TableAttendance)
}

// MarkRequest carries one check-in.  Schedule and Auditorium are optional
// and tighten the duplicate detection when present.
type MarkRequest struct {
	EventID    string
	USN        string
	Attended   bool
	Schedule   string
	Auditorium string
}

// Mark records a check-in.  Duplicate policy is slot-aware: with both
// Schedule and Auditorium supplied a duplicate is an existing row matching
// all four of (event, usn, schedule, auditorium); with only Schedule it is
// (event, usn, schedule); with neither, any (event, usn) row.  A duplicate
// fails with ErrAlreadyMarked and nothing is written.  Otherwise an
// existing (event, usn) row found ignoring schedule is updated in place,
// or a new row appended; either way the current time is stamped and the
// event name and user email are denormalized in, best effort.
func (r *AttendanceRepo) Mark(ctx context.Context, req MarkRequest) error {
	rows, err := r.store.ListRows(ctx, store.TableAttendance)
	if err != nil {
		return err
	}

	schedule := strings.TrimSpace(req.Schedule)
	auditorium := strings.TrimSpace(req.Auditorium)

	match := func(rec store.Record, withSlot bool) bool {
		if strings.TrimSpace(rec.Get("EventID")) != strings.TrimSpace(req.EventID) {
			return false
		}
		if !strings.EqualFold(strings.TrimSpace(rec.Get("USN")), strings.TrimSpace(req.USN)) {
			return false
		}
		if !withSlot {
			return true
		}
		if schedule != "" && strings.TrimSpace(rec.Get("Schedule")) != schedule {
			return false
		}
		if schedule != "" && auditorium != "" &&
			!strings.EqualFold(strings.TrimSpace(rec.Get("Auditorium")), auditorium) {
			return false
		}
		return true
	}

	for _, rec := range rows {
		if match(rec, true) {
			return ErrAlreadyMarked
		}
	}

	attended := "Yes"
	if !req.Attended {
		attended = "No"
	}
	stamp := now().UTC().Format("2006-01-02 15:04:05")

	// Update in place when the pair already has a row under another slot.
	for i, rec := range rows {
		if match(rec, false) {
			rec.Set("Schedule", schedule)
			rec.Set("Attended", attended)
			rec.Set("Timestamp", stamp)
			if auditorium != "" {
				rec.Set("Auditorium", auditorium)
			}
			r.denormalize(ctx, rec, req)
			return r.store.WriteRowAt(ctx, store.TableAttendance, i+2, rec)
		}
	}

	rec := store.Record{
		"EventID":   req.EventID,
		"USN":       req.USN,
		"Schedule":  schedule,
		"Attended":  attended,
		"Timestamp": stamp,
	}
	if auditorium != "" {
		rec.Set("Auditorium", auditorium)
	}
	r.denormalize(ctx, rec, req)
	return r.store.AppendRow(ctx, store.TableAttendance, rec)
}

// denormalize copies the event name and user email onto the ledger row for
// reporting.  Lookup failures leave the fields empty; availability of the
// primary write beats completeness of the copies.
func (r *AttendanceRepo) denormalize(ctx context.Context, rec store.Record, req MarkRequest) {
	if rec.Get("EventName") == "" {
		if _, ev, err := r.store.FindRow(ctx, store.TableEvents, "ID", req.EventID); err == nil {
			rec.Set("EventName", ev.Get("Name"))
		}
	}
	if rec.Get("Email") == "" {
		if _, u, err := r.store.FindRow(ctx, store.TableUsers, "USN", req.USN); err == nil {
			rec.Set("Email", u.Get("Email"))
		}
	}
}
