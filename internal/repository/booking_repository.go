package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// BookingRepo is the seat allocator.  It enforces the two booking
// invariants by full scan before insert: at most one booking per
// (event, user) pair, and no seat label shared by two bookings of the same
// event.  The store offers no conditional writes, so both checks are race
// windows under concurrent callers; sequential calls are always consistent.
type BookingRepo struct {
	store store.RowStore
	codes []string // pre-provisioned human-readable booking codes, drawn in order
}

// NewBookingRepo returns a BookingRepo bound to the given store.  codes is
// the optional ticket-code pool; pass nil to always generate random IDs.
func NewBookingRepo(st store.RowStore, codes []string) *BookingRepo {
	return &BookingRepo{store: st, codes: codes}
}

// List returns every booking row as stored.
func (r *BookingRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.store.ListRows(ctx, store.TableBookings)
}

// ListForEvent returns the bookings whose EventID matches exactly.
func (r *BookingRepo) ListForEvent(ctx context.Context, eventID string) ([]store.Record, error) {
	rows, err := r.store.ListRows(ctx, store.TableBookings)
	if err != nil {
		return nil, err
	}
	var out []store.Record
	for _, rec := range rows {
		if strings.TrimSpace(rec.Get("EventID")) == strings.TrimSpace(eventID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListForUser returns the user's bookings enriched for display with the
// event's name, poster and date and the user's display name.  The joins
// are presentation denormalization, not stored relationships; a failed
// lookup degrades to missing fields rather than failing the listing.
func (r *BookingRepo) ListForUser(ctx context.Context, usn string) ([]store.Record, error) {
	bookings, err := r.store.ListRows(ctx, store.TableBookings)
	if err != nil {
		return nil, err
	}
	events, _ := r.store.ListRows(ctx, store.TableEvents)
	users, _ := r.store.ListRows(ctx, store.TableUsers)

	eventsByID := make(map[string]store.Record, len(events))
	for _, e := range events {
		eventsByID[strings.TrimSpace(e.Get("ID"))] = e
	}
	usersByUSN := make(map[string]store.Record, len(users))
	for _, u := range users {
		usersByUSN[strings.ToLower(strings.TrimSpace(u.Get("USN")))] = u
	}

	target := strings.ToLower(strings.TrimSpace(usn))
	var out []store.Record
	for _, b := range bookings {
		if strings.ToLower(strings.TrimSpace(b.Get("USN"))) != target {
			continue
		}
		full := b.Clone()
		if e, ok := eventsByID[strings.TrimSpace(b.Get("EventID"))]; ok {
			full["eventName"] = e.Get("Name")
			full["poster"] = e.Get("Poster")
			full["eventImage"] = e.Get("Poster")
			full["show"] = e.Get("Time")
			full["Date"] = e.Get("Date")
		}
		if u, ok := usersByUSN[target]; ok {
			name := u.Get("Name")
			if name == "" {
				name = "User"
			}
			full["userName"] = name
		}
		out = append(out, full)
	}
	return out, nil
}

// Create validates and persists a booking.  The record must carry USN,
// EventID and optionally Seats, Schedule, Status, BookingID and QR URL.
// It fails with ErrDuplicateBooking when the user already booked the
// event, or with a SeatTakenError naming the first requested seat found in
// another booking of the same event.  On success the assigned BookingID is
// returned: a caller-supplied ID wins, then the first pool code not yet in
// use, then a random BK- token.
func (r *BookingRepo) Create(ctx context.Context, rec store.Record) (string, error) {
	all, err := r.store.ListRows(ctx, store.TableBookings)
	if err != nil {
		return "", err
	}

	eventID := strings.TrimSpace(rec.Get("EventID"))
	usn := strings.TrimSpace(rec.Get("USN"))
	for _, b := range all {
		if strings.TrimSpace(b.Get("EventID")) == eventID &&
			strings.EqualFold(strings.TrimSpace(b.Get("USN")), usn) {
			return "", ErrDuplicateBooking
		}
	}

	requested := model.SeatList(rec.Get("Seats"))
	if len(requested) > 0 {
		for _, b := range all {
			if strings.TrimSpace(b.Get("EventID")) != eventID {
				continue
			}
			taken := model.SeatList(b.Get("Seats"))
			for _, want := range requested {
				for _, have := range taken {
					if want == have {
						return "", &SeatTakenError{Seat: want}
					}
				}
			}
		}
	}

	id := strings.TrimSpace(rec.Get("BookingID"))
	if id == "" {
		id = r.pickCode(all)
		rec.Set("BookingID", id)
	}
	if rec.Get("QR URL") == "" {
		rec.Set("QR URL", "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="+id)
	}
	if rec.Get("Status") == "" {
		rec.Set("Status", "CONFIRMED")
	}
	if rec.Get("Timestamp") == "" {
		rec.Set("Timestamp", now().UTC().Format(time.RFC3339))
	}

	if err := r.store.AppendRow(ctx, store.TableBookings, rec); err != nil {
		return "", err
	}
	return id, nil
}

// pickCode returns the first pool code not used by an existing booking,
// falling back to a random unique token when the pool is exhausted.
func (r *BookingRepo) pickCode(existing []store.Record) string {
	used := make(map[string]bool, len(existing))
	for _, b := range existing {
		used[b.Get("BookingID")] = true
	}
	for _, c := range r.codes {
		if !used[c] {
			return c
		}
	}
	return RandomBookingID()
}

// RandomBookingID generates a fallback booking code of form BK-<8 hex>.
func RandomBookingID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "BK-" + strings.ToUpper(hex[:8])
}

// Find returns the booking row for the given BookingID.
func (r *BookingRepo) Find(ctx context.Context, bookingID string) (store.Record, error) {
	_, rec, err := r.store.FindRow(ctx, store.TableBookings, "BookingID", bookingID)
	if err != nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// UpdateStatus sets the Status cell of the booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID, status string) error {
	pos, rec, err := r.store.FindRow(ctx, store.TableBookings, "BookingID", bookingID)
	if err != nil {
		return ErrNotFound
	}
	rec.Set("Status", status)
	return r.store.WriteRowAt(ctx, store.TableBookings, pos, rec)
}

// Delete removes the booking row.
func (r *BookingRepo) Delete(ctx context.Context, bookingID string) error {
	pos, _, err := r.store.FindRow(ctx, store.TableBookings, "BookingID", bookingID)
	if err != nil {
		return ErrNotFound
	}
	return r.store.DeleteRowAt(ctx, store.TableBookings, pos)
}

// Scan checks a ticket in at the door.  It fails with ErrNotFound for an
// unknown code, ErrEventMismatch when the booking belongs to another
// event, and an AlreadyScannedError when the booking is already marked
// attended.  Otherwise the booking's Attended flag and AttendedAt stamp
// are written and the updated row returned for display.
func (r *BookingRepo) Scan(ctx context.Context, bookingID, eventID string) (store.Record, error) {
	pos, rec, err := r.store.FindRow(ctx, store.TableBookings, "BookingID", bookingID)
	if err != nil {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(rec.Get("EventID")) != strings.TrimSpace(eventID) {
		return nil, ErrEventMismatch
	}
	if strings.EqualFold(strings.TrimSpace(rec.Get("Attended")), "yes") {
		return nil, &AlreadyScannedError{USN: rec.Get("USN"), Seats: rec.Get("Seats")}
	}
	rec.Set("Attended", "Yes")
	rec.Set("AttendedAt", now().UTC().Format("2006-01-02 15:04:05"))
	if err := r.store.WriteRowAt(ctx, store.TableBookings, pos, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// MergeAttendance reconciles the attendance ledger into a booking listing.
// A booking not yet marked attended in its own row is reported attended
// when the ledger holds a Yes entry for its (EventID, USN) pair; the
// booking's own Yes is never overridden.  This is the single place the two
// attendance signals meet.  A failed ledger read leaves the bookings
// untouched so listings stay available.
func (r *BookingRepo) MergeAttendance(ctx context.Context, bookings []store.Record) []store.Record {
	ledger, err := r.store.ListRows(ctx, store.TableAttendance)
	if err != nil {
		return bookings
	}

	type key struct{ event, usn string }
	byKey := make(map[key]store.Record)
	for _, row := range ledger {
		if !strings.EqualFold(strings.TrimSpace(row.Get("Attended")), "yes") {
			continue
		}
		k := key{
			event: strings.TrimSpace(row.Get("EventID")),
			usn:   strings.ToLower(strings.TrimSpace(row.Get("USN"))),
		}
		if _, ok := byKey[k]; !ok {
			byKey[k] = row
		}
	}

	out := make([]store.Record, 0, len(bookings))
	for _, b := range bookings {
		if strings.EqualFold(strings.TrimSpace(b.Get("Attended")), "yes") {
			out = append(out, b)
			continue
		}
		k := key{
			event: strings.TrimSpace(b.Get("EventID")),
			usn:   strings.ToLower(strings.TrimSpace(b.Get("USN"))),
		}
		if row, ok := byKey[k]; ok {
			merged := b.Clone()
			merged.Set("Attended", "Yes")
			merged["AttendanceSource"] = "Scanner"
			if a := row.Get("Auditorium"); a != "" {
				merged["AttendedAuditorium"] = a
			}
			out = append(out, merged)
			continue
		}
		out = append(out, b)
	}
	return out
}

// now is swapped out in tests.
var now = time.Now
