package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

func TestCreateRejectsDuplicateBooking(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo(store.NewMemoryStore(), nil)

	_, err := repo.Create(ctx, store.Record{"USN": "u1", "EventID": "EV01", "Seats": "A1"})
	require.NoError(t, err)

	// same user, same event, different seats and casing
	_, err = repo.Create(ctx, store.Record{"USN": "U1", "EventID": "EV01", "Seats": "B9"})
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	// same user, another event is fine
	_, err = repo.Create(ctx, store.Record{"USN": "u1", "EventID": "EV02"})
	assert.NoError(t, err)
}

func TestCreateRejectsTakenSeat(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo(store.NewMemoryStore(), nil)

	_, err := repo.Create(ctx, store.Record{"USN": "u1", "EventID": "EV01", "Seats": "A1, A2"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, store.Record{"USN": "u2", "EventID": "EV01", "Seats": "A2,A3"})
	var taken *SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "A2", taken.Seat)

	// the same seat label in another event does not collide
	_, err = repo.Create(ctx, store.Record{"USN": "u2", "EventID": "EV02", "Seats": "A2"})
	assert.NoError(t, err)
}

func TestCreateDrawsFromCodePool(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo(store.NewMemoryStore(), []string{"TICKET-1", "TICKET-2"})

	id, err := repo.Create(ctx, store.Record{"USN": "u1", "EventID": "EV01"})
	require.NoError(t, err)
	assert.Equal(t, "TICKET-1", id)

	id, err = repo.Create(ctx, store.Record{"USN": "u2", "EventID": "EV01"})
	require.NoError(t, err)
	assert.Equal(t, "TICKET-2", id)

	// pool exhausted, falls back to a generated code
	id, err = repo.Create(ctx, store.Record{"USN": "u3", "EventID": "EV01"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "BK-"))
	assert.Len(t, id, len("BK-")+8)
}

func TestCreateFillsDefaults(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	repo := NewBookingRepo(st, nil)

	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	old := now
	now = func() time.Time { return fixed }
	defer func() { now = old }()

	id, err := repo.Create(ctx, store.Record{"USN": "u1", "EventID": "EV01"})
	require.NoError(t, err)

	rec, err := repo.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", rec.Get("Status"))
	assert.Equal(t, fixed.Format(time.RFC3339), rec.Get("Timestamp"))
	assert.Contains(t, rec.Get("QR URL"), "data="+id)
}

func TestRandomBookingIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := RandomBookingID()
		require.Regexp(t, `^BK-[0-9A-F]{8}$`, id)
		assert.False(t, seen[id], "ids must not repeat")
		seen[id] = true
	}
}

func TestScanFlow(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	repo := NewBookingRepo(st, nil)

	id, err := repo.Create(ctx, store.Record{"USN": "u1", "EventID": "EV01", "Seats": "A1,A2"})
	require.NoError(t, err)

	_, err = repo.Scan(ctx, "NOPE", "EV01")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Scan(ctx, id, "EV02")
	assert.ErrorIs(t, err, ErrEventMismatch)

	rec, err := repo.Scan(ctx, id, "EV01")
	require.NoError(t, err)
	assert.Equal(t, "Yes", rec.Get("Attended"))
	assert.NotEmpty(t, rec.Get("AttendedAt"))

	_, err = repo.Scan(ctx, id, "EV01")
	var scanned *AlreadyScannedError
	require.ErrorAs(t, err, &scanned)
	assert.Equal(t, "u1", scanned.USN)
	assert.Equal(t, "A1,A2", scanned.Seats)
}

func TestMergeAttendance(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	repo := NewBookingRepo(st, nil)

	require.NoError(t, st.AppendRow(ctx, store.TableAttendance, store.Record{
		"EventID": "EV01", "USN": "U1", "Attended": "Yes", "Auditorium": "Main Hall",
	}))
	require.NoError(t, st.AppendRow(ctx, store.TableAttendance, store.Record{
		"EventID": "EV01", "USN": "u3", "Attended": "No",
	}))

	bookings := []store.Record{
		{"BookingID": "b1", "EventID": "EV01", "USN": "u1", "Attended": ""},
		{"BookingID": "b2", "EventID": "EV01", "USN": "u2", "Attended": "Yes", "AttendedAt": "earlier"},
		{"BookingID": "b3", "EventID": "EV01", "USN": "u3"},
		{"BookingID": "b4", "EventID": "EV02", "USN": "u1"},
	}
	merged := repo.MergeAttendance(ctx, bookings)
	require.Len(t, merged, 4)

	// ledger Yes fills in, case-insensitively on USN, with provenance
	assert.Equal(t, "Yes", merged[0].Get("Attended"))
	assert.Equal(t, "Scanner", merged[0]["AttendanceSource"])
	assert.Equal(t, "Main Hall", merged[0]["AttendedAuditorium"])

	// a booking's own Yes is untouched
	assert.Equal(t, "earlier", merged[1].Get("AttendedAt"))
	assert.Empty(t, merged[1]["AttendanceSource"])

	// ledger No does not mark anyone
	assert.Empty(t, merged[2].Get("Attended"))
	// different event stays clean
	assert.Empty(t, merged[3].Get("Attended"))
}
