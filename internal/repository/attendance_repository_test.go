package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

func TestMarkAppendsAndStamps(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.AppendRow(ctx, store.TableEvents, store.Record{"ID": "EV01", "Name": "Tech Talk"}))
	require.NoError(t, st.AppendRow(ctx, store.TableUsers, store.Record{"USN": "u1", "Email": "u1@college.edu"}))
	repo := NewAttendanceRepo(st)

	require.NoError(t, repo.Mark(ctx, MarkRequest{EventID: "EV01", USN: "u1", Attended: true}))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Yes", rows[0].Get("Attended"))
	assert.NotEmpty(t, rows[0].Get("Timestamp"))
	// denormalized copies for reporting
	assert.Equal(t, "Tech Talk", rows[0].Get("EventName"))
	assert.Equal(t, "u1@college.edu", rows[0].Get("Email"))
}

func TestMarkTwiceIsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepo(store.NewMemoryStore())

	req := MarkRequest{EventID: "EV01", USN: "u1", Attended: true}
	require.NoError(t, repo.Mark(ctx, req))
	assert.ErrorIs(t, repo.Mark(ctx, req), ErrAlreadyMarked)

	// USN matching is case-insensitive
	req.USN = "U1"
	assert.ErrorIs(t, repo.Mark(ctx, req), ErrAlreadyMarked)
}

func TestMarkSlotAwareDuplicates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	repo := NewAttendanceRepo(st)

	first := MarkRequest{EventID: "EV01", USN: "u1", Attended: true, Schedule: "2026-10-01 10:00", Auditorium: "Main Hall"}
	require.NoError(t, repo.Mark(ctx, first))

	// same slot again is a duplicate
	assert.ErrorIs(t, repo.Mark(ctx, first), ErrAlreadyMarked)

	// another slot of the same event is a fresh check-in; the existing
	// (event, usn) row is updated in place rather than duplicated
	second := first
	second.Schedule = "2026-10-02 10:00"
	require.NoError(t, repo.Mark(ctx, second))

	rows, _ := repo.List(ctx)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-10-02 10:00", rows[0].Get("Schedule"))
}

func TestMarkWithoutSlotMatchesAnyEntry(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepo(store.NewMemoryStore())

	require.NoError(t, repo.Mark(ctx, MarkRequest{EventID: "EV01", USN: "u1", Attended: true, Schedule: "2026-10-01 10:00"}))

	// a slotless mark collides with whatever entry exists for the pair
	err := repo.Mark(ctx, MarkRequest{EventID: "EV01", USN: "u1", Attended: true})
	assert.ErrorIs(t, err, ErrAlreadyMarked)
}
