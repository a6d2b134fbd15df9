package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

func TestNextID(t *testing.T) {
	cases := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty table", nil, "EV01"},
		{"sequential", []string{"EV01", "EV02"}, "EV03"},
		{"gaps and disorder", []string{"EV07", "EV02", "EV05"}, "EV08"},
		{"junk ignored", []string{"EV03", "WORKSHOP", "EVX"}, "EV04"},
		{"three digits widen", []string{"EV99", "EV120"}, "EV121"},
		{"lowercase and padding", []string{"ev9"}, "EV10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rows []store.Record
			for _, id := range tc.ids {
				rows = append(rows, store.Record{"ID": id})
			}
			assert.Equal(t, tc.want, NextID(rows))
		})
	}
}

func TestCreateAssignsID(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	repo := NewEventRepo(st)

	id, err := repo.Create(ctx, store.Record{"Name": "Tech Talk"})
	require.NoError(t, err)
	assert.Equal(t, "EV01", id)

	id, err = repo.Create(ctx, store.Record{"Name": "Hackathon"})
	require.NoError(t, err)
	assert.Equal(t, "EV02", id)

	// a caller-supplied ID wins
	id, err = repo.Create(ctx, store.Record{"ID": "EV90", "Name": "Special"})
	require.NoError(t, err)
	assert.Equal(t, "EV90", id)
}

// flakyStore rejects event appends that still carry a seat layout, the way
// an oversized row is rejected upstream.
type flakyStore struct {
	store.RowStore
	attempts int
}

func (f *flakyStore) AppendRow(ctx context.Context, table string, rec store.Record) error {
	if table == store.TableEvents && rec.Get("SeatLayout") != "" {
		f.attempts++
		return errors.New("row too large")
	}
	return f.RowStore.AppendRow(ctx, table, rec)
}

func TestCreateRecoversFromRejectedSave(t *testing.T) {
	ctx := context.Background()
	fs := &flakyStore{RowStore: store.NewMemoryStore()}
	repo := NewEventRepo(fs)

	rec := store.Record{
		"Name":       "Big Event",
		"About":      "Annual fest",
		"SeatLayout": strings.Repeat("A", 100),
		"Poster":     "poster.png",
	}
	id, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "EV01", id)
	assert.Equal(t, 1, fs.attempts)

	saved, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, saved.Get("SeatLayout"))
	assert.Empty(t, saved.Get("Poster"))
	assert.Equal(t, "Annual fest [AUTO-RECOVERED: Some data omitted due to size error]", saved.Get("About"))
}

// deadStore rejects every event append so the recovery path also fails.
type deadStore struct{ store.RowStore }

func (d *deadStore) AppendRow(ctx context.Context, table string, rec store.Record) error {
	if table == store.TableEvents {
		return errors.New("quota exceeded")
	}
	return d.RowStore.AppendRow(ctx, table, rec)
}

func TestCreatePropagatesOriginalErrorWhenRecoveryFails(t *testing.T) {
	repo := NewEventRepo(&deadStore{RowStore: store.NewMemoryStore()})

	_, err := repo.Create(context.Background(), store.Record{"Name": "Doomed"})
	require.Error(t, err)
	assert.EqualError(t, err, "quota exceeded")
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	repo := NewEventRepo(st)

	_, err := repo.Create(ctx, store.Record{"ID": "EV05", "Name": "Victim"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, store.Record{"ID": "EV06", "Name": "Survivor"})
	require.NoError(t, err)

	for _, usn := range []string{"u1", "u2", "u3"} {
		require.NoError(t, st.AppendRow(ctx, store.TableBookings, store.Record{"BookingID": "BK-" + usn, "EventID": "EV05", "USN": usn}))
	}
	require.NoError(t, st.AppendRow(ctx, store.TableBookings, store.Record{"BookingID": "BK-x", "EventID": "EV06", "USN": "u1"}))
	require.NoError(t, st.AppendRow(ctx, store.TableAttendance, store.Record{"EventID": "EV05", "USN": "u1"}))
	require.NoError(t, st.AppendRow(ctx, store.TableAttendance, store.Record{"EventID": "EV05", "USN": "u2"}))

	require.NoError(t, repo.Delete(ctx, "EV05"))

	_, err = repo.Get(ctx, "EV05")
	assert.ErrorIs(t, err, ErrNotFound)

	bookings, _ := st.ListRows(ctx, store.TableBookings)
	require.Len(t, bookings, 1)
	assert.Equal(t, "EV06", bookings[0].Get("EventID"))

	ledger, _ := st.ListRows(ctx, store.TableAttendance)
	assert.Empty(t, ledger)
}

func TestVenueNamesDistinctSorted(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	repo := NewEventRepo(st)

	for _, v := range []string{"Main Hall", "Annex", "Main Hall", "  ", "Block B"} {
		require.NoError(t, st.AppendRow(ctx, store.TableEvents, store.Record{"Auditorium": v}))
	}

	names, err := repo.VenueNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Annex", "Block B", "Main Hall"}, names)
}
