package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

func existingEvent(id, name, auditorium, date, timeStr, duration string) store.Record {
	return store.Record{
		"ID":         id,
		"Name":       name,
		"Auditorium": auditorium,
		"Date":       date,
		"Time":       timeStr,
		"Duration":   duration,
	}
}

func TestCheckConflictsOverlap(t *testing.T) {
	events := []store.Record{
		existingEvent("EV01", "Tech Talk", "Main Hall", "2026-10-01", "10:00", "1h"),
	}

	// 10:30 lands inside [10:00, 11:00)
	got := CheckConflicts(events, "Main Hall", []model.Slot{{Date: "2026-10-01", Time: "10:30"}}, "1h", "")
	require.Len(t, got, 1)
	assert.Equal(t, "Booked by 'Tech Talk'", got[0].Reason)
	assert.Equal(t, "2026-10-01", got[0].Date)
	assert.Equal(t, "10:30", got[0].Time)

	// back-to-back at 11:00 does not overlap a half-open interval
	got = CheckConflicts(events, "Main Hall", []model.Slot{{Date: "2026-10-01", Time: "11:00"}}, "1h", "")
	assert.Empty(t, got)

	// identical start always conflicts
	got = CheckConflicts(events, "Main Hall", []model.Slot{{Date: "2026-10-01", Time: "10:00"}}, "30m", "")
	assert.Len(t, got, 1)

	// a proposal ending exactly at the event start is clear
	got = CheckConflicts(events, "Main Hall", []model.Slot{{Date: "2026-10-01", Time: "09:00"}}, "1h", "")
	assert.Empty(t, got)
}

func TestCheckConflictsAuditoriumIsExact(t *testing.T) {
	events := []store.Record{
		existingEvent("EV01", "Tech Talk", "Main Hall", "2026-10-01", "10:00", "2h"),
	}
	slot := []model.Slot{{Date: "2026-10-01", Time: "10:00"}}

	assert.Len(t, CheckConflicts(events, "Main Hall", slot, "1h", ""), 1)
	// different casing is a different venue on this path
	assert.Empty(t, CheckConflicts(events, "main hall", slot, "1h", ""))
	assert.Empty(t, CheckConflicts(events, "Annex", slot, "1h", ""))
}

func TestCheckConflictsExcludesEditedEvent(t *testing.T) {
	events := []store.Record{
		existingEvent("EV01", "Tech Talk", "Main Hall", "2026-10-01", "10:00", "2h"),
	}
	slot := []model.Slot{{Date: "2026-10-01", Time: "10:00"}}

	assert.Empty(t, CheckConflicts(events, "Main Hall", slot, "2h", "EV01"))
}

func TestCheckConflictsComparesRowsWithoutID(t *testing.T) {
	// legacy rows can lack an ID cell; they still occupy the venue
	events := []store.Record{
		existingEvent("", "Legacy Row", "Main Hall", "2026-10-01", "10:00", "2h"),
	}
	slot := []model.Slot{{Date: "2026-10-01", Time: "10:00"}}

	assert.Len(t, CheckConflicts(events, "Main Hall", slot, "2h", ""), 1)
}

func TestCheckConflictsSkipsMalformedSlots(t *testing.T) {
	events := []store.Record{
		existingEvent("EV01", "Broken", "Main Hall", "not-a-date", "10:00", "2h"),
	}

	got := CheckConflicts(events, "Main Hall", []model.Slot{
		{Date: "garbage", Time: "10:00"},    // malformed proposal, skipped
		{Date: "2026-10-01", Time: "10:00"}, // fine, but the event's slot is unparseable
	}, "1h", "")
	assert.Empty(t, got)
	assert.NotNil(t, got, "empty result is an empty list, not null")
}

func TestCheckConflictsMultiSlotSchedules(t *testing.T) {
	events := []store.Record{
		{
			"ID": "EV01", "Name": "Workshop", "Auditorium": "Main Hall",
			"Schedules": `[{"Date":"2026-10-01","Time":"09:00"},{"Date":"2026-10-02","Time":"14:00"}]`,
			"Duration":  "2h",
		},
	}

	got := CheckConflicts(events, "Main Hall", []model.Slot{
		{Date: "2026-10-01", Time: "12:00"}, // clear of day one
		{Date: "2026-10-02", Time: "15:00"}, // inside day two
	}, "1h", "")
	require.Len(t, got, 1)
	assert.Equal(t, "2026-10-02", got[0].Date)
}

func TestCheckConflictsDefaultDuration(t *testing.T) {
	// no duration on either side means 180 minutes each
	events := []store.Record{
		existingEvent("EV01", "Fest", "Main Hall", "2026-10-01", "10:00", ""),
	}

	got := CheckConflicts(events, "Main Hall", []model.Slot{{Date: "2026-10-01", Time: "12:30"}}, "", "")
	assert.Len(t, got, 1, "12:30 is still inside [10:00, 13:00)")

	got = CheckConflicts(events, "Main Hall", []model.Slot{{Date: "2026-10-01", Time: "13:00"}}, "", "")
	assert.Empty(t, got)
}
