package model

import (
	"strings"
	"time"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// Event is the typed view of an Events row used by the scheduling and
// visibility logic.  List endpoints return the raw records untouched so
// dynamically added columns survive; this struct only carries the fields
// business rules read.
//
// Fields:
//  ID         – unique identifier of form EV<NN>.
//  Name       – display name, reported as the conflict reason.
//  Auditorium – venue name as stored (comparison rules differ per path).
//  Date, Time – the single-slot fallback when Schedules is empty.
//  Schedules  – raw JSON array of slots, superseding Date/Time when set.
//  Duration   – free text like "2h 30m".
//  Visibility – empty, "visible" or "true" mean visible.
type Event struct {
	ID         string
	Name       string
	Auditorium string
	Date       string
	Time       string
	Schedules  string
	Duration   string
	Visibility string
}

// EventFromRecord extracts the typed view from a raw row.
func EventFromRecord(rec store.Record) Event {
	return Event{
		ID:         rec.Get("ID"),
		Name:       rec.Get("Name"),
		Auditorium: rec.Get("Auditorium"),
		Date:       rec.Get("Date"),
		Time:       rec.Get("Time"),
		Schedules:  rec.Get("Schedules"),
		Duration:   rec.Get("Duration"),
		Visibility: rec.Get("Visibility"),
	}
}

// Slots returns the event's schedule slots, falling back to the single
// Date/Time slot when the Schedules column is empty or malformed.
func (e Event) Slots() []Slot {
	if slots := ParseSlots(e.Schedules); len(slots) > 0 {
		return slots
	}
	return []Slot{{Date: e.Date, Time: e.Time}}
}

// DurationMinutes parses the Duration column with the shared default.
func (e Event) DurationMinutes() int {
	return ParseDurationMinutes(e.Duration)
}

// Visible reports whether end users may see the event.  An absent
// Visibility value counts as visible.
func (e Event) Visible() bool {
	v := strings.ToLower(strings.TrimSpace(e.Visibility))
	return v == "" || v == "visible" || v == "true"
}

// HasFutureSlot reports whether any slot starts strictly after now.  A slot
// with an empty time is checked against end of day (23:59), mirroring how
// the original system judged "still upcoming"; unparseable slots never
// count as future.
func (e Event) HasFutureSlot(now time.Time) bool {
	for _, s := range e.Slots() {
		if strings.TrimSpace(s.Time) == "" {
			s.Time = "23:59"
		}
		if start, ok := s.Start(); ok && start.After(now) {
			return true
		}
	}
	return false
}
