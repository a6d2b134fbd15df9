// Package service holds the domain computations that sit between the
// repositories and the HTTP layer: schedule conflict detection, the
// auditorium visibility rule, the ticket-code pool and queue publishing.
package service

import (
	"fmt"
	"time"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// Conflict reports one proposed slot that overlaps an existing event.
type Conflict struct {
	Date   string `json:"Date"`
	Time   string `json:"Time"`
	Reason string `json:"Reason"`
}

// CheckConflicts computes whether any proposed slot for an auditorium
// overlaps the slots of existing events.  Rules:
//
//   - Each slot resolves to the half-open interval [start, start+duration);
//     overlap is startA < endB && startB < endA, so identical starts
//     conflict and back-to-back slots do not.
//   - Only events whose Auditorium cell equals the given name exactly are
//     compared.  (The visibility path matches names loosely; this path is
//     deliberately exact.  Kept split pending a product decision.)
//   - excludeEventID skips the event being edited.
//   - A malformed date or time on either side silently skips that slot.
//   - Per proposed slot, scanning an event stops at its first overlapping
//     slot, reporting the event's name as the reason.
func CheckConflicts(events []store.Record, auditorium string, proposed []model.Slot, durationText, excludeEventID string) []Conflict {
	reqMinutes := model.ParseDurationMinutes(durationText)
	conflicts := []Conflict{}

	for _, req := range proposed {
		reqStart, ok := req.Start()
		if !ok {
			continue
		}
		reqEnd := reqStart.Add(time.Duration(reqMinutes) * time.Minute)

		for _, rec := range events {
			ev := model.EventFromRecord(rec)
			if excludeEventID != "" && ev.ID == excludeEventID {
				continue
			}
			if ev.Auditorium != auditorium {
				continue
			}
			evEndOffset := time.Duration(ev.DurationMinutes()) * time.Minute

			for _, slot := range ev.Slots() {
				evStart, ok := slot.Start()
				if !ok {
					continue
				}
				evEnd := evStart.Add(evEndOffset)
				if reqStart.Before(evEnd) && evStart.Before(reqEnd) {
					conflicts = append(conflicts, Conflict{
						Date:   req.Date,
						Time:   req.Time,
						Reason: fmt.Sprintf("Booked by '%s'", ev.Name),
					})
					break
				}
			}
		}
	}
	return conflicts
}
