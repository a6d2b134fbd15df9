package service

import (
	"strings"
	"time"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// AuditoriumVisibility computes which auditoriums end users should see.
// A venue is visible only when its Status is Active and at least one event
// referencing it (names matched trimmed and case-insensitively, unlike the
// conflict path) is itself visible and has a slot strictly in the future.
// The result maps each auditorium's stored Name to its visibility.
func AuditoriumVisibility(auditoriums, events []store.Record, now time.Time) map[string]bool {
	// Index events by folded venue name so each venue scans only its own.
	byVenue := make(map[string][]model.Event)
	for _, rec := range events {
		ev := model.EventFromRecord(rec)
		key := strings.ToLower(strings.TrimSpace(ev.Auditorium))
		if key != "" {
			byVenue[key] = append(byVenue[key], ev)
		}
	}

	out := make(map[string]bool, len(auditoriums))
	for _, rec := range auditoriums {
		a := model.AuditoriumFromRecord(rec)
		if a.Name == "" {
			continue
		}
		out[a.Name] = false
		if !a.IsActive() {
			continue
		}
		for _, ev := range byVenue[strings.ToLower(strings.TrimSpace(a.Name))] {
			if ev.Visible() && ev.HasFutureSlot(now) {
				out[a.Name] = true
				break
			}
		}
	}
	return out
}
