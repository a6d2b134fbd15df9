package model

import (
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// Auditorium is the typed view of an Auditoriums row.  The Name is the
// primary key (unique case-insensitively), not an opaque ID; updates and
// event references address the venue by name.
//
// SeatLayout is a serialized grid of rows by columns where 0 means no seat
// and 1 means a seat; the backend stores it verbatim.
type Auditorium struct {
	Name        string
	Capacity    string
	Description string
	Status      string
	SeatLayout  string
}

// AuditoriumFromRecord extracts the typed view from a raw row.
func AuditoriumFromRecord(rec store.Record) Auditorium {
	return Auditorium{
		Name:        rec.Get("Name"),
		Capacity:    rec.Get("Capacity"),
		Description: rec.Get("Description"),
		Status:      rec.Get("Status"),
		SeatLayout:  rec.Get("SeatLayout"),
	}
}

// IsActive reports whether the venue is open for events.
func (a Auditorium) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(a.Status), "active")
}
