package model

import (
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// Booking is the typed view of a Bookings row.
//
// Fields:
//  BookingID – unique human-readable code or generated BK- token.
//  USN       – identifier of the booking user.
//  EventID   – the booked event.
//  Seats     – comma-separated seat labels ("A1,A2").
//  Schedule  – slot identifier the seats were booked for.
//  Status    – CONFIRMED by default; mutable via update_status.
//  Attended  – "Yes" once the ticket has been scanned at the door.
type Booking struct {
	BookingID string
	USN       string
	EventID   string
	Seats     string
	Schedule  string
	Status    string
	Attended  string
}

// BookingFromRecord extracts the typed view from a raw row.
func BookingFromRecord(rec store.Record) Booking {
	return Booking{
		BookingID: rec.Get("BookingID"),
		USN:       rec.Get("USN"),
		EventID:   rec.Get("EventID"),
		Seats:     rec.Get("Seats"),
		Schedule:  rec.Get("Schedule"),
		Status:    rec.Get("Status"),
		Attended:  rec.Get("Attended"),
	}
}

// SeatList splits the Seats cell into trimmed, non-empty labels.
func SeatList(seats string) []string {
	var out []string
	for _, s := range strings.Split(seats, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
