// Package queue defines the message payloads exchanged over the broker and
// the background consumer that turns them into notification emails.
package queue

// BookingConfirmedQueue is the durable queue booking confirmations travel on.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a seat reservation is
// successfully persisted.  It carries everything the notifier needs so the
// consumer never queries the row store.
type BookingConfirmedEvent struct {
	BookingID   string   `json:"booking_id"`
	USN         string   `json:"usn"`
	UserName    string   `json:"user_name"`
	Email       string   `json:"email"`
	EventID     string   `json:"event_id"`
	EventName   string   `json:"event_name"`
	Auditorium  string   `json:"auditorium"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Seats       []string `json:"seats"`
	Schedule    string   `json:"schedule,omitempty"`
	ConfirmedAt string   `json:"confirmed_at"`
}
