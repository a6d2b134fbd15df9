package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/queue"
	"github.com/bookevntz/auditorium-backend/internal/repository"
	"github.com/bookevntz/auditorium-backend/internal/service"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// publishTimeout bounds the enrichment lookups and the detached publish
// behind a booking confirmation.
const publishTimeout = 10 * time.Second

// BookingHandler exposes the booking endpoints, including the door-scanner
// check-in.  Listings merge the attendance ledger in so the two attended
// signals are reconciled before anything reaches a client.
type BookingHandler struct {
	bookings  *repository.BookingRepo
	events    *repository.EventRepo
	users     *repository.UserRepo
	publisher *service.Publisher
}

// NewBookingHandler returns a BookingHandler bound to the given
// repositories and notification publisher.
func NewBookingHandler(bookings *repository.BookingRepo, events *repository.EventRepo, users *repository.UserRepo, publisher *service.Publisher) *BookingHandler {
	return &BookingHandler{bookings: bookings, events: events, users: users, publisher: publisher}
}

// List returns every booking, ledger-merged.
func (h *BookingHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.bookings.List(ctx)
	if err != nil {
		return err
	}
	rows = h.bookings.MergeAttendance(ctx, rows)
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "bookings": rows})
}

// ListForEvent returns the bookings of one event, ledger-merged.
func (h *BookingHandler) ListForEvent(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.bookings.ListForEvent(ctx, c.Param("eventId"))
	if err != nil {
		return err
	}
	rows = h.bookings.MergeAttendance(ctx, rows)
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "bookings": rows})
}

// ListForUser returns a user's bookings enriched with event name, poster
// and date for the tickets screen, ledger-merged.
func (h *BookingHandler) ListForUser(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.bookings.ListForUser(ctx, c.Param("usn"))
	if err != nil {
		return err
	}
	rows = h.bookings.MergeAttendance(ctx, rows)
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "bookings": rows})
}

// Add creates a booking.  Body keys are accepted loosely ("USN"/"usn"/
// "user", "EventID"/"event"/"eventId"); seats may be an array or a
// comma-separated string.  On success the assigned booking ID is returned
// and a confirmation event is published for the notifier, fire-and-forget.
func (h *BookingHandler) Add(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	usn := bodyStr(body, "usn", "user")
	eventID := bodyStr(body, "eventId", "event", "event_id")
	if usn == "" || eventID == "" {
		return fail(c, http.StatusBadRequest, "USN and event are required")
	}

	rec := store.Record{
		"USN":     usn,
		"EventID": eventID,
		"Seats":   bodySeats(body, "seats", "seat"),
	}
	if v := bodyStr(body, "schedule", "slot"); v != "" {
		rec.Set("Schedule", v)
	}
	if v := bodyStr(body, "bookingId", "booking_id", "code"); v != "" {
		rec.Set("BookingID", v)
	}
	if v := bodyStr(body, "qrUrl", "qr_url", "qr"); v != "" {
		rec.Set("QR URL", v)
	}
	if v := bodyStr(body, "status"); v != "" {
		rec.Set("Status", v)
	}

	id, err := h.bookings.Create(c.Request().Context(), rec)
	if err != nil {
		return respondErr(c, err)
	}
	h.publishConfirmation(rec, id)

	return c.JSON(http.StatusCreated, echo.Map{
		"status":    "success",
		"bookingId": id,
		"qrUrl":     rec.Get("QR URL"),
	})
}

// Delete removes a booking by its code.
func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.bookings.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Booking deleted"})
}

// UpdateStatus sets a booking's status cell.  Body: {"status": ...}.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	status := bodyStr(body, "status")
	if status == "" {
		return fail(c, http.StatusBadRequest, "Status is required")
	}
	if err := h.bookings.UpdateStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Status updated"})
}

// Scan checks a ticket in at the door.  Body: {"bookingId", "eventId"}.
// An unknown code is 404, a ticket for another event 400, a second scan
// 409 with the original holder's USN and seats.
func (h *BookingHandler) Scan(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	bookingID := bodyStr(body, "bookingId", "booking_id", "code")
	eventID := bodyStr(body, "eventId", "event", "event_id")
	if bookingID == "" || eventID == "" {
		return fail(c, http.StatusBadRequest, "Booking ID and event are required")
	}

	rec, err := h.bookings.Scan(c.Request().Context(), bookingID, eventID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Checked in",
		"booking": rec,
	})
}

// publishConfirmation assembles the notification payload and hands it to
// the publisher on a detached goroutine.  The HTTP response never waits on
// the broker and a publish failure is only logged.
func (h *BookingHandler) publishConfirmation(rec store.Record, id string) {
	if h.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   id,
		USN:         rec.Get("USN"),
		EventID:     rec.Get("EventID"),
		Seats:       model.SeatList(rec.Get("Seats")),
		Schedule:    rec.Get("Schedule"),
		ConfirmedAt: rec.Get("Timestamp"),
	}

	// Enrichment is best effort; the message is still useful with just
	// the IDs in it.
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	if e, err := h.events.Get(ctx, ev.EventID); err == nil {
		ev.EventName = e.Get("Name")
		ev.Auditorium = e.Get("Auditorium")
		ev.Date = e.Get("Date")
		ev.Time = e.Get("Time")
	}
	if u, err := h.users.GetByUSN(ctx, ev.USN); err == nil {
		ev.UserName = u.Get("Name")
		ev.Email = strings.TrimSpace(u.Get("Email"))
	}

	go func() {
		defer cancel()
		_ = h.publisher.BookingConfirmed(ctx, ev)
	}()
}
