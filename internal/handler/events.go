package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/repository"
	"github.com/bookevntz/auditorium-backend/internal/service"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// EventHandler exposes the event catalog: CRUD, visibility, the schedule
// conflict check, the speaker/coordinator directories and the venue name
// list.
type EventHandler struct {
	events      *repository.EventRepo
	people      *repository.PeopleRepo
	auditoriums *repository.AuditoriumRepo
}

// NewEventHandler returns an EventHandler bound to the given repositories.
func NewEventHandler(events *repository.EventRepo, people *repository.PeopleRepo, auditoriums *repository.AuditoriumRepo) *EventHandler {
	return &EventHandler{events: events, people: people, auditoriums: auditoriums}
}

// List returns every event row as stored, dynamic columns included.
func (h *EventHandler) List(c echo.Context) error {
	rows, err := h.events.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "events": rows})
}

// Add creates an event.  The ID is assigned server-side (EV<NN>) unless the
// payload carries one.  Speaker and coordinator entries embedded in the
// payload are upserted into their directories as a side effect; an entry
// whose name already exists is left untouched.
func (h *EventHandler) Add(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	rec := toRecord(body)
	if strings.TrimSpace(rec.Get("Name")) == "" {
		return fail(c, http.StatusBadRequest, "Event name is required")
	}

	id, err := h.events.Create(c.Request().Context(), rec)
	if err != nil {
		return err
	}
	h.upsertPeople(c, rec)
	return c.JSON(http.StatusCreated, echo.Map{"status": "success", "id": id})
}

// mutableEventFields is the allow-list for partial updates; anything else
// in the payload is ignored so a client cannot rewrite the ID or inject
// arbitrary columns through the update path.
var mutableEventFields = []string{
	"Name", "Date", "Time", "Auditorium", "Duration", "Capacity",
	"Visibility", "College", "Poster", "About", "Featured", "PublishAt",
	"Schedules", "SeatLayout", "Speakers", "Coordinators", "Status",
}

// Update merges the allow-listed fields of the body into the event.
func (h *EventHandler) Update(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	rec := toRecord(body)

	updates := map[string]string{}
	for _, f := range mutableEventFields {
		for k := range rec {
			if strings.EqualFold(k, f) {
				updates[f] = rec.Get(f)
			}
		}
	}
	if err := h.events.Update(c.Request().Context(), c.Param("id"), updates); err != nil {
		return respondErr(c, err)
	}
	h.upsertPeople(c, rec)
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Event updated"})
}

// Delete removes the event and cascades to its bookings and attendance.
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.events.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Event deleted"})
}

// SetVisibility flips the event's Visibility flag.  Body:
// {"visible": true|false} or {"visibility": "visible"|"hidden"}.
func (h *EventHandler) SetVisibility(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	flag := bodyStr(body, "visibility")
	if flag == "" {
		if bodyBool(body, true, "visible") {
			flag = "visible"
		} else {
			flag = "hidden"
		}
	}
	if err := h.events.SetVisibility(c.Request().Context(), c.Param("id"), flag); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "visibility": flag})
}

// CheckConflict reports scheduling collisions for a proposed booking.
// Body: {"auditorium", "date", "time", "duration", "schedules": [...],
// "excludeEventId"}.  Multi-slot proposals send schedules; otherwise the
// single date/time pair is checked.
func (h *EventHandler) CheckConflict(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	auditorium := bodyStr(body, "auditorium", "venue")
	if auditorium == "" {
		return fail(c, http.StatusBadRequest, "Auditorium is required")
	}

	proposed := model.ParseSlots(bodyStr(body, "schedules"))
	if len(proposed) == 0 {
		proposed = []model.Slot{{Date: bodyStr(body, "date"), Time: bodyStr(body, "time")}}
	}

	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return err
	}
	conflicts := service.CheckConflicts(events, auditorium, proposed,
		bodyStr(body, "duration"), bodyStr(body, "excludeEventId", "exclude_event_id", "id"))

	return c.JSON(http.StatusOK, echo.Map{
		"status":    "success",
		"conflict":  len(conflicts) > 0,
		"conflicts": conflicts,
	})
}

// Speakers returns the speaker directory.
func (h *EventHandler) Speakers(c echo.Context) error {
	rows, err := h.people.Speakers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "speakers": rows})
}

// AddSpeaker registers a speaker.  A duplicate name is rejected.
func (h *EventHandler) AddSpeaker(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	rec := toRecord(body)
	if strings.TrimSpace(rec.Get("Name")) == "" {
		return fail(c, http.StatusBadRequest, "Speaker name is required")
	}
	if err := h.people.AddSpeaker(c.Request().Context(), rec); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "success", "id": rec.Get("ID")})
}

// DeleteSpeaker removes a speaker by ID.
func (h *EventHandler) DeleteSpeaker(c echo.Context) error {
	if err := h.people.DeleteSpeaker(c.Request().Context(), c.Param("id")); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Speaker deleted"})
}

// Coordinators returns the coordinator directory.
func (h *EventHandler) Coordinators(c echo.Context) error {
	rows, err := h.people.Coordinators(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "coordinators": rows})
}

// AddCoordinator registers a coordinator.  A duplicate name is rejected.
func (h *EventHandler) AddCoordinator(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	rec := toRecord(body)
	if strings.TrimSpace(rec.Get("Name")) == "" {
		return fail(c, http.StatusBadRequest, "Coordinator name is required")
	}
	if err := h.people.AddCoordinator(c.Request().Context(), rec); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "success", "usn": rec.Get("USN")})
}

// DeleteCoordinator removes a coordinator by USN.
func (h *EventHandler) DeleteCoordinator(c echo.Context) error {
	if err := h.people.DeleteCoordinator(c.Request().Context(), c.Param("id")); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Coordinator deleted"})
}

// VenueNames returns the known auditorium names for event forms.  The
// Auditoriums table is authoritative; when it is empty the names are
// scraped from existing events instead, which is how venues were tracked
// before the table existed.
func (h *EventHandler) VenueNames(c echo.Context) error {
	names, err := h.auditoriums.Names(c.Request().Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		if names, err = h.events.VenueNames(c.Request().Context()); err != nil {
			return err
		}
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "auditoriums": names})
}

// upsertPeople pushes the speaker and coordinator entries embedded in an
// event payload into their directories.  Duplicates and parse problems are
// ignored; the event write has already succeeded.
func (h *EventHandler) upsertPeople(c echo.Context, rec store.Record) {
	ctx := c.Request().Context()
	for _, p := range model.ParsePeople(rec.Get("Speakers")) {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		_ = h.people.AddSpeaker(ctx, store.Record{
			"Name":        p.Name,
			"Designation": p.Role,
			"Department":  p.Dept,
			"Bio":         p.About,
			"Photo":       p.Image,
		})
	}
	for _, p := range model.ParsePeople(rec.Get("Coordinators")) {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		_ = h.people.AddCoordinator(ctx, store.Record{
			"Name":       p.Name,
			"Department": p.Dept,
			"About":      p.About,
			"Photo":      p.Image,
		})
	}
}
