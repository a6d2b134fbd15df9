package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookevntz/auditorium-backend/internal/repository"
	"github.com/bookevntz/auditorium-backend/internal/service"
)

// AuditoriumHandler exposes the venue catalog.
type AuditoriumHandler struct {
	auditoriums *repository.AuditoriumRepo
	events      *repository.EventRepo
}

// NewAuditoriumHandler returns an AuditoriumHandler bound to the given
// repositories.
func NewAuditoriumHandler(auditoriums *repository.AuditoriumRepo, events *repository.EventRepo) *AuditoriumHandler {
	return &AuditoriumHandler{auditoriums: auditoriums, events: events}
}

// List returns every venue.  With ?visible=true each row is annotated with
// a "visible" flag: an active venue hosting at least one visible event
// with a future slot.
func (h *AuditoriumHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.auditoriums.List(ctx)
	if err != nil {
		return err
	}
	if strings.EqualFold(c.QueryParam("visible"), "true") {
		events, err := h.events.List(ctx)
		if err != nil {
			return err
		}
		visible := service.AuditoriumVisibility(rows, events, time.Now())
		annotated := make([]echo.Map, 0, len(rows))
		for _, rec := range rows {
			annotated = append(annotated, echo.Map{
				"auditorium": rec,
				"visible":    visible[rec.Get("Name")],
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "success", "auditoriums": annotated})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "auditoriums": rows})
}

// Add registers a venue.  Status defaults to Active; a duplicate name
// (case-insensitive) is 409.
func (h *AuditoriumHandler) Add(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	rec := toRecord(body)
	if strings.TrimSpace(rec.Get("Name")) == "" {
		return fail(c, http.StatusBadRequest, "Auditorium name is required")
	}
	if rec.Get("Status") == "" {
		rec.Set("Status", "Active")
	}
	if err := h.auditoriums.Add(c.Request().Context(), rec); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "success", "message": "Auditorium added"})
}

// Update merges the body's fields into the venue keyed by name.
func (h *AuditoriumHandler) Update(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	rec := toRecord(body)
	updates := make(map[string]string, len(rec))
	for k, v := range rec {
		if strings.EqualFold(k, "Name") {
			continue // the key is the path parameter, not renameable here
		}
		updates[k] = v
	}
	if len(updates) == 0 {
		return fail(c, http.StatusBadRequest, "No updatable fields in request")
	}
	if err := h.auditoriums.Update(c.Request().Context(), c.Param("name"), updates); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Auditorium updated"})
}
