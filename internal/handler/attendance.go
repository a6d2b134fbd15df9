package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookevntz/auditorium-backend/internal/repository"
)

// AttendanceHandler exposes the check-in ledger.
type AttendanceHandler struct {
	attendance *repository.AttendanceRepo
}

// NewAttendanceHandler returns an AttendanceHandler bound to the given
// repository.
func NewAttendanceHandler(attendance *repository.AttendanceRepo) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List returns the full ledger.
func (h *AttendanceHandler) List(c echo.Context) error {
	rows, err := h.attendance.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "attendance": rows})
}

// Mark records a check-in.  Body: {"eventId", "usn", "attended",
// "schedule", "auditorium"}; schedule and auditorium are optional and
// narrow the duplicate check to that slot.  A duplicate is 409.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req := repository.MarkRequest{
		EventID:    bodyStr(body, "eventId", "event", "event_id"),
		USN:        bodyStr(body, "usn", "user"),
		Attended:   bodyBool(body, true, "attended"),
		Schedule:   bodyStr(body, "schedule", "slot"),
		Auditorium: bodyStr(body, "auditorium", "venue"),
	}
	if req.EventID == "" || req.USN == "" {
		return fail(c, http.StatusBadRequest, "Event and USN are required")
	}
	if err := h.attendance.Mark(c.Request().Context(), req); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Attendance marked"})
}
