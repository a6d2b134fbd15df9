// Package handler contains the HTTP handlers.  Every response uses the
// envelope {"status": "success" | "failed" | "error", ...}: "success" for
// completed operations, "failed" for requests rejected by a business rule
// or validation, "error" for unexpected faults (produced by the global
// error handler, not here).
//
// Request bodies are accepted loosely: clients have historically sent the
// same field under several key spellings ("USN", "usn", "user") and numbers
// as JSON numbers, so bodies are decoded into generic maps and read through
// the helpers below instead of rigid structs.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookevntz/auditorium-backend/internal/repository"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// fail writes a business-rule rejection.
func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"status": "failed", "message": msg})
}

// respondErr maps repository errors onto status codes and the failed
// envelope.  Unknown errors are returned as-is so the global error handler
// renders the 500 envelope.
func respondErr(c echo.Context, err error) error {
	var seat *repository.SeatTakenError
	var scanned *repository.AlreadyScannedError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrDuplicateBooking):
		return fail(c, http.StatusConflict, "You have already booked this event")
	case errors.Is(err, repository.ErrAlreadyMarked):
		return fail(c, http.StatusConflict, "Attendance already marked")
	case errors.Is(err, repository.ErrEventMismatch):
		return fail(c, http.StatusBadRequest, "This ticket is for a different event")
	case errors.Is(err, repository.ErrDuplicateName):
		return fail(c, http.StatusConflict, "Already exists")
	case errors.Is(err, repository.ErrSuspended):
		return fail(c, http.StatusForbidden, "Your account has been suspended")
	case errors.Is(err, repository.ErrBadCredentials):
		return fail(c, http.StatusUnauthorized, "Incorrect password")
	case errors.Is(err, repository.ErrSelfAction):
		return fail(c, http.StatusBadRequest, "You cannot perform this action on your own account")
	case errors.As(err, &seat):
		return fail(c, http.StatusConflict, fmt.Sprintf("Seat %s is already booked", seat.Seat))
	case errors.As(err, &scanned):
		return c.JSON(http.StatusConflict, echo.Map{
			"status":  "failed",
			"message": "Ticket already scanned",
			"usn":     scanned.USN,
			"seats":   scanned.Seats,
		})
	default:
		return err
	}
}

// bindBody decodes an arbitrary JSON object body.
func bindBody(c echo.Context) (map[string]any, error) {
	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// bodyStr returns the first non-empty value among the given keys, matched
// case-insensitively, coerced to a string.  JSON numbers lose a trailing
// ".0" the way spreadsheet cells do not, so "9876543210" comes back clean.
func bodyStr(body map[string]any, keys ...string) string {
	for _, want := range keys {
		for k, v := range body {
			if !strings.EqualFold(k, want) {
				continue
			}
			if s := coerce(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// bodyBool reads a boolean-ish value: true JSON booleans, "yes"/"true"/"1"
// strings.  Missing keys return the default.
func bodyBool(body map[string]any, def bool, keys ...string) bool {
	for _, want := range keys {
		for k, v := range body {
			if !strings.EqualFold(k, want) {
				continue
			}
			switch t := v.(type) {
			case bool:
				return t
			case string:
				switch strings.ToLower(strings.TrimSpace(t)) {
				case "yes", "true", "1":
					return true
				case "no", "false", "0":
					return false
				}
			}
		}
	}
	return def
}

// bodySeats reads a seats value submitted either as a JSON array or as a
// comma-separated string, normalized to the stored comma form.
func bodySeats(body map[string]any, keys ...string) string {
	for _, want := range keys {
		for k, v := range body {
			if !strings.EqualFold(k, want) {
				continue
			}
			switch t := v.(type) {
			case []any:
				parts := make([]string, 0, len(t))
				for _, el := range t {
					if s := strings.TrimSpace(coerce(el)); s != "" {
						parts = append(parts, s)
					}
				}
				return strings.Join(parts, ",")
			default:
				if s := coerce(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// coerce renders a decoded JSON value as a cell string.  Arrays and objects
// are re-encoded so structured payloads (schedules, speaker lists) land in
// the store as the JSON text the rest of the system parses.
func coerce(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any, map[string]any:
		return marshalJSON(t)
	default:
		return fmt.Sprint(t)
	}
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// toRecord flattens a request body into a store record, coercing every
// value to its cell string.
func toRecord(body map[string]any) store.Record {
	rec := make(store.Record, len(body))
	for k, v := range body {
		rec[k] = coerce(v)
	}
	return rec
}
