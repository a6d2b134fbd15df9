package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookevntz/auditorium-backend/internal/handler"
	"github.com/bookevntz/auditorium-backend/internal/middleware"
	"github.com/bookevntz/auditorium-backend/internal/repository"
	"github.com/bookevntz/auditorium-backend/internal/router"
	"github.com/bookevntz/auditorium-backend/internal/service"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// newTestServer wires the full route tree over a fresh in-memory store.
func newTestServer(t *testing.T) (*echo.Echo, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()

	users := repository.NewUserRepo(st)
	events := repository.NewEventRepo(st)
	bookings := repository.NewBookingRepo(st, nil)
	attendance := repository.NewAttendanceRepo(st)
	auditoriums := repository.NewAuditoriumRepo(st)
	people := repository.NewPeopleRepo(st)

	e := echo.New()
	e.HTTPErrorHandler = middleware.HTTPErrorHandler
	router.Register(e, router.Handlers{
		Users:       handler.NewUserHandler(users),
		Events:      handler.NewEventHandler(events, people, auditoriums),
		Bookings:    handler.NewBookingHandler(bookings, events, users, service.NewPublisher("")),
		Attendance:  handler.NewAttendanceHandler(attendance),
		Auditoriums: handler.NewAuditoriumHandler(auditoriums, events),
	})
	return e, st
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestLoginEndToEnd(t *testing.T) {
	e, st := newTestServer(t)
	require.NoError(t, st.AppendRow(context.Background(), store.TableUsers, store.Record{
		"USN": "4GM21CS001", "Name": "Asha", "Password": "pw1", "Role": "user", "Suspended": "No",
	}))

	code, body := do(t, e, http.MethodPost, "/api/users/login",
		`{"usn":"4gm21cs001","password":"pw1","role":"user"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Asha", user["Name"])
	assert.NotContains(t, user, "Password")

	code, body = do(t, e, http.MethodPost, "/api/users/login",
		`{"usn":"4gm21cs001","password":"nope","role":"user"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "failed", body["status"])

	code, _ = do(t, e, http.MethodPost, "/api/users/login",
		`{"usn":"ghost","password":"pw","role":"user"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRegisterForcesUserRole(t *testing.T) {
	e, st := newTestServer(t)

	code, _ := do(t, e, http.MethodPost, "/api/users/add",
		`{"usn":"u1","name":"Asha","password":"pw","role":"admin"}`)
	require.Equal(t, http.StatusCreated, code)

	_, rec, err := st.FindRow(context.Background(), store.TableUsers, "USN", "u1")
	require.NoError(t, err)
	assert.Equal(t, "user", rec.Get("Role"))
	assert.Equal(t, "No", rec.Get("Suspended"))

	code, _ = do(t, e, http.MethodPost, "/api/users/add",
		`{"usn":"U1","name":"Dup"}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAdminCannotSuspendSelf(t *testing.T) {
	e, st := newTestServer(t)
	require.NoError(t, st.AppendRow(context.Background(), store.TableUsers, store.Record{
		"USN": "ADM01", "Name": "Dean", "Role": "admin",
	}))

	code, body := do(t, e, http.MethodPost, "/api/users/suspend",
		`{"usn":"ADM01","adminUsn":"ADM01"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "failed", body["status"])
}

func TestBookingLifecycle(t *testing.T) {
	e, st := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, st.AppendRow(ctx, store.TableEvents, store.Record{
		"ID": "EV01", "Name": "Tech Talk", "Auditorium": "Main Hall", "Date": "2026-10-01", "Time": "10:00",
	}))

	// seats as a JSON array, loose field names
	code, body := do(t, e, http.MethodPost, "/api/bookings/add",
		`{"user":"u1","event":"EV01","seats":["A1","A2"]}`)
	require.Equal(t, http.StatusCreated, code)
	bookingID := body["bookingId"].(string)
	assert.NotEmpty(t, bookingID)
	assert.Contains(t, body["qrUrl"], bookingID)

	// double booking by the same user
	code, _ = do(t, e, http.MethodPost, "/api/bookings/add",
		`{"usn":"u1","eventId":"EV01","seats":"C1"}`)
	assert.Equal(t, http.StatusConflict, code)

	// another user colliding on a seat
	code, body = do(t, e, http.MethodPost, "/api/bookings/add",
		`{"usn":"u2","eventId":"EV01","seats":"A2"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["message"], "A2")

	// scan once, then again
	code, _ = do(t, e, http.MethodPost, "/api/bookings/scan",
		`{"bookingId":"`+bookingID+`","eventId":"EV01"}`)
	require.Equal(t, http.StatusOK, code)

	code, body = do(t, e, http.MethodPost, "/api/bookings/scan",
		`{"bookingId":"`+bookingID+`","eventId":"EV01"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "u1", body["usn"])

	// wrong event
	code, _ = do(t, e, http.MethodPost, "/api/bookings/scan",
		`{"bookingId":"`+bookingID+`","eventId":"EV02"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	// unknown code
	code, _ = do(t, e, http.MethodPost, "/api/bookings/scan",
		`{"bookingId":"NOPE","eventId":"EV01"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAttendanceMarkDuplicate(t *testing.T) {
	e, _ := newTestServer(t)

	code, _ := do(t, e, http.MethodPost, "/api/attendance/mark",
		`{"eventId":"EV01","usn":"u1"}`)
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, e, http.MethodPost, "/api/attendance/mark",
		`{"eventId":"EV01","usn":"u1"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "failed", body["status"])
}

func TestEventAddAssignsIDAndUpsertsSpeakers(t *testing.T) {
	e, st := newTestServer(t)

	code, body := do(t, e, http.MethodPost, "/api/events/add",
		`{"name":"Tech Talk","auditorium":"Main Hall","date":"2026-10-01","time":"10:00",
		  "speakers":[{"name":"Dr. Rao","dept":"CSE"}]}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "EV01", body["id"])

	speakers, err := st.ListRows(context.Background(), store.TableSpeakers)
	require.NoError(t, err)
	require.Len(t, speakers, 1)
	assert.Equal(t, "Dr. Rao", speakers[0].Get("Name"))
	assert.Equal(t, "SP001", speakers[0].Get("ID"))
}

func TestEventUpdatePartialFields(t *testing.T) {
	e, st := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, st.AppendRow(ctx, store.TableEvents, store.Record{
		"ID": "EV01", "Name": "Tech Summit", "Capacity": "100",
	}))

	code, body := do(t, e, http.MethodPut, "/api/events/update/EV01", `{"Capacity":"500"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])

	_, rec, err := st.FindRow(ctx, store.TableEvents, "ID", "EV01")
	require.NoError(t, err)
	assert.Equal(t, "500", rec.Get("Capacity"))
	assert.Equal(t, "Tech Summit", rec.Get("Name"), "untouched fields survive")

	// fields outside the allow-list are dropped; the update is a no-op, not an error
	code, body = do(t, e, http.MethodPut, "/api/events/update/EV01", `{"ID":"EV99","bogus":"x"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	_, rec, err = st.FindRow(ctx, store.TableEvents, "ID", "EV01")
	require.NoError(t, err)
	assert.Equal(t, "500", rec.Get("Capacity"))
	assert.Empty(t, rec.Get("bogus"))
}

func TestUnsuspendClearsFlag(t *testing.T) {
	e, st := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, st.AppendRow(ctx, store.TableUsers, store.Record{
		"USN": "4GM21CS001", "Name": "Asha", "Role": "user", "Suspended": "Yes",
	}))

	code, body := do(t, e, http.MethodPost, "/api/users/unsuspend",
		`{"usn":"4GM21CS001","adminUsn":"ADM01"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])

	_, rec, err := st.FindRow(ctx, store.TableUsers, "USN", "4GM21CS001")
	require.NoError(t, err)
	assert.Equal(t, "", rec.Get("Suspended"))
}

func TestCheckConflictEndpoint(t *testing.T) {
	e, st := newTestServer(t)
	require.NoError(t, st.AppendRow(context.Background(), store.TableEvents, store.Record{
		"ID": "EV01", "Name": "Tech Talk", "Auditorium": "Main Hall",
		"Date": "2026-10-01", "Time": "10:00", "Duration": "1h",
	}))

	code, body := do(t, e, http.MethodPost, "/api/events/check_conflict",
		`{"auditorium":"Main Hall","date":"2026-10-01","time":"10:30","duration":"1h"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["conflict"])

	code, body = do(t, e, http.MethodPost, "/api/events/check_conflict",
		`{"auditorium":"Main Hall","date":"2026-10-01","time":"11:00","duration":"1h"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["conflict"])
}

func TestUnhandledErrorEnvelope(t *testing.T) {
	e, _ := newTestServer(t)

	// malformed JSON bodies are caught by the handler, not the global
	// error handler
	code, body := do(t, e, http.MethodPost, "/api/users/login", `{"usn":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "failed", body["status"])

	// unknown routes go through echo's 404
	code, body = do(t, e, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "failed", body["status"])
}
