package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/repository"
)

// UserHandler exposes account endpoints: login, registration, the admin
// management actions and profile lookup.
type UserHandler struct {
	users *repository.UserRepo
}

// NewUserHandler returns a UserHandler bound to the given repository.
func NewUserHandler(users *repository.UserRepo) *UserHandler {
	return &UserHandler{users: users}
}

// Login authenticates a user.  Body: {"usn": ..., "password": ...,
// "role": "admin"|"user"}; regular users may log in with their phone number
// in place of the USN.  There is no session or token, the sanitized profile
// is the entire result.
func (h *UserHandler) Login(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	loginID := bodyStr(body, "usn", "user", "loginId", "phone")
	password := bodyStr(body, "password")
	role := bodyStr(body, "role")
	if loginID == "" || password == "" {
		return fail(c, http.StatusBadRequest, "USN and password are required")
	}

	user, err := h.users.Login(c.Request().Context(), role, loginID, password)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "user": user})
}

// List returns every account, sanitized.
func (h *UserHandler) List(c echo.Context) error {
	rows, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]any, 0, len(rows))
	for _, rec := range rows {
		out = append(out, model.SanitizeUser(rec))
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "users": out})
}

// Get returns one account by USN, sanitized.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetByUSN(c.Request().Context(), c.Param("usn"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "user": user})
}

// Add registers a new account.  The body is taken as-is (arbitrary extra
// columns survive into the store); Role and Suspended are forced so a
// client cannot register itself as an admin.
func (h *UserHandler) Add(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	rec := toRecord(body)
	usn := strings.TrimSpace(rec.Get("USN"))
	if usn == "" || strings.TrimSpace(rec.Get("Name")) == "" {
		return fail(c, http.StatusBadRequest, "USN and Name are required")
	}
	if _, err := h.users.GetByUSN(c.Request().Context(), usn); err == nil {
		return fail(c, http.StatusConflict, "User already exists")
	}
	rec.Set("Role", "user")
	rec.Set("Suspended", "No")
	if err := h.users.Add(c.Request().Context(), rec); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "success", "message": "User registered"})
}

// SetRole changes an account's role.  Body: {"usn", "role", "adminUsn"}.
// Admins cannot change their own role.
func (h *UserHandler) SetRole(c echo.Context) error {
	return h.adminAction(c, func(usn string, body map[string]any) (string, map[string]string, error) {
		role := strings.ToLower(bodyStr(body, "role"))
		if role != "admin" && role != "user" {
			return "", nil, errBadRole
		}
		return "Role updated", map[string]string{"Role": role}, nil
	})
}

// Suspend blocks an account from logging in.  Body: {"usn", "adminUsn"}.
func (h *UserHandler) Suspend(c echo.Context) error {
	return h.adminAction(c, func(string, map[string]any) (string, map[string]string, error) {
		return "User suspended", map[string]string{"Suspended": "Yes"}, nil
	})
}

// Unsuspend reinstates a suspended account.
func (h *UserHandler) Unsuspend(c echo.Context) error {
	return h.adminAction(c, func(string, map[string]any) (string, map[string]string, error) {
		return "User unsuspended", map[string]string{"Suspended": ""}, nil
	})
}

// Delete removes an account.  Body: {"usn", "adminUsn"}.  Admins cannot
// delete themselves.
func (h *UserHandler) Delete(c echo.Context) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	usn := bodyStr(body, "usn", "user")
	if usn == "" {
		return fail(c, http.StatusBadRequest, "USN is required")
	}
	if admin := bodyStr(body, "adminUsn", "admin_usn"); admin != "" && strings.EqualFold(admin, usn) {
		return respondErr(c, repository.ErrSelfAction)
	}
	if err := h.users.Delete(c.Request().Context(), usn); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "User deleted"})
}

// errBadRole marks an unrecognized role value inside adminAction closures.
var errBadRole = echo.NewHTTPError(http.StatusBadRequest, "Role must be admin or user")

// adminAction factors the shared shape of role/suspend/unsuspend: read the
// target USN and acting admin from the body, reject self-modification,
// apply the computed field updates.
func (h *UserHandler) adminAction(c echo.Context, build func(usn string, body map[string]any) (string, map[string]string, error)) error {
	body, err := bindBody(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	usn := bodyStr(body, "usn", "user")
	if usn == "" {
		return fail(c, http.StatusBadRequest, "USN is required")
	}
	if admin := bodyStr(body, "adminUsn", "admin_usn"); admin != "" && strings.EqualFold(admin, usn) {
		return respondErr(c, repository.ErrSelfAction)
	}
	msg, updates, err := build(usn, body)
	if err != nil {
		return err
	}
	if err := h.users.Update(c.Request().Context(), usn, updates); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": msg})
}
