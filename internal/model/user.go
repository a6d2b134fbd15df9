package model

import (
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/store"
)

// User is the typed view of a Users row.  USN is the primary key and the
// join key into Bookings and Attendance.  Passwords are stored and compared
// as plain text; this system issues no sessions or tokens.
type User struct {
	USN       string
	Name      string
	Email     string
	Phone     string
	Password  string
	Role      string
	Suspended string
}

// UserFromRecord extracts the typed view from a raw row.
func UserFromRecord(rec store.Record) User {
	return User{
		USN:       rec.Get("USN"),
		Name:      rec.Get("Name"),
		Email:     rec.Get("Email"),
		Phone:     rec.Get("Phone"),
		Password:  rec.Get("Password"),
		Role:      rec.Get("Role"),
		Suspended: rec.Get("Suspended"),
	}
}

// IsSuspended reports whether the account is blocked from logging in.
func (u User) IsSuspended() bool {
	return strings.EqualFold(strings.TrimSpace(u.Suspended), "yes")
}

// CleanPhone normalizes a phone cell for comparison.  Numeric spreadsheet
// cells come back as "9876543210.0"; the fractional tail is dropped.
func CleanPhone(v string) string {
	if i := strings.Index(v, "."); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// SanitizeUser returns a copy of the row with the Password cell removed and
// a lowercase "role" convenience field added, the shape login and profile
// endpoints respond with.
func SanitizeUser(rec store.Record) store.Record {
	out := make(store.Record, len(rec))
	for k, v := range rec {
		if strings.EqualFold(k, "Password") {
			continue
		}
		out[k] = v
	}
	role := strings.ToLower(strings.TrimSpace(rec.Get("Role")))
	if role == "" {
		role = "user"
	}
	out["role"] = role
	return out
}
