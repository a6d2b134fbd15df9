package repository

import (
	"context"
	"strings"

	"github.com/bookevntz/auditorium-backend/internal/model"
	"github.com/bookevntz/auditorium-backend/internal/store"
)

// UserRepo provides account operations over the Users table.  USN is the
// primary key; lookups are case-insensitive on it.
type UserRepo struct {
	store store.RowStore
}

// NewUserRepo returns a new UserRepo bound to the given store.
func NewUserRepo(st store.RowStore) *UserRepo { return &UserRepo{store: st} }

// List returns every user row as stored, passwords included; callers that
// expose rows to clients sanitize them first.
func (r *UserRepo) List(ctx context.Context) ([]store.Record, error) {
	return r.store.ListRows(ctx, store.TableUsers)
}

// Add appends a registration row.  The caller has already normalized the
// payload onto canonical headers.
func (r *UserRepo) Add(ctx context.Context, rec store.Record) error {
	return r.store.AppendRow(ctx, store.TableUsers, rec)
}

// GetByUSN returns the user row for the given USN, without the password.
func (r *UserRepo) GetByUSN(ctx context.Context, usn string) (store.Record, error) {
	_, rec, err := r.store.FindRow(ctx, store.TableUsers, "USN", usn)
	if err != nil {
		return nil, ErrNotFound
	}
	return model.SanitizeUser(rec), nil
}

// Login authenticates by role and login identifier.  Admins match on USN
// only; regular users match on USN or phone number (phone cells from the
// store may carry a numeric ".0" tail, stripped before comparison).
// Passwords are compared as plain text; there is no session or token, the
// sanitized profile is the whole result.
func (r *UserRepo) Login(ctx context.Context, role, loginID, password string) (store.Record, error) {
	rows, err := r.store.ListRows(ctx, store.TableUsers)
	if err != nil {
		return nil, err
	}

	role = strings.ToLower(strings.TrimSpace(role))
	wantUSN := strings.ToLower(strings.TrimSpace(loginID))
	wantPhone := model.CleanPhone(loginID)

	for _, rec := range rows {
		u := model.UserFromRecord(rec)
		usn := strings.ToLower(strings.TrimSpace(u.USN))

		switch {
		case role == "admin" && usn == wantUSN:
		case role != "admin" && (usn == wantUSN || model.CleanPhone(u.Phone) == wantPhone):
		default:
			continue
		}

		if u.IsSuspended() {
			return nil, ErrSuspended
		}
		if strings.TrimSpace(u.Password) != password {
			return nil, ErrBadCredentials
		}
		return model.SanitizeUser(rec), nil
	}
	return nil, ErrNotFound
}

// Update merges the given fields into the user row keyed by USN.
func (r *UserRepo) Update(ctx context.Context, usn string, updates map[string]string) error {
	pos, rec, err := r.store.FindRow(ctx, store.TableUsers, "USN", usn)
	if err != nil {
		return ErrNotFound
	}
	for k, v := range updates {
		rec.Set(k, v)
	}
	return r.store.WriteRowAt(ctx, store.TableUsers, pos, rec)
}

// Delete removes the user row keyed by USN.
func (r *UserRepo) Delete(ctx context.Context, usn string) error {
	pos, _, err := r.store.FindRow(ctx, store.TableUsers, "USN", usn)
	if err != nil {
		return ErrNotFound
	}
	return r.store.DeleteRowAt(ctx, store.TableUsers, pos)
}
