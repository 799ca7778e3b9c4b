package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Kiriweb/carbontracker/internal/dto"
)

// DirectoryAPI is the backend surface the user directory mutates through.
type DirectoryAPI interface {
	ApproveUser(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserDirectory keeps the admin view's two user collections consistent with
// each other and with the server. The server mutation runs first; the local
// collections change only after it succeeds, atomically within one task
// turn. After any successful mutation no id is pending while enabled in
// all, and no id is pending while absent from all.
type UserDirectory struct {
	api     DirectoryAPI
	logger  zerolog.Logger
	pending []dto.User
	all     []dto.User
}

// NewUserDirectory constructs a directory bound to the backend.
func NewUserDirectory(api DirectoryAPI, logger zerolog.Logger) *UserDirectory {
	return &UserDirectory{
		api:    api,
		logger: logger.With().Str("component", "user_directory").Logger(),
	}
}

// SetPending replaces the pending collection from a fresh fetch.
func (d *UserDirectory) SetPending(users []dto.User) {
	d.pending = append([]dto.User(nil), users...)
}

// SetAll replaces the all-users collection from a fresh fetch.
func (d *UserDirectory) SetAll(users []dto.User) {
	d.all = append([]dto.User(nil), users...)
}

// Pending returns a copy of the pending collection.
func (d *UserDirectory) Pending() []dto.User {
	return append([]dto.User(nil), d.pending...)
}

// All returns a copy of the all-users collection.
func (d *UserDirectory) All() []dto.User {
	return append([]dto.User(nil), d.all...)
}

// Approve enables the account on the server, then removes it from pending
// and flips enabled in all. On failure both collections stay untouched.
func (d *UserDirectory) Approve(ctx context.Context, id int64) error {
	if err := d.api.ApproveUser(ctx, id); err != nil {
		d.logger.Warn().Err(err).Int64("user_id", id).Msg("approve failed")
		return err
	}

	d.pending = withoutID(d.pending, id)
	for i := range d.all {
		if d.all[i].ID == id {
			d.all[i].Enabled = true
		}
	}
	return nil
}

// Remove deletes the account on the server, then drops it from both
// collections. An id already absent from pending is fine; approved accounts
// only live in all.
func (d *UserDirectory) Remove(ctx context.Context, id int64) error {
	if err := d.api.DeleteUser(ctx, id); err != nil {
		d.logger.Warn().Err(err).Int64("user_id", id).Msg("delete failed")
		return err
	}

	d.pending = withoutID(d.pending, id)
	d.all = withoutID(d.all, id)
	return nil
}

func withoutID(users []dto.User, id int64) []dto.User {
	filtered := users[:0]
	for _, user := range users {
		if user.ID != id {
			filtered = append(filtered, user)
		}
	}
	return filtered
}
