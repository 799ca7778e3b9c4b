package dashboard

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Kiriweb/carbontracker/internal/catalog"
	"github.com/Kiriweb/carbontracker/internal/dto"
	"github.com/Kiriweb/carbontracker/internal/session"
)

// API is the backend surface the bootstrap loads through.
type API interface {
	LoadCatalogs(ctx context.Context) catalog.Set
	Logs(ctx context.Context) ([]dto.EmissionLog, error)
	PendingUsers(ctx context.Context) ([]dto.User, error)
	AllUsers(ctx context.Context) ([]dto.User, error)
	CredentialStatus(ctx context.Context) (dto.CredentialStatus, error)
}

// Snapshot carries the dependent resources for one authorized view. Slots
// fill independently; a failed fetch leaves its slot empty.
type Snapshot struct {
	Catalogs      catalog.Set
	Logs          []dto.EmissionLog
	Pending       []dto.User
	All           []dto.User
	Credential    dto.CredentialStatus
	HasCredential bool
}

// Bootstrap loads the role-dependent resource set after the session gate
// authorizes a view. Concurrent fetches are awaited as a set; one failing
// does not cancel the others.
type Bootstrap struct {
	api        API
	logger     zerolog.Logger
	generation atomic.Uint64
}

// NewBootstrap constructs a dashboard bootstrap.
func NewBootstrap(api API, logger zerolog.Logger) *Bootstrap {
	return &Bootstrap{
		api:    api,
		logger: logger.With().Str("component", "dashboard_bootstrap").Logger(),
	}
}

// Load fetches the dependent resources for an authorized session: logs and
// catalogs for every role, plus the user directory and credential status
// for admins. An unauthorized or redirected session loads nothing. The
// second return is false when the result was superseded by a newer Load and
// must be discarded.
func (b *Bootstrap) Load(ctx context.Context, auth session.Authorization) (Snapshot, bool) {
	if !auth.Authorized() {
		return Snapshot{}, false
	}

	generation := b.generation.Add(1)

	var (
		wg   sync.WaitGroup
		snap Snapshot
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap.Catalogs = b.api.LoadCatalogs(ctx)
	}()
	go func() {
		defer wg.Done()
		logs, err := b.api.Logs(ctx)
		if err != nil {
			b.logger.Warn().Err(err).Msg("log list unavailable")
			return
		}
		snap.Logs = logs
	}()

	if auth.Role == session.RoleAdmin {
		wg.Add(3)
		go func() {
			defer wg.Done()
			pending, err := b.api.PendingUsers(ctx)
			if err != nil {
				b.logger.Warn().Err(err).Msg("pending users unavailable")
				return
			}
			snap.Pending = pending
		}()
		go func() {
			defer wg.Done()
			all, err := b.api.AllUsers(ctx)
			if err != nil {
				b.logger.Warn().Err(err).Msg("user list unavailable")
				return
			}
			snap.All = all
		}()
		go func() {
			defer wg.Done()
			status, err := b.api.CredentialStatus(ctx)
			if err != nil {
				b.logger.Warn().Err(err).Msg("credential status unavailable")
				return
			}
			snap.Credential = status
			snap.HasCredential = true
		}()
	}

	wg.Wait()

	// A newer Load supersedes this one; its late results must be ignored.
	if b.generation.Load() != generation {
		b.logger.Debug().Uint64("generation", generation).Msg("discarding stale bootstrap result")
		return Snapshot{}, false
	}

	return snap, true
}
