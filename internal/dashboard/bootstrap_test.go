package dashboard

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Kiriweb/carbontracker/internal/catalog"
	"github.com/Kiriweb/carbontracker/internal/dto"
	"github.com/Kiriweb/carbontracker/internal/session"
)

type apiStub struct {
	logs       []dto.EmissionLog
	logsErr    error
	pending    []dto.User
	pendingErr error
	all        []dto.User
	credential dto.CredentialStatus
	credErr    error

	calls atomic.Int64
}

func (s *apiStub) LoadCatalogs(_ context.Context) catalog.Set {
	s.calls.Add(1)
	return catalog.Set{Countries: []string{"Greece"}}
}

func (s *apiStub) Logs(_ context.Context) ([]dto.EmissionLog, error) {
	s.calls.Add(1)
	return s.logs, s.logsErr
}

func (s *apiStub) PendingUsers(_ context.Context) ([]dto.User, error) {
	s.calls.Add(1)
	return s.pending, s.pendingErr
}

func (s *apiStub) AllUsers(_ context.Context) ([]dto.User, error) {
	s.calls.Add(1)
	return s.all, nil
}

func (s *apiStub) CredentialStatus(_ context.Context) (dto.CredentialStatus, error) {
	s.calls.Add(1)
	return s.credential, s.credErr
}

func authorized(role session.Role) session.Authorization {
	return session.Authorization{
		State:    session.StateAuthorized,
		Role:     role,
		Identity: dto.User{ID: 1, Email: "someone@example.com", Enabled: true},
	}
}

func TestLoadForRegularUser(t *testing.T) {
	stub := &apiStub{logs: []dto.EmissionLog{{ID: 7}}}
	boot := NewBootstrap(stub, zerolog.New(io.Discard))

	snap, ok := boot.Load(context.Background(), authorized(session.RoleUser))
	require.True(t, ok)
	require.Len(t, snap.Logs, 1)
	require.Empty(t, snap.Pending)
	require.False(t, snap.HasCredential)

	// catalogs + logs only for a regular user
	require.Equal(t, int64(2), stub.calls.Load())
}

func TestLoadForAdmin(t *testing.T) {
	stub := &apiStub{
		logs:       []dto.EmissionLog{{ID: 7}},
		pending:    []dto.User{{ID: 2}},
		all:        []dto.User{{ID: 1}, {ID: 2}},
		credential: dto.CredentialStatus{HasKey: true, Masked: "sk-***"},
	}
	boot := NewBootstrap(stub, zerolog.New(io.Discard))

	snap, ok := boot.Load(context.Background(), authorized(session.RoleAdmin))
	require.True(t, ok)
	require.Len(t, snap.Pending, 1)
	require.Len(t, snap.All, 2)
	require.True(t, snap.HasCredential)
	require.True(t, snap.Credential.HasKey)
	require.Equal(t, int64(5), stub.calls.Load())
}

func TestLoadPartialFailureFillsOtherSlots(t *testing.T) {
	stub := &apiStub{
		logsErr:    errors.New("boom"),
		pending:    []dto.User{{ID: 2}},
		all:        []dto.User{{ID: 1}, {ID: 2}},
		credErr:    errors.New("boom"),
		credential: dto.CredentialStatus{},
	}
	boot := NewBootstrap(stub, zerolog.New(io.Discard))

	snap, ok := boot.Load(context.Background(), authorized(session.RoleAdmin))
	require.True(t, ok)
	require.Empty(t, snap.Logs, "failed slot stays empty")
	require.False(t, snap.HasCredential)
	require.Len(t, snap.Pending, 1, "other slots still fill")
	require.Len(t, snap.All, 2)
}

func TestLoadSkippedWhenUnauthorized(t *testing.T) {
	stub := &apiStub{}
	boot := NewBootstrap(stub, zerolog.New(io.Discard))

	_, ok := boot.Load(context.Background(), session.Authorization{
		State:    session.StateUnauthorized,
		Redirect: session.RedirectLogin,
	})
	require.False(t, ok)
	require.Zero(t, stub.calls.Load(), "no dependent fetch may be attempted")
}

type supersedingStub struct {
	apiStub
	boot    *Bootstrap
	once    sync.Once
	innerOK bool
}

// Logs kicks off a second Load mid-flight, superseding the outer one.
func (s *supersedingStub) Logs(ctx context.Context) ([]dto.EmissionLog, error) {
	s.once.Do(func() {
		_, s.innerOK = s.boot.Load(ctx, authorized(session.RoleUser))
	})
	return nil, nil
}

func TestLoadDiscardsSupersededResult(t *testing.T) {
	stub := &supersedingStub{}
	boot := NewBootstrap(stub, zerolog.New(io.Discard))
	stub.boot = boot

	_, ok := boot.Load(context.Background(), authorized(session.RoleUser))
	require.False(t, ok, "superseded load must be discarded")
	require.True(t, stub.innerOK, "newest load wins")
}

func TestLoadSkippedWhenRedirected(t *testing.T) {
	stub := &apiStub{}
	boot := NewBootstrap(stub, zerolog.New(io.Discard))

	auth := authorized(session.RoleAdmin)
	auth.Redirect = session.RedirectAdmin

	_, ok := boot.Load(context.Background(), auth)
	require.False(t, ok)
	require.Zero(t, stub.calls.Load())
}
