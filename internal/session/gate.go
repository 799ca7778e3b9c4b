package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Kiriweb/carbontracker/internal/dto"
)

// State tracks the gate's resolution lifecycle.
type State int

const (
	StateUnresolved State = iota
	StateChecking
	StateAuthorized
	StateUnauthorized
)

// Role is the viewer's derived role. Admin is resolved once from the
// configured administrator address, not re-declared per view.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "user"
}

// Redirect tells the caller which view the session belongs on. A role
// landing on the wrong view is routed, not failed.
type Redirect int

const (
	RedirectNone Redirect = iota
	RedirectLogin
	RedirectDashboard
	RedirectAdmin
)

// IdentityAPI is the backend surface the gate resolves identities through.
type IdentityAPI interface {
	Me(ctx context.Context) (dto.User, error)
}

// Authorization is the outcome of one gate resolution.
type Authorization struct {
	State    State
	Role     Role
	Identity dto.User
	Redirect Redirect
}

// Authorized reports whether the session may stay on the gated view and
// load its dependent resources.
func (a Authorization) Authorized() bool {
	return a.State == StateAuthorized && a.Redirect == RedirectNone
}

// Gate resolves the current session and applies the role routing policy for
// protected views. One gate serves every view; the required role is a
// parameter, so the bootstrap logic is not re-implemented per page.
type Gate struct {
	api        IdentityAPI
	adminEmail string
	logger     zerolog.Logger
	state      State
	identity   dto.User
	role       Role
}

// NewGate constructs a session gate. adminEmail is the configured
// administrator address used to derive the admin role.
func NewGate(api IdentityAPI, adminEmail string, logger zerolog.Logger) *Gate {
	return &Gate{
		api:        api,
		adminEmail: adminEmail,
		logger:     logger.With().Str("component", "session_gate").Logger(),
	}
}

// State returns the gate's current resolution state.
func (g *Gate) State() State {
	return g.state
}

// Identity returns the resolved account. Only meaningful once authorized.
func (g *Gate) Identity() dto.User {
	return g.identity
}

// Role returns the resolved role. Only meaningful once authorized.
func (g *Gate) Role() Role {
	return g.role
}

// Resolve issues the who-am-I request and gates the view. A failed request
// or a not-yet-enabled account goes to the login redirect; dependent
// fetches must not be attempted in that case. An enabled account on the
// wrong view for its role gets routed to the right one.
func (g *Gate) Resolve(ctx context.Context, required Role) Authorization {
	g.state = StateChecking

	user, err := g.api.Me(ctx)
	if err != nil {
		g.logger.Debug().Err(err).Msg("identity check failed")
		g.state = StateUnauthorized
		return Authorization{State: StateUnauthorized, Redirect: RedirectLogin}
	}
	if !user.Enabled {
		g.logger.Debug().Str("email", user.Email).Msg("account not approved")
		g.state = StateUnauthorized
		return Authorization{State: StateUnauthorized, Redirect: RedirectLogin}
	}

	role := RoleUser
	if strings.EqualFold(user.Email, g.adminEmail) {
		role = RoleAdmin
	}

	g.state = StateAuthorized
	g.identity = user
	g.role = role

	redirect := RedirectNone
	switch {
	case role == RoleAdmin && required == RoleUser:
		redirect = RedirectAdmin
	case role == RoleUser && required == RoleAdmin:
		redirect = RedirectDashboard
	}

	return Authorization{State: StateAuthorized, Role: role, Identity: user, Redirect: redirect}
}
