package facade

import (
	"context"

	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/session"
)

// Auth is the thin facade over the session manager so callers see the same
// surface shape as the other domains.
type Auth struct {
	mgr *session.Manager
}

// NewAuth wraps the session manager.
func NewAuth(mgr *session.Manager) *Auth {
	return &Auth{mgr: mgr}
}

// Login authenticates and establishes the session.
func (a *Auth) Login(ctx context.Context, creds authmodel.Credentials) authmodel.LoginResult {
	return a.mgr.Login(ctx, creds)
}

// Logout revokes the session; false when none was active.
func (a *Auth) Logout(ctx context.Context) bool {
	return a.mgr.Logout(ctx)
}

// Validate checks the held session against the backend.
func (a *Auth) Validate(ctx context.Context) bool {
	return a.mgr.Validate(ctx)
}

// Refresh exchanges the refresh token for a new session.
func (a *Auth) Refresh(ctx context.Context) authmodel.LoginResult {
	return a.mgr.Refresh(ctx)
}

// IsAuthenticated reports whether a session id is held.
func (a *Auth) IsAuthenticated() bool {
	return a.mgr.IsAuthenticated()
}
