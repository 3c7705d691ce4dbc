package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDemoLoginDisabled  = errors.New("demo login disabled in this environment")
	ErrSessionNotFound    = errors.New("session not found")
)

const tokenTTL = time.Hour

type grant struct {
	token        string
	refreshToken string
	issuedAt     time.Time
	expiresAt    time.Time
}

// Service issues and validates local session tokens for the bundled demo
// principal. Tokens take the shape local_<clientId>_<unix-ms>.
type Service struct {
	cfg      config.AuthConfig
	clientID string

	mu        sync.RWMutex
	byToken   map[string]grant
	byRefresh map[string]string
}

// NewService bootstraps the token issuer with a per-process client id.
func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		cfg:       cfg,
		clientID:  strings.Split(uuid.NewString(), "-")[0],
		byToken:   make(map[string]grant),
		byRefresh: make(map[string]string),
	}
}

// Login checks the demo credentials and mints a session token.
func (s *Service) Login(_ context.Context, creds authmodel.Credentials) (authmodel.LoginResult, error) {
	if !s.cfg.DemoLoginEnabled() {
		return authmodel.LoginResult{}, ErrDemoLoginDisabled
	}
	if creds.Username != s.cfg.AdminUsername || creds.Password != s.cfg.AdminPassword {
		return authmodel.LoginResult{}, ErrInvalidCredentials
	}

	return s.mint(), nil
}

// Validate reports whether token is known and unexpired. Expired grants are
// pruned on observation.
func (s *Service) Validate(_ context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.byToken[token]
	if !ok {
		return false
	}
	if time.Now().After(g.expiresAt) {
		delete(s.byToken, token)
		delete(s.byRefresh, g.refreshToken)
		return false
	}
	return true
}

// Refresh exchanges a refresh token for a fresh grant, revoking the old one.
func (s *Service) Refresh(_ context.Context, refreshToken string) (authmodel.LoginResult, error) {
	s.mu.Lock()
	token, ok := s.byRefresh[refreshToken]
	if ok {
		g := s.byToken[token]
		delete(s.byToken, token)
		delete(s.byRefresh, g.refreshToken)
	}
	s.mu.Unlock()

	if !ok {
		return authmodel.LoginResult{}, ErrSessionNotFound
	}
	return s.mint(), nil
}

// Revoke invalidates a session token. Returns false when the token was not
// active.
func (s *Service) Revoke(_ context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.byToken[token]
	if !ok {
		return false
	}
	delete(s.byToken, token)
	delete(s.byRefresh, g.refreshToken)
	return true
}

func (s *Service) mint() authmodel.LoginResult {
	now := time.Now()
	g := grant{
		refreshToken: "refresh_" + uuid.NewString(),
		issuedAt:     now,
		expiresAt:    now.Add(tokenTTL),
	}

	s.mu.Lock()
	// Two grants minted within the same millisecond would collide, so bump
	// the stamp until the token is unique.
	stamp := now.UnixMilli()
	for {
		g.token = fmt.Sprintf("local_%s_%d", s.clientID, stamp)
		if _, exists := s.byToken[g.token]; !exists {
			break
		}
		stamp++
	}
	s.byToken[g.token] = g
	s.byRefresh[g.refreshToken] = g.token
	s.mu.Unlock()

	return authmodel.LoginResult{
		Success:      true,
		Token:        g.token,
		RefreshToken: g.refreshToken,
		ExpiresIn:    tokenTTL.Milliseconds(),
	}
}
