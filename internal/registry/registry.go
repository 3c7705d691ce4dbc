package registry

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/bridge"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/facade"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/httpclient"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/session"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/transport"
)

// State is the registry lifecycle phase.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateShuttingDown  State = "shutting_down"
)

// Health statuses reported by GetHealthStatus.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus aggregates the independent sub-checks.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Options configures the registry. Store may be nil (no persistence).
// Invoker overrides the default WebSocket transport, mainly for embedding
// and tests.
type Options struct {
	Config  *config.Config
	Store   session.Store
	Invoker bridge.Invoker
}

// Registry is the composition root: it owns the transport, the adapter,
// the session manager and the service facades, and sequences startup and
// shutdown.
type Registry struct {
	mu    sync.Mutex
	state State

	cfg     *config.Config
	ws      *transport.WSClient
	adapter *bridge.Adapter
	mgr     *session.Manager
	httpc   *httpclient.Client

	auth      *facade.Auth
	chat      *facade.Chat
	documents *facade.Documents
	research  *facade.Research
	analysis  *facade.Analysis
	system    *facade.System
}

// New wires the full client stack. Nothing touches the network until
// Initialize.
func New(opts Options) *Registry {
	reg := &Registry{
		state: StateUninitialized,
		cfg:   opts.Config,
	}

	tokenFn := func() string {
		if reg.mgr == nil {
			return ""
		}
		return reg.mgr.SessionID()
	}

	reg.httpc = httpclient.New(opts.Config.Client)

	invoker := opts.Invoker
	if invoker == nil && opts.Config.Client.Transport != config.TransportHTTP {
		reg.ws = transport.NewWSClient(wsURL(opts.Config.Server.Addr), tokenFn)
		invoker = reg.ws
	}

	reg.adapter = bridge.NewAdapter(invoker, reg.httpc, tokenFn)
	reg.mgr = session.NewManager(reg.adapter, opts.Store)

	// A terminal 401 on the fallback path means the session is gone.
	reg.httpc.OnAuthExpired(func() { reg.mgr.Expire() })

	reg.auth = facade.NewAuth(reg.mgr)
	reg.chat = facade.NewChat(reg.adapter, reg.mgr)
	reg.documents = facade.NewDocuments(reg.adapter, reg.mgr)
	reg.research = facade.NewResearch(reg.adapter, reg.mgr)
	reg.analysis = facade.NewAnalysis(reg.adapter, reg.mgr)
	reg.system = facade.NewSystem(reg.adapter)

	return reg
}

// State returns the current lifecycle phase.
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Sessions exposes the session manager, e.g. for expiry subscriptions.
func (r *Registry) Sessions() *session.Manager { return r.mgr }

// Executor exposes the HTTP client for callers that need callbacks.
func (r *Registry) Executor() *httpclient.Client { return r.httpc }

// Facade accessors.
func (r *Registry) Auth() *facade.Auth           { return r.auth }
func (r *Registry) Chat() *facade.Chat           { return r.chat }
func (r *Registry) Documents() *facade.Documents { return r.documents }
func (r *Registry) Research() *facade.Research   { return r.research }
func (r *Registry) Analysis() *facade.Analysis   { return r.analysis }
func (r *Registry) System() *facade.System       { return r.system }

// Initialize starts the local transport, restores and validates any
// persisted session, and marks the registry ready. When the socket cannot
// be reached the registry degrades to the HTTP fallback instead of failing.
func (r *Registry) Initialize(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateReady {
		r.mu.Unlock()
		return nil
	}
	r.state = StateInitializing
	r.mu.Unlock()

	if r.ws != nil {
		if err := r.ws.Start(ctx); err != nil {
			logrus.WithError(err).Warn("local socket unavailable, using the HTTP fallback")
			r.ws = nil
			r.adapter.Downgrade()
		}
	}

	if r.mgr.Load() {
		if !r.mgr.Validate(ctx) {
			logrus.Info("persisted session is no longer valid, clearing it")
			r.mgr.Clear()
		} else {
			logrus.Info("restored persisted session")
		}
	}

	r.setState(StateReady)

	health := r.GetHealthStatus(ctx)
	logrus.WithFields(logrus.Fields{
		"status": health.Status,
		"checks": health.Checks,
	}).Info("client registry ready")

	return nil
}

// GetHealthStatus probes the sub-checks independently. A failing check is
// recorded as down rather than propagated.
func (r *Registry) GetHealthStatus(ctx context.Context) HealthStatus {
	checks := map[string]string{
		"transport": "up",
		"system":    "up",
		"auth":      "up",
	}

	if r.ws != nil && !r.ws.Connected() {
		checks["transport"] = "down"
	}

	if info, err := r.system.Health(ctx); err != nil || info.Status != "healthy" {
		checks["system"] = "down"
	}

	// The auth check only has something to verify when a session is held.
	if r.mgr.IsAuthenticated() && !r.mgr.Validate(ctx) {
		checks["auth"] = "down"
	}

	down := 0
	for _, status := range checks {
		if status == "down" {
			down++
		}
	}

	status := StatusHealthy
	switch {
	case down == 0:
		status = StatusHealthy
	case down*2 < len(checks):
		status = StatusDegraded
	default:
		status = StatusUnhealthy
	}

	return HealthStatus{Status: status, Checks: checks}
}

// Shutdown tears the registry down best-effort: failures are logged, never
// rethrown.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	if r.state == StateUninitialized {
		r.mu.Unlock()
		return
	}
	r.state = StateShuttingDown
	r.mu.Unlock()

	if r.mgr.IsAuthenticated() {
		if ok := r.mgr.Logout(ctx); !ok {
			logrus.Warn("logout during shutdown did not complete")
		}
	}

	if r.ws != nil {
		r.ws.Stop()
	}

	r.httpc.ClearTokens()
	r.setState(StateUninitialized)
	logrus.Info("client registry shut down")
}

// StopTransport closes the local transport without revoking the session,
// for short-lived callers that keep the session persisted between runs.
func (r *Registry) StopTransport() {
	if r.ws != nil {
		r.ws.Stop()
	}
	r.setState(StateUninitialized)
}

func (r *Registry) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

func wsURL(addr string) string {
	return "ws://" + addr + "/ws"
}
