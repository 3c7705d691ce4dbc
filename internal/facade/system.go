package facade

import (
	"context"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// HealthInfo is the backend's self-reported status.
type HealthInfo struct {
	Status    string           `json:"status"`
	LLM       bool             `json:"llm"`
	Activity  map[string]int64 `json:"activity,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// System exposes backend health. No session is required.
type System struct {
	inv Invoker
}

// NewSystem builds the system facade.
func NewSystem(inv Invoker) *System {
	return &System{inv: inv}
}

// Health probes the backend.
func (s *System) Health(ctx context.Context) (HealthInfo, error) {
	return invokeInto[HealthInfo](ctx, s.inv, api.CmdSystemHealth, nil)
}
