package facade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// ErrNotAuthenticated is thrown when an operation that assumes a session is
// called without one. This is caller misuse, not an expected runtime
// failure, so it surfaces before any dispatch.
var ErrNotAuthenticated = errors.New("not authenticated")

// Invoker dispatches commands; both envelope shapes are normalized behind
// it, so facade callers only ever see typed values or errors.
type Invoker interface {
	Invoke(ctx context.Context, cmd api.Command, params json.RawMessage) (json.RawMessage, error)
}

// AuthState answers whether a session is currently held.
type AuthState interface {
	IsAuthenticated() bool
}

func invokeInto[T any](ctx context.Context, inv Invoker, cmd api.Command, params any) (T, error) {
	var zero T

	var raw json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return zero, fmt.Errorf("failed to encode %s params: %w", cmd, err)
		}
		raw = encoded
	}

	data, err := inv.Invoke(ctx, cmd, raw)
	if err != nil {
		return zero, err
	}
	if len(data) == 0 {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("failed to decode %s response: %w", cmd, err)
	}
	return out, nil
}

func requireAuth(state AuthState) error {
	if state == nil || !state.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}
