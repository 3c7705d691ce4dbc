package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// ErrUnknownCommand means no native handler and no HTTP mapping exist for a
// command. Programming or configuration error, never retried.
var ErrUnknownCommand = errors.New("unknown command")

// Invoker is the native command-invocation primitive: the in-process bridge
// when the daemon is embedded, or the WebSocket transport when it runs as a
// separate local process.
type Invoker interface {
	Invoke(ctx context.Context, cmd api.Command, params json.RawMessage) (json.RawMessage, error)
}

// TransportError wraps an underlying network or native-call failure.
type TransportError struct {
	Command api.Command
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.Command, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detector answers whether native invocation is available in this runtime.
// The answer is computed once and cached; the check itself is pure.
type Detector struct {
	invoker   Invoker
	once      sync.Once
	available bool
}

// NewDetector wraps the (possibly nil) native invoker.
func NewDetector(invoker Invoker) *Detector {
	return &Detector{invoker: invoker}
}

// NativeAvailable reports whether a native invoker was supplied.
func (d *Detector) NativeAvailable() bool {
	d.once.Do(func() {
		d.available = d.invoker != nil
	})
	return d.available
}
