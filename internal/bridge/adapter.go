package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/httpclient"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// TokenSource supplies the current session id, or "" when unauthenticated.
type TokenSource func() string

// Adapter produces a uniform async command-execution path regardless of
// environment: native invocation when available, the command-to-HTTP
// mapping table otherwise.
type Adapter struct {
	detector *Detector
	invoker  Invoker
	http     *httpclient.Client
	token    TokenSource
}

// NewAdapter builds the adapter. invoker may be nil, in which case every
// call goes through the HTTP fallback. token may be nil when no session
// handling is wanted.
func NewAdapter(invoker Invoker, httpClient *httpclient.Client, token TokenSource) *Adapter {
	if token == nil {
		token = func() string { return "" }
	}
	return &Adapter{
		detector: NewDetector(invoker),
		invoker:  invoker,
		http:     httpClient,
		token:    token,
	}
}

// Detector exposes the environment check for callers that branch on it.
func (a *Adapter) Detector() *Detector {
	return a.detector
}

// Downgrade discards the native invoker so every subsequent call takes the
// HTTP mapping table. Called during startup, before the adapter is shared,
// when the local socket turns out to be unreachable.
func (a *Adapter) Downgrade() {
	a.invoker = nil
	a.detector = NewDetector(nil)
}

// Invoke dispatches a command. Params must be a JSON object or nil.
func (a *Adapter) Invoke(ctx context.Context, cmd api.Command, params json.RawMessage) (json.RawMessage, error) {
	if a.detector.NativeAvailable() {
		logrus.WithField("command", cmd).Debug("dispatching via native invoker")
		data, err := a.invoker.Invoke(ctx, cmd, params)
		if err != nil {
			var apiErr *api.APIError
			if errors.As(err, &apiErr) {
				return nil, apiErr
			}
			return nil, &TransportError{Command: cmd, Err: err}
		}
		return data, nil
	}

	return a.invokeHTTP(ctx, cmd, params)
}

func (a *Adapter) invokeHTTP(ctx context.Context, cmd api.Command, params json.RawMessage) (json.RawMessage, error) {
	mapped, ok := commandRoutes[cmd]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	req := httpclient.Request{
		Method:  mapped.method,
		Path:    mapped.path,
		Headers: map[string]string{},
	}
	if token := a.token(); token != "" {
		req.Headers["Authorization"] = "Bearer " + token
	}

	if mapped.method == http.MethodGet || mapped.method == http.MethodDelete {
		query, err := queryFromParams(params)
		if err != nil {
			return nil, fmt.Errorf("invalid params for %s: %w", cmd, err)
		}
		req.Query = query
	} else if len(params) > 0 {
		req.Body = params
	}

	logrus.WithFields(logrus.Fields{
		"command": cmd,
		"method":  mapped.method,
		"path":    mapped.path,
	}).Debug("dispatching via HTTP fallback")

	resp, apiErr := a.http.Do(ctx, req)
	if apiErr != nil {
		if apiErr.Code == api.CodeRequestFailed {
			logrus.WithFields(logrus.Fields{
				"command": cmd,
				"path":    mapped.path,
			}).WithError(apiErr).Error("HTTP fallback dispatch failed")
			return nil, &TransportError{Command: cmd, Err: apiErr}
		}
		return nil, apiErr
	}
	return resp.Data, nil
}

func queryFromParams(params json.RawMessage) (url.Values, error) {
	if len(params) == 0 {
		return nil, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(params, &fields); err != nil {
		return nil, err
	}

	values := url.Values{}
	for key, value := range fields {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				values.Add(key, fmt.Sprint(item))
			}
		case nil:
			// skip
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}
	return values, nil
}
