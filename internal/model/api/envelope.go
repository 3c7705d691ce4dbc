package api

import (
	"encoding/json"
	"time"
)

// Envelope is the HTTP response shape: exactly one of Data or Err is set.
type Envelope struct {
	Data json.RawMessage `json:"data,omitempty"`
	Err  *APIError       `json:"error,omitempty"`
	Meta *Meta           `json:"meta,omitempty"`
}

// Meta carries per-request advisory information.
type Meta struct {
	RequestID string         `json:"requestId,omitempty"`
	RateLimit *RateLimitInfo `json:"rateLimit,omitempty"`
}

// RateLimitInfo is derived from response headers on every call. Advisory
// only, never persisted.
type RateLimitInfo struct {
	Limit      int   `json:"limit"`
	Remaining  int   `json:"remaining"`
	Reset      int64 `json:"reset"`
	RetryAfter int   `json:"retryAfter,omitempty"`
}

// RequestFrame is a command submission over the local WebSocket transport.
// Token carries the caller's session id when one is held, mirroring the
// bearer header on the HTTP surface.
type RequestFrame struct {
	ID        string          `json:"id"`
	Command   Command         `json:"command"`
	Params    json.RawMessage `json:"params,omitempty"`
	Token     string          `json:"token,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ResponseFrame is the WebSocket reply matched to a RequestFrame by ID.
type ResponseFrame struct {
	ID        string          `json:"id"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Err       *APIError       `json:"error,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewResponseFrame builds a success reply for the given request id.
func NewResponseFrame(id string, data json.RawMessage) ResponseFrame {
	return ResponseFrame{
		ID:        id,
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewErrorFrame builds a failure reply for the given request id.
func NewErrorFrame(id string, err *APIError) ResponseFrame {
	return ResponseFrame{
		ID:        id,
		Success:   false,
		Err:       err,
		Timestamp: time.Now().UnixMilli(),
	}
}
