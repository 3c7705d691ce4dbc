package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

var (
	ErrNotConnected = errors.New("local transport is not connected")
	ErrClosed       = errors.New("local transport closed while waiting for a reply")
)

const dialTimeout = 10 * time.Second

// TokenSource supplies the session id attached to outgoing frames.
type TokenSource func() string

// WSClient is the local transport: a WebSocket connection to the loopback
// daemon with request/response frames correlated by id.
type WSClient struct {
	url   string
	token TokenSource

	writeMu sync.Mutex
	mu      sync.Mutex
	conn    *websocket.Conn
	done    chan struct{}

	pendingMu sync.Mutex
	pending   map[string]chan api.ResponseFrame
}

// NewWSClient prepares a client for the given ws:// URL. token may be nil.
func NewWSClient(url string, token TokenSource) *WSClient {
	if token == nil {
		token = func() string { return "" }
	}
	return &WSClient{
		url:     url,
		token:   token,
		pending: make(map[string]chan api.ResponseFrame),
	}
}

// Start dials the daemon and begins reading replies. Calling Start on a
// connected client is a no-op.
func (c *WSClient) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial local transport %s: %w", c.url, err)
	}

	c.conn = conn
	c.done = make(chan struct{})
	go c.readLoop(conn, c.done)

	logrus.WithField("url", c.url).Info("local transport connected")
	return nil
}

// Stop closes the connection. Safe to call repeatedly.
func (c *WSClient) Stop() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
}

// Connected reports whether the transport currently holds a live connection.
func (c *WSClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Invoke sends one command frame and waits for its correlated reply.
func (c *WSClient) Invoke(ctx context.Context, cmd api.Command, params json.RawMessage) (json.RawMessage, error) {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	if conn == nil {
		return nil, ErrNotConnected
	}

	frame := api.RequestFrame{
		ID:        uuid.NewString(),
		Command:   cmd,
		Params:    params,
		Token:     c.token(),
		Timestamp: time.Now().UnixMilli(),
	}

	ch := make(chan api.ResponseFrame, 1)
	c.pendingMu.Lock()
	c.pending[frame.ID] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, frame.ID)
		c.pendingMu.Unlock()
	}()

	c.writeMu.Lock()
	err := conn.WriteJSON(frame)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to write frame: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
		return nil, ErrClosed
	case reply := <-ch:
		if !reply.Success {
			if reply.Err != nil {
				return nil, reply.Err
			}
			return nil, errors.New("command failed without error detail")
		}
		return reply.Data, nil
	}
}

func (c *WSClient) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		var reply api.ResponseFrame
		if err := conn.ReadJSON(&reply); err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Warn("local transport read failed")
			}
			return
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[reply.ID]
		c.pendingMu.Unlock()
		if ok {
			ch <- reply
		}
	}
}
