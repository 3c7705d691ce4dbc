package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// WSHandler serves the frame-based command endpoint. Each connection gets
// its own sliding-window rate limit.
type WSHandler struct {
	dispatcher *Dispatcher
	limit      int
	window     time.Duration
	upgrader   websocket.Upgrader
}

// NewWSHandler builds the WebSocket command handler.
func NewWSHandler(dispatcher *Dispatcher, limit int, window time.Duration) *WSHandler {
	return &WSHandler{
		dispatcher: dispatcher,
		limit:      limit,
		window:     window,
		upgrader: websocket.Upgrader{
			// The daemon binds loopback only; cross-origin checks add nothing here.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWS upgrades the connection and serves request frames until the peer
// disconnects.
func (h *WSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	logrus.WithField("remote", remote).Info("websocket client connected")

	limiter := newSlidingWindow(h.limit, h.window)

	for {
		var frame api.RequestFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("remote", remote).Warn("websocket read failed")
			}
			return
		}

		var reply api.ResponseFrame
		if allowed, _, reset := limiter.Allow(); !allowed {
			retryAfter := int(time.Until(reset).Seconds()) + 1
			reply = api.NewErrorFrame(frame.ID, api.NewErrorWithDetails(
				api.CodeRateLimited,
				"rate limit exceeded",
				map[string]any{"retryAfter": retryAfter},
			))
		} else if data, apiErr := h.dispatcher.Dispatch(r.Context(), frame.Command, frame.Params, frame.Token); apiErr != nil {
			reply = api.NewErrorFrame(frame.ID, apiErr)
		} else {
			reply = api.NewResponseFrame(frame.ID, data)
		}

		if err := conn.WriteJSON(reply); err != nil {
			logrus.WithError(err).WithField("remote", remote).Warn("websocket write failed")
			return
		}
	}
}
