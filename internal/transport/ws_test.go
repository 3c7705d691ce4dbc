package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// frameServer answers every request frame through fn, concurrently safe.
func frameServer(t *testing.T, fn func(api.RequestFrame) api.ResponseFrame) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var writeMu sync.Mutex
		for {
			var frame api.RequestFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			reply := fn(frame)
			writeMu.Lock()
			err = conn.WriteJSON(reply)
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestInvokeCorrelatesReplyByID(t *testing.T) {
	srv := frameServer(t, func(frame api.RequestFrame) api.ResponseFrame {
		if frame.Command != api.CmdSystemHealth {
			t.Errorf("unexpected command %s", frame.Command)
		}
		return api.NewResponseFrame(frame.ID, []byte(`{"status":"healthy"}`))
	})
	defer srv.Close()

	client := NewWSClient(wsURL(srv), nil)
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer client.Stop()

	if !client.Connected() {
		t.Fatal("expected connected after start")
	}

	data, err := client.Invoke(context.Background(), api.CmdSystemHealth, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if string(data) != `{"status":"healthy"}` {
		t.Fatalf("unexpected payload: %s", data)
	}
}

func TestInvokeAttachesSessionToken(t *testing.T) {
	srv := frameServer(t, func(frame api.RequestFrame) api.ResponseFrame {
		if frame.Token != "local_abc_1" {
			t.Errorf("expected token on the frame, got %q", frame.Token)
		}
		return api.NewResponseFrame(frame.ID, []byte(`[]`))
	})
	defer srv.Close()

	client := NewWSClient(wsURL(srv), func() string { return "local_abc_1" })
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer client.Stop()

	if _, err := client.Invoke(context.Background(), api.CmdDocumentsList, nil); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestInvokeSurfacesErrorFrames(t *testing.T) {
	srv := frameServer(t, func(frame api.RequestFrame) api.ResponseFrame {
		return api.NewErrorFrame(frame.ID, api.NewError(api.CodeAuthExpired, "session is missing or expired"))
	})
	defer srv.Close()

	client := NewWSClient(wsURL(srv), nil)
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer client.Stop()

	_, err := client.Invoke(context.Background(), api.CmdDocumentsList, nil)
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != api.CodeAuthExpired {
		t.Fatalf("expected the error frame surfaced as an APIError, got %v", err)
	}
}

func TestInvokeWithoutConnection(t *testing.T) {
	client := NewWSClient("ws://127.0.0.1:1/ws", nil)
	if _, err := client.Invoke(context.Background(), api.CmdSystemHealth, nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestStartFailsWhenDaemonAbsent(t *testing.T) {
	client := NewWSClient("ws://127.0.0.1:1/ws", nil)
	if err := client.Start(context.Background()); err == nil {
		t.Fatal("expected dial failure")
	}
	if client.Connected() {
		t.Fatal("expected not connected after a failed start")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	srv := frameServer(t, func(frame api.RequestFrame) api.ResponseFrame {
		return api.NewResponseFrame(frame.ID, nil)
	})
	defer srv.Close()

	client := NewWSClient(wsURL(srv), nil)
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	client.Stop()
	client.Stop()
	if client.Connected() {
		t.Fatal("expected disconnected after stop")
	}
}
