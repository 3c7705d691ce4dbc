package chat

import (
	"context"
	"testing"
	"time"

	chatmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/chat"
)

func TestCreateSessionDefaultsTitle(t *testing.T) {
	svc := NewService()

	session, err := svc.CreateSession(context.Background(), "  ")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if session.Title != "New conversation" {
		t.Fatalf("expected placeholder title, got %q", session.Title)
	}
	if session.ID == "" {
		t.Fatal("expected an id assigned")
	}
}

func TestListSessionsOrdersByRecency(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	first, _ := svc.CreateSession(ctx, "first")
	second, _ := svc.CreateSession(ctx, "second")

	// Touching the first session moves it to the front.
	_, err := svc.SaveMessage(ctx, chatmodel.Message{
		SessionID: first.ID,
		Sender:    "user",
		Content:   "hello",
		CreatedAt: time.Now().UTC().Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("expected save success, got %v", err)
	}

	sessions := svc.ListSessions(ctx)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != first.ID || sessions[1].ID != second.ID {
		t.Fatalf("expected most recently updated first, got %s then %s", sessions[0].ID, sessions[1].ID)
	}
}

func TestSaveMessageValidation(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, "test")

	if _, err := svc.SaveMessage(ctx, chatmodel.Message{SessionID: session.ID, Sender: "user", Content: "  "}); err != ErrEmptyContent {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := svc.SaveMessage(ctx, chatmodel.Message{SessionID: "missing", Sender: "user", Content: "hi"}); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSaveMessageAssignsIDAndTimestamps(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, "test")

	message, err := svc.SaveMessage(ctx, chatmodel.Message{
		SessionID: session.ID,
		Sender:    "user",
		Content:   "hello",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if message.ID == "" || message.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp assigned, got %+v", message)
	}

	updated, _ := svc.GetSession(ctx, session.ID)
	if !updated.UpdatedAt.Equal(message.CreatedAt) {
		t.Fatal("expected the session updated time to track the last message")
	}
}

func TestLoadTranscriptReturnsCopy(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, "test")
	svc.SaveMessage(ctx, chatmodel.Message{SessionID: session.ID, Sender: "user", Content: "one"})
	svc.SaveMessage(ctx, chatmodel.Message{SessionID: session.ID, Sender: "assistant", Content: "two"})

	transcript, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(transcript))
	}

	// Mutating the returned slice must not affect the stored transcript.
	transcript[0].Content = "mutated"
	fresh, _ := svc.LoadTranscript(ctx, session.ID)
	if fresh[0].Content != "one" {
		t.Fatal("expected stored transcript unchanged")
	}

	if _, err := svc.LoadTranscript(ctx, "missing"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
