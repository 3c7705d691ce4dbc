package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
)

func offlineService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), config.AIConfig{})
	if err != nil {
		t.Fatalf("expected fallback service, got %v", err)
	}
	if svc.LLMEnabled() {
		t.Fatal("expected LLM disabled without credentials")
	}
	return svc
}

func TestFallbackReplyMentionsRiskSignals(t *testing.T) {
	svc := offlineService(t)

	reply, err := svc.Reply(context.Background(), nil,
		"The contractor shall indemnify and hold harmless the company from all liability.")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.Contains(reply, "indemnification") && !strings.Contains(reply, "liability") {
		t.Fatalf("expected the reply to surface flagged categories, got %q", reply)
	}
	if !strings.Contains(reply, "not legal advice") {
		t.Fatalf("expected the standing disclaimer, got %q", reply)
	}
}

func TestFallbackReplyWithoutSignals(t *testing.T) {
	svc := offlineService(t)

	reply, err := svc.Reply(context.Background(), nil, "Good morning!")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if reply == "" {
		t.Fatal("expected a non-empty reply")
	}
}
