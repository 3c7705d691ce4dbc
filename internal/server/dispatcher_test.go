package server

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
	chatmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/chat"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/assistant"
	authservice "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/auth"
	chatsvc "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/chat"
	docsvc "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/documents"
	researchsvc "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/research"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/storage"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "admin123",
		Environment:   "development",
	}
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	researchService, err := researchsvc.NewService(researchsvc.Seed())
	if err != nil {
		t.Fatalf("failed to build research index: %v", err)
	}
	assistantService, err := assistant.NewService(context.Background(), config.AIConfig{})
	if err != nil {
		t.Fatalf("failed to build assistant: %v", err)
	}

	return NewDispatcher(Services{
		Auth:      authservice.NewService(testAuthConfig()),
		Chat:      chatsvc.NewService(),
		Documents: docsvc.NewService(),
		Research:  researchService,
		Assistant: assistantService,
	})
}

func login(t *testing.T, d *Dispatcher) string {
	t.Helper()
	params := json.RawMessage(`{"username":"admin","password":"admin123"}`)
	data, apiErr := d.Dispatch(context.Background(), api.CmdAuthLogin, params, "")
	if apiErr != nil {
		t.Fatalf("login failed: %v", apiErr)
	}
	var result authmodel.LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unreadable login result: %v", err)
	}
	return result.Token
}

func TestLoginMintsLocalToken(t *testing.T) {
	d := newTestDispatcher(t)
	params := json.RawMessage(`{"username":"admin","password":"admin123"}`)

	data, apiErr := d.Dispatch(context.Background(), api.CmdAuthLogin, params, "")
	if apiErr != nil {
		t.Fatalf("expected login success, got %v", apiErr)
	}

	var result authmodel.LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unreadable result: %v", err)
	}
	if !result.Success || !strings.HasPrefix(result.Token, "local_") {
		t.Fatalf("expected a local_ token, got %+v", result)
	}
	if result.ExpiresIn != 3600000 {
		t.Fatalf("expected expiresIn 3600000, got %d", result.ExpiresIn)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	d := newTestDispatcher(t)
	params := json.RawMessage(`{"username":"admin","password":"wrong"}`)

	_, apiErr := d.Dispatch(context.Background(), api.CmdAuthLogin, params, "")
	if apiErr == nil || apiErr.Code != api.CodeNotAuthenticated {
		t.Fatalf("expected %s, got %v", api.CodeNotAuthenticated, apiErr)
	}
}

func TestProtectedCommandsRequireValidToken(t *testing.T) {
	d := newTestDispatcher(t)

	_, apiErr := d.Dispatch(context.Background(), api.CmdDocumentsList, nil, "")
	if apiErr == nil || apiErr.Code != api.CodeAuthExpired {
		t.Fatalf("expected %s without a token, got %v", api.CodeAuthExpired, apiErr)
	}

	_, apiErr = d.Dispatch(context.Background(), api.CmdDocumentsList, nil, "local_bogus_1")
	if apiErr == nil || apiErr.Code != api.CodeAuthExpired {
		t.Fatalf("expected %s with an unknown token, got %v", api.CodeAuthExpired, apiErr)
	}
}

func TestHealthIsOpen(t *testing.T) {
	d := newTestDispatcher(t)

	data, apiErr := d.Dispatch(context.Background(), api.CmdSystemHealth, nil, "")
	if apiErr != nil {
		t.Fatalf("expected health without a token, got %v", apiErr)
	}

	var payload struct {
		Status string `json:"status"`
		LLM    bool   `json:"llm"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Status != "healthy" {
		t.Fatalf("unexpected health payload: %s", data)
	}
	if payload.LLM {
		t.Fatal("expected llm disabled in tests")
	}
}

func TestRefreshRotatesGrant(t *testing.T) {
	d := newTestDispatcher(t)
	params := json.RawMessage(`{"username":"admin","password":"admin123"}`)
	data, _ := d.Dispatch(context.Background(), api.CmdAuthLogin, params, "")

	var first authmodel.LoginResult
	json.Unmarshal(data, &first)

	refreshParams, _ := json.Marshal(map[string]string{"refreshToken": first.RefreshToken})
	data, apiErr := d.Dispatch(context.Background(), api.CmdAuthRefresh, refreshParams, "")
	if apiErr != nil {
		t.Fatalf("expected refresh success, got %v", apiErr)
	}

	var second authmodel.LoginResult
	json.Unmarshal(data, &second)
	if second.Token == first.Token {
		t.Fatal("expected a rotated token")
	}

	// The old grant is revoked by the rotation.
	_, apiErr = d.Dispatch(context.Background(), api.CmdDocumentsList, nil, first.Token)
	if apiErr == nil || apiErr.Code != api.CodeAuthExpired {
		t.Fatalf("expected the old token rejected, got %v", apiErr)
	}
	if _, apiErr = d.Dispatch(context.Background(), api.CmdDocumentsList, nil, second.Token); apiErr != nil {
		t.Fatalf("expected the new token accepted, got %v", apiErr)
	}
}

func TestChatConversationFlow(t *testing.T) {
	d := newTestDispatcher(t)
	token := login(t, d)
	ctx := context.Background()

	data, apiErr := d.Dispatch(ctx, api.CmdChatCreate, json.RawMessage(`{"title":"Contract review"}`), token)
	if apiErr != nil {
		t.Fatalf("create failed: %v", apiErr)
	}
	var session chatmodel.Session
	json.Unmarshal(data, &session)
	if session.ID == "" || session.Title != "Contract review" {
		t.Fatalf("unexpected session: %+v", session)
	}

	sendParams, _ := json.Marshal(map[string]string{
		"sessionId": session.ID,
		"content":   "Please review the indemnification clause.",
	})
	if _, apiErr = d.Dispatch(ctx, api.CmdChatSend, sendParams, token); apiErr != nil {
		t.Fatalf("send failed: %v", apiErr)
	}

	data, apiErr = d.Dispatch(ctx, api.CmdChatRespond, sendParams, token)
	if apiErr != nil {
		t.Fatalf("respond failed: %v", apiErr)
	}
	var reply chatmodel.Message
	json.Unmarshal(data, &reply)
	if reply.Sender != "assistant" || reply.Content == "" {
		t.Fatalf("expected an assistant reply, got %+v", reply)
	}

	data, apiErr = d.Dispatch(ctx, api.CmdChatMessages, json.RawMessage(`{"sessionId":"`+session.ID+`"}`), token)
	if apiErr != nil {
		t.Fatalf("messages failed: %v", apiErr)
	}
	var transcript []chatmodel.Message
	json.Unmarshal(data, &transcript)
	if len(transcript) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(transcript))
	}
}

func TestChatRespondUnknownSession(t *testing.T) {
	d := newTestDispatcher(t)
	token := login(t, d)

	params := json.RawMessage(`{"sessionId":"missing","content":"hello"}`)
	_, apiErr := d.Dispatch(context.Background(), api.CmdChatRespond, params, token)
	if apiErr == nil || apiErr.Code != api.CodeNotFound {
		t.Fatalf("expected %s, got %v", api.CodeNotFound, apiErr)
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	d := newTestDispatcher(t)
	token := login(t, d)

	_, apiErr := d.Dispatch(context.Background(), api.CmdAnalysisAnalyze, json.RawMessage(`{}`), token)
	if apiErr == nil || apiErr.Code != api.CodeValidation {
		t.Fatalf("expected %s, got %v", api.CodeValidation, apiErr)
	}
}

func TestAnalyzeUploadedDocument(t *testing.T) {
	d := newTestDispatcher(t)
	token := login(t, d)
	ctx := context.Background()

	upload, _ := json.Marshal(map[string]string{
		"name":     "msa.txt",
		"mimeType": "text/plain",
		"content":  "Company shall indemnify and hold harmless the client from all liability.",
	})
	data, apiErr := d.Dispatch(ctx, api.CmdDocumentsUpload, upload, token)
	if apiErr != nil {
		t.Fatalf("upload failed: %v", apiErr)
	}
	var doc struct {
		ID string `json:"id"`
	}
	json.Unmarshal(data, &doc)

	data, apiErr = d.Dispatch(ctx, api.CmdAnalysisAnalyze, json.RawMessage(`{"documentId":"`+doc.ID+`"}`), token)
	if apiErr != nil {
		t.Fatalf("analyze failed: %v", apiErr)
	}
	var report struct {
		RiskLevel string `json:"riskLevel"`
		Findings  []struct {
			Category string `json:"category"`
		} `json:"findings"`
	}
	json.Unmarshal(data, &report)
	if len(report.Findings) == 0 {
		t.Fatalf("expected findings for indemnification language, got %s", data)
	}
}

func TestUnknownCommand(t *testing.T) {
	d := newTestDispatcher(t)
	token := login(t, d)

	_, apiErr := d.Dispatch(context.Background(), api.Command("nonsense.command"), nil, token)
	if apiErr == nil || apiErr.Code != api.CodeUnknownCommand {
		t.Fatalf("expected %s, got %v", api.CodeUnknownCommand, apiErr)
	}
}

func TestDispatchRecordsActivity(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()

	researchService, _ := researchsvc.NewService(researchsvc.Seed())
	assistantService, _ := assistant.NewService(context.Background(), config.AIConfig{})
	d := NewDispatcher(Services{
		Auth:      authservice.NewService(testAuthConfig()),
		Chat:      chatsvc.NewService(),
		Documents: docsvc.NewService(),
		Research:  researchService,
		Assistant: assistantService,
		Store:     store,
	})

	d.Dispatch(context.Background(), api.CmdSystemHealth, nil, "")
	d.Dispatch(context.Background(), api.CmdDocumentsList, nil, "")

	entries, err := store.RecentActivity(10)
	if err != nil {
		t.Fatalf("failed to read activity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(entries))
	}

	total, failed, err := store.ActivityCounts()
	if err != nil {
		t.Fatalf("failed to count activity: %v", err)
	}
	if total != 2 || failed != 1 {
		t.Fatalf("expected total 2 / failed 1, got %d / %d", total, failed)
	}
}
