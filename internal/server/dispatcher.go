package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/analysis/risk"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/analysis"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
	chatmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/chat"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/document"
	researchmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/research"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/assistant"
	authservice "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/auth"
	chatsvc "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/chat"
	docsvc "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/documents"
	researchsvc "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/service/research"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/storage"
)

// Services groups everything the dispatcher can reach.
type Services struct {
	Auth      *authservice.Service
	Chat      *chatsvc.Service
	Documents *docsvc.Service
	Research  *researchsvc.Service
	Assistant *assistant.Service
	Store     *storage.Store
}

// Dispatcher executes commands on behalf of both the WebSocket and the HTTP
// fallback surfaces, so the two stay behaviorally identical.
type Dispatcher struct {
	svc Services
}

// NewDispatcher wires the command table to the supplied services.
func NewDispatcher(svc Services) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// openCommands may be invoked without a valid session token.
var openCommands = map[api.Command]bool{
	api.CmdAuthLogin:    true,
	api.CmdAuthRefresh:  true,
	api.CmdAuthValidate: true,
	api.CmdSystemHealth: true,
}

// Dispatch runs one command. The token is the bearer value presented by the
// caller; it is validated for everything outside the open set.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd api.Command, params json.RawMessage, token string) (json.RawMessage, *api.APIError) {
	started := time.Now()
	data, apiErr := d.dispatch(ctx, cmd, params, token)
	d.record(cmd, apiErr, time.Since(started))
	return data, apiErr
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd api.Command, params json.RawMessage, token string) (json.RawMessage, *api.APIError) {
	if !openCommands[cmd] && !d.svc.Auth.Validate(ctx, token) {
		return nil, api.NewError(api.CodeAuthExpired, "session is missing or expired")
	}

	switch cmd {
	case api.CmdAuthLogin:
		return d.handleLogin(ctx, params)
	case api.CmdAuthLogout:
		return marshal(map[string]bool{"success": d.svc.Auth.Revoke(ctx, token)})
	case api.CmdAuthRefresh:
		return d.handleRefresh(ctx, params)
	case api.CmdAuthValidate:
		return marshal(authmodel.ValidateResult{Valid: d.svc.Auth.Validate(ctx, token)})
	case api.CmdSystemHealth:
		return d.handleHealth(ctx)
	case api.CmdChatSessions:
		return marshal(d.svc.Chat.ListSessions(ctx))
	case api.CmdChatCreate:
		return d.handleChatCreate(ctx, params)
	case api.CmdChatSend:
		return d.handleChatSend(ctx, params)
	case api.CmdChatRespond:
		return d.handleChatRespond(ctx, params)
	case api.CmdChatMessages:
		return d.handleChatMessages(ctx, params)
	case api.CmdDocumentsList:
		return marshal(d.svc.Documents.List(ctx))
	case api.CmdDocumentsUpload:
		return d.handleDocumentUpload(ctx, params)
	case api.CmdDocumentsGet:
		return d.handleDocumentGet(ctx, params)
	case api.CmdDocumentsDelete:
		return d.handleDocumentDelete(ctx, params)
	case api.CmdResearchSearch:
		return d.handleResearchSearch(ctx, params)
	case api.CmdAnalysisAnalyze:
		return d.handleAnalyze(ctx, params)
	default:
		return nil, api.NewError(api.CodeUnknownCommand, "unknown command: "+string(cmd))
	}
}

func (d *Dispatcher) handleLogin(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var creds authmodel.Credentials
	if err := decode(params, &creds); err != nil {
		return nil, err
	}

	result, err := d.svc.Auth.Login(ctx, creds)
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		return nil, api.NewError(api.CodeNotAuthenticated, "invalid credentials")
	}
	if errors.Is(err, authservice.ErrDemoLoginDisabled) {
		return nil, api.NewError(api.CodeNotAuthenticated, "demo login is disabled in this environment")
	}
	if err != nil {
		return nil, api.NewError(api.CodeInternal, err.Error())
	}
	return marshal(result)
}

func (d *Dispatcher) handleRefresh(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decode(params, &payload); err != nil {
		return nil, err
	}

	result, err := d.svc.Auth.Refresh(ctx, payload.RefreshToken)
	if errors.Is(err, authservice.ErrSessionNotFound) {
		return nil, api.NewError(api.CodeAuthExpired, "refresh token is not valid")
	}
	if err != nil {
		return nil, api.NewError(api.CodeInternal, err.Error())
	}
	return marshal(result)
}

func (d *Dispatcher) handleHealth(_ context.Context) (json.RawMessage, *api.APIError) {
	payload := map[string]any{
		"status":    "healthy",
		"llm":       d.svc.Assistant.LLMEnabled(),
		"timestamp": time.Now().UTC(),
	}

	if d.svc.Store != nil {
		total, failed, err := d.svc.Store.ActivityCounts()
		if err == nil {
			payload["activity"] = map[string]int64{"total": total, "failed": failed}
		}
	}

	return marshal(payload)
}

func (d *Dispatcher) handleChatCreate(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var payload struct {
		Title string `json:"title"`
	}
	if err := decode(params, &payload); err != nil {
		return nil, err
	}

	session, err := d.svc.Chat.CreateSession(ctx, payload.Title)
	if err != nil {
		return nil, api.NewError(api.CodeInternal, err.Error())
	}
	return marshal(session)
}

func (d *Dispatcher) handleChatSend(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Content   string `json:"content"`
		Sender    string `json:"sender"`
	}
	if err := decode(params, &payload); err != nil {
		return nil, err
	}

	if payload.Sender == "" {
		payload.Sender = "user"
	}

	message, err := d.svc.Chat.SaveMessage(ctx, chatmodel.Message{
		SessionID: payload.SessionID,
		Sender:    payload.Sender,
		Content:   payload.Content,
	})
	if err != nil {
		return nil, chatError(err)
	}
	return marshal(message)
}

func (d *Dispatcher) handleChatRespond(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Content   string `json:"content"`
	}
	if err := decode(params, &payload); err != nil {
		return nil, err
	}

	transcript, err := d.svc.Chat.LoadTranscript(ctx, payload.SessionID)
	if err != nil {
		return nil, chatError(err)
	}

	reply, err := d.svc.Assistant.Reply(ctx, transcript, payload.Content)
	if err != nil {
		logrus.WithError(err).Error("assistant reply failed")
		return nil, api.NewError(api.CodeInternal, "assistant reply failed")
	}

	message, err := d.svc.Chat.SaveMessage(ctx, chatmodel.Message{
		SessionID: payload.SessionID,
		Sender:    "assistant",
		Content:   reply,
	})
	if err != nil {
		return nil, chatError(err)
	}
	return marshal(message)
}

func (d *Dispatcher) handleChatMessages(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := decode(params, &payload); err != nil {
		return nil, err
	}

	transcript, err := d.svc.Chat.LoadTranscript(ctx, payload.SessionID)
	if err != nil {
		return nil, chatError(err)
	}
	return marshal(transcript)
}

func (d *Dispatcher) handleDocumentUpload(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var req document.UploadRequest
	if err := decode(params, &req); err != nil {
		return nil, err
	}

	doc, err := d.svc.Documents.Upload(ctx, req)
	if errors.Is(err, docsvc.ErrNameRequired) {
		return nil, api.NewErrorWithDetails(api.CodeValidation, "document name is required",
			map[string]any{"field": "name"})
	}
	if err != nil {
		return nil, api.NewError(api.CodeInternal, err.Error())
	}
	return marshal(doc)
}

func (d *Dispatcher) handleDocumentGet(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	id, apiErr := decodeID(params)
	if apiErr != nil {
		return nil, apiErr
	}

	doc, err := d.svc.Documents.Get(ctx, id)
	if errors.Is(err, docsvc.ErrNotFound) {
		return nil, api.NewError(api.CodeNotFound, "document not found")
	}
	if err != nil {
		return nil, api.NewError(api.CodeInternal, err.Error())
	}
	return marshal(doc)
}

func (d *Dispatcher) handleDocumentDelete(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	id, apiErr := decodeID(params)
	if apiErr != nil {
		return nil, apiErr
	}

	err := d.svc.Documents.Delete(ctx, id)
	if errors.Is(err, docsvc.ErrNotFound) {
		return nil, api.NewError(api.CodeNotFound, "document not found")
	}
	if err != nil {
		return nil, api.NewError(api.CodeInternal, err.Error())
	}
	return marshal(map[string]bool{"deleted": true})
}

func (d *Dispatcher) handleResearchSearch(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var query researchmodel.Query
	if err := decode(params, &query); err != nil {
		return nil, err
	}

	result, err := d.svc.Research.Search(ctx, query)
	if errors.Is(err, researchsvc.ErrEmptyQuery) {
		return nil, api.NewErrorWithDetails(api.CodeValidation, "search query is required",
			map[string]any{"field": "text"})
	}
	if err != nil {
		return nil, api.NewError(api.CodeInternal, err.Error())
	}
	return marshal(result)
}

func (d *Dispatcher) handleAnalyze(ctx context.Context, params json.RawMessage) (json.RawMessage, *api.APIError) {
	var req analysis.Request
	if err := decode(params, &req); err != nil {
		return nil, err
	}

	text := req.Text
	if req.DocumentID != "" {
		doc, err := d.svc.Documents.Get(ctx, req.DocumentID)
		if errors.Is(err, docsvc.ErrNotFound) {
			return nil, api.NewError(api.CodeNotFound, "document not found")
		}
		if err != nil {
			return nil, api.NewError(api.CodeInternal, err.Error())
		}
		text = doc.Content
	}

	if text == "" {
		return nil, api.NewErrorWithDetails(api.CodeValidation, "either documentId or text is required",
			map[string]any{"fields": []string{"documentId", "text"}})
	}

	findings, level := risk.Analyze(text)
	report := analysis.Report{
		DocumentID: req.DocumentID,
		RiskLevel:  level,
		Findings:   make([]analysis.Finding, 0, len(findings)),
		AnalyzedAt: time.Now().UTC(),
	}
	for _, f := range findings {
		report.Findings = append(report.Findings, analysis.Finding{
			Category: string(f.Category),
			Score:    f.Score,
			Terms:    f.Terms,
		})
	}
	return marshal(report)
}

func (d *Dispatcher) record(cmd api.Command, apiErr *api.APIError, elapsed time.Duration) {
	if d.svc.Store == nil {
		return
	}
	status := "ok"
	if apiErr != nil {
		status = apiErr.Code
	}
	if err := d.svc.Store.RecordActivity(string(cmd), status, elapsed); err != nil {
		logrus.WithError(err).Warn("failed to record activity")
	}
}

func chatError(err error) *api.APIError {
	switch {
	case errors.Is(err, chatsvc.ErrSessionNotFound):
		return api.NewError(api.CodeNotFound, "chat session not found")
	case errors.Is(err, chatsvc.ErrEmptyContent):
		return api.NewErrorWithDetails(api.CodeValidation, "message content is required",
			map[string]any{"field": "content"})
	default:
		return api.NewError(api.CodeInternal, err.Error())
	}
}

func decode(params json.RawMessage, dst any) *api.APIError {
	if len(params) == 0 {
		params = []byte("{}")
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return api.NewError(api.CodeInvalidRequest, "invalid request payload")
	}
	return nil
}

func decodeID(params json.RawMessage) (string, *api.APIError) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := decode(params, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", api.NewErrorWithDetails(api.CodeValidation, "id is required",
			map[string]any{"field": "id"})
	}
	return payload.ID, nil
}

func marshal(v any) (json.RawMessage, *api.APIError) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, api.NewError(api.CodeInternal, "failed to encode response")
	}
	return data, nil
}
