package facade

import (
	"context"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/chat"
)

// Chat exposes conversation operations.
type Chat struct {
	inv  Invoker
	auth AuthState
}

// NewChat builds the chat facade.
func NewChat(inv Invoker, auth AuthState) *Chat {
	return &Chat{inv: inv, auth: auth}
}

// Sessions lists conversation threads.
func (c *Chat) Sessions(ctx context.Context) ([]chat.Session, error) {
	if err := requireAuth(c.auth); err != nil {
		return nil, err
	}
	return invokeInto[[]chat.Session](ctx, c.inv, api.CmdChatSessions, nil)
}

// Create starts a new conversation thread.
func (c *Chat) Create(ctx context.Context, title string) (chat.Session, error) {
	if err := requireAuth(c.auth); err != nil {
		return chat.Session{}, err
	}
	return invokeInto[chat.Session](ctx, c.inv, api.CmdChatCreate, map[string]string{"title": title})
}

// Messages returns the transcript for a session.
func (c *Chat) Messages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	if err := requireAuth(c.auth); err != nil {
		return nil, err
	}
	return invokeInto[[]chat.Message](ctx, c.inv, api.CmdChatMessages, map[string]string{"sessionId": sessionID})
}

// Send persists the user's message and then requests the assistant reply.
// The two steps are strictly ordered and the pair is returned as one
// result; a failure in the second step surfaces as a whole-operation error
// with no partial result exposed.
func (c *Chat) Send(ctx context.Context, sessionID, content string) (chat.SendResult, error) {
	if err := requireAuth(c.auth); err != nil {
		return chat.SendResult{}, err
	}

	userMsg, err := invokeInto[chat.Message](ctx, c.inv, api.CmdChatSend, map[string]string{
		"sessionId": sessionID,
		"content":   content,
		"sender":    "user",
	})
	if err != nil {
		return chat.SendResult{}, err
	}

	assistantMsg, err := invokeInto[chat.Message](ctx, c.inv, api.CmdChatRespond, map[string]string{
		"sessionId": sessionID,
		"content":   content,
	})
	if err != nil {
		return chat.SendResult{}, err
	}

	return chat.SendResult{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}
