package chat

import "time"

// Message persists individual turns for the history view.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SendResult pairs the persisted user turn with the assistant reply. The two
// are returned together; callers never observe a partial exchange.
type SendResult struct {
	UserMessage      Message `json:"userMessage"`
	AssistantMessage Message `json:"assistantMessage"`
}
