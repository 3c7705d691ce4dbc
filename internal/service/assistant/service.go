package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/analysis/risk"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/chat"
)

const systemPrompt = "You are BEAR AI, a privacy-first legal assistant running entirely on the " +
	"user's machine. You help with contract review, legal research and document questions. " +
	"Be precise, cite sources when you can, and always remind the user that you do not " +
	"provide legal advice."

const historyLimit = 10

// Service generates assistant replies. When Ark credentials are configured
// it runs an LLM chain; otherwise it falls back to a deterministic local
// heuristic so the bridge works offline.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the LLM chain when the configuration enables it.
// A nil-chain service is valid and serves fallback replies.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	if !cfg.Enabled() {
		logrus.Info("assistant: ark credentials absent, using local fallback replies")
		return &Service{}, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// LLMEnabled reports whether replies come from the configured model.
func (s *Service) LLMEnabled() bool {
	return s.chain != nil
}

// Reply produces the assistant turn for a conversation.
func (s *Service) Reply(ctx context.Context, history []chat.Message, userMessage string) (string, error) {
	if s.chain == nil {
		return s.fallbackReply(userMessage), nil
	}

	input := map[string]any{
		"system":  systemPrompt,
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run assistant chain: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"history": len(history),
		"length":  len(response.Content),
	}).Debug("assistant: generated reply")

	return response.Content, nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case "user":
			history = append(history, schema.UserMessage(msg.Content))
		case "assistant":
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}

// fallbackReply answers without a model: it surfaces clause risk signals
// found in the message and points at the local research tools.
func (s *Service) fallbackReply(userMessage string) string {
	findings, level := risk.Analyze(userMessage)

	var b strings.Builder
	if len(findings) > 0 {
		fmt.Fprintf(&b, "I noticed language related to %s", findings[0].Category)
		for _, f := range findings[1:] {
			fmt.Fprintf(&b, ", %s", f.Category)
		}
		fmt.Fprintf(&b, " (overall risk: %s). ", level)
		b.WriteString("Consider running a full document analysis for a clause-level report. ")
	} else {
		b.WriteString("I can help with contract review, legal research and your documents. ")
	}

	b.WriteString("You can search the local research library or upload a document for analysis. " +
		"Note that I provide information, not legal advice.")
	return b.String()
}
