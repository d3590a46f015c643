package domain

import (
	"context"
)

// GPTClient drafts text from a conversation.
type GPTClient interface {
	Ask(ctx context.Context, msgs ...ChatMessage) (*ChatAnswer, error)
}

type ChatAnswer struct {
	Request  []ChatMessage
	Response []ChatMessage
}

// LastAssistantMessage returns the content of the last assistant reply.
func (a *ChatAnswer) LastAssistantMessage() string {
	if a == nil {
		return ""
	}
	for i := len(a.Response) - 1; i >= 0; i-- {
		if a.Response[i].Role == ChatMessageRoleAssistant {
			return a.Response[i].Content
		}
	}
	return ""
}

type ChatMessage struct {
	Role    string
	Content string
}

const (
	ChatMessageRoleSystem    = "system"
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)
