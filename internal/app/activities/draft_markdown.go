package activities

import (
	"context"
	"errors"
	"strings"

	"github.com/xenking/md2pptx/internal/domain"
)

type DraftMarkdownRequest struct {
	Prompt string
}

type DraftMarkdownResponse struct {
	Markdown string
}

func (a *Activities) DraftMarkdown(ctx context.Context, req DraftMarkdownRequest) (DraftMarkdownResponse, error) {
	answer, err := a.GPTClient.Ask(ctx, domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: req.Prompt})
	if err != nil {
		return DraftMarkdownResponse{}, err
	}
	md := stripCodeFence(answer.LastAssistantMessage())
	if md == "" {
		return DraftMarkdownResponse{}, errors.New("empty draft")
	}
	return DraftMarkdownResponse{Markdown: md}, nil
}

// stripCodeFence unwraps an answer that was sent as a single fenced block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		return s
	}
	return strings.TrimSpace(body)
}
