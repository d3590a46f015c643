package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/xenking/md2pptx/internal/domain"
)

// GPTClient drafts slide decks in Markdown.
type GPTClient struct {
	*openai.Client
	model string
}

var _ domain.GPTClient = (*GPTClient)(nil)

func NewGPTClient(token, model string) *GPTClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &GPTClient{
		Client: openai.NewClient(token),
		model:  model,
	}
}

var systemPrompt = openai.ChatCompletionMessage{
	Role: openai.ChatMessageRoleSystem,
	Content: `You write slide decks in Markdown.
Start every slide with a level-2 heading and keep slides short: a few bullet points, at most one table or code block.
Separate slides with a line containing only "---".
Answer with the Markdown only, without any surrounding code fence.`,
}

// maxDraftTokens keeps a drafted deck within a few dozen slides.
const maxDraftTokens = 4096

func (c *GPTClient) Ask(ctx context.Context, msgs ...domain.ChatMessage) (*domain.ChatAnswer, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(msgs)+1),
		MaxTokens:   maxDraftTokens,
		Temperature: 0.4,
	}
	req.Messages = append(req.Messages, systemPrompt)
	for _, msg := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion: no choices returned")
	}

	answer := &domain.ChatAnswer{Request: msgs}
	for _, choice := range resp.Choices {
		answer.Response = append(answer.Response, domain.ChatMessage{
			Role:    choice.Message.Role,
			Content: choice.Message.Content,
		})
	}
	return answer, nil
}
