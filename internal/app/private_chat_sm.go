package app

import (
	"context"
	"log/slog"

	"github.com/xenking/md2pptx/internal/app/workflows"
	"github.com/xenking/md2pptx/internal/domain"
	"github.com/xenking/md2pptx/pkg/tgrouter"
)

type ChatMessage struct {
	Message   string
	MessageID int
}

func newChatMessage(u *tgrouter.Update) *ChatMessage {
	return &ChatMessage{Message: u.Message.Text, MessageID: u.Message.MessageID}
}

// PrivateChatStateMachine keeps what a chat is waiting for and its deck
// preferences.
type PrivateChatStateMachine struct {
	*Service
	domain.StateMachine[*ChatMessage]
	chatID int64
	title  string
	theme  string

	WorkflowID    string
	WorkflowRunID string
}

func (s *Service) NewPrivateChatStateMachine(chatID int64) *PrivateChatStateMachine {
	sm := &PrivateChatStateMachine{
		Service: s,
		chatID:  chatID,
		theme:   domain.DefaultTheme,
	}
	sm.StateMachine = domain.NewStateMachine[*ChatMessage](sm.StateNoop)
	return sm
}

func (sm *PrivateChatStateMachine) StateNoop(ctx context.Context, msg *ChatMessage) (domain.StateFunc[*ChatMessage], error) {
	err := sm.telegram.SendMessage(ctx, sm.chatID, "Use /pptx to convert Markdown or /draft to have a deck written for you.")
	return sm.StateNoop, err
}

func (sm *PrivateChatStateMachine) StateAskMarkdown(ctx context.Context, msg *ChatMessage) (domain.StateFunc[*ChatMessage], error) {
	err := sm.telegram.SendMessage(ctx, sm.chatID, "Send me the Markdown for your presentation.")
	if err != nil {
		return nil, err
	}
	return sm.StateListenMarkdown, nil
}

func (sm *PrivateChatStateMachine) StateListenMarkdown(ctx context.Context, msg *ChatMessage) (domain.StateFunc[*ChatMessage], error) {
	err := sm.startDeck(ctx, workflows.DeckSessionInput{
		Title:    sm.title,
		Markdown: msg.Message,
	})
	return sm.StateNoop, err
}

func (sm *PrivateChatStateMachine) StateAskPrompt(ctx context.Context, msg *ChatMessage) (domain.StateFunc[*ChatMessage], error) {
	err := sm.telegram.SendMessage(ctx, sm.chatID, "Describe the presentation you need.")
	if err != nil {
		return nil, err
	}
	return sm.StateListenPrompt, nil
}

func (sm *PrivateChatStateMachine) StateListenPrompt(ctx context.Context, msg *ChatMessage) (domain.StateFunc[*ChatMessage], error) {
	err := sm.startDeck(ctx, workflows.DeckSessionInput{
		Title:  sm.title,
		Prompt: msg.Message,
	})
	return sm.StateNoop, err
}

// StateCancel drops pending input and cancels the last deck session if it is
// still running.
func (sm *PrivateChatStateMachine) StateCancel(ctx context.Context, msg *ChatMessage) (domain.StateFunc[*ChatMessage], error) {
	sm.title = ""
	if sm.WorkflowID != "" {
		err := sm.temporal.CancelWorkflow(ctx, sm.WorkflowID, sm.WorkflowRunID)
		if err != nil {
			sm.logger.WarnContext(ctx, "cancel deck session",
				slog.String("workflow_id", sm.WorkflowID),
				slog.String("error", err.Error()),
			)
		}
		sm.WorkflowID, sm.WorkflowRunID = "", ""
	}
	err := sm.telegram.SendMessage(ctx, sm.chatID, "Canceled.")
	return sm.StateNoop, err
}

// startDeck launches a DeckSession for this chat with its current theme.
func (sm *PrivateChatStateMachine) startDeck(ctx context.Context, input workflows.DeckSessionInput) error {
	input.ChatID = sm.chatID
	input.Theme = sm.theme
	run, err := sm.executeDeckSession(ctx, input)
	if err != nil {
		return err
	}
	sm.WorkflowID = run.GetID()
	sm.WorkflowRunID = run.GetRunID()
	sm.title = ""
	sm.logger.InfoContext(ctx, "deck session started",
		slog.Int64("chat_id", sm.chatID),
		slog.String("workflow_id", sm.WorkflowID),
	)
	return sm.telegram.SendMessage(ctx, sm.chatID, "Generating your presentation...")
}
