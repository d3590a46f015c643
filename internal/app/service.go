package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/xenking/md2pptx/internal/app/workflows"
	"github.com/xenking/md2pptx/internal/domain"
	"github.com/xenking/md2pptx/pkg/tgrouter"
)

var documentExtensions = []string{"md", "markdown", "txt"}

type Config struct {
	AllowedChats []int64
}

// Service is the Telegram front end: it collects Markdown, prompts and
// documents from private chats and starts a DeckSession workflow for each.
type Service struct {
	telegram domain.TelegramClient
	temporal domain.WorkflowClient
	themes   domain.ThemeProvider
	logger   *slog.Logger
	cfg      Config
	dialogs  map[int64]*PrivateChatStateMachine
	mu       sync.Mutex

	commandsOnce sync.Once
}

func NewService(
	telegramClient domain.TelegramClient,
	temporalClient domain.WorkflowClient,
	themes domain.ThemeProvider,
	logger *slog.Logger,
	cfg Config,
) *Service {
	return &Service{
		telegram: telegramClient,
		temporal: temporalClient,
		themes:   themes,
		dialogs:  make(map[int64]*PrivateChatStateMachine),
		logger:   logger.With(slog.String("component", "bot-service")),
		cfg:      cfg,
	}
}

func (s *Service) PrivateChatRoutes() tgrouter.Route {
	return tgrouter.NewGroup(tgrouter.And(tgrouter.IsPrivate(), tgrouter.IsChatAllowed(s.cfg.AllowedChats...)),
		tgrouter.NewCommandRoute("/start /help", nil, tgrouter.HandlerFunc(s.handleStartCommand)),
		tgrouter.NewCommandRoute("/pptx", nil, tgrouter.HandlerFunc(s.handlePptxCommand)),
		tgrouter.NewCommandRoute("/draft", nil, tgrouter.HandlerFunc(s.handleDraftCommand)),
		tgrouter.NewCommandRoute("/theme", nil, tgrouter.HandlerFunc(s.handleThemeCommand)),
		tgrouter.NewCommandRoute("/cancel", nil, tgrouter.HandlerFunc(s.handleCancelCommand)),
		tgrouter.NewDocumentRoute(documentExtensions, nil, tgrouter.HandlerFunc(s.handleDocument)),
		tgrouter.NewMessageRoute(tgrouter.HasText(), tgrouter.HandlerFunc(s.handleText)),
	)
}

var botCommands = []domain.BotCommand{
	{Command: "/pptx", Description: "Convert the next message from Markdown to PPTX"},
	{Command: "/draft", Description: "Describe a deck and let GPT write it"},
	{Command: "/theme", Description: "Show or change the deck theme"},
	{Command: "/cancel", Description: "Cancel the current request"},
}

const helpText = `Send me Markdown and I'll turn it into a PowerPoint deck.

/pptx [title] - the next message is converted as Markdown
/draft [title] - describe the deck and GPT drafts it
/theme [name] - show or change the theme
/cancel - stop waiting for input

You can also send a .md, .markdown or .txt file.
Separate slides with a line of "---" or start them with # or ## headings.`

func (s *Service) handleStartCommand(ctx context.Context, u *tgrouter.Update) error {
	err := s.telegram.SendMessage(ctx, u.ChatID(), helpText)
	if err != nil {
		return err
	}
	s.commandsOnce.Do(func() {
		err = s.telegram.SetBotCommands(ctx, botCommands)
	})
	return err
}

func (s *Service) handlePptxCommand(ctx context.Context, u *tgrouter.Update) error {
	sm := s.dialog(u.ChatID())
	sm.title = strings.TrimSpace(u.Message.CommandArguments())
	sm.Set(sm.StateAskMarkdown)
	return sm.Execute(ctx, newChatMessage(u))
}

func (s *Service) handleDraftCommand(ctx context.Context, u *tgrouter.Update) error {
	sm := s.dialog(u.ChatID())
	sm.title = strings.TrimSpace(u.Message.CommandArguments())
	sm.Set(sm.StateAskPrompt)
	return sm.Execute(ctx, newChatMessage(u))
}

func (s *Service) handleThemeCommand(ctx context.Context, u *tgrouter.Update) error {
	sm := s.dialog(u.ChatID())
	name := strings.ToLower(strings.TrimSpace(u.Message.CommandArguments()))
	available := strings.Join(s.themes.Names(), ", ")
	if name == "" {
		return s.telegram.SendMessage(ctx, u.ChatID(),
			fmt.Sprintf("Current theme: %s\nAvailable: %s", sm.theme, available))
	}
	if _, ok := s.themes.Theme(name); !ok {
		return s.telegram.SendMessage(ctx, u.ChatID(),
			fmt.Sprintf("Unknown theme %q. Available: %s", name, available))
	}
	sm.theme = name
	return s.telegram.SendMessage(ctx, u.ChatID(), fmt.Sprintf("Theme set to %s", name))
}

func (s *Service) handleCancelCommand(ctx context.Context, u *tgrouter.Update) error {
	sm := s.dialog(u.ChatID())
	sm.Set(sm.StateCancel)
	return sm.Execute(ctx, newChatMessage(u))
}

func (s *Service) handleDocument(ctx context.Context, u *tgrouter.Update) error {
	sm := s.dialog(u.ChatID())
	name := u.Message.Document.FileName
	title := strings.TrimSuffix(name, filepath.Ext(name))
	sm.Rewind()
	return sm.startDeck(ctx, workflows.DeckSessionInput{
		Title:          title,
		DocumentFileID: u.Message.Document.FileID,
	})
}

func (s *Service) handleText(ctx context.Context, u *tgrouter.Update) error {
	sm := s.dialog(u.ChatID())
	return sm.Execute(ctx, newChatMessage(u))
}

// dialog returns the state machine of a chat, creating it on first use.
func (s *Service) dialog(chatID int64) *PrivateChatStateMachine {
	s.mu.Lock()
	defer s.mu.Unlock()
	sm, ok := s.dialogs[chatID]
	if !ok {
		sm = s.NewPrivateChatStateMachine(chatID)
		s.dialogs[chatID] = sm
	}
	return sm
}

func (s *Service) executeDeckSession(ctx context.Context, input workflows.DeckSessionInput) (client.WorkflowRun, error) {
	return s.temporal.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("deck-%d-%s", input.ChatID, uuid.NewString()),
		TaskQueue: domain.DeckRequestsQueue,
	}, workflows.DeckSession, input)
}
