package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageSize is the Telegram limit for a text message.
const maxMessageSize = 4096

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramWriter sends every write as a message to a chat.
type TelegramWriter struct {
	api    Sender
	chatID int64
}

func NewTelegramWriter(api Sender, chatID int64) *TelegramWriter {
	return &TelegramWriter{
		api:    api,
		chatID: chatID,
	}
}

func (w TelegramWriter) Write(p []byte) (n int, err error) {
	text := string(p)
	if utf8.RuneCountInString(text) > maxMessageSize {
		text = string([]rune(text)[:maxMessageSize-1]) + "…"
	}
	_, err = w.api.Send(tgbotapi.NewMessage(w.chatID, text))
	return len(p), err
}

// FanoutHandler passes each record to every handler that accepts its level.
type FanoutHandler struct {
	handlers []slog.Handler
}

func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithAttrs(attrs))
	}
	return &FanoutHandler{handlers: handlers}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithGroup(name))
	}
	return &FanoutHandler{handlers: handlers}
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// New builds a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithTelegramErrors additionally sends error records to a Telegram chat.
func WithTelegramErrors(w io.Writer, level slog.Level, api Sender, chatID int64) *slog.Logger {
	return slog.New(NewFanoutHandler(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(NewTelegramWriter(api, chatID), &slog.HandlerOptions{Level: slog.LevelError}),
	))
}
