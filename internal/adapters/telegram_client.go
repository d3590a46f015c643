package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/xenking/md2pptx/internal/domain"
)

// maxDownloadSize matches the Bot API limit for getFile.
const maxDownloadSize = 20 << 20

type TelegramClient struct {
	*tgbotapi.BotAPI
	http *http.Client
}

var _ domain.TelegramClient = (*TelegramClient)(nil)

func NewTelegramClient(bot *tgbotapi.BotAPI) *TelegramClient {
	return &TelegramClient{BotAPI: bot, http: http.DefaultClient}
}

func (c *TelegramClient) SetBotCommands(ctx context.Context, commands []domain.BotCommand) error {
	var cmds []tgbotapi.BotCommand
	for _, c := range commands {
		cmds = append(cmds, tgbotapi.BotCommand{
			Command:     c.Command,
			Description: c.Description,
		})
	}
	_, err := c.BotAPI.Request(tgbotapi.NewSetMyCommands(cmds...))
	if err != nil {
		return err
	}

	return nil
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, message string) error {
	_, err := c.BotAPI.Send(tgbotapi.NewMessage(chatID, message))
	if err != nil {
		return err
	}

	return nil
}

func (c *TelegramClient) SendDocument(ctx context.Context, chatID int64, doc domain.TelegramDocument) error {
	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  doc.Filename,
		Bytes: doc.Data,
	})
	msg.Caption = doc.Caption
	_, err := c.BotAPI.Send(msg)
	if err != nil {
		return err
	}

	return nil
}

func (c *TelegramClient) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := c.BotAPI.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
}
