package domain

import "context"

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, message string) error
	SetBotCommands(ctx context.Context, commands []BotCommand) error
	SendDocument(ctx context.Context, chatID int64, doc TelegramDocument) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

type TelegramDocument struct {
	Filename string
	Data     []byte
	Caption  string
}

type BotCommand struct {
	Command     string
	Description string
}
