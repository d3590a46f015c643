package activities

import (
	"log/slog"

	"github.com/xenking/md2pptx/internal/domain"
)

// Application error types reported by the deck activities.
const (
	ErrTypeEmptyMarkdown = "EmptyMarkdown"
	ErrTypeConversion    = "ConversionFailed"
	ErrTypeBlobMissing   = "BlobMissing"
)

type Activities struct {
	TelegramClient domain.TelegramClient
	GPTClient      domain.GPTClient
	Converter      domain.PresentationConverter
	BlobStorage    domain.BlobStorage
	Logger         *slog.Logger
}

func New(tgCli domain.TelegramClient, gptClient domain.GPTClient,
	converter domain.PresentationConverter,
	storage domain.BlobStorage,
	logger *slog.Logger,
) *Activities {
	return &Activities{
		TelegramClient: tgCli,
		GPTClient:      gptClient,
		Converter:      converter,
		BlobStorage:    storage,
		Logger:         logger.With(slog.String("component", "activities")),
	}
}
