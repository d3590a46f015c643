package activities

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"

	"github.com/xenking/md2pptx/internal/domain"
)

type DeliverDeckRequest struct {
	ChatID   int64
	BlobID   string
	Filename string
	Title    string
}

func (a *Activities) DeliverDeck(ctx context.Context, req DeliverDeckRequest) error {
	id, err := uuid.Parse(req.BlobID)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("invalid blob id", ErrTypeBlobMissing, err)
	}
	data, ok := a.BlobStorage.Load(id)
	if !ok {
		return temporal.NewNonRetryableApplicationError("deck is no longer available", ErrTypeBlobMissing, nil)
	}

	err = a.TelegramClient.SendDocument(ctx, req.ChatID, domain.TelegramDocument{
		Filename: req.Filename,
		Data:     data,
		Caption:  domain.SuccessText(req.Title),
	})
	if err != nil {
		return err
	}
	a.BlobStorage.Delete(id)
	a.Logger.InfoContext(ctx, "deck delivered",
		slog.Int64("chat_id", req.ChatID),
		slog.String("filename", req.Filename),
		slog.Int("bytes", len(data)),
	)
	return nil
}
