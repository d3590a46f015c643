package activities

import (
	"context"
	"fmt"
	"unicode/utf8"
)

type FetchDocumentRequest struct {
	FileID string
}

type FetchDocumentResponse struct {
	Markdown string
}

func (a *Activities) FetchDocument(ctx context.Context, req FetchDocumentRequest) (FetchDocumentResponse, error) {
	data, err := a.TelegramClient.DownloadFile(ctx, req.FileID)
	if err != nil {
		return FetchDocumentResponse{}, err
	}
	if !utf8.Valid(data) {
		return FetchDocumentResponse{}, fmt.Errorf("document %s is not UTF-8 text", req.FileID)
	}
	return FetchDocumentResponse{Markdown: string(data)}, nil
}
