package activities

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/xenking/md2pptx/internal/domain"
)

type ConvertMarkdownRequest struct {
	Markdown string
	Title    string
	Theme    string
}

type ConvertMarkdownResponse struct {
	BlobID   string
	Filename string
	Slides   int
}

// ConvertMarkdown renders the deck and parks the bytes in blob storage.
// Empty input and conversion failures are not retried.
func (a *Activities) ConvertMarkdown(ctx context.Context, req ConvertMarkdownRequest) (ConvertMarkdownResponse, error) {
	p, err := domain.ParseToolParameters(map[string]any{
		domain.ParamMarkdownContent: req.Markdown,
		domain.ParamTitle:           req.Title,
		domain.ParamTheme:           req.Theme,
	})
	if errors.Is(err, domain.ErrEmptyMarkdown) {
		return ConvertMarkdownResponse{}, temporal.NewNonRetryableApplicationError(domain.EmptyMarkdownText, ErrTypeEmptyMarkdown, nil)
	}

	pres, err := a.Converter.ConvertToPPTX(ctx, p.ConvertRequest())
	if err != nil {
		return ConvertMarkdownResponse{}, temporal.NewNonRetryableApplicationError(domain.ConversionErrorText(err), ErrTypeConversion, nil)
	}

	id := a.BlobStorage.Store(pres.Data)
	return ConvertMarkdownResponse{
		BlobID:   id.String(),
		Filename: p.Filename(),
		Slides:   pres.Slides,
	}, nil
}
