package app

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"github.com/xenking/md2pptx/internal/domain"
)

// ToolName is the identity of the ppt tool in tools/ppt.yaml.
const ToolName = "ppt"

// Provider is the credential-less tool provider.
type Provider struct{}

func (Provider) ValidateCredentials(ctx context.Context, credentials map[string]any) error {
	return nil
}

// PptTool converts Markdown parameters into a PPTX response stream.
type PptTool struct {
	converter domain.PresentationConverter
	logger    *slog.Logger
}

func NewPptTool(converter domain.PresentationConverter, logger *slog.Logger) *PptTool {
	return &PptTool{
		converter: converter,
		logger:    logger.With(slog.String("component", "ppt-tool")),
	}
}

// Invoke yields a success text followed by the deck blob, or a single text
// message describing why no deck was produced. Conversion happens once, when
// iteration starts.
func (t *PptTool) Invoke(ctx context.Context, params map[string]any) iter.Seq[domain.ToolMessage] {
	return func(yield func(domain.ToolMessage) bool) {
		p, err := domain.ParseToolParameters(params)
		if errors.Is(err, domain.ErrEmptyMarkdown) {
			yield(domain.NewTextMessage(domain.EmptyMarkdownText))
			return
		}

		pres, err := t.converter.ConvertToPPTX(ctx, p.ConvertRequest())
		if err != nil {
			t.logger.ErrorContext(ctx, "convert markdown",
				slog.String("title", p.Title),
				slog.String("theme", p.Theme),
				slog.String("error", err.Error()),
			)
			yield(domain.NewTextMessage(domain.ConversionErrorText(err)))
			return
		}
		t.logger.InfoContext(ctx, "deck generated",
			slog.String("title", p.Title),
			slog.Int("slides", pres.Slides),
			slog.Int("bytes", len(pres.Data)),
		)

		if !yield(domain.NewTextMessage(domain.SuccessText(p.Title))) {
			return
		}
		yield(domain.NewBlobMessage(pres.Data, domain.BlobMeta{
			MimeType: domain.PPTXMimeType,
			Filename: p.Filename(),
		}))
	}
}

// Collect drains a tool response stream.
func Collect(seq iter.Seq[domain.ToolMessage]) []domain.ToolMessage {
	var msgs []domain.ToolMessage
	for msg := range seq {
		msgs = append(msgs, msg)
	}
	return msgs
}
