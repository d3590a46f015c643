package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/xenking/md2pptx/internal/domain"
)

// PPTXPreviewer lists the text of every slide in a PPTX file.
type PPTXPreviewer struct{}

var _ domain.PresentationPreviewer = (*PPTXPreviewer)(nil)

func NewPPTXPreviewer() *PPTXPreviewer {
	return &PPTXPreviewer{}
}

func (p *PPTXPreviewer) Preview(ctx context.Context, data []byte) ([]domain.SlideOutline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// the reader only opens files
	f, err := os.CreateTemp("", "md2pptx-*.pptx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return p.PreviewFile(ctx, f.Name())
}

func (p *PPTXPreviewer) PreviewFile(ctx context.Context, path string) ([]domain.SlideOutline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reader := &ppt.PPTXReader{}
	pres, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read pptx: %w", err)
	}

	var outline []domain.SlideOutline
	for i, slide := range pres.GetAllSlides() {
		so := domain.SlideOutline{Index: i + 1}
		for _, shape := range slide.GetShapes() {
			rts, ok := shape.(*ppt.RichTextShape)
			if !ok {
				continue
			}
			for _, para := range rts.GetParagraphs() {
				var sb strings.Builder
				for _, elem := range para.GetElements() {
					if run, ok := elem.(*ppt.TextRun); ok {
						sb.WriteString(run.GetText())
					}
				}
				text := strings.TrimSpace(sb.String())
				if text == "" {
					continue
				}
				if so.Title == "" {
					so.Title = text
				} else {
					so.Texts = append(so.Texts, text)
				}
			}
		}
		outline = append(outline, so)
	}
	return outline, nil
}
