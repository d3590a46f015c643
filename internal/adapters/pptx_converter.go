package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/xenking/md2pptx/internal/domain"
)

type DeckParser interface {
	Parse(markdown, title string) domain.Deck
}

type DeckRenderer interface {
	Render(deck domain.Deck, theme domain.Theme) ([]byte, error)
}

// PPTXConverter parses Markdown into a deck, picks a theme and renders it.
type PPTXConverter struct {
	parser   DeckParser
	themes   domain.ThemeProvider
	renderer DeckRenderer
}

var _ domain.PresentationConverter = (*PPTXConverter)(nil)

func NewPPTXConverter(parser DeckParser, themes domain.ThemeProvider, renderer DeckRenderer) *PPTXConverter {
	return &PPTXConverter{
		parser:   parser,
		themes:   themes,
		renderer: renderer,
	}
}

func (c *PPTXConverter) ConvertToPPTX(ctx context.Context, req domain.ConvertRequest) (*domain.Presentation, error) {
	if strings.TrimSpace(req.Markdown) == "" {
		return nil, domain.ErrEmptyMarkdown
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = domain.DefaultTitle
	}

	deck := c.parser.Parse(req.Markdown, title)
	theme, _ := c.themes.Theme(req.Theme)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := c.renderer.Render(deck, theme)
	if err != nil {
		return nil, fmt.Errorf("render deck: %w", err)
	}
	return &domain.Presentation{Data: data, Slides: len(deck.Slides), Theme: theme.Name}, nil
}
