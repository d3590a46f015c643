package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Tool parameter names as declared in tools/ppt.yaml.
const (
	ParamMarkdownContent = "markdown_content"
	ParamTitle           = "title"
	ParamTheme           = "theme"
)

const (
	DefaultTitle = "Presentation"
	DefaultTheme = "default"

	PPTXMimeType  = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	PPTXExtension = ".pptx"
)

var (
	ErrEmptyMarkdown = errors.New("no markdown content provided")
	ErrUnknownTool   = errors.New("unknown tool")
)

// ToolParameters is the validated form of the host's parameter mapping.
type ToolParameters struct {
	MarkdownContent string
	Title           string
	Theme           string
}

// ParseToolParameters reads the named inputs and fills in defaults. It only
// fails when markdown_content is missing or blank.
func ParseToolParameters(params map[string]any) (ToolParameters, error) {
	p := ToolParameters{
		MarkdownContent: stringParam(params, ParamMarkdownContent),
		Title:           strings.TrimSpace(stringParam(params, ParamTitle)),
		Theme:           strings.TrimSpace(stringParam(params, ParamTheme)),
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	if strings.TrimSpace(p.MarkdownContent) == "" {
		return p, ErrEmptyMarkdown
	}
	return p, nil
}

func stringParam(params map[string]any, name string) string {
	v, ok := params[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Filename derives the deck file name from the title.
func (p ToolParameters) Filename() string {
	return DeckFilename(p.Title)
}

func DeckFilename(title string) string {
	if title == "" {
		title = DefaultTitle
	}
	return filenameReplacer.Replace(title) + PPTXExtension
}

// ConvertRequest returns the converter input for these parameters.
func (p ToolParameters) ConvertRequest() ConvertRequest {
	return ConvertRequest{
		Markdown: p.MarkdownContent,
		Title:    p.Title,
		Theme:    p.Theme,
	}
}

func SuccessText(title string) string {
	return fmt.Sprintf("PowerPoint presentation '%s' generated successfully", title)
}

func ConversionErrorText(err error) string {
	return fmt.Sprintf("Error converting markdown to PPTX: %v", err)
}

const EmptyMarkdownText = "No markdown content provided."
