package domain

import "context"

type ConvertRequest struct {
	Markdown string
	Title    string
	Theme    string
}

// Presentation is a rendered deck. Theme is the name of the theme it was
// drawn with, after unknown names fell back to the default.
type Presentation struct {
	Data   []byte
	Slides int
	Theme  string
}

type PresentationConverter interface {
	ConvertToPPTX(ctx context.Context, req ConvertRequest) (*Presentation, error)
}

type SlideOutline struct {
	Index int      `json:"index"`
	Title string   `json:"title"`
	Texts []string `json:"texts,omitempty"`
}

type PresentationPreviewer interface {
	Preview(ctx context.Context, data []byte) ([]SlideOutline, error)
}
