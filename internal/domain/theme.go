package domain

// Theme holds the colours (ARGB hex) and sizes used when drawing a deck.
type Theme struct {
	Name        string `yaml:"name"`
	Background  string `yaml:"background"`
	TitleColor  string `yaml:"title_color"`
	TextColor   string `yaml:"text_color"`
	AccentColor string `yaml:"accent_color"`
	CodeColor   string `yaml:"code_color"`
	TitleSize   int    `yaml:"title_size"`
	HeadingSize int    `yaml:"heading_size"`
	BodySize    int    `yaml:"body_size"`
}

type ThemeProvider interface {
	// Theme resolves a theme by name. ok is false when the name was unknown
	// and the default theme was returned instead.
	Theme(name string) (theme Theme, ok bool)
	Names() []string
}
