package adapters

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/md2pptx"
	"github.com/xenking/md2pptx/internal/domain"
)

type fakeRenderer struct {
	deck  domain.Deck
	theme domain.Theme
	err   error
}

func (r *fakeRenderer) Render(deck domain.Deck, theme domain.Theme) ([]byte, error) {
	r.deck, r.theme = deck, theme
	if r.err != nil {
		return nil, r.err
	}
	return []byte("pptx"), nil
}

func newTestThemes(t *testing.T) *ThemeRegistry {
	t.Helper()
	themes, err := NewThemeRegistry(fstest.MapFS{
		"default.yaml": {Data: []byte("name: default\n")},
		"dark.yaml":    {Data: []byte("name: dark\nbackground: FF000000\n")},
	}, "", discardLogger)
	require.NoError(t, err)
	return themes
}

func TestPPTXConverterPipeline(t *testing.T) {
	renderer := &fakeRenderer{}
	c := NewPPTXConverter(NewMarkdownDeckParser(), newTestThemes(t), renderer)

	pres, err := c.ConvertToPPTX(context.Background(), domain.ConvertRequest{
		Markdown: "## One\n- a\n## Two\ntext",
		Title:    "  ",
		Theme:    "dark",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("pptx"), pres.Data)
	assert.Equal(t, 3, pres.Slides)
	assert.Equal(t, domain.DefaultTitle, renderer.deck.Title)
	assert.Equal(t, "dark", renderer.theme.Name)
	assert.Equal(t, "dark", pres.Theme)
}

func TestPPTXConverterErrors(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("boom")}
	c := NewPPTXConverter(NewMarkdownDeckParser(), newTestThemes(t), renderer)

	_, err := c.ConvertToPPTX(context.Background(), domain.ConvertRequest{Markdown: " \n\t"})
	require.ErrorIs(t, err, domain.ErrEmptyMarkdown)

	_, err = c.ConvertToPPTX(context.Background(), domain.ConvertRequest{Markdown: "# x"})
	require.ErrorContains(t, err, "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ConvertToPPTX(ctx, domain.ConvertRequest{Markdown: "# x"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPPTXRendererRoundTrip(t *testing.T) {
	c := NewPPTXConverter(NewMarkdownDeckParser(), newTestThemes(t), NewPPTXRenderer())

	md := "author: Jane\n\n## Agenda\n- Revenue\n  - Detail\n1. First\n\n## Code\n```\nline one\nline two\n```\n"
	pres, err := c.ConvertToPPTX(context.Background(), domain.ConvertRequest{Markdown: md, Title: "Review", Theme: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 3, pres.Slides)
	assert.Equal(t, domain.DefaultTheme, pres.Theme)

	zr, err := zip.NewReader(bytes.NewReader(pres.Data), int64(len(pres.Data)))
	require.NoError(t, err, "pptx is a zip package")
	var slideParts int
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slideParts++
		}
	}
	assert.Equal(t, 3, slideParts)

	outline, err := NewPPTXPreviewer().Preview(context.Background(), pres.Data)
	require.NoError(t, err)
	require.Len(t, outline, 3)
	assert.Equal(t, "Review", outline[0].Title)
	assert.Contains(t, outline[0].Texts, "Jane")
	assert.Equal(t, "Agenda", outline[1].Title)
	assert.Contains(t, outline[1].Texts, "• Revenue")
	assert.Contains(t, outline[1].Texts, "1. First")
	assert.Equal(t, "Code", outline[2].Title)
	assert.Contains(t, outline[2].Texts, "line two")
}

// slideXML returns the lower-cased XML part of every slide, in order.
func slideXML(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		parts[f.Name] = strings.ToLower(string(b))
	}
	var slides []string
	for i := 1; ; i++ {
		xml, ok := parts[fmt.Sprintf("ppt/slides/slide%d.xml", i)]
		if !ok {
			return slides
		}
		slides = append(slides, xml)
	}
}

func srgb(argb string) string {
	return fmt.Sprintf("srgbclr val=%q", strings.ToLower(argb[2:]))
}

func sz(pts int) string {
	return fmt.Sprintf("sz=%q", fmt.Sprint(pts*100))
}

func TestPPTXRendererStyles(t *testing.T) {
	themes, err := NewThemeRegistry(md2pptx.Themes(), "", discardLogger)
	require.NoError(t, err)
	dark, ok := themes.Theme("dark")
	require.True(t, ok)

	deck := domain.Deck{Title: "Review", Slides: []domain.Slide{
		{Layout: domain.LayoutTitle, Title: "Review", Subtitle: "Jane"},
		{Layout: domain.LayoutContent, Title: "Agenda", Blocks: []domain.Block{
			{Kind: domain.BlockSubheading, Text: "h2", HeadingLevel: 2},
			{Kind: domain.BlockSubheading, Text: "h3", HeadingLevel: 3},
			{Kind: domain.BlockSubheading, Text: "h4", HeadingLevel: 4},
			{Kind: domain.BlockSubheading, Text: "h5", HeadingLevel: 5},
			{Kind: domain.BlockSubheading, Text: "h6", HeadingLevel: 6},
			{Kind: domain.BlockCode, Text: "x := 1"},
		}},
		{Layout: domain.LayoutSection, Title: "Part Two"},
	}}
	data, err := NewPPTXRenderer().Render(deck, dark)
	require.NoError(t, err)

	slides := slideXML(t, data)
	require.Len(t, slides, 3)
	for i, xml := range slides {
		assert.Contains(t, xml, srgb(dark.Background), "slide %d background", i+1)
		assert.Contains(t, xml, srgb(dark.AccentColor), "slide %d accent bar", i+1)
		assert.Contains(t, xml, srgb(dark.TitleColor), "slide %d title", i+1)
	}

	title, content, section := slides[0], slides[1], slides[2]
	assert.Contains(t, title, sz(dark.TitleSize+4))
	assert.Contains(t, title, sz(subtitleFontSize))
	assert.Contains(t, title, srgb(dark.TextColor))

	assert.Contains(t, content, sz(dark.HeadingSize))
	for _, pts := range []int{leftoverHeadingPts, 18, 16, 14, 12, codeFontSize} {
		assert.Contains(t, content, sz(pts))
	}
	assert.Contains(t, content, srgb(dark.CodeColor))
	assert.NotContains(t, content, sz(dark.TitleSize+4))

	assert.Contains(t, section, sz(dark.TitleSize+4), "sections use the title slide look")
	assert.NotContains(t, section, sz(dark.HeadingSize))
}

func TestBodyFontSize(t *testing.T) {
	assert.Equal(t, 18, bodyFontSize(18, 4))
	assert.Equal(t, 16, bodyFontSize(18, 14))
	assert.Equal(t, minBodyFontSize, bodyFontSize(18, 60))
}

func TestBlockLines(t *testing.T) {
	assert.Equal(t, []string{"    • nested"}, blockLines(domain.Block{Kind: domain.BlockListItem, Text: "nested", Level: 1}))
	assert.Equal(t, []string{"2. two"}, blockLines(domain.Block{Kind: domain.BlockListItem, Text: "2. two", Ordered: true}))
	assert.Equal(t, []string{"a", "b"}, blockLines(domain.Block{Kind: domain.BlockCode, Text: "a\nb"}))
}
