package adapters

import (
	"bytes"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/xenking/md2pptx/internal/domain"
)

// 16:9 slide geometry in EMU.
const (
	emuPerInch = 914400

	slideWidth    = int64(10.0 * emuPerInch)
	slideHeight   = int64(5.625 * emuPerInch)
	marginLeft    = int64(0.5 * emuPerInch)
	contentWidth  = int64(9.0 * emuPerInch)
	accentBarSize = int64(0.08 * emuPerInch)

	codeFontSize       = 10
	tableFontSize      = 12
	leftoverHeadingPts = 20
	subtitleFontSize   = 20
	crowdedSlideBlocks = 10
	minBodyFontSize    = 12
)

var subheadingSizes = map[int]int{3: 18, 4: 16, 5: 14, 6: 12}

const creator = "md2pptx"

// PPTXRenderer draws a deck with GoPPT.
type PPTXRenderer struct{}

func NewPPTXRenderer() *PPTXRenderer {
	return &PPTXRenderer{}
}

func (r *PPTXRenderer) Render(deck domain.Deck, theme domain.Theme) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = deck.Title
	p.GetDocumentProperties().Creator = creator

	for i, s := range deck.Slides {
		var slide *ppt.Slide
		if i == 0 {
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}
		drawBackground(slide, theme)
		switch s.Layout {
		case domain.LayoutTitle, domain.LayoutSection:
			r.drawTitleSlide(slide, s, theme)
		default:
			r.drawContentSlide(slide, s, theme)
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("create pptx writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pptx: %w", err)
	}
	return buf.Bytes(), nil
}

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

func drawBackground(slide *ppt.Slide, theme domain.Theme) {
	bg := slide.CreateRichTextShape()
	bg.SetOffsetX(0).SetOffsetY(0)
	bg.SetWidth(slideWidth).SetHeight(slideHeight)
	bg.SetFill(solidFill(theme.Background))
}

func drawAccentBar(slide *ppt.Slide, theme domain.Theme, y, height int64) {
	bar := slide.CreateRichTextShape()
	bar.SetOffsetX(0).SetOffsetY(y)
	bar.SetWidth(slideWidth).SetHeight(height)
	bar.SetFill(solidFill(theme.AccentColor))
}

func (r *PPTXRenderer) drawTitleSlide(slide *ppt.Slide, s domain.Slide, theme domain.Theme) {
	drawAccentBar(slide, theme, 0, 2*accentBarSize)
	drawAccentBar(slide, theme, slideHeight-accentBarSize, accentBarSize)

	titleY := int64(1.7 * emuPerInch)
	if len(s.Blocks) > 0 {
		titleY = int64(0.8 * emuPerInch)
	}
	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(titleY)
	titleShape.SetWidth(contentWidth).SetHeight(int64(1.0 * emuPerInch))
	tr := titleShape.CreateTextRun(s.Title)
	tr.GetFont().SetSize(theme.TitleSize + 4).SetBold(true).SetColor(ppt.NewColor(theme.TitleColor))
	alignCenter(titleShape.GetActiveParagraph())

	if s.Subtitle != "" {
		subShape := slide.CreateRichTextShape()
		subShape.SetOffsetX(marginLeft).SetOffsetY(titleY + int64(1.1*emuPerInch))
		subShape.SetWidth(contentWidth).SetHeight(int64(0.6 * emuPerInch))
		sub := subShape.CreateTextRun(s.Subtitle)
		sub.GetFont().SetSize(subtitleFontSize).SetColor(ppt.NewColor(theme.TextColor))
		alignCenter(subShape.GetActiveParagraph())
	}

	if len(s.Blocks) > 0 {
		top := titleY + int64(1.8*emuPerInch)
		r.drawBody(slide, s.Blocks, theme, top, slideHeight-top-int64(0.3*emuPerInch))
	}
}

func (r *PPTXRenderer) drawContentSlide(slide *ppt.Slide, s domain.Slide, theme domain.Theme) {
	drawAccentBar(slide, theme, 0, accentBarSize)

	top := int64(0.4 * emuPerInch)
	if s.Title != "" {
		titleShape := slide.CreateRichTextShape()
		titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(0.3 * emuPerInch))
		titleShape.SetWidth(contentWidth).SetHeight(int64(0.7 * emuPerInch))
		tr := titleShape.CreateTextRun(s.Title)
		tr.GetFont().SetSize(theme.HeadingSize).SetBold(true).SetColor(ppt.NewColor(theme.TitleColor))
		top = int64(1.1 * emuPerInch)
	}
	if len(s.Blocks) == 0 {
		return
	}
	r.drawBody(slide, s.Blocks, theme, top, slideHeight-top-int64(0.3*emuPerInch))
}

func (r *PPTXRenderer) drawBody(slide *ppt.Slide, blocks []domain.Block, theme domain.Theme, top, height int64) {
	body := slide.CreateRichTextShape()
	body.SetOffsetX(marginLeft).SetOffsetY(top)
	body.SetWidth(contentWidth).SetHeight(height)

	size := bodyFontSize(theme.BodySize, len(blocks))
	first := true
	for _, b := range blocks {
		for _, line := range blockLines(b) {
			if !first {
				body.CreateParagraph()
			}
			first = false
			tr := body.CreateTextRun(line)
			styleBlockRun(tr, b, theme, size)
		}
	}
}

func styleBlockRun(tr *ppt.TextRun, b domain.Block, theme domain.Theme, size int) {
	font := tr.GetFont()
	switch b.Kind {
	case domain.BlockSubheading:
		pts, ok := subheadingSizes[b.HeadingLevel]
		if !ok {
			pts = leftoverHeadingPts
		}
		font.SetSize(pts).SetBold(true).SetColor(ppt.NewColor(theme.TitleColor))
	case domain.BlockCode:
		font.SetSize(codeFontSize).SetColor(ppt.NewColor(theme.CodeColor))
	case domain.BlockTableRow:
		font.SetSize(min(tableFontSize, size)).SetColor(ppt.NewColor(theme.TextColor))
	default:
		font.SetSize(size).SetColor(ppt.NewColor(theme.TextColor))
	}
}

// bodyFontSize shrinks the body text of crowded slides.
func bodyFontSize(base, blocks int) int {
	if blocks <= crowdedSlideBlocks {
		return base
	}
	size := base - (blocks-crowdedSlideBlocks)/2
	return max(size, minBodyFontSize)
}

// blockLines returns the paragraphs a block occupies. Code keeps one
// paragraph per source line.
func blockLines(b domain.Block) []string {
	switch b.Kind {
	case domain.BlockListItem:
		indent := strings.Repeat("    ", b.Level)
		if b.Ordered {
			return []string{indent + b.Text}
		}
		return []string{indent + "• " + b.Text}
	case domain.BlockCode:
		return strings.Split(b.Text, "\n")
	default:
		return []string{b.Text}
	}
}
