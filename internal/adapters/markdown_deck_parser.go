package adapters

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/xenking/md2pptx/internal/domain"
)

var slideSeparator = regexp.MustCompile(`\n-{3,}\n`)

const deckParserExtensions = parser.NoIntraEmphasis | parser.Tables | parser.FencedCode |
	parser.Autolink | parser.Strikethrough | parser.SpaceHeadings | parser.BackslashLineBreak |
	parser.HardLineBreak | parser.NoEmptyLineBeforeBlock

// MarkdownDeckParser turns a Markdown document into slides.
//
// Documents containing horizontal-rule separators on their own line are split
// into one slide per chunk. Otherwise level-1 and level-2 headings start new
// slides.
type MarkdownDeckParser struct{}

func NewMarkdownDeckParser() *MarkdownDeckParser {
	return &MarkdownDeckParser{}
}

func (p *MarkdownDeckParser) Parse(markdown, title string) domain.Deck {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	meta, metaLines := parseMetadata(markdown)

	deck := domain.Deck{Title: title, Metadata: meta}
	if slideSeparator.MatchString(markdown) {
		deck.Slides = p.parseSeparated(markdown, metaLines, title, meta)
	} else {
		deck.Slides = p.parseHeadings(markdown, title, meta)
	}
	if len(deck.Slides) > 0 {
		deck.Title = deck.Slides[0].Title
	}
	return deck
}

func (p *MarkdownDeckParser) parseSeparated(markdown string, metaLines int, title string, meta map[string]string) []domain.Slide {
	chunks := slideSeparator.Split(markdown, -1)

	first := chunks[0]
	if metaLines > 0 {
		first = strings.Join(strings.Split(first, "\n")[metaLines:], "\n")
	}
	nodes := parseBlocks(first)
	titleSlide := domain.Slide{Layout: domain.LayoutTitle, Title: title, Subtitle: metadataSubtitle(meta)}
	if h, rest, ok := takeHeading(nodes, 1); ok {
		titleSlide.Title, nodes = h, rest
	}
	if h, rest, ok := takeHeading(nodes, 2); ok {
		titleSlide.Subtitle, nodes = h, rest
	}
	titleSlide.Blocks = blocksFromNodes(nodes)
	slides := []domain.Slide{titleSlide}

	for _, chunk := range chunks[1:] {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		nodes := parseBlocks(chunk)
		slide := domain.Slide{Layout: domain.LayoutContent}
		if h, rest, ok := takeHeading(nodes, 1); ok {
			slide.Title, nodes = h, rest
		} else if h, rest, ok := takeHeading(nodes, 2); ok {
			slide.Title, nodes = h, rest
		}
		slide.Blocks = blocksFromNodes(nodes)
		if slide.HasTable() {
			slide.Layout = domain.LayoutTable
		}
		slides = append(slides, slide)
	}
	return slides
}

func (p *MarkdownDeckParser) parseHeadings(markdown, title string, meta map[string]string) []domain.Slide {
	slides := []domain.Slide{{
		Layout:   domain.LayoutTitle,
		Title:    title,
		Subtitle: metadataSubtitle(meta),
	}}

	var current *domain.Slide
	flush := func() {
		if current == nil {
			return
		}
		if current.Layout != domain.LayoutSection && current.HasTable() {
			current.Layout = domain.LayoutTable
		}
		slides = append(slides, *current)
		current = nil
	}

	for _, node := range parseBlocks(markdown) {
		heading, isHeading := node.(*ast.Heading)
		switch {
		case isHeading && heading.Level <= 2:
			flush()
			layout := domain.LayoutContent
			if heading.Level == 1 {
				layout = domain.LayoutSection
			}
			current = &domain.Slide{Layout: layout, Title: inlineText(heading)}
		case isHeading && current == nil:
			current = &domain.Slide{Layout: domain.LayoutContent, Title: inlineText(heading)}
		case current == nil:
			// preamble before the first heading, metadata included
		default:
			current.Blocks = append(current.Blocks, blocksFromNode(node)...)
		}
	}
	flush()
	return slides
}

// parseMetadata reads leading "key: value" lines up to the first blank line.
// It returns the collected pairs and the number of lines they occupy.
func parseMetadata(markdown string) (map[string]string, int) {
	meta := make(map[string]string)
	lines := strings.Split(markdown, "\n")
	n := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			break
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if !ok || strings.TrimSpace(key) == "" {
			break
		}
		meta[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
		n++
	}
	return meta, n
}

func metadataSubtitle(meta map[string]string) string {
	var parts []string
	if author := meta["author"]; author != "" {
		parts = append(parts, author)
	}
	if date := meta["date"]; date != "" {
		parts = append(parts, date)
	}
	return strings.Join(parts, " | ")
}

func parseBlocks(markdown string) []ast.Node {
	// parsers keep state between calls and can't be reused
	p := parser.NewWithExtensions(deckParserExtensions)
	doc := p.Parse([]byte(markdown))
	return doc.GetChildren()
}

// takeHeading removes the first heading of the given level from nodes.
func takeHeading(nodes []ast.Node, level int) (string, []ast.Node, bool) {
	for i, node := range nodes {
		h, ok := node.(*ast.Heading)
		if !ok || h.Level != level {
			continue
		}
		rest := make([]ast.Node, 0, len(nodes)-1)
		rest = append(rest, nodes[:i]...)
		rest = append(rest, nodes[i+1:]...)
		return inlineText(h), rest, true
	}
	return "", nodes, false
}

func blocksFromNodes(nodes []ast.Node) []domain.Block {
	var blocks []domain.Block
	for _, node := range nodes {
		blocks = append(blocks, blocksFromNode(node)...)
	}
	return blocks
}

func blocksFromNode(node ast.Node) []domain.Block {
	switch n := node.(type) {
	case *ast.Heading:
		text := inlineText(n)
		if text == "" {
			return nil
		}
		return []domain.Block{{Kind: domain.BlockSubheading, Text: text, HeadingLevel: n.Level}}
	case *ast.Paragraph:
		return paragraphBlocks(n)
	case *ast.List:
		return listBlocks(n, 0)
	case *ast.CodeBlock:
		code := strings.TrimSpace(string(n.Literal))
		if code == "" {
			return nil
		}
		return []domain.Block{{Kind: domain.BlockCode, Text: code}}
	case *ast.Table:
		return tableBlocks(n)
	case *ast.BlockQuote:
		return blocksFromNodes(n.GetChildren())
	default:
		return nil
	}
}

func paragraphBlocks(n ast.Node) []domain.Block {
	var blocks []domain.Block
	for _, line := range strings.Split(inlineText(n), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		blocks = append(blocks, domain.Block{Kind: domain.BlockParagraph, Text: line})
	}
	return blocks
}

func listBlocks(list *ast.List, level int) []domain.Block {
	ordered := list.ListFlags&ast.ListTypeOrdered != 0
	var blocks []domain.Block
	number := 0
	for _, child := range list.GetChildren() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		number++

		var parts []string
		var nested []domain.Block
		for _, c := range item.GetChildren() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, listBlocks(sub, level+1)...)
				continue
			}
			if text := strings.Join(strings.Fields(inlineText(c)), " "); text != "" {
				parts = append(parts, text)
			}
		}

		text := strings.Join(parts, " ")
		if ordered {
			text = fmt.Sprintf("%d. %s", number, text)
		}
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, domain.Block{
				Kind:    domain.BlockListItem,
				Text:    text,
				Level:   level,
				Ordered: ordered,
			})
		}
		blocks = append(blocks, nested...)
	}
	return blocks
}

func tableBlocks(table *ast.Table) []domain.Block {
	var header []string
	var body []string
	ast.WalkFunc(table, func(node ast.Node, entering bool) ast.WalkStatus {
		row, ok := node.(*ast.TableRow)
		if !ok || !entering {
			return ast.GoToNext
		}
		var cells []string
		isHeader := false
		for _, c := range row.GetChildren() {
			cell, ok := c.(*ast.TableCell)
			if !ok {
				continue
			}
			isHeader = isHeader || cell.IsHeader
			cells = append(cells, strings.TrimSpace(inlineText(cell)))
		}
		if _, inHeader := row.GetParent().(*ast.TableHeader); inHeader {
			isHeader = true
		}
		line := strings.Join(cells, " | ")
		if isHeader && header == nil {
			header = []string{line}
		} else if !isHeader {
			body = append(body, line)
		}
		return ast.SkipChildren
	})

	var blocks []domain.Block
	if len(header) > 0 {
		blocks = append(blocks,
			domain.Block{Kind: domain.BlockTableRow, Text: header[0]},
			domain.Block{Kind: domain.BlockTableRow, Text: strings.Repeat("-", utf8.RuneCountInString(header[0]))},
		)
	}
	for _, line := range body {
		blocks = append(blocks, domain.Block{Kind: domain.BlockTableRow, Text: line})
	}
	return blocks
}

// inlineText flattens the inline content of a node. Line breaks become "\n".
func inlineText(node ast.Node) string {
	var buf bytes.Buffer
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Literal)
		case *ast.Code:
			buf.Write(v.Literal)
		case *ast.Hardbreak, *ast.Softbreak:
			buf.WriteByte('\n')
		case *ast.HTMLSpan, *ast.Image:
			return ast.SkipChildren
		}
		return ast.GoToNext
	})
	return buf.String()
}
