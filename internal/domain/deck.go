package domain

type SlideLayout string

const (
	LayoutTitle   SlideLayout = "title"
	LayoutSection SlideLayout = "section"
	LayoutContent SlideLayout = "content"
	LayoutTable   SlideLayout = "table"
)

type BlockKind string

const (
	BlockParagraph  BlockKind = "paragraph"
	BlockListItem   BlockKind = "list_item"
	BlockCode       BlockKind = "code"
	BlockSubheading BlockKind = "subheading"
	BlockTableRow   BlockKind = "table_row"
)

// Block is one paragraph of slide body text.
type Block struct {
	Kind BlockKind
	Text string
	// Level is the list nesting depth, 0 for top level items.
	Level   int
	Ordered bool
	// HeadingLevel is set for subheadings.
	HeadingLevel int
}

type Slide struct {
	Layout   SlideLayout
	Title    string
	Subtitle string
	Blocks   []Block
}

func (s Slide) HasTable() bool {
	for _, b := range s.Blocks {
		if b.Kind == BlockTableRow {
			return true
		}
	}
	return false
}

// Deck is the slide structure derived from a Markdown document.
type Deck struct {
	Title    string
	Metadata map[string]string
	Slides   []Slide
}
