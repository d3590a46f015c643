package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolParameters(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		want    ToolParameters
		wantErr error
	}{
		{
			name:   "defaults",
			params: map[string]any{"markdown_content": "# Hi"},
			want:   ToolParameters{MarkdownContent: "# Hi", Title: "Presentation", Theme: "default"},
		},
		{
			name: "explicit values",
			params: map[string]any{
				"markdown_content": "# Hi",
				"title":            " Q3 Review ",
				"theme":            "dark",
			},
			want: ToolParameters{MarkdownContent: "# Hi", Title: "Q3 Review", Theme: "dark"},
		},
		{
			name:   "blank title and nil theme",
			params: map[string]any{"markdown_content": "x", "title": "  ", "theme": nil},
			want:   ToolParameters{MarkdownContent: "x", Title: "Presentation", Theme: "default"},
		},
		{
			name:   "non string scalars",
			params: map[string]any{"markdown_content": 42, "title": 2024},
			want:   ToolParameters{MarkdownContent: "42", Title: "2024", Theme: "default"},
		},
		{
			name:    "missing content",
			params:  map[string]any{"title": "T"},
			want:    ToolParameters{Title: "T", Theme: "default"},
			wantErr: ErrEmptyMarkdown,
		},
		{
			name:    "whitespace content",
			params:  map[string]any{"markdown_content": " \n\t"},
			want:    ToolParameters{MarkdownContent: " \n\t", Title: "Presentation", Theme: "default"},
			wantErr: ErrEmptyMarkdown,
		},
		{
			name:    "nil map",
			want:    ToolParameters{Title: "Presentation", Theme: "default"},
			wantErr: ErrEmptyMarkdown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToolParameters(tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeckFilename(t *testing.T) {
	assert.Equal(t, "Presentation.pptx", DeckFilename(""))
	assert.Equal(t, "Q3_Review.pptx", DeckFilename("Q3 Review"))
	assert.Equal(t, "a_b_c.pptx", DeckFilename(`a/b\c`))
	assert.Equal(t, "Plan_2025.pptx", ToolParameters{Title: "Plan 2025"}.Filename())
}

func TestResponseTexts(t *testing.T) {
	assert.Equal(t, "PowerPoint presentation 'Deck' generated successfully", SuccessText("Deck"))
	assert.Equal(t, "Error converting markdown to PPTX: boom", ConversionErrorText(errors.New("boom")))
}
