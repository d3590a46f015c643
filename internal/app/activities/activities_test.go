package activities

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/xenking/md2pptx/internal/domain"
)

type memBlobs map[uuid.UUID][]byte

func (m memBlobs) Store(data []byte) uuid.UUID {
	id := uuid.New()
	m[id] = data
	return id
}

func (m memBlobs) Load(id uuid.UUID) ([]byte, bool) {
	data, ok := m[id]
	return data, ok
}

func (m memBlobs) Delete(id uuid.UUID) { delete(m, id) }

type failingConverter struct{}

func (failingConverter) ConvertToPPTX(context.Context, domain.ConvertRequest) (*domain.Presentation, error) {
	return nil, errors.New("bad input")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, "## A\n- b", stripCodeFence("```markdown\n## A\n- b\n```"))
	assert.Equal(t, "## A", stripCodeFence("  ## A \n"))
	assert.Equal(t, "```", stripCodeFence("```"))
	assert.Equal(t, "```inline```", stripCodeFence("```inline```"))
}

func TestConvertMarkdownErrorsAreNonRetryable(t *testing.T) {
	a := &Activities{Converter: failingConverter{}, BlobStorage: memBlobs{}}

	_, err := a.ConvertMarkdown(context.Background(), ConvertMarkdownRequest{Markdown: "\n"})
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeEmptyMarkdown, appErr.Type())
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "No markdown content provided.", appErr.Message())

	_, err = a.ConvertMarkdown(context.Background(), ConvertMarkdownRequest{Markdown: "# x"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeConversion, appErr.Type())
	assert.Equal(t, "Error converting markdown to PPTX: bad input", appErr.Message())
}

func TestDeliverDeckMissingBlob(t *testing.T) {
	a := &Activities{BlobStorage: memBlobs{}, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := a.DeliverDeck(context.Background(), DeliverDeckRequest{BlobID: uuid.NewString()})
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeBlobMissing, appErr.Type())

	err = a.DeliverDeck(context.Background(), DeliverDeckRequest{BlobID: "not-a-uuid"})
	require.ErrorAs(t, err, &appErr)
}
