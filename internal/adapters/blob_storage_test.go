package adapters

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBlobStorage(t *testing.T) {
	s := NewInMemoryBlobStorage()

	id := s.Store([]byte("deck"))
	data, ok := s.Load(id)
	require.True(t, ok)
	assert.Equal(t, []byte("deck"), data)

	_, ok = s.Load(id)
	assert.True(t, ok, "load keeps the blob")

	s.Delete(id)
	_, ok = s.Load(id)
	assert.False(t, ok)
	assert.Zero(t, s.Len())

	_, ok = s.Load(uuid.New())
	assert.False(t, ok)
}
