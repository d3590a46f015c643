package domain

import "github.com/google/uuid"

// BlobStorage keeps rendered decks between workflow activities so that the
// bytes never travel through workflow history.
type BlobStorage interface {
	Store(data []byte) uuid.UUID
	Load(id uuid.UUID) ([]byte, bool)
	Delete(id uuid.UUID)
}
