package activities

import (
	"context"

	"github.com/google/uuid"
)

type DiscardDeckRequest struct {
	BlobID string
}

// DiscardDeck frees a stored deck that will never be delivered.
func (a *Activities) DiscardDeck(ctx context.Context, req DiscardDeckRequest) error {
	id, err := uuid.Parse(req.BlobID)
	if err != nil {
		return nil
	}
	a.BlobStorage.Delete(id)
	return nil
}
