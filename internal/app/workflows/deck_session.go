package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/xenking/md2pptx/internal/app/activities"
	"github.com/xenking/md2pptx/internal/domain"
)

// a is used to reference activity methods by name.
var a *activities.Activities

type DeckSessionInput struct {
	ChatID int64
	Title  string
	Theme  string

	// Exactly one source is used, in this order: Markdown, DocumentFileID, Prompt.
	Markdown       string
	DocumentFileID string
	Prompt         string
}

type DeckSessionOutput struct {
	Status   domain.DeckStatus
	Filename string
	Message  string
}

// DeckSession turns one bot request into a delivered deck:
// activities.FetchDocument or activities.DraftMarkdown when needed,
// activities.ConvertMarkdown,
// activities.DeliverDeck, or activities.ReportFailure on failure.
// A deck that cannot be delivered is freed with activities.DiscardDeck.
func DeckSession(ctx workflow.Context, input DeckSessionInput) (DeckSessionOutput, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	})
	logger := workflow.GetLogger(ctx)

	markdown := input.Markdown
	switch {
	case markdown != "":
	case input.DocumentFileID != "":
		var doc activities.FetchDocumentResponse
		err := workflow.ExecuteActivity(ctx, a.FetchDocument, activities.FetchDocumentRequest{
			FileID: input.DocumentFileID,
		}).Get(ctx, &doc)
		if temporal.IsCanceledError(err) {
			return canceled()
		}
		if err != nil {
			logger.Error("fetch document", "error", err)
			return reportFailure(ctx, input.ChatID, "Could not read the document.")
		}
		markdown = doc.Markdown
	case input.Prompt != "":
		var draft activities.DraftMarkdownResponse
		err := workflow.ExecuteActivity(ctx, a.DraftMarkdown, activities.DraftMarkdownRequest{
			Prompt: input.Prompt,
		}).Get(ctx, &draft)
		if temporal.IsCanceledError(err) {
			return canceled()
		}
		if err != nil {
			logger.Error("draft markdown", "error", err)
			return reportFailure(ctx, input.ChatID, "Could not draft the presentation, please try again later.")
		}
		markdown = draft.Markdown
	}

	var converted activities.ConvertMarkdownResponse
	err := workflow.ExecuteActivity(ctx, a.ConvertMarkdown, activities.ConvertMarkdownRequest{
		Markdown: markdown,
		Title:    input.Title,
		Theme:    input.Theme,
	}).Get(ctx, &converted)
	if temporal.IsCanceledError(err) {
		return canceled()
	}
	if err != nil {
		return reportFailure(ctx, input.ChatID, failureMessage(err))
	}

	title := input.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	err = workflow.ExecuteActivity(ctx, a.DeliverDeck, activities.DeliverDeckRequest{
		ChatID:   input.ChatID,
		BlobID:   converted.BlobID,
		Filename: converted.Filename,
		Title:    title,
	}).Get(ctx, nil)
	if err != nil {
		discardDeck(ctx, converted.BlobID)
		if temporal.IsCanceledError(err) {
			return canceled()
		}
		return DeckSessionOutput{}, fmt.Errorf("deliver deck: %w", err)
	}

	return DeckSessionOutput{
		Status:   domain.DeckStatusDelivered,
		Filename: converted.Filename,
		Message:  domain.SuccessText(title),
	}, nil
}

// canceled ends a session whose chat asked to stop waiting. The bot has
// already answered, so nothing is sent.
func canceled() (DeckSessionOutput, error) {
	return DeckSessionOutput{Status: domain.DeckStatusCanceled}, nil
}

// discardDeck drops an undelivered deck. It runs on a disconnected context so
// that it still executes after the session was canceled.
func discardDeck(ctx workflow.Context, blobID string) {
	dctx, cancel := workflow.NewDisconnectedContext(ctx)
	defer cancel()
	err := workflow.ExecuteActivity(dctx, a.DiscardDeck, activities.DiscardDeckRequest{
		BlobID: blobID,
	}).Get(dctx, nil)
	if err != nil {
		workflow.GetLogger(ctx).Warn("discard deck", "blob_id", blobID, "error", err)
	}
}

func reportFailure(ctx workflow.Context, chatID int64, message string) (DeckSessionOutput, error) {
	err := workflow.ExecuteActivity(ctx, a.ReportFailure, activities.ReportFailureRequest{
		ChatID:  chatID,
		Message: message,
	}).Get(ctx, nil)
	return DeckSessionOutput{
		Status:  domain.DeckStatusFailed,
		Message: message,
	}, err
}

// failureMessage extracts the user facing text of a conversion failure.
func failureMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case activities.ErrTypeEmptyMarkdown, activities.ErrTypeConversion:
			return appErr.Message()
		}
	}
	return domain.ConversionErrorText(err)
}
