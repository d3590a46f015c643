package domain

import (
	"context"

	"go.temporal.io/sdk/client"
)

const DeckRequestsQueue = "deck-requests-queue"

type TemporalClient interface {
	client.Client
}

// WorkflowClient is the part of the Temporal client the bot needs.
type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	CancelWorkflow(ctx context.Context, workflowID string, runID string) error
}
