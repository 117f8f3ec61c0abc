package glik

import (
	"context"
	"net/http"
)

// DefaultWorkflowUser is sent when WorkflowRunRequest.User is empty.
const DefaultWorkflowUser = "abc-123"

// WorkflowRunRequest is the body of a workflow run.
type WorkflowRunRequest struct {
	Inputs       map[string]any `json:"inputs"`
	ResponseMode ResponseMode   `json:"response_mode"` // Defaults to ResponseModeStreaming
	User         string         `json:"user"`          // Defaults to DefaultWorkflowUser
}

// WorkflowClient runs workflow applications.
type WorkflowClient struct {
	*Client
}

// NewWorkflow creates a workflow client.
func NewWorkflow(config Config, opts ...Option) *WorkflowClient {
	return &WorkflowClient{Client: New(config, opts...)}
}

// Run executes the workflow. Unlike chat and completion, the response mode
// defaults to streaming.
func (c *WorkflowClient) Run(ctx context.Context, req WorkflowRunRequest) (*http.Response, error) {
	if req.ResponseMode == "" {
		req.ResponseMode = ResponseModeStreaming
	}
	if req.User == "" {
		req.User = DefaultWorkflowUser
	}
	return c.Dispatch(ctx, http.MethodPost, "/workflows/run", req, nil, req.ResponseMode.Streaming())
}

// Stop stops a running workflow task.
func (c *WorkflowClient) Stop(ctx context.Context, taskID, user string) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodPost, "/workflows/tasks/"+taskID+"/stop", userBody{User: user}, nil, false)
}

// GetResult fetches the outcome of a workflow run.
func (c *WorkflowClient) GetResult(ctx context.Context, workflowRunID string) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodGet, "/workflows/run/"+workflowRunID, nil, nil, false)
}
