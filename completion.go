package glik

import (
	"context"
	"net/http"
)

// CompletionMessageRequest is the body of a completion message.
type CompletionMessageRequest struct {
	Inputs       map[string]any `json:"inputs"`
	ResponseMode ResponseMode   `json:"response_mode"` // Defaults to ResponseModeBlocking
	User         string         `json:"user"`
	Files        []FileInput    `json:"files"`
}

// CompletionClient talks to text completion applications.
type CompletionClient struct {
	*Client
}

// NewCompletion creates a completion client.
func NewCompletion(config Config, opts ...Option) *CompletionClient {
	return &CompletionClient{Client: New(config, opts...)}
}

// CreateCompletionMessage requests a completion. The stream flag follows the
// response mode exactly as for chat messages.
func (c *CompletionClient) CreateCompletionMessage(ctx context.Context, req CompletionMessageRequest) (*http.Response, error) {
	if req.ResponseMode == "" {
		req.ResponseMode = ResponseModeBlocking
	}
	return c.Dispatch(ctx, http.MethodPost, "/completion-messages", req, nil, req.ResponseMode.Streaming())
}
