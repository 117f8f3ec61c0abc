package glik

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// NewTerminal creates the terminal processor that performs the HTTP exchange.
// Blocking responses are read into memory so the connection is released before
// return; streaming responses keep the live body for the caller.
// A non-2xx status is not an error.
func NewTerminal(httpClient *http.Client) pipz.Chainable[*Request] {
	return pipz.Apply("http-dispatch", func(ctx context.Context, req *Request) (*Request, error) {
		var body io.Reader
		if req.Payload != nil {
			body = bytes.NewReader(req.Payload)
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
		if err != nil {
			return req, fmt.Errorf("failed to create request: %w", err)
		}
		for k, vv := range req.Header {
			for _, v := range vv {
				httpReq.Header.Add(k, v)
			}
		}

		resp, err := httpClient.Do(httpReq)
		if err != nil {
			return req, fmt.Errorf("request failed: %w", err)
		}

		if !req.Stream {
			data, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return req, fmt.Errorf("failed to read response: %w", readErr)
			}
			resp.Body = io.NopCloser(bytes.NewReader(data))
		}

		req.Response = resp
		return req, nil
	})
}

// GetPipeline returns the dispatch pipeline for composition.
// This is used by WithFallback to combine pipelines.
func (c *Client) GetPipeline() pipz.Chainable[*Request] {
	return c.pipeline
}

// execute runs a prepared request through the pipeline and reports it through
// hooks and the logger. The response is returned untouched.
func (c *Client) execute(ctx context.Context, req *Request) (*http.Response, error) {
	startTime := time.Now()
	req.RequestID = uuid.New().String()

	// Emit request.started hook
	capitan.Info(ctx, RequestStarted,
		RequestIDKey.Field(req.RequestID),
		MethodKey.Field(req.Method),
		PathKey.Field(req.Path),
		ResponseModeKey.Field(req.responseMode()),
		PayloadBytesKey.Field(len(req.Payload)),
	)

	c.logger.Debug("sending request",
		"request_id", req.RequestID,
		"method", req.Method,
		"path", req.Path,
		"response_mode", req.responseMode(),
	)

	processed, err := c.pipeline.Process(ctx, req)
	duration := time.Since(startTime)
	if err != nil {
		// Emit request.failed hook
		capitan.Error(ctx, RequestFailed,
			RequestIDKey.Field(req.RequestID),
			MethodKey.Field(req.Method),
			PathKey.Field(req.Path),
			DurationMsKey.Field(int(duration.Milliseconds())),
			ErrorKey.Field(err.Error()),
		)
		c.logger.Error("request failed",
			"request_id", req.RequestID,
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		return nil, err
	}

	resp := processed.Response
	if resp == nil {
		return nil, fmt.Errorf("no response from transport")
	}

	// Emit request.completed hook
	capitan.Info(ctx, RequestCompleted,
		RequestIDKey.Field(req.RequestID),
		MethodKey.Field(req.Method),
		PathKey.Field(req.Path),
		ResponseModeKey.Field(req.responseMode()),
		HTTPStatusCodeKey.Field(resp.StatusCode),
		DurationMsKey.Field(int(duration.Milliseconds())),
	)

	c.logger.Debug("received response",
		"request_id", req.RequestID,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)

	return resp, nil
}
