package glik

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zoobzio/pipz"
)

// Option modifies the dispatch pipeline for reliability features.
// No option is applied by default: a plain client sends each request exactly once.
// Only transport failures count as failures; a response with any status code is a
// successful dispatch and is never retried.
type Option func(pipz.Chainable[*Request]) pipz.Chainable[*Request]

// WithRetry adds retry logic to the pipeline.
// Failed dispatches are retried up to maxAttempts times with the same payload.
func WithRetry(maxAttempts int) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewRetry("retry", pipeline, maxAttempts)
	}
}

// WithBackoff adds retry logic with exponential backoff to the pipeline.
// The delay starts at baseDelay and doubles after each failure.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewBackoff("backoff", pipeline, maxAttempts, baseDelay)
	}
}

// WithTimeout bounds each non-streaming dispatch to duration.
// Streaming requests pass through untouched: their body outlives the dispatch
// and a deadline would cut it off mid-stream.
func WithTimeout(duration time.Duration) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		timeout := pipz.NewTimeout("timeout", pipeline, duration)
		return pipz.Apply("timeout-blocking", func(ctx context.Context, req *Request) (*Request, error) {
			if req.Stream {
				return pipeline.Process(ctx, req)
			}
			return timeout.Process(ctx, req)
		})
	}
}

// WithCircuitBreaker adds circuit breaker protection to the pipeline.
// After 'failures' consecutive failures, the circuit opens for 'recovery' duration.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewCircuitBreaker("circuit-breaker", pipeline, failures, recovery)
	}
}

// WithRateLimit adds rate limiting to the pipeline.
// rps = requests per second, burst = burst capacity.
func WithRateLimit(rps float64, burst int) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		rateLimiter := pipz.NewRateLimiter[*Request]("rate-limit", rps, burst)
		return pipz.NewSequence("rate-limited", rateLimiter, pipeline)
	}
}

// WithErrorHandler adds error handling to the pipeline.
// The handler receives the failed request and error; the error is still returned
// to the caller.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Request]]) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewHandle("error-handler", pipeline, handler)
	}
}

// ServiceProvider is implemented by types that can provide a pipeline for composition.
// Client and every feature client satisfy it.
type ServiceProvider interface {
	GetPipeline() pipz.Chainable[*Request]
}

// WithFallback adds a fallback service for resilience.
// If the primary dispatch fails, the request is sent through the fallback's
// pipeline, which rebinds it to the fallback's base URL and API key.
func WithFallback(fallback ServiceProvider) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewFallback("with-fallback", pipeline, fallback.GetPipeline())
	}
}

// WithDebug writes each request line and the resulting status or error to w.
// Bodies are not printed.
func WithDebug(w io.Writer) Option {
	return func(pipeline pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.Apply("debug", func(ctx context.Context, req *Request) (*Request, error) {
			fmt.Fprintf(w, "=== DEBUG: %s %s (%s, %d bytes)\n", req.Method, req.URL, req.responseMode(), len(req.Payload))

			processed, err := pipeline.Process(ctx, req)
			if err != nil {
				fmt.Fprintf(w, "=== DEBUG: error: %v\n", err)
				return processed, err
			}

			if processed != nil && processed.Response != nil {
				fmt.Fprintf(w, "=== DEBUG: status %d\n", processed.Response.StatusCode)
			}
			return processed, nil
		})
	}
}
