package glik

import (
	"net/http"
	"net/url"
)

// Request flows through the dispatch pipeline.
// Bodies are encoded before the pipeline runs so every attempt can replay Payload.
type Request struct {
	// Input fields
	Method  string      // HTTP verb
	Path    string      // Endpoint path relative to the base URL
	Query   url.Values  // Query parameters appended to Path, nil for none
	URL     string      // Absolute URL including the query string
	Header  http.Header // Authorization and content type
	Payload []byte      // Encoded JSON or multipart body, nil for none
	Stream  bool        // Hand the body back unread

	// Metadata fields
	RequestID string // Unique identifier for this request

	// Output fields (populated by pipeline)
	Response *http.Response // Raw response from the transport
}

// responseMode names the transfer mode for hooks and logs.
func (r *Request) responseMode() string {
	if r.Stream {
		return string(ResponseModeStreaming)
	}
	return string(ResponseModeBlocking)
}
