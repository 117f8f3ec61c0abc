// Package testing provides utilities for testing code built on the glik client.
//
// Server records every request it receives and answers with canned responses, so
// tests can assert on exactly what went over the wire. The transports wrap an
// http.RoundTripper to inject failures or latency.
package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ResponseBuilder provides a fluent interface for constructing mock API responses.
type ResponseBuilder struct {
	data map[string]any
}

// NewResponseBuilder creates a new ResponseBuilder.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{
		data: make(map[string]any),
	}
}

// WithAnswer sets the answer field (chat and completion messages).
func (b *ResponseBuilder) WithAnswer(answer string) *ResponseBuilder {
	b.data["answer"] = answer
	return b
}

// WithMessageID sets the message_id field.
func (b *ResponseBuilder) WithMessageID(id string) *ResponseBuilder {
	b.data["message_id"] = id
	return b
}

// WithConversationID sets the conversation_id field.
func (b *ResponseBuilder) WithConversationID(id string) *ResponseBuilder {
	b.data["conversation_id"] = id
	return b
}

// WithTaskID sets the task_id field.
func (b *ResponseBuilder) WithTaskID(id string) *ResponseBuilder {
	b.data["task_id"] = id
	return b
}

// WithResult sets the result field (stop and feedback endpoints).
func (b *ResponseBuilder) WithResult(result string) *ResponseBuilder {
	b.data["result"] = result
	return b
}

// WithBatch sets the batch field (document creation).
func (b *ResponseBuilder) WithBatch(batch string) *ResponseBuilder {
	b.data["batch"] = batch
	return b
}

// WithData sets the data field (list endpoints).
func (b *ResponseBuilder) WithData(items ...any) *ResponseBuilder {
	b.data["data"] = items
	return b
}

// WithField sets an arbitrary field.
func (b *ResponseBuilder) WithField(key string, value any) *ResponseBuilder {
	b.data[key] = value
	return b
}

// Build returns the JSON string representation of the response.
func (b *ResponseBuilder) Build() string {
	jsonBytes, err := json.Marshal(b.data)
	if err != nil {
		return "{}"
	}
	return string(jsonBytes)
}

// BuildBytes returns the JSON bytes of the response.
func (b *ResponseBuilder) BuildBytes() []byte {
	jsonBytes, err := json.Marshal(b.data)
	if err != nil {
		return []byte("{}")
	}
	return jsonBytes
}

// StreamEvents renders events as a server-sent event stream, one "data:" line each.
func StreamEvents(events ...string) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString("data: ")
		sb.WriteString(e)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// RecordedFile is a file part of a recorded multipart request.
type RecordedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// RecordedRequest is a request as seen by the Server.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
	Body     []byte

	// Populated for multipart/form-data requests.
	Form  map[string]string
	Files map[string]RecordedFile
}

// JSON decodes the recorded body into a generic map.
func (r RecordedRequest) JSON() (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	return out, nil
}

// Response is a canned answer served by the Server.
type Response struct {
	Status      int
	Body        string
	ContentType string
	// Chunks, when set, are written and flushed one by one instead of Body.
	Chunks []string
}

// Server is an httptest server that records requests and replays responses in
// sequence. After all responses are exhausted, it repeats the last one.
type Server struct {
	*httptest.Server

	responses []Response
	index     atomic.Int64
	requests  []RecordedRequest
	mu        sync.Mutex
}

// NewServer starts a recording server. With no responses it answers 200 "{}".
func NewServer(responses ...Response) *Server {
	if len(responses) == 0 {
		responses = []Response{{Status: http.StatusOK, Body: "{}"}}
	}
	s := &Server{responses: responses}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// NewJSONServer starts a recording server that always answers status with body.
func NewJSONServer(status int, body string) *Server {
	return NewServer(Response{Status: status, Body: body})
}

// NewStreamServer starts a recording server answering with an event stream.
func NewStreamServer(events ...string) *Server {
	chunks := make([]string, len(events))
	for i, e := range events {
		chunks[i] = StreamEvents(e)
	}
	return NewServer(Response{Status: http.StatusOK, ContentType: "text/event-stream", Chunks: chunks})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	idx := s.index.Add(1) - 1
	if int(idx) >= len(s.responses) {
		idx = int64(len(s.responses) - 1)
	}
	resp := s.responses[idx]

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)

	if len(resp.Chunks) == 0 {
		_, _ = io.WriteString(w, resp.Body)
		return
	}
	flusher, _ := w.(http.Flusher)
	for _, chunk := range resp.Chunks {
		_, _ = io.WriteString(w, chunk)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Query:    r.URL.Query(),
		Header:   r.Header.Clone(),
		Body:     body,
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		rec.Form, rec.Files = parseMultipart(body, params["boundary"])
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
}

func parseMultipart(body []byte, boundary string) (map[string]string, map[string]RecordedFile) {
	form := make(map[string]string)
	files := make(map[string]RecordedFile)

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}
		content, _ := io.ReadAll(part)
		if part.FileName() != "" {
			files[part.FormName()] = RecordedFile{
				Filename:    part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Content:     content,
			}
		} else {
			form[part.FormName()] = string(content)
		}
		part.Close()
	}
	return form, files
}

// Requests returns a copy of all recorded requests.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := make([]RecordedRequest, len(s.requests))
	copy(requests, s.requests)
	return requests
}

// RequestCount returns the number of requests recorded.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// LastRequest returns the most recent request, or nil if none was made.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return nil
	}
	req := s.requests[len(s.requests)-1]
	return &req
}

// Reset clears recorded requests and rewinds the response sequence.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.index.Store(0)
}

// FailingTransport fails a specified number of round trips before delegating.
type FailingTransport struct {
	next         http.RoundTripper
	failCount    int
	currentCount atomic.Int64
	failError    string
}

// NewFailingTransport creates a transport that fails failCount times then
// delegates to next (http.DefaultTransport when nil).
func NewFailingTransport(next http.RoundTripper, failCount int) *FailingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &FailingTransport{
		next:      next,
		failCount: failCount,
		failError: "simulated transport failure",
	}
}

// WithFailError sets the error message for failures.
func (t *FailingTransport) WithFailError(errMsg string) *FailingTransport {
	t.failError = errMsg
	return t
}

// RoundTrip fails until failCount is reached, then delegates.
func (t *FailingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	count := t.currentCount.Add(1)
	if int(count) <= t.failCount {
		if r.Body != nil {
			r.Body.Close()
		}
		return nil, fmt.Errorf("%s (attempt %d/%d)", t.failError, count, t.failCount)
	}
	return t.next.RoundTrip(r)
}

// CallCount returns the number of round trips attempted.
func (t *FailingTransport) CallCount() int {
	return int(t.currentCount.Load())
}

// Reset resets the call counter.
func (t *FailingTransport) Reset() {
	t.currentCount.Store(0)
}

// LatencyTransport adds artificial latency before each round trip.
type LatencyTransport struct {
	next  http.RoundTripper
	delay time.Duration
}

// NewLatencyTransport wraps next (http.DefaultTransport when nil) with a delay.
// The delay respects request context cancellation.
func NewLatencyTransport(next http.RoundTripper, delay time.Duration) *LatencyTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LatencyTransport{next: next, delay: delay}
}

// RoundTrip waits for the delay then delegates.
func (t *LatencyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.delay > 0 {
		select {
		case <-time.After(t.delay):
			// Delay completed
		case <-r.Context().Done():
			return nil, r.Context().Err()
		}
	}
	return t.next.RoundTrip(r)
}
