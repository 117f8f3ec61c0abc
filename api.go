// Package glik is a Go client for the Glik HTTP API.
//
// The package exposes the service's chat, completion, workflow and knowledge-base
// (dataset, document and segment) endpoints as thin methods. Every method builds one
// request, sends it through a dispatch pipeline and hands back the raw *http.Response.
// Responses are never interpreted: status codes, error payloads and streamed chunks
// belong to the caller.
//
// Four feature clients share a single base Client:
//
//   - ChatClient: chat messages, conversations, suggestions, speech-to-text
//   - CompletionClient: text completion messages
//   - WorkflowClient: workflow runs
//   - DatasetClient: datasets, documents and segments
//
// The dispatch pipeline can be wrapped with opt-in reliability options (retry,
// backoff, circuit breaker, rate limiting) and emits observability hooks for
// every request.
//
// Basic usage:
//
//	chat := glik.NewChat(glik.Config{APIKey: apiKey})
//	resp, err := chat.CreateChatMessage(ctx, glik.ChatMessageRequest{
//	    Inputs: map[string]any{},
//	    Query:  "Hello",
//	    User:   "user-123",
//	})
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
//
// Streaming responses (ResponseModeStreaming) are returned with a live body that the
// caller reads incrementally; blocking responses are read into memory before return.
package glik

// DefaultBaseURL is the API root used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.glik.ai/v1"

// ResponseMode selects how the service delivers a generated answer.
type ResponseMode string

// Response modes accepted by chat, completion and workflow endpoints.
const (
	ResponseModeBlocking  ResponseMode = "blocking"
	ResponseModeStreaming ResponseMode = "streaming"
)

// Streaming reports whether the mode asks for an incrementally delivered body.
// Only the exact value "streaming" counts.
func (m ResponseMode) Streaming() bool {
	return m == ResponseModeStreaming
}

// Rating is the feedback value attached to a message.
type Rating string

// Ratings accepted by the feedback endpoint. An empty Rating revokes feedback.
const (
	RatingLike    Rating = "like"
	RatingDislike Rating = "dislike"
)

// Params is a free-form JSON object merged into a request body.
// Merging is shallow: a key in Params replaces the whole value of the same key.
type Params map[string]any

// merge returns a shallow copy of base with every key of extra written over it.
func (p Params) merge(base map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(p))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range p {
		merged[k] = v
	}
	return merged
}

// FileInput references a file attached to a chat or completion message.
// Either URL (TransferMethodRemoteURL) or UploadFileID (TransferMethodLocalFile) is set.
type FileInput struct {
	Type           string `json:"type"`
	TransferMethod string `json:"transfer_method"`
	URL            string `json:"url,omitempty"`
	UploadFileID   string `json:"upload_file_id,omitempty"`
}

// Transfer methods for FileInput.
const (
	TransferMethodRemoteURL = "remote_url"
	TransferMethodLocalFile = "local_file"
)

// Ptr returns a pointer to v. Optional query filters are pointer fields.
func Ptr[T any](v T) *T {
	return &v
}
