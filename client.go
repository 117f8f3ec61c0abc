package glik

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/zoobzio/pipz"
)

// Config holds configuration shared by every Glik client.
type Config struct {
	APIKey     string
	BaseURL    string        // Optional, defaults to DefaultBaseURL
	Timeout    time.Duration // Optional, zero leaves the transport without a deadline
	HTTPClient *http.Client  // Optional, replaces the default client (Timeout is then ignored)
	Logger     hclog.Logger  // Optional, defaults to a null logger
	Fs         afero.Fs      // Optional, filesystem used to open upload paths; defaults to the OS
}

// Client owns the credentials and base URL and dispatches requests to the API.
// Feature clients embed it; it can also be used on its own for the app-level
// endpoints (feedback, parameters, uploads, text-to-audio, meta).
//
// A Client holds no mutable state and is safe for concurrent use.
type Client struct {
	apiKey   string
	baseURL  string
	logger   hclog.Logger
	fs       afero.Fs
	pipeline pipz.Chainable[*Request]
}

// New creates a client. Options wrap the dispatch pipeline in the order given.
func New(config Config, opts ...Option) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Logger == nil {
		config.Logger = hclog.NewNullLogger()
	}
	if config.Fs == nil {
		config.Fs = afero.NewOsFs()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	var pipeline pipz.Chainable[*Request] = pipz.NewSequence("dispatch",
		bindEndpoint(config.BaseURL, config.APIKey),
		NewTerminal(httpClient),
	)
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}

	return &Client{
		apiKey:   config.APIKey,
		baseURL:  config.BaseURL,
		logger:   config.Logger.Named("glik"),
		fs:       config.Fs,
		pipeline: pipeline,
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Dispatch sends a JSON request. body is encoded when non-nil; query entries are
// appended to the URL. stream hands the response body back unread.
// The response is returned whatever its status; err is set only for local
// encoding failures and transport failures.
func (c *Client) Dispatch(ctx context.Context, method, path string, body any, query url.Values, stream bool) (*http.Response, error) {
	var payload []byte
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = jsonBody
	}

	header := c.authHeader()
	header.Set("Content-Type", "application/json")

	return c.execute(ctx, &Request{
		Method:  method,
		Path:    path,
		Query:   query,
		URL:     c.resolveURL(path, query),
		Header:  header,
		Payload: payload,
		Stream:  stream,
	})
}

// DispatchMultipart sends a multipart/form-data request with form fields and file
// attachments. Only the Authorization header is set by the client; the content
// type carries the boundary chosen by the multipart writer.
func (c *Client) DispatchMultipart(ctx context.Context, method, path string, form map[string]string, files []File) (*http.Response, error) {
	payload, contentType, err := encodeMultipart(form, files)
	if err != nil {
		return nil, err
	}

	header := c.authHeader()
	header.Set("Content-Type", contentType)

	return c.execute(ctx, &Request{
		Method:  method,
		Path:    path,
		URL:     c.resolveURL(path, nil),
		Header:  header,
		Payload: payload,
	})
}

func (c *Client) authHeader() http.Header {
	header := make(http.Header)
	header.Set("Authorization", "Bearer "+c.apiKey)
	return header
}

// bindEndpoint points a request at baseURL and authorizes it with apiKey.
// A fallback client's pipeline rebinds the request to its own endpoint.
func bindEndpoint(baseURL, apiKey string) pipz.Chainable[*Request] {
	return pipz.Apply("endpoint", func(_ context.Context, req *Request) (*Request, error) {
		if req.Header == nil {
			req.Header = make(http.Header)
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.URL = joinURL(baseURL, req.Path, req.Query)
		return req, nil
	})
}

func (c *Client) resolveURL(path string, query url.Values) string {
	return joinURL(c.baseURL, path, query)
}

// joinURL concatenates the base URL and path, then appends the query.
// A path that already carries a query string is extended with '&'.
func joinURL(baseURL, path string, query url.Values) string {
	u := baseURL + path
	if len(query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + query.Encode()
}

type feedbackRequest struct {
	Rating *Rating `json:"rating"`
	User   string  `json:"user"`
}

// MessageFeedback rates a message. An empty rating is sent as null.
func (c *Client) MessageFeedback(ctx context.Context, messageID string, rating Rating, user string) (*http.Response, error) {
	body := feedbackRequest{User: user}
	if rating != "" {
		body.Rating = &rating
	}
	return c.Dispatch(ctx, http.MethodPost, "/messages/"+messageID+"/feedbacks", body, nil, false)
}

// GetApplicationParameters retrieves the application's input form and feature settings.
func (c *Client) GetApplicationParameters(ctx context.Context, user string) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodGet, "/parameters", nil, userQuery(user), false)
}

// FileUpload uploads files for later use as message attachments.
func (c *Client) FileUpload(ctx context.Context, user string, files ...File) (*http.Response, error) {
	return c.DispatchMultipart(ctx, http.MethodPost, "/files/upload", map[string]string{"user": user}, files)
}

type textToAudioRequest struct {
	Text      string `json:"text"`
	User      string `json:"user"`
	Streaming bool   `json:"streaming"`
}

// TextToAudio converts text to speech. streaming is forwarded to the service in
// the body; the response is buffered like any blocking call.
func (c *Client) TextToAudio(ctx context.Context, text, user string, streaming bool) (*http.Response, error) {
	body := textToAudioRequest{Text: text, User: user, Streaming: streaming}
	return c.Dispatch(ctx, http.MethodPost, "/text-to-audio", body, nil, false)
}

// GetMeta retrieves application metadata such as tool icons.
func (c *Client) GetMeta(ctx context.Context, user string) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodGet, "/meta", nil, userQuery(user), false)
}

func userQuery(user string) url.Values {
	return url.Values{"user": []string{user}}
}
