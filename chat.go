package glik

import (
	"context"
	"net/http"
)

// ChatMessageRequest is the body of a chat message.
type ChatMessageRequest struct {
	Inputs       map[string]any `json:"inputs"`
	Query        string         `json:"query"`
	User         string         `json:"user"`
	ResponseMode ResponseMode   `json:"response_mode"` // Defaults to ResponseModeBlocking
	Files        []FileInput    `json:"files"`
	// ConversationID continues an existing conversation; omitted when empty.
	ConversationID string `json:"conversation_id,omitempty"`
}

// ConversationsQuery filters the conversation list. Nil filters are not sent.
type ConversationsQuery struct {
	User   string  `json:"user"`
	LastID *string `json:"last_id,omitempty"`
	Limit  *int    `json:"limit,omitempty"`
	Pinned *bool   `json:"pinned,omitempty"`
}

// MessagesQuery selects the messages of a conversation. Empty filters are not sent.
type MessagesQuery struct {
	User           string `json:"user"`
	ConversationID string `json:"conversation_id,omitempty"`
	FirstID        string `json:"first_id,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

// ChatClient talks to chat applications.
type ChatClient struct {
	*Client
}

// NewChat creates a chat client.
func NewChat(config Config, opts ...Option) *ChatClient {
	return &ChatClient{Client: New(config, opts...)}
}

// CreateChatMessage sends a chat message. With ResponseModeStreaming the response
// body is returned unread and carries the event stream.
func (c *ChatClient) CreateChatMessage(ctx context.Context, req ChatMessageRequest) (*http.Response, error) {
	if req.ResponseMode == "" {
		req.ResponseMode = ResponseModeBlocking
	}
	return c.Dispatch(ctx, http.MethodPost, "/chat-messages", req, nil, req.ResponseMode.Streaming())
}

// GetSuggested returns suggested follow-up questions for a message.
func (c *ChatClient) GetSuggested(ctx context.Context, messageID, user string) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodGet, "/messages/"+messageID+"/suggested", nil, userQuery(user), false)
}

type userBody struct {
	User string `json:"user"`
}

// StopMessage stops a streaming generation task.
func (c *ChatClient) StopMessage(ctx context.Context, taskID, user string) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodPost, "/chat-messages/"+taskID+"/stop", userBody{User: user}, nil, false)
}

// GetConversations lists the user's conversations.
func (c *ChatClient) GetConversations(ctx context.Context, query ConversationsQuery) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodGet, "/conversations", nil, encodeQuery(query), false)
}

// GetConversationMessages lists messages, newest page first.
func (c *ChatClient) GetConversationMessages(ctx context.Context, query MessagesQuery) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodGet, "/messages", nil, encodeQuery(query), false)
}

type renameConversationRequest struct {
	Name         string `json:"name"`
	AutoGenerate bool   `json:"auto_generate"`
	User         string `json:"user"`
}

// RenameConversation sets a conversation's name, or asks the service to generate one.
func (c *ChatClient) RenameConversation(ctx context.Context, conversationID, name string, autoGenerate bool, user string) (*http.Response, error) {
	body := renameConversationRequest{Name: name, AutoGenerate: autoGenerate, User: user}
	return c.Dispatch(ctx, http.MethodPost, "/conversations/"+conversationID+"/name", body, nil, false)
}

// DeleteConversation deletes a conversation.
func (c *ChatClient) DeleteConversation(ctx context.Context, conversationID, user string) (*http.Response, error) {
	return c.Dispatch(ctx, http.MethodDelete, "/conversations/"+conversationID, userBody{User: user}, nil, false)
}

// AudioToText transcribes an audio file. audio.Field defaults to "audio_file".
func (c *ChatClient) AudioToText(ctx context.Context, audio File, user string) (*http.Response, error) {
	if audio.Field == "" {
		audio.Field = "audio_file"
	}
	return c.DispatchMultipart(ctx, http.MethodPost, "/audio-to-text", map[string]string{"user": user}, []File{audio})
}
