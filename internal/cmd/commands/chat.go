package commands

import (
	"context"
	"fmt"
	"net/http"

	glik "github.com/rivalz-glik/glik-go"
	"github.com/rivalz-glik/glik-go/internal/cmd/base"
)

// responseMode maps the -stream flag onto a response mode.
func responseMode(stream bool) glik.ResponseMode {
	if stream {
		return glik.ResponseModeStreaming
	}
	return glik.ResponseModeBlocking
}

// readInputs loads the -inputs file; the service expects an object even when empty.
func readInputs(s *Session, path string) (map[string]any, error) {
	inputs, err := s.ReadObject(path)
	if err != nil {
		return nil, err
	}
	if inputs == nil {
		inputs = map[string]any{}
	}
	return inputs, nil
}

// fileInputs builds message attachments from remote URLs and uploaded file ids.
func fileInputs(fileType string, urls, uploadIDs []string) []glik.FileInput {
	var files []glik.FileInput
	for _, u := range urls {
		files = append(files, glik.FileInput{Type: fileType, TransferMethod: glik.TransferMethodRemoteURL, URL: u})
	}
	for _, id := range uploadIDs {
		files = append(files, glik.FileInput{Type: fileType, TransferMethod: glik.TransferMethodLocalFile, UploadFileID: id})
	}
	return files
}

func newChatCommand(b *base.Command) *APICommand {
	var query, inputsPath, conversationID, user, fileURLs, uploadIDs, fileType string
	var stream bool
	return &APICommand{
		Command:  b,
		name:     "chat",
		synopsis: "Send a chat message",
		usage: `Sends a chat message. With -stream the event stream is written to stdout as it
  arrives. Subcommands manage running tasks and suggestions.`,
		flags: func(f *base.FlagSet) {
			f.StringVar(&query, "query", "", "(Required) Message text.")
			f.StringVar(&inputsPath, "inputs", "", "YAML or JSON file with application inputs.")
			f.StringVar(&conversationID, "conversation-id", "", "Continue an existing conversation.")
			f.StringVar(&user, "user", "", "End-user identifier.")
			f.StringVar(&fileURLs, "file-url", "", "Comma-separated remote file URLs to attach.")
			f.StringVar(&uploadIDs, "upload-id", "", "Comma-separated uploaded file ids to attach.")
			f.StringVar(&fileType, "file-type", "image", "Type of attached files.")
			f.BoolVar(&stream, "stream", false, "Use streaming response mode.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"query": query}); err != nil {
				return nil, err
			}
			inputs, err := readInputs(s, inputsPath)
			if err != nil {
				return nil, err
			}
			return s.Chat().CreateChatMessage(ctx, glik.ChatMessageRequest{
				Inputs:         inputs,
				Query:          query,
				User:           s.User(user),
				ResponseMode:   responseMode(stream),
				Files:          fileInputs(fileType, splitList(fileURLs), splitList(uploadIDs)),
				ConversationID: conversationID,
			})
		},
	}
}

func newChatStopCommand(b *base.Command) *APICommand {
	var taskID, user string
	return &APICommand{
		Command:  b,
		name:     "chat stop",
		synopsis: "Stop a streaming chat task",
		usage:    "Stops generation of a streaming chat message.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&taskID, "task-id", "", "(Required) Task to stop.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"task-id": taskID}); err != nil {
				return nil, err
			}
			return s.Chat().StopMessage(ctx, taskID, s.User(user))
		},
	}
}

func newChatSuggestedCommand(b *base.Command) *APICommand {
	var messageID, user string
	return &APICommand{
		Command:  b,
		name:     "chat suggested",
		synopsis: "Show suggested follow-up questions",
		usage:    "Lists suggested follow-up questions for a message.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&messageID, "message-id", "", "(Required) Message to get suggestions for.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"message-id": messageID}); err != nil {
				return nil, err
			}
			return s.Chat().GetSuggested(ctx, messageID, s.User(user))
		},
	}
}

func newConversationsCommand(b *base.Command) *APICommand {
	var user, lastID, pinned string
	var limit int
	return &APICommand{
		Command:  b,
		name:     "conversations",
		synopsis: "List conversations",
		usage:    "Lists the user's conversations. Subcommands read, rename and delete them.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&user, "user", "", "End-user identifier.")
			f.StringVar(&lastID, "last-id", "", "Return conversations after this one.")
			f.IntVar(&limit, "limit", 0, "Page size.")
			f.StringVar(&pinned, "pinned", "", "Filter by pinned state: true or false.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			query := glik.ConversationsQuery{User: s.User(user)}
			if lastID != "" {
				query.LastID = glik.Ptr(lastID)
			}
			if s.IsSet("limit") {
				query.Limit = glik.Ptr(limit)
			}
			p, err := optionalBool("pinned", pinned)
			if err != nil {
				return nil, err
			}
			query.Pinned = p
			return s.Chat().GetConversations(ctx, query)
		},
	}
}

func newConversationMessagesCommand(b *base.Command) *APICommand {
	var user, conversationID, firstID string
	var limit int
	return &APICommand{
		Command:  b,
		name:     "conversations messages",
		synopsis: "List messages of a conversation",
		usage:    "Lists messages, newest page first.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&user, "user", "", "End-user identifier.")
			f.StringVar(&conversationID, "conversation-id", "", "Conversation to read.")
			f.StringVar(&firstID, "first-id", "", "Return messages before this one.")
			f.IntVar(&limit, "limit", 0, "Page size.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			return s.Chat().GetConversationMessages(ctx, glik.MessagesQuery{
				User:           s.User(user),
				ConversationID: conversationID,
				FirstID:        firstID,
				Limit:          limit,
			})
		},
	}
}

func newConversationRenameCommand(b *base.Command) *APICommand {
	var conversationID, name, user string
	var autoGenerate bool
	return &APICommand{
		Command:  b,
		name:     "conversations rename",
		synopsis: "Rename a conversation",
		usage:    "Sets a conversation name, or asks the service to generate one with -auto-generate.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&conversationID, "conversation-id", "", "(Required) Conversation to rename.")
			f.StringVar(&name, "name", "", "New name.")
			f.BoolVar(&autoGenerate, "auto-generate", false, "Let the service pick a name.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"conversation-id": conversationID}); err != nil {
				return nil, err
			}
			if name == "" && !autoGenerate {
				return nil, fmt.Errorf("either -name or -auto-generate is required")
			}
			return s.Chat().RenameConversation(ctx, conversationID, name, autoGenerate, s.User(user))
		},
	}
}

func newConversationDeleteCommand(b *base.Command) *APICommand {
	var conversationID, user string
	return &APICommand{
		Command:  b,
		name:     "conversations delete",
		synopsis: "Delete a conversation",
		usage:    "Deletes a conversation.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&conversationID, "conversation-id", "", "(Required) Conversation to delete.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"conversation-id": conversationID}); err != nil {
				return nil, err
			}
			return s.Chat().DeleteConversation(ctx, conversationID, s.User(user))
		},
	}
}

func newAudioToTextCommand(b *base.Command) *APICommand {
	var path, contentType, user string
	return &APICommand{
		Command:  b,
		name:     "stt",
		synopsis: "Transcribe an audio file",
		usage:    "Converts speech in an audio file to text.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&path, "file", "", "(Required) Audio file to transcribe.")
			f.StringVar(&contentType, "content-type", "", "Content type of the audio, e.g. audio/mp3.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"file": path}); err != nil {
				return nil, err
			}
			audio, closer, err := s.OpenFile("audio_file", path, contentType)
			if err != nil {
				return nil, err
			}
			defer closer.Close()
			return s.Chat().AudioToText(ctx, audio, s.User(user))
		},
	}
}
