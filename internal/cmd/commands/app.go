package commands

import (
	"context"
	"net/http"

	glik "github.com/rivalz-glik/glik-go"
	"github.com/rivalz-glik/glik-go/internal/cmd/base"
)

func newMetaCommand(b *base.Command) *APICommand {
	var user string
	return &APICommand{
		Command:  b,
		name:     "meta",
		synopsis: "Show application metadata",
		usage:    "Retrieves application metadata such as tool icons.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			return s.Client().GetMeta(ctx, s.User(user))
		},
	}
}

func newParametersCommand(b *base.Command) *APICommand {
	var user string
	return &APICommand{
		Command:  b,
		name:     "parameters",
		synopsis: "Show application parameters",
		usage:    "Retrieves the application's input form and feature settings.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			return s.Client().GetApplicationParameters(ctx, s.User(user))
		},
	}
}

func newFeedbackCommand(b *base.Command) *APICommand {
	var messageID, rating, user string
	return &APICommand{
		Command:  b,
		name:     "feedback",
		synopsis: "Rate a message",
		usage:    "Attaches like or dislike feedback to a message. An empty -rating revokes it.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&messageID, "message-id", "", "(Required) Message to rate.")
			f.StringVar(&rating, "rating", "", "like, dislike, or empty to revoke.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"message-id": messageID}); err != nil {
				return nil, err
			}
			return s.Client().MessageFeedback(ctx, messageID, glik.Rating(rating), s.User(user))
		},
	}
}

func newUploadCommand(b *base.Command) *APICommand {
	var path, contentType, user string
	return &APICommand{
		Command:  b,
		name:     "upload",
		synopsis: "Upload a file for use in messages",
		usage:    "Uploads a file; the returned id can be referenced as a local_file input.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&path, "file", "", "(Required) Path of the file to upload.")
			f.StringVar(&contentType, "content-type", "", "Content type of the file part, e.g. image/png.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"file": path}); err != nil {
				return nil, err
			}
			file, closer, err := s.OpenFile("file", path, contentType)
			if err != nil {
				return nil, err
			}
			defer closer.Close()
			return s.Client().FileUpload(ctx, s.User(user), file)
		},
	}
}

func newTextToAudioCommand(b *base.Command) *APICommand {
	var text, user string
	var streaming bool
	return &APICommand{
		Command:  b,
		name:     "tts",
		synopsis: "Convert text to speech",
		usage:    "Converts text to audio and writes the audio bytes to stdout.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&text, "text", "", "(Required) Text to speak.")
			f.StringVar(&user, "user", "", "End-user identifier.")
			f.BoolVar(&streaming, "streaming", false, "Ask the service for streamed audio.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"text": text}); err != nil {
				return nil, err
			}
			return s.Client().TextToAudio(ctx, text, s.User(user), streaming)
		},
	}
}
