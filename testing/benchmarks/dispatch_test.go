package benchmarks

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	glik "github.com/rivalz-glik/glik-go"
	glikt "github.com/rivalz-glik/glik-go/testing"
)

// Sink variables to prevent compiler optimizations.
var (
	sinkResponse *http.Response
	sinkError    error
)

func BenchmarkClient_Creation(b *testing.B) {
	config := glik.Config{APIKey: "k"}

	b.Run("Chat", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = glik.NewChat(config)
		}
	})

	b.Run("DatasetWithRetry", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = glik.NewDataset(config, "ds1", glik.WithRetry(3))
		}
	})
}

func BenchmarkDispatch(b *testing.B) {
	server := glikt.NewJSONServer(http.StatusOK, glikt.NewResponseBuilder().WithAnswer("ok").Build())
	defer server.Close()

	ctx := context.Background()
	chat := glik.NewChat(glik.Config{APIKey: "k", BaseURL: server.URL})

	b.Run("ChatBlocking", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			resp, err := chat.CreateChatMessage(ctx, glik.ChatMessageRequest{
				Inputs: map[string]any{},
				Query:  "ping",
				User:   "u1",
			})
			if err == nil {
				resp.Body.Close()
			}
			sinkResponse, sinkError = resp, err
		}
	})

	b.Run("ConversationsQuery", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			resp, err := chat.GetConversations(ctx, glik.ConversationsQuery{User: "u1", Limit: glik.Ptr(20)})
			if err == nil {
				resp.Body.Close()
			}
			sinkResponse, sinkError = resp, err
		}
	})

	b.Run("Upload", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			resp, err := chat.FileUpload(ctx, "u1", glik.File{Field: "file", Name: "a.txt", Reader: strings.NewReader("content")})
			if err == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
			sinkResponse, sinkError = resp, err
		}
	})
}
