package integration

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	glik "github.com/rivalz-glik/glik-go"
	glikt "github.com/rivalz-glik/glik-go/testing"
)

func TestConcurrency_SharedClient(t *testing.T) {
	// Single client, multiple goroutines dispatching concurrently
	server := glikt.NewJSONServer(http.StatusOK, glikt.NewResponseBuilder().WithAnswer("ok").Build())
	defer server.Close()

	chat := glik.NewChat(glik.Config{APIKey: "k", BaseURL: server.URL})

	ctx := context.Background()
	var wg sync.WaitGroup
	var successCount atomic.Int64
	var errorCount atomic.Int64

	goroutines := 20
	callsPerGoroutine := 10

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				resp, err := chat.CreateChatMessage(ctx, glik.ChatMessageRequest{
					Inputs: map[string]any{},
					Query:  "ping",
					User:   "u1",
				})
				if err != nil {
					errorCount.Add(1)
					continue
				}
				resp.Body.Close()
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	expectedCalls := int64(goroutines * callsPerGoroutine)
	if successCount.Load() != expectedCalls {
		t.Errorf("expected %d successful calls, got %d (errors: %d)",
			expectedCalls, successCount.Load(), errorCount.Load())
	}
	if server.RequestCount() != int(expectedCalls) {
		t.Errorf("expected %d requests, got %d", expectedCalls, server.RequestCount())
	}
}

func TestConcurrency_MixedFeatureClients(t *testing.T) {
	// Feature clients built from one config do not interfere
	server := glikt.NewServer()
	defer server.Close()

	config := glik.Config{APIKey: "k", BaseURL: server.URL}
	chat := glik.NewChat(config)
	workflow := glik.NewWorkflow(config)
	dataset := glik.NewDataset(config, "ds1")

	ctx := context.Background()
	calls := []func() (*http.Response, error){
		func() (*http.Response, error) { return chat.GetSuggested(ctx, "m1", "u1") },
		func() (*http.Response, error) { return workflow.GetResult(ctx, "r1") },
		func() (*http.Response, error) { return dataset.ListDocuments(ctx, glik.DocumentsQuery{}) },
		func() (*http.Response, error) { return dataset.BatchIndexingStatus(ctx, "b1") },
	}

	var wg sync.WaitGroup
	var failures atomic.Int64
	for i := 0; i < 25; i++ {
		for _, call := range calls {
			wg.Add(1)
			go func(call func() (*http.Response, error)) {
				defer wg.Done()
				resp, err := call()
				if err != nil {
					failures.Add(1)
					return
				}
				resp.Body.Close()
			}(call)
		}
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("expected no failures, got %d", failures.Load())
	}

	paths := make(map[string]int)
	for _, r := range server.Requests() {
		paths[r.Path]++
	}
	for _, p := range []string{
		"/messages/m1/suggested",
		"/workflows/run/r1",
		"/datasets/ds1/documents",
		"/datasets/ds1/documents/b1/indexing-status",
	} {
		if paths[p] != 25 {
			t.Errorf("expected 25 requests to %s, got %d", p, paths[p])
		}
	}
}
