package commands

import (
	"context"
	"net/http"

	glik "github.com/rivalz-glik/glik-go"
	"github.com/rivalz-glik/glik-go/internal/cmd/base"
)

func newCompleteCommand(b *base.Command) *APICommand {
	var inputsPath, user, fileURLs, uploadIDs, fileType string
	var stream bool
	return &APICommand{
		Command:  b,
		name:     "complete",
		synopsis: "Request a text completion",
		usage:    "Sends a completion message built from the -inputs file.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&inputsPath, "inputs", "", "YAML or JSON file with application inputs.")
			f.StringVar(&user, "user", "", "End-user identifier.")
			f.StringVar(&fileURLs, "file-url", "", "Comma-separated remote file URLs to attach.")
			f.StringVar(&uploadIDs, "upload-id", "", "Comma-separated uploaded file ids to attach.")
			f.StringVar(&fileType, "file-type", "image", "Type of attached files.")
			f.BoolVar(&stream, "stream", false, "Use streaming response mode.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			inputs, err := readInputs(s, inputsPath)
			if err != nil {
				return nil, err
			}
			return s.Completion().CreateCompletionMessage(ctx, glik.CompletionMessageRequest{
				Inputs:       inputs,
				ResponseMode: responseMode(stream),
				User:         s.User(user),
				Files:        fileInputs(fileType, splitList(fileURLs), splitList(uploadIDs)),
			})
		},
	}
}

func newWorkflowRunCommand(b *base.Command) *APICommand {
	var inputsPath, user string
	var blocking bool
	return &APICommand{
		Command:  b,
		name:     "workflow run",
		synopsis: "Run a workflow",
		usage:    "Runs the workflow. The event stream is written to stdout unless -blocking is set.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&inputsPath, "inputs", "", "YAML or JSON file with workflow inputs.")
			f.StringVar(&user, "user", "", "End-user identifier; defaults to "+glik.DefaultWorkflowUser+".")
			f.BoolVar(&blocking, "blocking", false, "Wait for the whole result instead of streaming.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			inputs, err := readInputs(s, inputsPath)
			if err != nil {
				return nil, err
			}
			req := glik.WorkflowRunRequest{Inputs: inputs, User: s.User(user)}
			if blocking {
				req.ResponseMode = glik.ResponseModeBlocking
			}
			return s.Workflow().Run(ctx, req)
		},
	}
}

func newWorkflowStopCommand(b *base.Command) *APICommand {
	var taskID, user string
	return &APICommand{
		Command:  b,
		name:     "workflow stop",
		synopsis: "Stop a running workflow",
		usage:    "Stops a streaming workflow task.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&taskID, "task-id", "", "(Required) Task to stop.")
			f.StringVar(&user, "user", "", "End-user identifier.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"task-id": taskID}); err != nil {
				return nil, err
			}
			return s.Workflow().Stop(ctx, taskID, s.User(user))
		},
	}
}

func newWorkflowResultCommand(b *base.Command) *APICommand {
	var runID string
	return &APICommand{
		Command:  b,
		name:     "workflow result",
		synopsis: "Show the result of a workflow run",
		usage:    "Fetches the status and outputs of a workflow run.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&runID, "run-id", "", "(Required) Workflow run to fetch.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"run-id": runID}); err != nil {
				return nil, err
			}
			return s.Workflow().GetResult(ctx, runID)
		},
	}
}
