package commands

import (
	"github.com/mitchellh/cli"

	"github.com/rivalz-glik/glik-go/internal/cmd/base"
)

// Factories returns every glik subcommand keyed by its command path.
func Factories(b *base.Command) map[string]cli.CommandFactory {
	api := func(newCmd func(*base.Command) *APICommand) cli.CommandFactory {
		return func() (cli.Command, error) {
			return newCmd(b), nil
		}
	}
	group := func(synopsis, help string) cli.CommandFactory {
		return func() (cli.Command, error) {
			return &GroupCommand{Command: b, synopsis: synopsis, help: help}, nil
		}
	}

	return map[string]cli.CommandFactory{
		"meta":       api(newMetaCommand),
		"parameters": api(newParametersCommand),
		"feedback":   api(newFeedbackCommand),
		"upload":     api(newUploadCommand),
		"tts":        api(newTextToAudioCommand),

		"chat":                   api(newChatCommand),
		"chat stop":              api(newChatStopCommand),
		"chat suggested":         api(newChatSuggestedCommand),
		"conversations":          api(newConversationsCommand),
		"conversations messages": api(newConversationMessagesCommand),
		"conversations rename":   api(newConversationRenameCommand),
		"conversations delete":   api(newConversationDeleteCommand),
		"stt":                    api(newAudioToTextCommand),

		"complete": api(newCompleteCommand),

		"workflow": group("Run and inspect workflows", `Usage: glik workflow <subcommand> [options]

  This command groups subcommands for workflow applications.`),
		"workflow run":    api(newWorkflowRunCommand),
		"workflow stop":   api(newWorkflowStopCommand),
		"workflow result": api(newWorkflowResultCommand),

		"dataset": group("Manage datasets", `Usage: glik dataset <subcommand> [options]

  This command groups subcommands for knowledge-base datasets.`),
		"dataset create": api(newDatasetCreateCommand),
		"dataset list":   api(newDatasetListCommand),
		"dataset delete": api(newDatasetDeleteCommand),

		"document": group("Manage documents in a dataset", `Usage: glik document <subcommand> [options]

  This command groups subcommands for the documents of a dataset.`),
		"document create": api(newDocumentCreateCommand),
		"document update": api(newDocumentUpdateCommand),
		"document list":   api(newDocumentListCommand),
		"document delete": api(newDocumentDeleteCommand),
		"document status": api(newDocumentStatusCommand),

		"segment": group("Manage segments of a document", `Usage: glik segment <subcommand> [options]

  This command groups subcommands for the segments of a document.`),
		"segment add":    api(newSegmentAddCommand),
		"segment list":   api(newSegmentListCommand),
		"segment update": api(newSegmentUpdateCommand),
		"segment delete": api(newSegmentDeleteCommand),

		"version": func() (cli.Command, error) {
			return &VersionCommand{Command: b}, nil
		},
	}
}
