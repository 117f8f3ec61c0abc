package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mitchellh/cli"

	glik "github.com/rivalz-glik/glik-go"
	"github.com/rivalz-glik/glik-go/internal/cmd/base"
)

// GroupCommand only prints help for its subcommands.
type GroupCommand struct {
	*base.Command

	synopsis string
	help     string
}

func (c *GroupCommand) Synopsis() string {
	return c.synopsis
}

func (c *GroupCommand) Help() string {
	return c.help
}

func (c *GroupCommand) Run(args []string) int {
	return cli.RunResultHelp
}

func datasetFlag(f *base.FlagSet, datasetID *string) {
	f.StringVar(datasetID, "dataset", "", "Dataset id; defaults to the configured dataset_id.")
}

func newDatasetCreateCommand(b *base.Command) *APICommand {
	var name, extraPath string
	return &APICommand{
		Command:  b,
		name:     "dataset create",
		synopsis: "Create an empty dataset",
		usage:    "Creates a dataset. Keys of the -extra file are merged into the request body.",
		flags: func(f *base.FlagSet) {
			f.StringVar(&name, "name", "", "(Required) Dataset name.")
			f.StringVar(&extraPath, "extra", "", "YAML or JSON file with extra body fields.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"name": name}); err != nil {
				return nil, err
			}
			extra, err := s.ReadObject(extraPath)
			if err != nil {
				return nil, err
			}
			return s.Dataset("").CreateDataset(ctx, name, extra)
		},
	}
}

func newDatasetListCommand(b *base.Command) *APICommand {
	var page, limit int
	return &APICommand{
		Command:  b,
		name:     "dataset list",
		synopsis: "List datasets",
		usage:    "Lists datasets page by page.",
		flags: func(f *base.FlagSet) {
			f.IntVar(&page, "page", 1, "Page number.")
			f.IntVar(&limit, "limit", 20, "Page size.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			return s.Dataset("").ListDatasets(ctx, page, limit)
		},
	}
}

func newDatasetDeleteCommand(b *base.Command) *APICommand {
	var datasetID string
	return &APICommand{
		Command:  b,
		name:     "dataset delete",
		synopsis: "Delete a dataset",
		usage:    "Deletes the dataset and everything in it.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			return s.Dataset(datasetID).DeleteDataset(ctx)
		},
	}
}

func newDocumentCreateCommand(b *base.Command) *APICommand {
	var datasetID, name, text, path, originalID, extraPath string
	return &APICommand{
		Command:  b,
		name:     "document create",
		synopsis: "Create a document from text or a file",
		usage: `Creates a document from -text (with -name) or from -file. Documents default to
  high_quality indexing with automatic processing; the -extra file overrides top-level keys.`,
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&name, "name", "", "Document name, required with -text.")
			f.StringVar(&text, "text", "", "Document text.")
			f.StringVar(&path, "file", "", "File to upload instead of -text.")
			f.StringVar(&originalID, "original-document-id", "", "Document replaced by the uploaded file.")
			f.StringVar(&extraPath, "extra", "", "YAML or JSON file with extra body fields.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			extra, err := s.ReadObject(extraPath)
			if err != nil {
				return nil, err
			}
			dataset := s.Dataset(datasetID)
			switch {
			case path != "" && text != "":
				return nil, fmt.Errorf("-text and -file are mutually exclusive")
			case path != "":
				return dataset.CreateDocumentByFile(ctx, path, originalID, extra)
			default:
				if err := required(map[string]string{"name": name, "text": text}); err != nil {
					return nil, err
				}
				return dataset.CreateDocumentByText(ctx, name, text, extra)
			}
		},
	}
}

func newDocumentUpdateCommand(b *base.Command) *APICommand {
	var datasetID, documentID, name, text, path, extraPath string
	return &APICommand{
		Command:  b,
		name:     "document update",
		synopsis: "Replace a document's content",
		usage:    "Updates a document from -text (with -name) or from -file.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&documentID, "document-id", "", "(Required) Document to update.")
			f.StringVar(&name, "name", "", "Document name, required with -text.")
			f.StringVar(&text, "text", "", "New document text.")
			f.StringVar(&path, "file", "", "File to upload instead of -text.")
			f.StringVar(&extraPath, "extra", "", "YAML or JSON file with extra body fields.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"document-id": documentID}); err != nil {
				return nil, err
			}
			extra, err := s.ReadObject(extraPath)
			if err != nil {
				return nil, err
			}
			dataset := s.Dataset(datasetID)
			switch {
			case path != "" && text != "":
				return nil, fmt.Errorf("-text and -file are mutually exclusive")
			case path != "":
				return dataset.UpdateDocumentByFile(ctx, documentID, path, extra)
			default:
				if err := required(map[string]string{"name": name, "text": text}); err != nil {
					return nil, err
				}
				return dataset.UpdateDocumentByText(ctx, documentID, name, text, extra)
			}
		},
	}
}

func newDocumentListCommand(b *base.Command) *APICommand {
	var datasetID, keyword string
	var page, limit int
	return &APICommand{
		Command:  b,
		name:     "document list",
		synopsis: "List documents",
		usage:    "Lists the documents of a dataset.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.IntVar(&page, "page", 0, "Page number.")
			f.IntVar(&limit, "limit", 0, "Page size.")
			f.StringVar(&keyword, "keyword", "", "Filter by name.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			var query glik.DocumentsQuery
			if s.IsSet("page") {
				query.Page = glik.Ptr(page)
			}
			if s.IsSet("limit") {
				query.Limit = glik.Ptr(limit)
			}
			if keyword != "" {
				query.Keyword = glik.Ptr(keyword)
			}
			return s.Dataset(datasetID).ListDocuments(ctx, query)
		},
	}
}

func newDocumentDeleteCommand(b *base.Command) *APICommand {
	var datasetID, documentID string
	return &APICommand{
		Command:  b,
		name:     "document delete",
		synopsis: "Delete a document",
		usage:    "Deletes a document from the dataset.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&documentID, "document-id", "", "(Required) Document to delete.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"document-id": documentID}); err != nil {
				return nil, err
			}
			return s.Dataset(datasetID).DeleteDocument(ctx, documentID)
		},
	}
}

func newDocumentStatusCommand(b *base.Command) *APICommand {
	var datasetID, batch string
	return &APICommand{
		Command:  b,
		name:     "document status",
		synopsis: "Show indexing progress of a batch",
		usage:    "Reports the indexing status of the documents created in a batch.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&batch, "batch", "", "(Required) Batch id returned on document creation.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"batch": batch}); err != nil {
				return nil, err
			}
			return s.Dataset(datasetID).BatchIndexingStatus(ctx, batch)
		},
	}
}

func newSegmentAddCommand(b *base.Command) *APICommand {
	var datasetID, documentID, content, answer, keywords, segmentsPath string
	return &APICommand{
		Command:  b,
		name:     "segment add",
		synopsis: "Add segments to a document",
		usage:    "Adds one segment from -content, or a list of segments from the -segments file.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&documentID, "document-id", "", "(Required) Document to add to.")
			f.StringVar(&content, "content", "", "Segment content.")
			f.StringVar(&answer, "answer", "", "Answer for Q&A documents.")
			f.StringVar(&keywords, "keywords", "", "Comma-separated keywords.")
			f.StringVar(&segmentsPath, "segments", "", "YAML or JSON list of segments.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"document-id": documentID}); err != nil {
				return nil, err
			}
			var segments []glik.Segment
			if segmentsPath != "" {
				loaded, err := s.ReadSegments(segmentsPath)
				if err != nil {
					return nil, err
				}
				segments = loaded
			}
			if content != "" {
				segments = append(segments, glik.Segment{Content: content, Answer: answer, Keyword: splitList(keywords)})
			}
			if len(segments) == 0 {
				return nil, fmt.Errorf("either -content or -segments is required")
			}
			return s.Dataset(datasetID).AddSegments(ctx, documentID, segments)
		},
	}
}

func newSegmentListCommand(b *base.Command) *APICommand {
	var datasetID, documentID, keyword, status string
	return &APICommand{
		Command:  b,
		name:     "segment list",
		synopsis: "List segments of a document",
		usage:    "Lists a document's segments.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&documentID, "document-id", "", "(Required) Document to read.")
			f.StringVar(&keyword, "keyword", "", "Filter by keyword.")
			f.StringVar(&status, "status", "", "Filter by indexing status, e.g. completed.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"document-id": documentID}); err != nil {
				return nil, err
			}
			var query glik.SegmentsQuery
			if keyword != "" {
				query.Keyword = glik.Ptr(keyword)
			}
			if status != "" {
				query.Status = glik.Ptr(status)
			}
			return s.Dataset(datasetID).QuerySegments(ctx, documentID, query)
		},
	}
}

func newSegmentUpdateCommand(b *base.Command) *APICommand {
	var datasetID, documentID, segmentID, content, answer, keywords, enabled string
	return &APICommand{
		Command:  b,
		name:     "segment update",
		synopsis: "Update a segment",
		usage:    "Changes the content, answer, keywords or enabled state of a segment.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&documentID, "document-id", "", "(Required) Document of the segment.")
			f.StringVar(&segmentID, "segment-id", "", "(Required) Segment to update.")
			f.StringVar(&content, "content", "", "New content.")
			f.StringVar(&answer, "answer", "", "New answer.")
			f.StringVar(&keywords, "keywords", "", "Comma-separated keywords.")
			f.StringVar(&enabled, "enabled", "", "Enable or disable the segment: true or false.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"document-id": documentID, "segment-id": segmentID}); err != nil {
				return nil, err
			}
			e, err := optionalBool("enabled", enabled)
			if err != nil {
				return nil, err
			}
			return s.Dataset(datasetID).UpdateDocumentSegment(ctx, documentID, segmentID, glik.SegmentUpdate{
				Content: content,
				Answer:  answer,
				Keyword: splitList(keywords),
				Enabled: e,
			})
		},
	}
}

func newSegmentDeleteCommand(b *base.Command) *APICommand {
	var datasetID, documentID, segmentID string
	return &APICommand{
		Command:  b,
		name:     "segment delete",
		synopsis: "Delete a segment",
		usage:    "Deletes one segment of a document.",
		flags: func(f *base.FlagSet) {
			datasetFlag(f, &datasetID)
			f.StringVar(&documentID, "document-id", "", "(Required) Document of the segment.")
			f.StringVar(&segmentID, "segment-id", "", "(Required) Segment to delete.")
		},
		call: func(ctx context.Context, s *Session) (*http.Response, error) {
			if err := required(map[string]string{"document-id": documentID, "segment-id": segmentID}); err != nil {
				return nil, err
			}
			return s.Dataset(datasetID).DeleteDocumentSegment(ctx, documentID, segmentID)
		},
	}
}
