package glik

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zoobzio/capitan"
)

// Defaults for document creation.
const (
	IndexingTechniqueHighQuality = "high_quality"
	IndexingTechniqueEconomy     = "economy"
	ProcessRuleModeAutomatic     = "automatic"
	ProcessRuleModeCustom        = "custom"

	defaultDatasetPage     = 1
	defaultDatasetPageSize = 20
)

// Segment is a chunk added to a document.
type Segment struct {
	Content string   `json:"content"`
	Answer  string   `json:"answer,omitempty"`
	Keyword []string `json:"keyword,omitempty"`
}

// SegmentUpdate carries the fields changed on an existing segment.
// Extra is merged over the typed fields, so it can send keys the struct does
// not model or an explicitly empty content.
type SegmentUpdate struct {
	Content string   `json:"content,omitempty"`
	Answer  string   `json:"answer,omitempty"`
	Keyword []string `json:"keyword,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
	Extra   Params   `json:"-"`
}

// body returns the segment as sent on the wire.
func (s SegmentUpdate) body() (any, error) {
	if len(s.Extra) == 0 {
		return s, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal segment: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to marshal segment: %w", err)
	}
	return s.Extra.merge(fields), nil
}

// DocumentsQuery filters the document list. Nil filters are not sent.
type DocumentsQuery struct {
	Page    *int    `json:"page,omitempty"`
	Limit   *int    `json:"limit,omitempty"`
	Keyword *string `json:"keyword,omitempty"`
}

// SegmentsQuery filters a document's segments. Nil filters are not sent.
type SegmentsQuery struct {
	Keyword *string `json:"keyword,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// DatasetClient manages datasets and the documents and segments inside one of them.
// The dataset identifier is fixed at construction; every operation scoped to a
// dataset fails with ErrDatasetIDNotSet before sending anything when it is empty.
type DatasetClient struct {
	*Client
	datasetID string
}

// NewDataset creates a dataset client bound to datasetID, which may be empty for
// the unscoped operations CreateDataset and ListDatasets.
func NewDataset(config Config, datasetID string, opts ...Option) *DatasetClient {
	return &DatasetClient{Client: New(config, opts...), datasetID: datasetID}
}

// DatasetID returns the bound dataset identifier.
func (c *DatasetClient) DatasetID() (string, error) {
	if c.datasetID == "" {
		return "", ErrDatasetIDNotSet
	}
	return c.datasetID, nil
}

// datasetPath resolves the dataset-scoped path for operation, reporting the
// precondition failure through hooks.
func (c *DatasetClient) datasetPath(ctx context.Context, operation, format string, args ...any) (string, error) {
	id, err := c.DatasetID()
	if err != nil {
		capitan.Error(ctx, PreconditionFailed,
			OperationKey.Field(operation),
			ErrorKey.Field(err.Error()),
		)
		return "", fmt.Errorf("%s: %w", operation, err)
	}
	return "/datasets/" + id + fmt.Sprintf(format, args...), nil
}

// CreateDataset creates an empty dataset. extra is merged into the body.
func (c *DatasetClient) CreateDataset(ctx context.Context, name string, extra Params) (*http.Response, error) {
	body := extra.merge(map[string]any{"name": name})
	return c.Dispatch(ctx, http.MethodPost, "/datasets", body, nil, false)
}

// ListDatasets lists datasets. Non-positive page and pageSize are replaced by
// 1 and 20 instead of being sent as given.
func (c *DatasetClient) ListDatasets(ctx context.Context, page, pageSize int) (*http.Response, error) {
	if page <= 0 {
		page = defaultDatasetPage
	}
	if pageSize <= 0 {
		pageSize = defaultDatasetPageSize
	}
	path := fmt.Sprintf("/datasets?page=%d&limit=%d", page, pageSize)
	return c.Dispatch(ctx, http.MethodGet, path, nil, nil, false)
}

// CreateDocumentByText creates a document from raw text. The body defaults to
// high-quality indexing with automatic processing; extra replaces top-level keys,
// so a process_rule in extra replaces the default one entirely.
func (c *DatasetClient) CreateDocumentByText(ctx context.Context, name, text string, extra Params) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "create document by text", "/document/create_by_text")
	if err != nil {
		return nil, err
	}
	body := extra.merge(map[string]any{
		"indexing_technique": IndexingTechniqueHighQuality,
		"process_rule":       map[string]any{"mode": ProcessRuleModeAutomatic},
		"name":               name,
		"text":               text,
	})
	return c.Dispatch(ctx, http.MethodPost, path, body, nil, false)
}

// UpdateDocumentByText replaces a document's name and text. extra is merged into the body.
func (c *DatasetClient) UpdateDocumentByText(ctx context.Context, documentID, name, text string, extra Params) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "update document by text", "/documents/%s/update_by_text", documentID)
	if err != nil {
		return nil, err
	}
	body := extra.merge(map[string]any{"name": name, "text": text})
	return c.Dispatch(ctx, http.MethodPost, path, body, nil, false)
}

// CreateDocumentByFile uploads the file at filePath as a new document.
// originalDocumentID, when non-empty, is recorded in the metadata so the service
// replaces that document. An empty originalDocumentID is treated as absent and
// no original_document_id key is sent.
func (c *DatasetClient) CreateDocumentByFile(ctx context.Context, filePath, originalDocumentID string, extra Params) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "create document by file", "/document/create_by_file")
	if err != nil {
		return nil, err
	}
	data := extra.merge(map[string]any{
		"process_rule":       map[string]any{"mode": ProcessRuleModeAutomatic},
		"indexing_technique": IndexingTechniqueHighQuality,
	})
	if originalDocumentID != "" {
		data["original_document_id"] = originalDocumentID
	}
	return c.uploadDocument(ctx, path, filePath, data)
}

// UpdateDocumentByFile replaces a document's content with the file at filePath.
func (c *DatasetClient) UpdateDocumentByFile(ctx context.Context, documentID, filePath string, extra Params) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "update document by file", "/documents/%s/update_by_file", documentID)
	if err != nil {
		return nil, err
	}
	return c.uploadDocument(ctx, path, filePath, extra.merge(nil))
}

// uploadDocument sends data as the JSON "data" field and the file under "file".
// The file is closed before return on every path.
func (c *DatasetClient) uploadDocument(ctx context.Context, path, filePath string, data map[string]any) (*http.Response, error) {
	metadata, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document data: %w", err)
	}

	file, handle, err := c.openFile("file", filePath)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	return c.DispatchMultipart(ctx, http.MethodPost, path, map[string]string{"data": string(metadata)}, []File{file})
}

// BatchIndexingStatus reports the indexing progress of a document batch.
func (c *DatasetClient) BatchIndexingStatus(ctx context.Context, batchID string) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "batch indexing status", "/documents/%s/indexing-status", batchID)
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodGet, path, nil, nil, false)
}

// DeleteDataset deletes the bound dataset. The service answers 204 No Content.
func (c *DatasetClient) DeleteDataset(ctx context.Context) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "delete dataset", "")
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodDelete, path, nil, nil, false)
}

// DeleteDocument deletes a document from the dataset.
func (c *DatasetClient) DeleteDocument(ctx context.Context, documentID string) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "delete document", "/documents/%s", documentID)
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodDelete, path, nil, nil, false)
}

// ListDocuments lists the dataset's documents.
func (c *DatasetClient) ListDocuments(ctx context.Context, query DocumentsQuery) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "list documents", "/documents")
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodGet, path, nil, encodeQuery(query), false)
}

type addSegmentsRequest struct {
	Segments []Segment `json:"segments"`
}

// AddSegments appends segments to a document.
func (c *DatasetClient) AddSegments(ctx context.Context, documentID string, segments []Segment) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "add segments", "/documents/%s/segments", documentID)
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodPost, path, addSegmentsRequest{Segments: segments}, nil, false)
}

// QuerySegments lists a document's segments.
func (c *DatasetClient) QuerySegments(ctx context.Context, documentID string, query SegmentsQuery) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "query segments", "/documents/%s/segments", documentID)
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodGet, path, nil, encodeQuery(query), false)
}

// DeleteDocumentSegment deletes one segment.
func (c *DatasetClient) DeleteDocumentSegment(ctx context.Context, documentID, segmentID string) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "delete segment", "/documents/%s/segments/%s", documentID, segmentID)
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodDelete, path, nil, nil, false)
}

type updateSegmentRequest struct {
	Segment any `json:"segment"`
}

// UpdateDocumentSegment changes one segment.
func (c *DatasetClient) UpdateDocumentSegment(ctx context.Context, documentID, segmentID string, segment SegmentUpdate) (*http.Response, error) {
	path, err := c.datasetPath(ctx, "update segment", "/documents/%s/segments/%s", documentID, segmentID)
	if err != nil {
		return nil, err
	}
	body, err := segment.body()
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, http.MethodPost, path, updateSegmentRequest{Segment: body}, nil, false)
}
