package glik

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/spf13/afero"

	glikt "github.com/rivalz-glik/glik-go/testing"
)

func TestDatasetID(t *testing.T) {
	if _, err := NewDataset(Config{APIKey: "k"}, "").DatasetID(); !errors.Is(err, ErrDatasetIDNotSet) {
		t.Errorf("expected ErrDatasetIDNotSet, got %v", err)
	}
	id, err := NewDataset(Config{APIKey: "k"}, "ds1").DatasetID()
	if err != nil || id != "ds1" {
		t.Errorf("expected ds1, got %q (%v)", id, err)
	}
}

func TestDataset_ScopedOperationsRequireID(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/docs/a.txt", []byte("text"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}
	config := testConfig(server)
	config.Fs = fs
	dataset := NewDataset(config, "")
	ctx := context.Background()

	ops := map[string]func() (*http.Response, error){
		"create by text": func() (*http.Response, error) { return dataset.CreateDocumentByText(ctx, "n", "t", nil) },
		"update by text": func() (*http.Response, error) { return dataset.UpdateDocumentByText(ctx, "d", "n", "t", nil) },
		"create by file": func() (*http.Response, error) { return dataset.CreateDocumentByFile(ctx, "/docs/a.txt", "", nil) },
		"update by file": func() (*http.Response, error) { return dataset.UpdateDocumentByFile(ctx, "d", "/docs/a.txt", nil) },
		"batch status":   func() (*http.Response, error) { return dataset.BatchIndexingStatus(ctx, "b") },
		"delete dataset": func() (*http.Response, error) { return dataset.DeleteDataset(ctx) },
		"delete doc":     func() (*http.Response, error) { return dataset.DeleteDocument(ctx, "d") },
		"list documents": func() (*http.Response, error) { return dataset.ListDocuments(ctx, DocumentsQuery{}) },
		"add segments":   func() (*http.Response, error) { return dataset.AddSegments(ctx, "d", []Segment{{Content: "x"}}) },
		"query segments": func() (*http.Response, error) { return dataset.QuerySegments(ctx, "d", SegmentsQuery{}) },
		"delete segment": func() (*http.Response, error) { return dataset.DeleteDocumentSegment(ctx, "d", "s") },
		"update segment": func() (*http.Response, error) {
			return dataset.UpdateDocumentSegment(ctx, "d", "s", SegmentUpdate{Content: "x"})
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			resp, err := op()
			if !errors.Is(err, ErrDatasetIDNotSet) {
				t.Errorf("expected ErrDatasetIDNotSet, got %v", err)
			}
			if resp != nil {
				t.Error("expected nil response")
			}
		})
	}

	if server.RequestCount() != 0 {
		t.Errorf("expected no requests, got %d", server.RequestCount())
	}
}

func TestDataset_UnscopedOperationsWithoutID(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "")

	resp, err := dataset.CreateDataset(context.Background(), "kb", Params{"permission": "only_me"})
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodPost || last.Path != "/datasets" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
	body, _ := last.JSON()
	if body["name"] != "kb" || body["permission"] != "only_me" {
		t.Errorf("unexpected body %v", body)
	}

	resp, err = dataset.ListDatasets(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ListDatasets failed: %v", err)
	}
	resp.Body.Close()

	last = server.LastRequest()
	if last.Method != http.MethodGet || last.Path != "/datasets" || last.RawQuery != "page=1&limit=20" {
		t.Errorf("unexpected request %s %s?%s", last.Method, last.Path, last.RawQuery)
	}

	resp, err = dataset.ListDatasets(context.Background(), 3, 50)
	if err != nil {
		t.Fatalf("ListDatasets failed: %v", err)
	}
	resp.Body.Close()

	if q := server.LastRequest().RawQuery; q != "page=3&limit=50" {
		t.Errorf("expected page=3&limit=50, got %q", q)
	}
}

func TestAddSegments(t *testing.T) {
	server := glikt.NewJSONServer(http.StatusOK, glikt.NewResponseBuilder().
		WithData(map[string]any{"id": "seg-1", "content": "hello"}).
		Build())
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.AddSegments(context.Background(), "doc1", []Segment{{Content: "hello"}})
	if err != nil {
		t.Fatalf("AddSegments failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodPost || last.Path != "/datasets/ds1/documents/doc1/segments" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
	if last.Header.Get("Authorization") != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", last.Header.Get("Authorization"))
	}
	if string(last.Body) != `{"segments":[{"content":"hello"}]}` {
		t.Errorf("unexpected body %s", last.Body)
	}
}

func TestCreateDocumentByText(t *testing.T) {
	server := glikt.NewJSONServer(http.StatusOK, glikt.NewResponseBuilder().WithBatch("batch-1").Build())
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")

	t.Run("defaults", func(t *testing.T) {
		resp, err := dataset.CreateDocumentByText(context.Background(), "doc", "body", nil)
		if err != nil {
			t.Fatalf("CreateDocumentByText failed: %v", err)
		}
		resp.Body.Close()

		last := server.LastRequest()
		if last.Path != "/datasets/ds1/document/create_by_text" {
			t.Errorf("unexpected path %s", last.Path)
		}
		body, _ := last.JSON()
		if body["indexing_technique"] != "high_quality" || body["name"] != "doc" || body["text"] != "body" {
			t.Errorf("unexpected body %v", body)
		}
		rule, _ := body["process_rule"].(map[string]any)
		if rule["mode"] != "automatic" {
			t.Errorf("expected automatic process rule, got %v", body["process_rule"])
		}
	})

	t.Run("extra replaces top-level keys", func(t *testing.T) {
		resp, err := dataset.CreateDocumentByText(context.Background(), "doc", "body", Params{
			"indexing_technique": IndexingTechniqueEconomy,
			"process_rule": map[string]any{
				"mode":  ProcessRuleModeCustom,
				"rules": map[string]any{"remove_extra_spaces": true},
			},
		})
		if err != nil {
			t.Fatalf("CreateDocumentByText failed: %v", err)
		}
		resp.Body.Close()

		body, _ := server.LastRequest().JSON()
		if body["indexing_technique"] != "economy" {
			t.Errorf("expected economy, got %v", body["indexing_technique"])
		}
		rule, _ := body["process_rule"].(map[string]any)
		if rule["mode"] != "custom" || rule["rules"] == nil {
			t.Errorf("expected process_rule to be replaced entirely, got %v", rule)
		}
	})
}

func TestUpdateDocumentByText(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.UpdateDocumentByText(context.Background(), "doc1", "n", "t", Params{"name": "override"})
	if err != nil {
		t.Fatalf("UpdateDocumentByText failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodPost || last.Path != "/datasets/ds1/documents/doc1/update_by_text" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
	body, _ := last.JSON()
	if body["name"] != "override" || body["text"] != "t" {
		t.Errorf("unexpected body %v", body)
	}
}

func newFileDataset(t *testing.T, server *glikt.Server) *DatasetClient {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/docs/guide.md", []byte("# Guide"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}
	config := testConfig(server)
	config.Fs = fs
	return NewDataset(config, "ds1")
}

func TestCreateDocumentByFile(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := newFileDataset(t, server)
	resp, err := dataset.CreateDocumentByFile(context.Background(), "/docs/guide.md", "old-doc", nil)
	if err != nil {
		t.Fatalf("CreateDocumentByFile failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Path != "/datasets/ds1/document/create_by_file" {
		t.Errorf("unexpected path %s", last.Path)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(last.Form["data"]), &data); err != nil {
		t.Fatalf("failed to decode data field %q: %v", last.Form["data"], err)
	}
	if data["indexing_technique"] != "high_quality" || data["original_document_id"] != "old-doc" {
		t.Errorf("unexpected data %v", data)
	}
	rule, _ := data["process_rule"].(map[string]any)
	if rule["mode"] != "automatic" {
		t.Errorf("expected automatic process rule, got %v", data["process_rule"])
	}

	f, ok := last.Files["file"]
	if !ok {
		t.Fatalf("expected file part, got %v", last.Files)
	}
	if f.Filename != "guide.md" || string(f.Content) != "# Guide" {
		t.Errorf("unexpected file part %+v", f)
	}
}

func TestCreateDocumentByFile_NoOriginalID(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := newFileDataset(t, server)
	resp, err := dataset.CreateDocumentByFile(context.Background(), "/docs/guide.md", "", nil)
	if err != nil {
		t.Fatalf("CreateDocumentByFile failed: %v", err)
	}
	resp.Body.Close()

	var data map[string]any
	if err := json.Unmarshal([]byte(server.LastRequest().Form["data"]), &data); err != nil {
		t.Fatalf("failed to decode data field: %v", err)
	}
	if _, ok := data["original_document_id"]; ok {
		t.Error("expected original_document_id to be omitted")
	}
}

func TestUpdateDocumentByFile(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := newFileDataset(t, server)
	resp, err := dataset.UpdateDocumentByFile(context.Background(), "doc1", "/docs/guide.md", nil)
	if err != nil {
		t.Fatalf("UpdateDocumentByFile failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Path != "/datasets/ds1/documents/doc1/update_by_file" {
		t.Errorf("unexpected path %s", last.Path)
	}
	if last.Form["data"] != "{}" {
		t.Errorf("expected empty data object, got %q", last.Form["data"])
	}
	if _, ok := last.Files["file"]; !ok {
		t.Error("expected file part")
	}
}

func TestDocumentByFile_MissingFile(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := newFileDataset(t, server)
	_, err := dataset.CreateDocumentByFile(context.Background(), "/docs/missing.md", "", nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if server.RequestCount() != 0 {
		t.Errorf("expected no requests, got %d", server.RequestCount())
	}
}

func TestBatchIndexingStatus(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.BatchIndexingStatus(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("BatchIndexingStatus failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodGet || last.Path != "/datasets/ds1/documents/batch-1/indexing-status" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
}

func TestDeleteDataset(t *testing.T) {
	server := glikt.NewJSONServer(http.StatusNoContent, "")
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.DeleteDataset(context.Background())
	if err != nil {
		t.Fatalf("DeleteDataset failed: %v", err)
	}
	if body := readBody(t, resp); body != "" {
		t.Errorf("expected empty body, got %q", body)
	}

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	last := server.LastRequest()
	if last.Method != http.MethodDelete || last.Path != "/datasets/ds1" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
}

func TestDeleteDocument(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.DeleteDocument(context.Background(), "doc1")
	if err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodDelete || last.Path != "/datasets/ds1/documents/doc1" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
}

func TestListDocuments(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")

	resp, err := dataset.ListDocuments(context.Background(), DocumentsQuery{})
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Path != "/datasets/ds1/documents" || last.RawQuery != "" {
		t.Errorf("expected no query, got %s?%s", last.Path, last.RawQuery)
	}

	resp, err = dataset.ListDocuments(context.Background(), DocumentsQuery{Page: Ptr(2), Limit: Ptr(10), Keyword: Ptr("faq")})
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	resp.Body.Close()

	q := server.LastRequest().Query
	if q.Get("page") != "2" || q.Get("limit") != "10" || q.Get("keyword") != "faq" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestQuerySegments(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.QuerySegments(context.Background(), "doc1", SegmentsQuery{Status: Ptr("completed")})
	if err != nil {
		t.Fatalf("QuerySegments failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodGet || last.Path != "/datasets/ds1/documents/doc1/segments" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
	if last.RawQuery != "status=completed" {
		t.Errorf("expected status=completed, got %q", last.RawQuery)
	}
}

func TestUpdateDocumentSegment(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.UpdateDocumentSegment(context.Background(), "doc1", "seg1", SegmentUpdate{
		Content: "updated",
		Keyword: []string{"go"},
		Enabled: Ptr(false),
	})
	if err != nil {
		t.Fatalf("UpdateDocumentSegment failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodPost || last.Path != "/datasets/ds1/documents/doc1/segments/seg1" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
	if string(last.Body) != `{"segment":{"content":"updated","keyword":["go"],"enabled":false}}` {
		t.Errorf("unexpected body %s", last.Body)
	}
}

func TestUpdateDocumentSegment_Extra(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.UpdateDocumentSegment(context.Background(), "doc1", "seg1", SegmentUpdate{
		Keyword: []string{"go"},
		Enabled: Ptr(false),
		Extra:   Params{"content": "", "enabled": true, "regenerate_child_chunks": true},
	})
	if err != nil {
		t.Fatalf("UpdateDocumentSegment failed: %v", err)
	}
	resp.Body.Close()

	want := `{"segment":{"content":"","enabled":true,"keyword":["go"],"regenerate_child_chunks":true}}`
	if body := string(server.LastRequest().Body); body != want {
		t.Errorf("expected %s, got %s", want, body)
	}
}

func TestDeleteDocumentSegment(t *testing.T) {
	server := glikt.NewServer()
	defer server.Close()

	dataset := NewDataset(testConfig(server), "ds1")
	resp, err := dataset.DeleteDocumentSegment(context.Background(), "doc1", "seg1")
	if err != nil {
		t.Fatalf("DeleteDocumentSegment failed: %v", err)
	}
	resp.Body.Close()

	last := server.LastRequest()
	if last.Method != http.MethodDelete || last.Path != "/datasets/ds1/documents/doc1/segments/seg1" {
		t.Errorf("unexpected request line %s %s", last.Method, last.Path)
	}
}
