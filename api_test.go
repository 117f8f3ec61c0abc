package glik

import (
	"encoding/json"
	"testing"
)

func TestResponseModeStreaming(t *testing.T) {
	tests := []struct {
		mode ResponseMode
		want bool
	}{
		{ResponseModeStreaming, true},
		{ResponseModeBlocking, false},
		{"", false},
		{"STREAMING", false},
	}
	for _, tt := range tests {
		if got := tt.mode.Streaming(); got != tt.want {
			t.Errorf("%q.Streaming() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestParamsMerge(t *testing.T) {
	base := map[string]any{
		"indexing_technique": "high_quality",
		"process_rule":       map[string]any{"mode": "automatic"},
	}

	t.Run("nil params", func(t *testing.T) {
		var p Params
		merged := p.merge(base)
		if len(merged) != 2 {
			t.Errorf("Expected base keys only, got %v", merged)
		}
	})

	t.Run("nil base", func(t *testing.T) {
		var p Params
		merged := p.merge(nil)
		data, _ := json.Marshal(merged)
		if string(data) != "{}" {
			t.Errorf("Expected empty object, got %s", data)
		}
	})

	t.Run("shallow override", func(t *testing.T) {
		p := Params{"process_rule": map[string]any{"rules": "x"}, "doc_form": "qa_model"}
		merged := p.merge(base)

		rule := merged["process_rule"].(map[string]any)
		if _, ok := rule["mode"]; ok {
			t.Error("Expected process_rule to be replaced, not deep-merged")
		}
		if merged["doc_form"] != "qa_model" || merged["indexing_technique"] != "high_quality" {
			t.Errorf("Unexpected merge result %v", merged)
		}
		if _, ok := base["doc_form"]; ok {
			t.Error("Expected base to be left untouched")
		}
	})
}

func TestFileInputJSON(t *testing.T) {
	data, err := json.Marshal(FileInput{
		Type:           "image",
		TransferMethod: TransferMethodLocalFile,
		UploadFileID:   "file-1",
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"type":"image","transfer_method":"local_file","upload_file_id":"file-1"}` {
		t.Errorf("Unexpected JSON %s", data)
	}
}

func TestPtr(t *testing.T) {
	p := Ptr(20)
	if p == nil || *p != 20 {
		t.Errorf("Expected pointer to 20, got %v", p)
	}
}
