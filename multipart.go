package glik

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// File is a named attachment sent in a multipart request.
type File struct {
	Field       string    // Form field name, e.g. "file" or "audio_file"
	Name        string    // File name reported to the server; defaults to Field
	ContentType string    // Optional part content type; application/octet-stream when empty
	Reader      io.Reader // File content, read once when the request is encoded
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes form fields (in key order) followed by files into an
// in-memory body and returns it with its content type.
func encodeMultipart(form map[string]string, files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writer.WriteField(k, form[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	for _, f := range files {
		if f.Reader == nil {
			return nil, "", fmt.Errorf("file %s has no content", f.Field)
		}
		name := f.Name
		if name == "" {
			name = f.Field
		}

		var part io.Writer
		var err error
		if f.ContentType == "" {
			part, err = writer.CreateFormFile(f.Field, name)
		} else {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(f.Field), quoteEscaper.Replace(name)))
			h.Set("Content-Type", f.ContentType)
			part, err = writer.CreatePart(h)
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, "", fmt.Errorf("failed to read file %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// openFile opens path on the client's filesystem as an attachment under field.
// The caller closes the returned file.
func (c *Client) openFile(field, path string) (File, afero.File, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return File{Field: field, Name: filepath.Base(path), Reader: f}, f, nil
}
