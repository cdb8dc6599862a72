package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartFiles(t *testing.T, filenames ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, filename := range filenames {
		part, err := writer.CreateFormFile("images", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("content of " + filename)); err != nil {
			t.Fatalf("failed to write file content: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	return req.MultipartForm.File["images"]
}

func TestSaveAllPreservesOrder(t *testing.T) {
	uploads, err := NewUploads(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create uploads: %v", err)
	}

	headers := multipartFiles(t, "first.JPG", "second.png", "third.jpg")
	names, err := uploads.SaveAll(headers)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 saved files, got %d", len(names))
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate generated name %q", name)
		}
		seen[name] = true
	}

	if !strings.HasSuffix(names[0], ".jpg") {
		t.Errorf("extension must be lowercased, got %q", names[0])
	}
	if !strings.HasSuffix(names[1], ".png") {
		t.Errorf("extension must be preserved, got %q", names[1])
	}

	// Порядок имен соответствует порядку файлов в форме.
	content, err := os.ReadFile(filepath.Join(uploads.Dir, names[1]))
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(content) != "content of second.png" {
		t.Errorf("unexpected content: %q", content)
	}
}

func TestNewUploadsCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewUploads(dir); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("upload directory not created: %v", err)
	}
}
