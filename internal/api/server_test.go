package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/config"
	"github.com/dgallion1/docxlist/internal/pipeline"
	"github.com/dgallion1/docxlist/internal/stats"
	"github.com/dgallion1/docxlist/internal/store"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.APIKey = testKey
	cfg.WorkerCount = 1
	cfg.MaxUploadBytes = 1 << 20

	blobs, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st := stats.NewRenderStats(time.Hour)
	orch := pipeline.NewOrchestrator(cfg, blobs, st, zap.NewNop())
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	return NewServer(orch, blobs, st, zap.NewNop(), cfg)
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func doRequest(s *Server, req *http.Request, auth bool) *httptest.ResponseRecorder {
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func zipParts(t *testing.T, data []byte) map[string]bool {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("expected a zip package: %v", err)
	}
	parts := make(map[string]bool)
	for _, f := range zr.File {
		parts[f.Name] = true
	}
	return parts
}

const planMarkdown = "# Plan\n\n1. one\n   - a\n2. two\n"

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil), false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/stats/render", nil), false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without header, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats/render", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = doRequest(s, req, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}
}

func TestRender_Sync(t *testing.T) {
	s := newTestServer(t)
	body, ctype := multipartBody(t, "plan.md", planMarkdown, map[string]string{"title": "My Plan", "indent": "400"})
	req := httptest.NewRequest(http.MethodPost, "/api/render", body)
	req.Header.Set("Content-Type", ctype)

	rec := doRequest(s, req, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="my-plan.docx"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	if got := rec.Header().Get("X-List-Definitions"); got != "1" {
		t.Errorf("expected 1 definition, got %q", got)
	}
	if got := rec.Header().Get("X-List-Items"); got != "3" {
		t.Errorf("expected 3 list items, got %q", got)
	}
	parts := zipParts(t, rec.Body.Bytes())
	if !parts["word/numbering.xml"] || !parts["word/document.xml"] {
		t.Errorf("expected document and numbering parts, got %v", parts)
	}

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/api/stats/render", nil), true)
	var resp struct {
		Stats stats.Snapshot `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stats.Formats["md"].Rendered != 1 {
		t.Errorf("expected 1 markdown render in stats, got %+v", resp.Stats.Formats)
	}
}

func TestRender_BadRequests(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name     string
		filename string
		fields   map[string]string
		want     int
	}{
		{"unsupported", "image.png", nil, http.StatusBadRequest},
		{"bad indent", "a.md", map[string]string{"indent": "-3"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		body, ctype := multipartBody(t, tt.filename, "x", tt.fields)
		req := httptest.NewRequest(http.MethodPost, "/api/render", body)
		req.Header.Set("Content-Type", ctype)
		if rec := doRequest(s, req, true); rec.Code != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewBufferString("nope"))
	req.Header.Set("Content-Type", "text/plain")
	if rec := doRequest(s, req, true); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-multipart body, got %d", rec.Code)
	}
}

func TestJobs_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	body, ctype := multipartBody(t, "plan.md", planMarkdown, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", body)
	req.Header.Set("Content-Type", ctype)

	rec := doRequest(s, req, true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatal(err)
	}
	if accepted.PollURL != "/api/jobs/"+accepted.JobID {
		t.Errorf("unexpected poll url %q", accepted.PollURL)
	}

	var snap pipeline.JobSnapshot
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = doRequest(s, httptest.NewRequest(http.MethodGet, accepted.PollURL, nil), true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 polling, got %d", rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatal(err)
		}
		if snap.Status == pipeline.StatusCompleted || snap.Status == pipeline.StatusFailed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, status %s", snap.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("expected completed, got %s (%v)", snap.Status, snap.Errors)
	}
	if snap.Result.Definitions != 1 || snap.Result.ListItems != 3 {
		t.Errorf("unexpected result %+v", snap.Result)
	}

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, accepted.PollURL+"/document", nil), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for document, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="plan.docx"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	if parts := zipParts(t, rec.Body.Bytes()); !parts["word/numbering.xml"] {
		t.Error("expected numbering part in stored document")
	}
}

func TestJobs_NotFound(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/jobs/missing", "/api/jobs/missing/document"} {
		rec := doRequest(s, httptest.NewRequest(http.MethodGet, path, nil), true)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		title, filename, want string
	}{
		{"My Plan", "x.md", "my-plan.docx"},
		{"", "Quarterly Report.html", "quarterly-report.docx"},
		{"", "!!!.md", "document.docx"},
	}
	for _, tt := range tests {
		if got := downloadName(tt.title, tt.filename); got != tt.want {
			t.Errorf("downloadName(%q, %q): expected %q, got %q", tt.title, tt.filename, tt.want, got)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"../../etc/passwd": "passwd",
		`C:\tmp\a.md`:      "a.md",
		"":                 "unnamed",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", in, want, got)
		}
	}
}
