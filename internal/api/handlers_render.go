package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/pipeline"
	"github.com/dgallion1/docxlist/internal/render"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// upload is one validated file from a multipart request.
type upload struct {
	filename string
	title    string
	indent   int
	data     []byte
}

// errUpload carries a client-facing message and status.
type errUpload struct {
	msg  string
	code int
}

func (e *errUpload) Error() string { return e.msg }

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	up, ok := s.parseSingleUpload(w, r)
	if !ok {
		return
	}

	indent := s.cfg.IndentUnit
	if up.indent > 0 {
		indent = up.indent
	}

	start := time.Now()
	doc, err := render.File(r.Context(), bytes.NewReader(up.data), up.filename,
		render.Options{PDFFallback: s.cfg.PDFFallbackPdftotext},
		render.WithIndent(indent), render.WithLogger(s.log))
	if s.stats != nil {
		s.stats.Record(render.Format(up.filename), time.Since(start), err)
	}
	if err != nil {
		s.log.Warn("Render failed", zap.String("filename", up.filename), zap.Error(err))
		code := http.StatusUnprocessableEntity
		if r.Context().Err() != nil {
			code = http.StatusServiceUnavailable
		}
		jsonError(w, err.Error(), code)
		return
	}
	if up.title != "" {
		doc.Title = up.title
	}

	data, err := doc.Bytes()
	if err != nil {
		s.log.Error("Packaging failed", zap.String("filename", up.filename), zap.Error(err))
		jsonError(w, "failed to build package", http.StatusInternalServerError)
		return
	}

	sum := pipeline.Summarize(doc)
	w.Header().Set("X-List-Items", strconv.Itoa(sum.ListItems))
	w.Header().Set("X-List-Definitions", strconv.Itoa(sum.Definitions))
	serveDocx(w, r, downloadName(doc.Title, up.filename), bytes.NewReader(data))
}

func (s *Server) parseSingleUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	up, err := s.readUpload(header.Filename, file)
	if err == nil {
		up.title = r.FormValue("title")
		up.indent, err = parseIndent(r.FormValue("indent"))
	}
	if err != nil {
		var ue *errUpload
		if errors.As(err, &ue) {
			jsonError(w, ue.msg, ue.code)
		} else {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
		}
		return nil, false
	}
	return up, true
}

func (s *Server) readUpload(name string, file multipart.File) (*upload, error) {
	filename := sanitizeFilename(name)
	if !render.IsSupportedExtension(filename) {
		return nil, &errUpload{fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, &errUpload{fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
	}
	return &upload{filename: filename, data: data}, nil
}

func parseIndent(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, &errUpload{"indent must be a positive number of twips", http.StatusBadRequest}
	}
	return n, nil
}

// downloadName builds an ASCII attachment name from the title, falling
// back to the upload name.
func downloadName(title, filename string) string {
	name := slug.Make(title)
	if name == "" {
		name = slug.Make(render.TitleFromFilename(filename))
	}
	if name == "" {
		name = "document"
	}
	return name + ".docx"
}

func serveDocx(w http.ResponseWriter, r *http.Request, name string, content io.ReadSeeker) {
	w.Header().Set("Content-Type", wordml.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	http.ServeContent(w, r, name, time.Time{}, content)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
