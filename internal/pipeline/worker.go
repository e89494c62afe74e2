package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/render"
	"github.com/dgallion1/docxlist/internal/stats"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// Blobs persists rendered packages and returns their address.
type Blobs interface {
	Put(data []byte) (string, error)
}

// Worker processes a single render job.
type Worker struct {
	blobs  Blobs
	stats  *stats.RenderStats
	log    *zap.Logger
	opts   render.Options
	indent int
}

func NewWorker(blobs Blobs, st *stats.RenderStats, log *zap.Logger, opts render.Options, indent int) *Worker {
	return &Worker{
		blobs:  blobs,
		stats:  st,
		log:    log,
		opts:   opts,
		indent: indent,
	}
}

// Process renders the job's upload and stores the package.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With(zap.String("job_id", job.ID), zap.String("filename", job.Filename))

	job.SetStatus(StatusRendering, "rendering")
	doc, err := w.render(ctx, job, log)
	job.SetFileData(nil)
	if err != nil {
		log.Error("Render failed", zap.Error(err))
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	job.SetStatus(StatusStoring, "storing")
	data, err := doc.Bytes()
	if err != nil {
		log.Error("Packaging failed", zap.Error(err))
		job.AddError(fmt.Sprintf("package: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	hash, err := w.blobs.Put(data)
	if err != nil {
		log.Error("Store failed", zap.Error(err))
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	result := Summarize(doc)
	result.Hash = hash
	result.Size = int64(len(data))
	job.SetResult(result)
	job.SetStatus(StatusCompleted, "done")
	log.Info("Render complete",
		zap.String("hash", hash),
		zap.Int("paragraphs", result.Paragraphs),
		zap.Int("definitions", result.Definitions))
}

func (w *Worker) render(ctx context.Context, job *Job, log *zap.Logger) (*wordml.Document, error) {
	indent := w.indent
	if job.Indent > 0 {
		indent = job.Indent
	}

	start := time.Now()
	doc, err := render.File(ctx, bytes.NewReader(job.FileData()), job.Filename, w.opts,
		render.WithIndent(indent), render.WithLogger(log))
	if w.stats != nil {
		w.stats.Record(render.Format(job.Filename), time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	return doc, nil
}

// Summarize counts what a rendered document holds.
func Summarize(doc *wordml.Document) Result {
	r := Result{
		Paragraphs:  len(doc.Body),
		Definitions: len(doc.Numbering.Abstracts()),
	}
	for _, p := range doc.Body {
		if p.Numbered() {
			r.ListItems++
		}
	}
	return r
}
