package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/pipeline"
	"github.com/dgallion1/docxlist/internal/render"
)

func renderAction(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := envFromContext(ctx)
	log := e.log.Named("render")

	src := cmd.Args().Get(0)
	if src == "" {
		return errors.New("no input source has been specified")
	}
	if !render.IsSupportedExtension(src) {
		return fmt.Errorf("unsupported source type: %s", filepath.Ext(src))
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	dst, err := destination(src, cmd.Args().Get(1))
	if err != nil {
		return err
	}
	if !cmd.Bool("overwrite") {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("destination '%s' already exists, use --overwrite", dst)
		}
	}

	indent := e.cfg.IndentUnit
	if n := int(cmd.Int("indent")); n != 0 {
		if n < 0 {
			return fmt.Errorf("indent must be positive, got %d", n)
		}
		indent = n
	}

	start := time.Now()
	sum, err := renderFile(ctx, src, dst, cmd.String("title"), indent, render.Options{PDFFallback: e.cfg.PDFFallbackPdftotext}, log)
	if err != nil {
		return err
	}
	log.Info("Document rendered",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Int("list_items", sum.ListItems),
		zap.Int("definitions", sum.Definitions),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// destination resolves the output path: SOURCE with a .docx extension when
// dst is empty, inside dst when it names a directory.
func destination(src, dst string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".docx"
	if dst == "" {
		dst = filepath.Join(filepath.Dir(src), name)
	} else if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, name)
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if srcAbs, err := filepath.Abs(src); err == nil && srcAbs == abs {
		return "", fmt.Errorf("destination '%s' would overwrite the source", dst)
	}
	return abs, nil
}

func renderFile(ctx context.Context, src, dst, title string, indent int, opts render.Options, log *zap.Logger) (sum pipeline.Result, err error) {
	in, err := os.Open(src)
	if err != nil {
		return sum, fmt.Errorf("unable to open source: %w", err)
	}
	defer in.Close()

	doc, err := render.File(ctx, in, filepath.Base(src), opts, render.WithIndent(indent), render.WithLogger(log))
	if err != nil {
		return sum, err
	}
	if title != "" {
		doc.Title = title
	}

	out, err := os.Create(dst)
	if err != nil {
		return sum, fmt.Errorf("unable to create destination: %w", err)
	}
	defer func() {
		if er := out.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close destination: %w", er))
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = doc.WriteTo(out); err != nil {
		return sum, fmt.Errorf("unable to write document: %w", err)
	}
	return pipeline.Summarize(doc), nil
}
