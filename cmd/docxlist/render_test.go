package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/render"
)

func TestDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.md")

	got, err := destination(src, "")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "notes.docx"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err = destination(src, out)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(out, "notes.docx"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	docx := filepath.Join(dir, "report.docx")
	if _, err := destination(docx, ""); err == nil {
		t.Error("expected error when destination equals source")
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(src, []byte("Groceries\n\n- milk\n  - whole\n- eggs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "list.docx")

	sum, err := renderFile(context.Background(), src, dst, "Shopping", 360, render.Options{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if sum.ListItems != 3 {
		t.Errorf("expected 3 list items, got %d", sum.ListItems)
	}
	if sum.Definitions != 1 {
		t.Errorf("expected 1 definition, got %d", sum.Definitions)
	}
	fi, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("expected non-empty document")
	}
}

func TestRenderFile_CancelledRemovesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.md")
	if err := os.WriteFile(src, []byte("- a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "a.docx")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderFile(ctx, src, dst, "", 360, render.Options{}, zap.NewNop()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("expected no destination file, got %v", err)
	}
}
