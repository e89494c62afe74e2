package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPutOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := []byte("PK fake package")
	hash, err := s.Put(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash != Hash(data) || len(hash) != 64 {
		t.Fatalf("expected blake3 hex digest, got %q", hash)
	}
	if _, err := os.Stat(filepath.Join(dir, "blobs", hash[:2], hash+".docx")); err != nil {
		t.Errorf("expected blob on disk: %v", err)
	}
	if !s.Has(hash) {
		t.Error("expected Has to report stored blob")
	}

	f, size, err := s.Open(hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) || size != int64(len(data)) {
		t.Errorf("expected %q (%d bytes), got %q (%d bytes)", data, len(data), got, size)
	}
}

func TestPutIsIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	first, err := s.Put([]byte("same"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Put([]byte("same"))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected identical hashes, got %s and %s", first, second)
	}
}

func TestOpenMissingAndInvalid(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Open(strings.Repeat("a", 64)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := s.Open("../../etc/passwd"); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("expected ErrInvalidHash, got %v", err)
	}
	if s.Has("XYZ") {
		t.Error("expected Has to reject invalid hash")
	}
}
