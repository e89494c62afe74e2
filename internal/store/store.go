// Package store keeps rendered packages on disk addressed by their BLAKE3
// hash: <root>/blobs/<first2>/<hash>.docx.
package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

var (
	ErrNotFound    = errors.New("store: blob not found")
	ErrInvalidHash = errors.New("store: invalid hash")
)

const ext = ".docx"

type Store struct {
	root string
}

// New opens a store rooted at dir, creating it when missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "blobs"), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Hash returns the hex BLAKE3 digest of data.
func Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Put stores data and returns its hash. Storing the same bytes twice is a
// no-op.
func (s *Store) Put(data []byte) (string, error) {
	hash := Hash(data)
	dir := filepath.Join(s.root, "blobs", hash[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create blob directory: %w", err)
	}

	path := filepath.Join(dir, hash+ext)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	tmp, err := os.CreateTemp(dir, ".blob-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename blob: %w", err)
	}
	return hash, nil
}

// Open returns a reader for the blob with the given hash and its size.
func (s *Store) Open(hash string) (io.ReadSeekCloser, int64, error) {
	path, err := s.path(hash)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("open blob: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat blob: %w", err)
	}
	return f, info.Size(), nil
}

// Has reports whether the blob exists.
func (s *Store) Has(hash string) bool {
	path, err := s.path(hash)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (s *Store) path(hash string) (string, error) {
	if !validHash(hash) {
		return "", ErrInvalidHash
	}
	return filepath.Join(s.root, "blobs", hash[:2], hash+ext), nil
}

func validHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
