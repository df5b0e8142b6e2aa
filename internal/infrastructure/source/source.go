// Package source loads the two primary pipeline inputs, screening records
// and the boundary catalog, from local files or object storage.  Every
// source exposes a content fingerprint so the memoizing wrappers can tell
// whether the underlying data changed without re-parsing it.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"

	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// RawSource supplies the raw bytes of one primary input.  Fingerprint must
// change whenever Fetch would return different bytes; beyond that its shape
// is implementation-defined (content hash, object ETag).
type RawSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Fingerprint(ctx context.Context) (string, error)
}

// FileSource reads a local file.  Its fingerprint is the SHA-256 of the
// file contents, so a rewrite with identical bytes does not invalidate
// downstream caches.
type FileSource struct {
	path string
}

// NewFileSource builds a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file path the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable, "failed to read source file "+s.path)
	}
	return data, nil
}

// Fingerprint hashes the current file contents.
func (s *FileSource) Fingerprint(ctx context.Context) (string, error) {
	data, err := s.Fetch(ctx)
	if err != nil {
		return "", err
	}
	return ContentFingerprint(data), nil
}

// ContentFingerprint returns the hex SHA-256 of data.
func ContentFingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
