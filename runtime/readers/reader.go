// Package readers loads plain-text documents used as synthesis input.
package readers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultMaxBytes caps how much of a file is read.
const DefaultMaxBytes = 10 << 20

var (
	// ErrNotText is returned for content that is not valid UTF-8.
	ErrNotText = errors.New("file is not valid UTF-8 text")

	// ErrTooLarge is returned for files above the reader's size limit.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrOutsideRoot is returned for paths that escape the configured root.
	ErrOutsideRoot = errors.New("path is outside the allowed directory")

	// ErrEmptyPath is returned when no path is given.
	ErrEmptyPath = errors.New("file path is empty")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextReader reads UTF-8 text files. The zero value reads any path up to
// DefaultMaxBytes.
type TextReader struct {
	// Root, when set, confines reads to files under it. Relative paths are
	// resolved against Root.
	Root string

	// MaxBytes overrides DefaultMaxBytes.
	MaxBytes int64
}

// Read returns the file's contents with any UTF-8 byte order mark removed.
func (r TextReader) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := r.resolve(path)
	if err != nil {
		return "", err
	}

	f, err := os.Open(resolved) //nolint:gosec // confined by resolve when Root is set
	if err != nil {
		return "", err
	}
	defer f.Close()

	limit := r.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, limit)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, filepath.Base(resolved))
	}
	return string(data), nil
}

func (r TextReader) resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}
	if r.Root == "" {
		return path, nil
	}

	root, err := filepath.Abs(r.Root)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	// Resolve symlinks on both sides when the target exists.
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
	}
	if realRoot, err := filepath.EvalSymlinks(root); err == nil {
		root = realRoot
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return path, nil
}
