// Package local provides a filesystem-backed artifact store.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AltairaLabs/speechkit/runtime/artifacts"
	"github.com/AltairaLabs/speechkit/runtime/logger"
)

const (
	dirPerm  = 0750
	filePerm = 0600
	metaExt  = ".meta"
)

// FileStoreConfig configures the local filesystem store.
type FileStoreConfig struct {
	// BaseDir is the root directory for artifacts.
	BaseDir string

	// Retention, when set, is recorded as the expiry of every new artifact
	// and honoured by Sweep.
	Retention time.Duration
}

// FileStore stores artifacts as files under BaseDir, grouped by UTC day.
type FileStore struct {
	config FileStoreConfig
	now    func() time.Time
}

// metadata is the .meta sidecar written next to each artifact.
type metadata struct {
	artifacts.Artifact
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewFileStore creates the base directory if needed and returns a store.
func NewFileStore(config FileStoreConfig) (*FileStore, error) {
	if config.BaseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FileStore{config: config, now: time.Now}, nil
}

// Put streams r to <BaseDir>/<yyyy-mm-dd>/<name>. The write goes to a
// temporary file first and is renamed into place, so a failed copy never
// leaves a partial artifact behind.
func (fs *FileStore) Put(ctx context.Context, r io.Reader, _ int64, name, description string, opts ...artifacts.PutOption) (*artifacts.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = sanitizeFilename(name)
	if name == "" {
		name = uuid.NewString()
	}

	now := fs.now().UTC()
	dir := filepath.Join(fs.config.BaseDir, now.Format("2006-01-02"))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := fs.validatePath(path); err != nil {
		return nil, err
	}

	written, err := writeFileAtomic(path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	art := &artifacts.Artifact{
		Reference:   "file://" + filepath.ToSlash(abs),
		Name:        name,
		Description: description,
		ContentType: artifacts.ResolvePutOptions(name, opts...).ContentType,
		Size:        written,
		CreatedAt:   now,
	}

	if err := fs.storeMetadata(path, art); err != nil {
		logger.WarnContext(ctx, "Failed to store artifact metadata", "path", path, "error", err)
	}
	logger.DebugContext(ctx, "Stored artifact", "path", path, "size", written)
	return art, nil
}

// Delete removes an artifact and its metadata.
func (fs *FileStore) Delete(reference string) error {
	path := strings.TrimPrefix(reference, "file://")
	if err := fs.validatePath(path); err != nil {
		return fmt.Errorf("invalid artifact reference: %w", err)
	}
	_ = os.Remove(path + metaExt)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	fs.cleanupEmptyDir(filepath.Dir(path))
	return nil
}

// validatePath checks that path is inside BaseDir, including after symlink
// resolution for existing files.
func (fs *FileStore) validatePath(path string) error {
	absBase, err := filepath.Abs(fs.config.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if !within(absPath, absBase) {
		return fmt.Errorf("path %q is outside base directory %q", path, fs.config.BaseDir)
	}

	if _, err := os.Lstat(absPath); err == nil {
		realBase, err := filepath.EvalSymlinks(absBase)
		if err != nil {
			realBase = absBase
		}
		realPath, err := filepath.EvalSymlinks(absPath)
		if err != nil {
			return fmt.Errorf("failed to resolve symlinks: %w", err)
		}
		if !within(realPath, realBase) {
			return fmt.Errorf("path %q resolves outside base directory", path)
		}
	}
	return nil
}

func within(path, base string) bool {
	path, base = filepath.Clean(path), filepath.Clean(base)
	return path == base || strings.HasPrefix(path+string(filepath.Separator), base+string(filepath.Separator))
}

func writeFileAtomic(path string, r io.Reader) (int64, error) {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm) //nolint:gosec // path validated by caller
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	return n, os.Rename(tmp, path)
}

func (fs *FileStore) storeMetadata(path string, art *artifacts.Artifact) error {
	meta := metadata{Artifact: *art}
	if fs.config.Retention > 0 {
		exp := art.CreatedAt.Add(fs.config.Retention)
		meta.ExpiresAt = &exp
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path+metaExt, data, filePerm)
}

func (fs *FileStore) cleanupEmptyDir(dir string) {
	absBase, _ := filepath.Abs(fs.config.BaseDir)
	absDir, _ := filepath.Abs(dir)
	if absDir == absBase {
		return
	}
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(dir)
	}
}

// sanitizeFilename keeps the base name and replaces characters that are
// unsafe in file names.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

var _ artifacts.Store = (*FileStore)(nil)
