package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AltairaLabs/speechkit/runtime/logger"
)

// ParseRetention converts a retention policy name into a duration.
// Supported formats:
//   - "delete-after-Xmin"
//   - "retain-Xhours"
//   - "retain-Xdays"
//
// An empty name means keep forever and returns 0.
func ParseRetention(name string) (time.Duration, error) {
	if name == "" {
		return 0, nil
	}

	var n int
	if c, _ := fmt.Sscanf(name, "delete-after-%dmin", &n); c == 1 && fmt.Sprintf("delete-after-%dmin", n) == name {
		return time.Duration(n) * time.Minute, nil
	}
	if c, _ := fmt.Sscanf(name, "retain-%dhours", &n); c == 1 && fmt.Sprintf("retain-%dhours", n) == name {
		return time.Duration(n) * time.Hour, nil
	}
	if c, _ := fmt.Sscanf(name, "retain-%ddays", &n); c == 1 && fmt.Sprintf("retain-%ddays", n) == name {
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unsupported retention policy: %s", name)
}

// Sweep deletes artifacts whose metadata marks them as expired. Individual
// failures are logged and skipped. It returns the number of artifacts deleted.
func (fs *FileStore) Sweep(ctx context.Context) (int, error) {
	now := fs.now()
	deleted := 0

	err := filepath.WalkDir(fs.config.BaseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(path, metaExt) {
			return nil
		}

		data, err := os.ReadFile(path) //nolint:gosec // walked from BaseDir
		if err != nil {
			logger.Warn("Failed to read artifact metadata", "path", path, "error", err)
			return nil
		}
		var meta metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			logger.Warn("Failed to parse artifact metadata", "path", path, "error", err)
			return nil
		}
		if meta.ExpiresAt == nil || now.Before(*meta.ExpiresAt) {
			return nil
		}

		if err := fs.Delete(strings.TrimSuffix(path, metaExt)); err != nil {
			logger.Warn("Failed to delete expired artifact", "path", path, "error", err)
			return nil
		}
		deleted++
		return nil
	})
	if err != nil {
		return deleted, err
	}
	if deleted > 0 {
		logger.Info("Swept expired artifacts", "deleted", deleted)
	}
	return deleted, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (fs *FileStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fs.Sweep(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Artifact sweep failed", "error", err)
			}
		}
	}
}
