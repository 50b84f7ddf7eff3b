package staging

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"ddpsdk/internal/logging"
)

// CleanStaleResult contains the outcome of a stale directory cleanup operation.
type CleanStaleResult struct {
	Removed []string
	InUse   []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes staging directories older than maxAge whose owner no
// longer holds their lock, plus lock files left without a directory.
func CleanStale(ctx context.Context, root string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}
	logger = logging.NewComponentLogger(logger, "staging")
	root = ResolveRoot(strings.TrimSpace(root))

	entries, err := os.ReadDir(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		name := entry.Name()
		if !strings.HasPrefix(name, dirPrefix) {
			continue
		}
		path := filepath.Join(root, name)

		if !entry.IsDir() {
			if strings.HasSuffix(name, lockSuffix) {
				removeOrphanLock(path)
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		lock := flock.New(path + lockSuffix)
		locked, err := lock.TryLock()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !locked {
			result.InUse = append(result.InUse, path)
			continue
		}

		failures := removeTree(path)
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())

		if len(failures) > 0 {
			err := errors.Join(failures...)
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale staging directory", "staging_cleanup_failed",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check staging_root permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("removed stale staging directory",
			logging.Path(path),
			logging.Duration("age", time.Since(info.ModTime())),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}
	return result
}

// removeOrphanLock deletes a lock file whose directory is gone and that no
// process holds.
func removeOrphanLock(lockPath string) {
	dirPath := strings.TrimSuffix(lockPath, lockSuffix)
	if _, err := os.Stat(dirPath); err == nil {
		return
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return
	}
	_ = lock.Unlock()
	_ = os.Remove(lockPath)
}

// DirInfo contains metadata about a staging directory.
type DirInfo struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	Size    int64     `json:"size_bytes" yaml:"size_bytes"`
	InUse   bool      `json:"in_use" yaml:"in_use"`
}

// ListDirectories returns all staging directories under root with their metadata.
func ListDirectories(root string) ([]DirInfo, error) {
	root = ResolveRoot(strings.TrimSpace(root))
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), dirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(root, entry.Name())
		size, _ := dirSize(path)
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    size,
			InUse:   lockHeld(path + lockSuffix),
		})
	}
	return dirs, nil
}

// lockHeld reports whether another holder owns lockPath. A missing lock file
// means nobody does.
func lockHeld(lockPath string) bool {
	if _, err := os.Stat(lockPath); err != nil {
		return false
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return false
	}
	if locked {
		_ = lock.Unlock()
		return false
	}
	return true
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size, err
}
