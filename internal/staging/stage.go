package staging

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gofrs/flock"

	"ddpsdk/internal/fileset"
	"ddpsdk/internal/logging"
	"ddpsdk/internal/services"
)

const (
	dirPrefix  = "ddp-in-"
	lockSuffix = ".lock"
)

// ResolveRoot returns root, or the system temporary directory when root is blank.
func ResolveRoot(root string) string {
	if root == "" {
		return os.TempDir()
	}
	return root
}

// Stager writes FileSets into fresh directories under a root.
type Stager struct {
	root   string
	logger *slog.Logger
}

// New constructs a Stager. An empty root stages under os.TempDir().
func New(root string, logger *slog.Logger) *Stager {
	return &Stager{root: root, logger: logging.NewComponentLogger(logger, "staging")}
}

// Root returns the resolved staging root.
func (s *Stager) Root() string {
	return ResolveRoot(s.root)
}

// Dir is one staged input directory. Release removes it.
type Dir struct {
	path    string
	lock    *flock.Flock
	logger  *slog.Logger
	release sync.Once
}

// Path returns the directory path handed to the engine.
func (d *Dir) Path() string {
	return d.path
}

// Release deletes the directory and drops its ownership lock. It is safe to
// call more than once and never reports failure; leftovers are logged.
func (d *Dir) Release() {
	d.release.Do(func() {
		if failures := removeTree(d.path); len(failures) > 0 {
			logging.WarnWithContext(d.logger, "staging directory not fully removed", "staging_cleanup_failed",
				logging.Path(d.path),
				logging.Error(errors.Join(failures...)),
				logging.String(logging.FieldErrorHint, "run `ddpsdk staging clean` or check permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		} else {
			d.logger.Debug("staging directory removed", logging.Path(d.path))
		}
		if d.lock != nil {
			_ = d.lock.Unlock()
			_ = os.Remove(d.lock.Path())
		}
	})
}

// Stage creates a uniquely named directory and writes every entry of files into
// it, applying the SD -> SD.SD naming rule. On any failure the partial directory
// is removed before returning.
func (s *Stager) Stage(files fileset.FileSet) (*Dir, error) {
	if err := files.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "staging", "validate", "", err)
	}
	root := s.Root()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStaging, "staging", "create root", root, err)
	}
	path, err := os.MkdirTemp(root, dirPrefix+"*")
	if err != nil {
		return nil, services.Wrap(services.ErrStaging, "staging", "create directory", root, err)
	}

	dir := &Dir{path: path, logger: s.logger}
	lock := flock.New(path + lockSuffix)
	if err := lock.Lock(); err != nil {
		dir.Release()
		_ = os.Remove(lock.Path())
		return nil, services.Wrap(services.ErrStaging, "staging", "lock directory", path, err)
	}
	dir.lock = lock

	for _, role := range files.Roles() {
		name := fileset.FileName(role)
		if err := os.WriteFile(filepath.Join(path, name), files[role], 0o644); err != nil {
			dir.Release()
			return nil, services.Wrap(services.ErrStaging, "staging", "write", name, err)
		}
	}

	s.logger.Debug("staged input files",
		logging.Path(path),
		logging.Int("files", len(files)),
		logging.Int64("bytes", files.Size()),
	)
	return dir, nil
}

// Within stages files, runs fn with the staged directory path, and removes the
// directory on every return path, including panics inside fn.
func Within[T any](s *Stager, files fileset.FileSet, fn func(dir string) (T, error)) (T, error) {
	var zero T
	dir, err := s.Stage(files)
	if err != nil {
		return zero, err
	}
	defer dir.Release()
	return fn(dir.Path())
}

// Unstage recursively deletes path, deepest entries first. A missing path is a
// no-op and individual deletion failures are ignored.
func Unstage(path string) {
	_ = removeTree(path)
}

// removeTree deletes root and everything below it, children before parents,
// and returns the failures it skipped over.
func removeTree(root string) []error {
	if root == "" {
		return nil
	}
	if _, err := os.Lstat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return []error{err}
	}

	var failures []error
	var paths []string
	_ = filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			failures = append(failures, err)
			return nil
		}
		paths = append(paths, path)
		return nil
	})

	// A child path is always longer than its parent.
	slices.SortStableFunc(paths, func(a, b string) int { return len(b) - len(a) })
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			failures = append(failures, err)
		}
	}
	return failures
}
