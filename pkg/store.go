package autoversion

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNoVersion is returned by Load when the version file has no assignment line.
var ErrNoVersion = errors.New("no version assignment found")

// Store reads and persists the current version.
type Store interface {
	Read() Version
	Write(Version) error
}

// FileStore keeps the version in a text file as a single assignment line,
// e.g. `__version__ = "1.2.3"`. Any other content in the file is left alone.
type FileStore struct {
	path       string
	identifier string
	logger     *slog.Logger
}

// NewFileStore returns a store for cfg.VersionFile using cfg.Identifier.
func NewFileStore(cfg Config, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	identifier := cfg.Identifier
	if identifier == "" {
		identifier = DefaultIdentifier
	}
	return &FileStore{
		path:       cfg.VersionFile,
		identifier: identifier,
		logger:     logger,
	}
}

// Path returns the version file path.
func (s *FileStore) Path() string { return s.path }

// Identifier returns the name the version is assigned to.
func (s *FileStore) Identifier() string { return s.identifier }

// Load reads the version from disk.
// A missing file yields an error wrapping fs.ErrNotExist, a file without an
// assignment yields ErrNoVersion. The first well-formed assignment wins; when
// every assignment holds a bad value the result is ErrMalformedVersion.
func (s *FileStore) Load() (Version, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Version{}, fmt.Errorf("reading version file %q: %w", s.path, err)
	}
	sp, ok := findVersion(data, s.identifier)
	if !ok {
		return Version{}, fmt.Errorf("%w for %s in %q", ErrNoVersion, s.identifier, s.path)
	}
	v, err := ParseVersion(sp.line.value)
	if err != nil {
		return Version{}, fmt.Errorf("version file %q: %w", s.path, err)
	}
	return v, nil
}

// Read returns the stored version, falling back to 0.0.0.
// A missing file is not worth mentioning; anything else is logged as a warning.
func (s *FileStore) Read() Version {
	v, err := s.Load()
	if err == nil {
		return v
	}
	if !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Could not parse version, defaulting to 0.0.0",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
	}
	return Version{}
}

// Render returns the file content that Write would produce for v.
func (s *FileStore) Render(v Version) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading version file %q: %w", s.path, err)
	}
	return replaceAssignment(data, s.identifier, v.String()), nil
}

// Write persists v. The containing directory is created when needed and the
// file is replaced atomically, so readers see either the old or the new content.
func (s *FileStore) Write(v Version) error {
	content, err := s.Render(v)
	if err != nil {
		return err
	}

	perm := fs.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := writeFileAtomic(s.path, content, perm); err != nil {
		return fmt.Errorf("writing version file %q: %w", s.path, err)
	}
	s.logger.Debug("Wrote version file", slog.String("path", s.path), slog.String("version", v.String()))
	return nil
}

// Init creates the version file with v when it does not exist yet.
// It reports whether a file was created; an existing file is never modified.
func (s *FileStore) Init(v Version) (bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking version file %q: %w", s.path, err)
	}
	if err := s.Write(v); err != nil {
		return false, err
	}
	return true, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
// When path is a symlink the link target is replaced and the link is kept.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true

	// The rename is already visible; a failed directory sync only weakens durability.
	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
