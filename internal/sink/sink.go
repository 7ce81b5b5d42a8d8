// Package sink persists generated artifacts to a filesystem.
package sink

import (
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/syssam/specgen"
	"github.com/syssam/specgen/internal/debug"
)

// File permissions of created directories and artifacts.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
)

// FS writes artifacts below a root directory of an afero filesystem.
// It is safe for concurrent use as long as the underlying Fs is.
type FS struct {
	fs   afero.Fs
	root string
}

// New returns a sink writing below root. A nil fs selects the OS filesystem.
func New(fs afero.Fs, root string) *FS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FS{fs: fs, root: root}
}

// Root returns the output root.
func (s *FS) Root() string { return s.root }

// Fs returns the underlying filesystem.
func (s *FS) Fs() afero.Fs { return s.fs }

// Write writes content to the slash-separated path relative to the root,
// creating missing parent directories and overwriting existing files.
// Failures are returned as *specgen.WriteError carrying the relative path.
func (s *FS) Write(rel string, content []byte) error {
	full := s.Path(rel)
	if err := s.fs.MkdirAll(filepath.Dir(full), DirPerm); err != nil {
		return specgen.NewWriteError(rel, err)
	}
	if err := afero.WriteFile(s.fs, full, content, FilePerm); err != nil {
		return specgen.NewWriteError(rel, err)
	}
	debug.Debug("file written", "path", full, "bytes", len(content))
	return nil
}

// Path returns the filesystem path of an artifact. Rooted and parent
// segments of rel cannot escape the output root.
func (s *FS) Path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/" + rel)))
}
