package fs

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystem reads and writes project files through an afero.Fs so mods can
// run against an in-memory tree in tests and dry runs.
type FileSystem struct {
	fs afero.Fs
}

func New(fs afero.Fs) *FileSystem {
	return &FileSystem{fs: fs}
}

func NewFileSystem() *FileSystem {
	return New(afero.NewOsFs())
}

func NewMemFileSystem() *FileSystem {
	return New(afero.NewMemMapFs())
}

func (f *FileSystem) Afero() afero.Fs {
	return f.fs
}

func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// WriteFile replaces the contents of path, keeping the existing file mode
// when the file is already present.
func (f *FileSystem) WriteFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := f.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return afero.WriteFile(f.fs, path, data, mode)
}

func (f *FileSystem) Stat(path string) (os.FileInfo, error) {
	return f.fs.Stat(path)
}

// Exists reports whether path is an existing regular file. Any stat failure
// counts as absent.
func (f *FileSystem) Exists(path string) bool {
	info, err := f.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (f *FileSystem) Glob(pattern string) ([]string, error) {
	return afero.Glob(f.fs, pattern)
}
