// Package resolve answers whether a node package is installed for a project,
// following node's lookup through parent node_modules directories.
package resolve

import (
	"path/filepath"

	"github.com/speakeasy-api/prebuild/internal/fs"
)

// Package returns the directory of the package name as resolved from root.
// A package that cannot be found is reported with ok false, never an error.
func Package(fsys *fs.FileSystem, root, name string) (dir string, ok bool) {
	if name == "" {
		return "", false
	}

	current := filepath.Clean(root)
	for {
		manifest := filepath.Join(current, "node_modules", filepath.FromSlash(name), "package.json")
		if fsys.Exists(manifest) {
			return filepath.Dir(manifest), true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
