package core

import (
	"path/filepath"
	"sort"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
)

// FileTree is a snapshot of one directory level and everything below it.
// Trees are built per operation and never cached; the directories they describe change between calls.
type FileTree struct {
	Path        string               // Absolute path of this directory
	Files       []string             // Absolute paths of files directly in this directory
	Directories map[string]*FileTree // Child directories by name
}

// BuildFileTree scans dir recursively. Any read failure aborts the whole build
// with a scan error; a partial tree is never returned.
func BuildFileTree(fs afero.Fs, dir string) (*FileTree, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, domain.NewDeployError(domain.ErrScan, "scanning", dir, err, "")
	}

	tree := &FileTree{
		Path:        dir,
		Directories: make(map[string]*FileTree),
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			tree.Files = append(tree.Files, path)
			continue
		}
		child, err := BuildFileTree(fs, path)
		if err != nil {
			return nil, err
		}
		tree.Directories[entry.Name()] = child
	}

	return tree, nil
}

// DirectoryNames returns child directory names in sorted order
func (t *FileTree) DirectoryNames() []string {
	names := make([]string, 0, len(t.Directories))
	for name := range t.Directories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flatten returns every file at or below this node, depth-first
func (t *FileTree) Flatten() []string {
	files := append([]string(nil), t.Files...)
	for _, name := range t.DirectoryNames() {
		files = append(files, t.Directories[name].Flatten()...)
	}
	return files
}
