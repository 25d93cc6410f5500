package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
)

// ErrSymlinkUnsupported is returned when the filesystem cannot create symlinks
var ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")

// SymlinkLinker deploys mods using symbolic links into the cache
type SymlinkLinker struct {
	fs afero.Fs
}

// NewSymlink creates a new symlink linker
func NewSymlink(fs afero.Fs) *SymlinkLinker {
	return &SymlinkLinker{fs: fs}
}

// Deploy creates a symlink at dst pointing to src
func (l *SymlinkLinker) Deploy(src, dst string) error {
	lnk, ok := l.fs.(afero.Linker)
	if !ok {
		return ErrSymlinkUnsupported
	}

	// Ensure destination directory exists
	if err := l.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	// Remove existing file/link if present
	if err := l.fs.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing file: %w", err)
	}

	target, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}

	if err := lnk.SymlinkIfPossible(target, dst); err != nil {
		return fmt.Errorf("creating symlink: %w", err)
	}

	return nil
}

// DeployDir links every file below src into dst, recreating the directory structure
func (l *SymlinkLinker) DeployDir(src, dst string) ([]string, error) {
	return deployTree(l.fs, src, dst, l.Deploy)
}

// Method returns the link method
func (l *SymlinkLinker) Method() domain.LinkMethod {
	return domain.LinkSymlink
}
