package linker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
)

// CopyLinker deploys mods by copying files
type CopyLinker struct {
	fs afero.Fs
}

// NewCopy creates a new copy linker
func NewCopy(fs afero.Fs) *CopyLinker {
	return &CopyLinker{fs: fs}
}

// Deploy copies src to dst, replacing any existing file
func (l *CopyLinker) Deploy(src, dst string) (err error) {
	if err := l.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	srcFile, err := l.fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := l.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}

// DeployDir copies the tree at src into dst
func (l *CopyLinker) DeployDir(src, dst string) ([]string, error) {
	return deployTree(l.fs, src, dst, l.Deploy)
}

// Method returns the link method
func (l *CopyLinker) Method() domain.LinkMethod {
	return domain.LinkCopy
}
