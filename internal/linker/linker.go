package linker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
)

// Linker places mod files into a profile
type Linker interface {
	// Deploy places the single file src at dst, creating dst's parent if needed
	Deploy(src, dst string) error
	// DeployDir places every file below src at the same relative path under dst.
	// It returns the destination paths it wrote, in walk order.
	DeployDir(src, dst string) ([]string, error)
	Method() domain.LinkMethod
}

// New creates a linker for the given method on fs
func New(method domain.LinkMethod, fs afero.Fs) Linker {
	switch method {
	case domain.LinkSymlink:
		return NewSymlink(fs)
	default:
		return NewCopy(fs)
	}
}

// deployTree walks src and hands every regular file to deploy.
// Directories are recreated under dst even when empty.
func deployTree(fs afero.Fs, src, dst string, deploy func(src, dst string) error) ([]string, error) {
	var deployed []string
	err := afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			if err := fs.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		}

		if err := deploy(path, target); err != nil {
			return fmt.Errorf("deploying %s: %w", rel, err)
		}
		deployed = append(deployed, target)
		return nil
	})
	if err != nil {
		return deployed, err
	}
	return deployed, nil
}
