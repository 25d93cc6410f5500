package core

import (
	"fmt"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/linker"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/cache"

	"github.com/spf13/afero"
)

// ImportResult describes a package placed into the cache
type ImportResult struct {
	Mod   domain.Mod
	Files int
}

// Importer populates the cache from a local directory or zip package
type Importer struct {
	fs        afero.Fs
	cache     *cache.Cache
	extractor *Extractor
}

// NewImporter creates a new Importer
func NewImporter(fs afero.Fs, c *cache.Cache) *Importer {
	return &Importer{
		fs:        fs,
		cache:     c,
		extractor: NewExtractor(fs),
	}
}

// Import copies path into the cache for game. When mod.Name or mod.Version is
// empty it is parsed from the package file name.
func (i *Importer) Import(path string, game *domain.Game, mod domain.Mod) (*ImportResult, error) {
	info, err := i.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("package not found: %w", err)
	}

	if mod.Name == "" || mod.Version == "" {
		name, version, ok := ParsePackageName(path)
		if !ok {
			return nil, fmt.Errorf("cannot determine name and version from %q; pass them explicitly", filepath.Base(path))
		}
		if mod.Name == "" {
			mod.Name = name
		}
		if mod.Version == "" {
			mod.Version = version
		}
	}

	dest := i.cache.ModPath(game.ID, mod.Name, mod.Version)
	if err := i.fs.RemoveAll(dest); err != nil {
		return nil, fmt.Errorf("clearing cache entry: %w", err)
	}

	var count int
	switch {
	case info.IsDir():
		files, err := linker.NewCopy(i.fs).DeployDir(path, dest)
		if err != nil {
			return nil, fmt.Errorf("copying package: %w", err)
		}
		count = len(files)
	case i.extractor.CanExtract(path):
		count, err = i.extractor.Extract(path, dest)
		if err != nil {
			return nil, fmt.Errorf("extracting package: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported package %q: expected a directory or .zip", filepath.Base(path))
	}

	return &ImportResult{Mod: mod, Files: count}, nil
}
