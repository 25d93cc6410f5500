package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
)

// Cache manages the central mod file cache.
// Layout: <base>/<game-id>/<mod-name>/<version>/...
type Cache struct {
	fs       afero.Fs
	basePath string
}

// New creates a new cache manager
func New(fs afero.Fs, basePath string) *Cache {
	return &Cache{fs: fs, basePath: basePath}
}

// BasePath returns the cache root
func (c *Cache) BasePath() string {
	return c.basePath
}

// ModPath returns the path where a mod version's files are stored
func (c *Cache) ModPath(gameID, modName, version string) string {
	return filepath.Join(c.basePath, gameID, modName, version)
}

// Exists checks if a mod version is cached
func (c *Cache) Exists(gameID, modName, version string) bool {
	ok, err := afero.DirExists(c.fs, c.ModPath(gameID, modName, version))
	return err == nil && ok
}

// Store saves a file to the cache
func (c *Cache) Store(gameID, modName, version, relativePath string, content []byte) error {
	fullPath := filepath.Join(c.ModPath(gameID, modName, version), relativePath)

	if err := c.fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	if err := afero.WriteFile(c.fs, fullPath, content, 0644); err != nil {
		return fmt.Errorf("writing cached file: %w", err)
	}

	return nil
}

// ListFiles returns all files in a cached mod version, relative to its root
func (c *Cache) ListFiles(gameID, modName, version string) ([]string, error) {
	modPath := c.ModPath(gameID, modName, version)

	var files []string
	err := afero.Walk(c.fs, modPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(modPath, path)
		if err != nil {
			return err
		}
		files = append(files, relPath)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("listing cached files: %w", err)
	}

	return files, nil
}

// Versions returns the cached versions of a mod, oldest first
func (c *Cache) Versions(gameID, modName string) ([]string, error) {
	entries, err := afero.ReadDir(c.fs, filepath.Join(c.basePath, gameID, modName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing cached versions: %w", err)
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return domain.CompareVersions(versions[i], versions[j]) < 0
	})
	return versions, nil
}

// Latest returns the newest cached version of a mod
func (c *Cache) Latest(gameID, modName string) (string, error) {
	versions, err := c.Versions(gameID, modName)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrNotCached, modName)
	}
	return versions[len(versions)-1], nil
}

// Delete removes a cached mod version
func (c *Cache) Delete(gameID, modName, version string) error {
	if err := c.fs.RemoveAll(c.ModPath(gameID, modName, version)); err != nil {
		return fmt.Errorf("deleting cached mod: %w", err)
	}
	return nil
}

// GetFilePath returns the full path to a cached file
func (c *Cache) GetFilePath(gameID, modName, version, relativePath string) string {
	return filepath.Join(c.ModPath(gameID, modName, version), relativePath)
}

// Size returns the total size of cached files for a mod version
func (c *Cache) Size(gameID, modName, version string) (int64, error) {
	var totalSize int64
	err := afero.Walk(c.fs, c.ModPath(gameID, modName, version), func(_ string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("calculating cache size: %w", err)
	}

	return totalSize, nil
}
