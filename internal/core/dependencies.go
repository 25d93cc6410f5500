package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/cache"

	"github.com/spf13/afero"
)

// ManifestFile is the package manifest at the root of a cached mod version
const ManifestFile = "manifest.json"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PackageManifest is the subset of a package's manifest.json the resolver reads
type PackageManifest struct {
	Name          string   `json:"name"`
	VersionNumber string   `json:"version_number"`
	Dependencies  []string `json:"dependencies"`
}

// ReadManifest loads manifest.json from a cached mod directory.
// A package without a manifest has no dependencies and yields an empty manifest.
func ReadManifest(fs afero.Fs, modDir string) (*PackageManifest, error) {
	data, err := afero.ReadFile(fs, filepath.Join(modDir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &PackageManifest{}, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m PackageManifest
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &m); err != nil {
		return nil, fmt.Errorf("parsing manifest in %s: %w", modDir, err)
	}
	return &m, nil
}

// DependencyResolver orders a mod and its cached dependencies for installation
type DependencyResolver struct {
	fs     afero.Fs
	cache  *cache.Cache
	gameID string
}

// NewDependencyResolver creates a resolver reading manifests from the game's cache
func NewDependencyResolver(fs afero.Fs, c *cache.Cache, gameID string) *DependencyResolver {
	return &DependencyResolver{fs: fs, cache: c, gameID: gameID}
}

// Resolve returns root and its transitive dependencies, dependencies first and root last.
// Each mod appears once. Returns domain.ErrDependencyLoop on a cycle and
// domain.ErrNotCached when a dependency has no usable cached version.
func (r *DependencyResolver) Resolve(root domain.Mod) ([]domain.Mod, error) {
	// 0 = unvisited, 1 = visiting, 2 = done
	state := make(map[string]int)
	var order []domain.Mod

	var visit func(mod domain.Mod, chain []string) error
	visit = func(mod domain.Mod, chain []string) error {
		key := strings.ToLower(mod.Name)
		switch state[key] {
		case 2:
			return nil
		case 1:
			return fmt.Errorf("%w: %s", domain.ErrDependencyLoop, strings.Join(append(chain, mod.Name), " -> "))
		}

		resolved, err := r.pick(mod)
		if err != nil {
			return err
		}
		manifest, err := ReadManifest(r.fs, r.cache.ModPath(r.gameID, resolved.Name, resolved.Version))
		if err != nil {
			return err
		}

		state[key] = 1
		for _, dep := range manifest.Dependencies {
			depMod, ok := ParseDependencyString(dep)
			if !ok {
				return fmt.Errorf("%s: malformed dependency %q", resolved.Name, dep)
			}
			if err := visit(depMod, append(chain, resolved.Name)); err != nil {
				return err
			}
		}
		state[key] = 2
		order = append(order, resolved)
		return nil
	}

	if err := visit(root, nil); err != nil {
		return nil, err
	}
	return order, nil
}

// pick chooses the cached version to install: the requested one if cached,
// otherwise the newest cached version when it is newer than the request.
func (r *DependencyResolver) pick(mod domain.Mod) (domain.Mod, error) {
	if mod.Version != "" && r.cache.Exists(r.gameID, mod.Name, mod.Version) {
		return mod, nil
	}
	latest, err := r.cache.Latest(r.gameID, mod.Name)
	if err != nil {
		return mod, err
	}
	if mod.Version != "" && !domain.IsNewerVersion(mod.Version, latest) {
		return mod, fmt.Errorf("%w: %s %s (newest cached is %s)", domain.ErrNotCached, mod.Name, mod.Version, latest)
	}
	mod.Version = latest
	return mod, nil
}
