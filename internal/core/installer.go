package core

import (
	"fmt"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/linker"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/cache"

	"github.com/spf13/afero"
)

// Installer exposes the four deployment operations for one game:
// install, uninstall, enable and disable.
type Installer struct {
	fs      afero.Fs
	cache   *cache.Cache
	linker  linker.Linker
	game    *domain.Game
	appName string
}

// NewInstaller creates a new installer
func NewInstaller(fs afero.Fs, c *cache.Cache, lnk linker.Linker, game *domain.Game, appName string) *Installer {
	return &Installer{
		fs:      fs,
		cache:   c,
		linker:  lnk,
		game:    game,
		appName: appName,
	}
}

// Install deploys a cached mod into the profile. Loader variants are copied to the
// profile root; everything else is routed through the game's rule set.
// The returned paths are every file written, including those written before a failure.
func (i *Installer) Install(profile string, mod domain.Mod) ([]string, error) {
	if !i.cache.Exists(i.game.ID, mod.Name, mod.Version) {
		return nil, fmt.Errorf("%w: %s@%s", domain.ErrNotCached, mod.Name, mod.Version)
	}
	src := i.cache.ModPath(i.game.ID, mod.Name, mod.Version)

	var deployed []string
	track := func(p string) { deployed = append(deployed, p) }

	if variant, ok := i.game.LoaderVariant(mod.Name); ok {
		err := NewLoaderInstaller(i.fs, i.linker, i.game, i.appName).
			WithTracker(track).
			Install(src, variant, profile)
		return deployed, err
	}

	tree, err := BuildFileTree(i.fs, src)
	if err != nil {
		return nil, err
	}
	err = NewResolver(i.fs, i.linker, i.game, i.appName).
		WithTracker(track).
		Resolve(profile, src, filepath.Base(src), mod, tree)
	return deployed, err
}

// Uninstall removes a mod's deployed files from the profile
func (i *Installer) Uninstall(profile string, mod domain.Mod) error {
	return NewUninstaller(i.fs, i.game, i.appName).Uninstall(mod, profile)
}

// Enable restores a disabled mod's plugin files
func (i *Installer) Enable(profile string, mod domain.Mod) error {
	return i.SetMode(profile, mod, domain.ModeEnabled)
}

// Disable neutralizes a mod's plugin files in place
func (i *Installer) Disable(profile string, mod domain.Mod) error {
	return i.SetMode(profile, mod, domain.ModeDisabled)
}

// SetMode scans the profile's loader-managed directory and toggles the mod's files
func (i *Installer) SetMode(profile string, mod domain.Mod, mode domain.ModMode) error {
	managed := filepath.Join(profile, i.game.ManagedDir())
	tree, err := BuildFileTree(i.fs, managed)
	if err != nil {
		return err
	}
	return NewToggler(i.fs, i.appName).SetMode(mod, tree, profile, managed, mode)
}

// Mode reports whether a mod's files are currently enabled in the profile.
// found is false when the profile holds no folder for the mod.
func (i *Installer) Mode(profile string, mod domain.Mod) (mode domain.ModMode, found bool, err error) {
	managed := filepath.Join(profile, i.game.ManagedDir())
	exists, err := afero.DirExists(i.fs, managed)
	if err != nil || !exists {
		return domain.ModeEnabled, false, nil
	}
	tree, err := BuildFileTree(i.fs, managed)
	if err != nil {
		return domain.ModeEnabled, false, err
	}
	mode, found = NewToggler(i.fs, i.appName).Mode(mod, tree)
	return mode, found, nil
}
