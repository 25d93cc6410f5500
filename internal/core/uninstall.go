package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Uninstaller removes everything a mod deployed into a profile
type Uninstaller struct {
	fs      afero.Fs
	game    *domain.Game
	appName string
	logger  *log.Logger
}

// NewUninstaller creates an uninstaller for game
func NewUninstaller(fs afero.Fs, game *domain.Game, appName string) *Uninstaller {
	return &Uninstaller{
		fs:      fs,
		game:    game,
		appName: appName,
		logger:  logging.Component("uninstall"),
	}
}

// Uninstall runs two passes and always attempts both:
//   - loader-root: if mod is a loader variant, every file directly in the profile
//     root except the manifest is deleted. This is not attributed to the mod; a
//     loader owns the root.
//   - managed-subfolder: <profile>/<loader>/*/<mod> is removed wherever it exists.
//
// The first error encountered is returned. Root failures are ErrWrite, subfolder
// removal failures ErrGeneric.
func (u *Uninstaller) Uninstall(mod domain.Mod, profile string) error {
	var first error

	if u.game.IsLoaderVariant(mod.Name) {
		if err := u.removeRootFiles(profile); err != nil {
			first = err
		}
	}

	if err := u.removeModFolders(mod, profile); err != nil && first == nil {
		first = err
	}

	return first
}

func (u *Uninstaller) removeRootFiles(profile string) error {
	entries, err := afero.ReadDir(u.fs, profile)
	if err != nil {
		return domain.NewDeployError(domain.ErrScan, "scanning", profile, err, "")
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == domain.ReservedProfileFile {
			continue
		}
		path := filepath.Join(profile, entry.Name())
		u.logger.Debug("removing loader root file", "path", path)
		if err := u.fs.Remove(path); err != nil {
			return writeError(u.appName, "deleting", path, err)
		}
	}
	return nil
}

func (u *Uninstaller) removeModFolders(mod domain.Mod, profile string) error {
	managed := filepath.Join(profile, u.game.ManagedDir())
	exists, err := afero.DirExists(u.fs, managed)
	if err != nil && !os.IsNotExist(err) {
		return domain.NewDeployError(domain.ErrScan, "checking", managed, err, "")
	}
	if !exists {
		return nil
	}

	subdirs, err := afero.ReadDir(u.fs, managed)
	if err != nil {
		return domain.NewDeployError(domain.ErrScan, "scanning", managed, err, "")
	}

	for _, sub := range subdirs {
		if !sub.IsDir() {
			continue
		}
		subPath := filepath.Join(managed, sub.Name())
		entries, err := afero.ReadDir(u.fs, subPath)
		if err != nil {
			return domain.NewDeployError(domain.ErrScan, "scanning", subPath, err, "")
		}
		for _, entry := range entries {
			if !entry.IsDir() || !strings.EqualFold(entry.Name(), mod.Name) {
				continue
			}
			path := filepath.Join(subPath, entry.Name())
			u.logger.Debug("removing mod folder", "mod", mod.Name, "path", path)
			if err := u.fs.RemoveAll(path); err != nil {
				return genericError(u.appName, "removing", path, err)
			}
		}
	}
	return nil
}
