package core

import (
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/linker"
	"github.com/DonovanMods/bepinex-mod-manager/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// LoaderInstaller deploys a mod loader's own package. Its payload is not routed
// through the rule set: every entry directly under the package's root folder is
// copied to the same name at the profile root.
type LoaderInstaller struct {
	fs      afero.Fs
	linker  linker.Linker
	game    *domain.Game
	appName string
	track   func(path string)
	logger  *log.Logger
}

// NewLoaderInstaller creates a loader installer for game
func NewLoaderInstaller(fs afero.Fs, lnk linker.Linker, game *domain.Game, appName string) *LoaderInstaller {
	return &LoaderInstaller{
		fs:      fs,
		linker:  lnk,
		game:    game,
		appName: appName,
		logger:  logging.Component("loader"),
	}
}

// WithTracker registers fn to receive the destination of every deployed file
func (l *LoaderInstaller) WithTracker(fn func(path string)) *LoaderInstaller {
	l.track = fn
	return l
}

// Install copies packageDir/<variant.RootFolder>/* to the profile root, then the
// package icon into <loader>/core.
func (l *LoaderInstaller) Install(packageDir string, variant domain.LoaderVariant, profile string) error {
	root := filepath.Join(packageDir, variant.RootFolder)
	tree, err := BuildFileTree(l.fs, root)
	if err != nil {
		return err
	}
	l.logger.Debug("installing loader", "package", variant.PackageName, "root", root, "profile", profile)

	for _, file := range tree.Files {
		dst := filepath.Join(profile, filepath.Base(file))
		if err := l.linker.Deploy(file, dst); err != nil {
			return writeError(l.appName, "copying file to", dst, err)
		}
		l.record(dst)
	}

	for _, name := range tree.DirectoryNames() {
		dst := filepath.Join(profile, name)
		if err := l.fs.MkdirAll(dst, 0755); err != nil {
			return writeError(l.appName, "creating directory", dst, err)
		}
		deployed, err := l.linker.DeployDir(tree.Directories[name].Path, dst)
		l.record(deployed...)
		if err != nil {
			return writeError(l.appName, "copying folder to", dst, err)
		}
	}

	iconDir := filepath.Join(profile, l.game.ManagedDir(), "core")
	if err := l.fs.MkdirAll(iconDir, 0755); err != nil {
		return writeError(l.appName, "creating directory", iconDir, err)
	}
	icon := filepath.Join(iconDir, domain.LoaderIconFile)
	if err := l.linker.Deploy(filepath.Join(packageDir, domain.LoaderIconFile), icon); err != nil {
		return writeError(l.appName, "copying file to", icon, err)
	}
	l.record(icon)

	return nil
}

func (l *LoaderInstaller) record(paths ...string) {
	if l.track == nil {
		return
	}
	for _, p := range paths {
		l.track(p)
	}
}
