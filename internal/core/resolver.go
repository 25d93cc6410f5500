package core

import (
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/linker"
	"github.com/DonovanMods/bepinex-mod-manager/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Resolver routes a cached mod tree into a profile using a game's rule set.
//
// A directory whose name matches a rule is a terminal match: its whole subtree is
// deployed as one folder copy and never recursed into. Anything else is picked
// apart file by file (default path, or monomod for patch assemblies) and its
// subdirectories are resolved in turn. The first failure aborts; whatever was
// deployed before it stays on disk.
type Resolver struct {
	fs      afero.Fs
	linker  linker.Linker
	game    *domain.Game
	appName string
	track   func(path string)
	logger  *log.Logger
}

// NewResolver creates a resolver for game's rules
func NewResolver(fs afero.Fs, lnk linker.Linker, game *domain.Game, appName string) *Resolver {
	return &Resolver{
		fs:      fs,
		linker:  lnk,
		game:    game,
		appName: appName,
		logger:  logging.Component("resolver"),
	}
}

// WithTracker registers fn to receive the destination of every deployed file
func (r *Resolver) WithTracker(fn func(path string)) *Resolver {
	r.track = fn
	return r
}

// Resolve deploys tree, located at sourceDir and named folderName, into profile
func (r *Resolver) Resolve(profile, sourceDir, folderName string, mod domain.Mod, tree *FileTree) error {
	if dest, ok := r.game.Rules.FolderDestination(folderName, mod.Name); ok {
		target := filepath.Join(profile, dest)
		r.logger.Debug("terminal match", "mod", mod.Name, "folder", folderName, "dest", target)

		if err := r.fs.MkdirAll(target, 0755); err != nil {
			return writeError(r.appName, "creating directory", target, err)
		}
		deployed, err := r.linker.DeployDir(sourceDir, target)
		r.record(deployed...)
		if err != nil {
			return writeError(r.appName, "copying folder to", target, err)
		}
		return nil
	}

	for _, file := range tree.Files {
		name := filepath.Base(file)
		dir := filepath.Join(profile, r.game.Rules.FileDestination(name, r.game.ManagedDir(), mod.Name))
		r.logger.Debug("placing file", "mod", mod.Name, "file", name, "dest", dir)

		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return writeError(r.appName, "creating directory", dir, err)
		}
		dst := filepath.Join(dir, name)
		if err := r.linker.Deploy(file, dst); err != nil {
			return writeError(r.appName, "copying file to", dst, err)
		}
		r.record(dst)
	}

	for _, name := range tree.DirectoryNames() {
		if err := r.Resolve(profile, filepath.Join(sourceDir, name), name, mod, tree.Directories[name]); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) record(paths ...string) {
	if r.track == nil {
		return
	}
	for _, p := range paths {
		r.track(p)
	}
}
