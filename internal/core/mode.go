package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Toggler enables and disables installed mods by renaming their plugin files.
// The ".old" suffix on disk is the only record of a mod's mode.
type Toggler struct {
	fs      afero.Fs
	appName string
	logger  *log.Logger
}

// NewToggler creates a toggler
func NewToggler(fs afero.Fs, appName string) *Toggler {
	return &Toggler{
		fs:      fs,
		appName: appName,
		logger:  logging.Component("toggle"),
	}
}

// SetMode walks installed, rooted at currentDir inside profile, and renames every
// recognized plugin file below each directory named after mod. Directories with
// other names are searched recursively. A rename failure aborts; files renamed
// before it keep their new names.
func (t *Toggler) SetMode(mod domain.Mod, installed *FileTree, profile, currentDir string, mode domain.ModMode) error {
	for _, name := range installed.DirectoryNames() {
		child := installed.Directories[name]
		if !strings.EqualFold(name, mod.Name) {
			if err := t.SetMode(mod, child, profile, filepath.Join(currentDir, name), mode); err != nil {
				return err
			}
			continue
		}

		t.logger.Debug("toggling mod folder", "mod", mod.Name, "dir", child.Path, "mode", mode, "profile", profile)
		for _, file := range child.Flatten() {
			if err := t.rename(file, mode); err != nil {
				return err
			}
		}
	}
	return nil
}

// Mode reports the mode of mod within installed: disabled if any of its plugin
// files carries the disabled suffix, enabled otherwise. found is false when no
// directory named after the mod exists.
func (t *Toggler) Mode(mod domain.Mod, installed *FileTree) (mode domain.ModMode, found bool) {
	for _, name := range installed.DirectoryNames() {
		child := installed.Directories[name]
		if !strings.EqualFold(name, mod.Name) {
			if m, ok := t.Mode(mod, child); ok {
				found = true
				if m == domain.ModeDisabled {
					return m, true
				}
			}
			continue
		}
		found = true
		for _, file := range child.Flatten() {
			if domain.IsDisabledName(filepath.Base(file)) {
				return domain.ModeDisabled, true
			}
		}
	}
	return domain.ModeEnabled, found
}

func (t *Toggler) rename(file string, mode domain.ModMode) error {
	newName, ok := domain.ToggledName(filepath.Base(file), mode)
	if !ok {
		return nil
	}
	dst := filepath.Join(filepath.Dir(file), newName)
	if err := t.fs.Rename(file, dst); err != nil {
		return writeError(t.appName, fmt.Sprintf("setting mode %s on", mode), file, err)
	}
	return nil
}
