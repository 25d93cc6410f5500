package domain

import (
	"strings"
	"time"
)

// DisabledSuffix is appended to a plugin file's name to disable it
const DisabledSuffix = ".old"

// PluginExtensions are the file endings the loader picks up; only these are renamed on toggle.
// "skin.cfg" is matched as a suffix like the others.
var PluginExtensions = []string{
	".dll",
	".language",
	"skin.cfg",
	".hotmod",
	".h3vr",
	".deli",
	".ttf",
	".otf",
	".lua",
}

// ModMode is whether a mod's plugin files are active
type ModMode int

const (
	ModeEnabled ModMode = iota
	ModeDisabled
)

func (m ModMode) String() string {
	switch m {
	case ModeEnabled:
		return "enabled"
	case ModeDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Mod is the identity the deployer needs: a name (case-insensitive, also a path token)
// and an opaque version used to find the cache directory.
type Mod struct {
	Name    string
	Version string
}

// Is reports whether the mod is named name, ignoring case
func (m Mod) Is(name string) bool {
	return strings.EqualFold(m.Name, name)
}

// ModReference is a mod entry in a profile manifest
type ModReference struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Enabled bool   `yaml:"enabled"` // Last known mode; the file names on disk are authoritative
}

// InstalledMod is a mod listed in a profile together with its state on disk
type InstalledMod struct {
	Mod
	ProfileName string
	Enabled     bool
	Loader      bool // Deployed to the profile root as the mod loader itself
	InstalledAt time.Time
}

// ToggledName returns the name a plugin file should have in the requested mode.
// ok is false when the file is not a recognized plugin file or already has that name.
func ToggledName(name string, mode ModMode) (string, bool) {
	for _, ext := range PluginExtensions {
		switch mode {
		case ModeDisabled:
			if HasSuffixFold(name, ext) {
				return name + DisabledSuffix, true
			}
		case ModeEnabled:
			if HasSuffixFold(name, ext+DisabledSuffix) {
				return name[:len(name)-len(DisabledSuffix)], true
			}
		}
	}
	return name, false
}

// IsDisabledName reports whether name is a plugin file carrying the disabled suffix
func IsDisabledName(name string) bool {
	_, ok := ToggledName(name, ModeEnabled)
	return ok
}
