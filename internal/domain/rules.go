package domain

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	// ConfigFolder is the one rule folder whose destination is shared by all mods
	ConfigFolder = "config"
	// PatchSuffix marks MonoMod patch assemblies, which always go to the monomod folder
	PatchSuffix = ".mm.dll"
	// MonomodFolder is the loader subfolder holding patch assemblies
	MonomodFolder = "monomod"
	// ReservedProfileFile is the profile manifest; it is never removed by root cleanup
	ReservedProfileFile = "mods.yml"
	// LoaderIconFile is copied from a loader package into <loader>/core
	LoaderIconFile = "icon.png"
)

// RuleSet maps recognized folder names to profile-relative destinations.
// Files outside any recognized folder land in DefaultPath.
type RuleSet struct {
	Rules       map[string]string `yaml:"rules" toml:"rules"`
	DefaultPath string            `yaml:"default_path" toml:"default_path"`
}

// DefaultRuleSet returns the routing table for a BepInEx-style loader rooted at loaderDir
func DefaultRuleSet(loaderDir string) RuleSet {
	return RuleSet{
		Rules: map[string]string{
			"plugins":     filepath.Join(loaderDir, "plugins"),
			"core":        filepath.Join(loaderDir, "core"),
			"patchers":    filepath.Join(loaderDir, "patchers"),
			MonomodFolder: filepath.Join(loaderDir, MonomodFolder),
			ConfigFolder:  filepath.Join(loaderDir, "config"),
		},
		DefaultPath: filepath.Join(loaderDir, "plugins"),
	}
}

// IsEmpty returns true if the rule set has no rules and no default path
func (r RuleSet) IsEmpty() bool {
	return len(r.Rules) == 0 && r.DefaultPath == ""
}

// Match returns the rule key matching folder, ignoring case.
// Keys are checked in sorted order so a table with case-duplicate keys resolves deterministically.
func (r RuleSet) Match(folder string) (string, bool) {
	keys := make([]string, 0, len(r.Rules))
	for k := range r.Rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, folder) {
			return k, true
		}
	}
	return "", false
}

// FolderDestination returns where a matched folder is deployed, relative to the profile.
// The config folder is shared; every other destination is namespaced by mod name.
func (r RuleSet) FolderDestination(folder, modName string) (string, bool) {
	key, ok := r.Match(folder)
	if !ok {
		return "", false
	}
	dest := r.Rules[key]
	if strings.EqualFold(key, ConfigFolder) {
		return dest, true
	}
	return filepath.Join(dest, modName), true
}

// FileDestination returns the profile-relative directory for a loose file
func (r RuleSet) FileDestination(fileName, loaderDir, modName string) string {
	if HasSuffixFold(fileName, PatchSuffix) {
		return filepath.Join(loaderDir, MonomodFolder, modName)
	}
	return filepath.Join(r.DefaultPath, modName)
}

// HasSuffixFold reports whether s ends with suffix, ignoring case
func HasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
