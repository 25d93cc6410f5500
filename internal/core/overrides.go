package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
)

// ApplyProfileOverrides writes a profile's overrides into its directory.
// Each key is a path relative to profile.Path; the value is written as file content.
// Paths that are absolute, escape the profile or name the manifest are rejected
// before anything is written.
func ApplyProfileOverrides(fs afero.Fs, profile *domain.Profile) error {
	if len(profile.Overrides) == 0 {
		return nil
	}

	keys := make([]string, 0, len(profile.Overrides))
	dests := make(map[string]string, len(profile.Overrides))
	for relPath := range profile.Overrides {
		dest, err := overridePath(profile.Path, relPath)
		if err != nil {
			return err
		}
		keys = append(keys, relPath)
		dests[relPath] = dest
	}
	sort.Strings(keys)

	for _, relPath := range keys {
		dest := dests[relPath]
		if err := fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("creating override dir %s: %w", filepath.Dir(dest), err)
		}
		if err := afero.WriteFile(fs, dest, []byte(profile.Overrides[relPath]), 0644); err != nil {
			return fmt.Errorf("writing override %s: %w", relPath, err)
		}
	}
	return nil
}

func overridePath(base, relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(relPath, `\`, "/")))
	if relPath == "" || cleaned == "." || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid override path: %q", relPath)
	}

	dest := filepath.Join(base, cleaned)
	rel, err := filepath.Rel(base, dest)
	if err != nil {
		return "", fmt.Errorf("override path %q: %w", relPath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("override path escapes profile directory: %q", relPath)
	}
	if strings.EqualFold(rel, domain.ReservedProfileFile) {
		return "", fmt.Errorf("override path %q would replace the profile manifest", relPath)
	}
	return dest, nil
}
