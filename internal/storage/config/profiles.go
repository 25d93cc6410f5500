package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ProfileConfig is the YAML representation of a profile manifest (mods.yml)
type ProfileConfig struct {
	Name   string                `yaml:"name"`
	GameID string                `yaml:"game_id"`
	Mods   []domain.ModReference `yaml:"mods"`

	Overrides map[string]string `yaml:"overrides,omitempty"`
}

// ProfilesRoot returns the directory holding every profile of a game
func ProfilesRoot(dataDir, gameID string) string {
	return filepath.Join(dataDir, "profiles", gameID)
}

// ProfilePath returns the root directory of a profile
func ProfilePath(dataDir, gameID, profileName string) string {
	return filepath.Join(ProfilesRoot(dataDir, gameID), profileName)
}

// LoadProfile reads the manifest at the root of a profile directory
func LoadProfile(fs afero.Fs, dataDir, gameID, profileName string) (*domain.Profile, error) {
	dir := ProfilePath(dataDir, gameID, profileName)
	data, err := afero.ReadFile(fs, filepath.Join(dir, domain.ReservedProfileFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var cfg ProfileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	profile := &domain.Profile{
		Name:   profileName,
		GameID: gameID,
		Path:   dir,
		Mods:   cfg.Mods,

		Overrides: cfg.Overrides,
	}
	if profile.Mods == nil {
		profile.Mods = []domain.ModReference{}
	}

	return profile, nil
}

// SaveProfile writes a profile's manifest, creating the profile directory if needed
func SaveProfile(fs afero.Fs, dataDir string, profile *domain.Profile) error {
	cfg := ProfileConfig{
		Name:   profile.Name,
		GameID: profile.GameID,
		Mods:   profile.Mods,

		Overrides: profile.Overrides,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	dir := ProfilePath(dataDir, profile.GameID, profile.Name)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating profile dir: %w", err)
	}

	if err := afero.WriteFile(fs, filepath.Join(dir, domain.ReservedProfileFile), data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	profile.Path = dir

	return nil
}

// ListProfiles returns all profile names for a game. A directory counts as a
// profile only when it holds a manifest.
func ListProfiles(fs afero.Fs, dataDir, gameID string) ([]string, error) {
	entries, err := afero.ReadDir(fs, ProfilesRoot(dataDir, gameID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles dir: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(ProfilesRoot(dataDir, gameID), entry.Name(), domain.ReservedProfileFile)
		if ok, _ := afero.Exists(fs, manifest); ok {
			profiles = append(profiles, entry.Name())
		}
	}
	sort.Strings(profiles)

	return profiles, nil
}

// DeleteProfile removes a profile directory and everything deployed into it
func DeleteProfile(fs afero.Fs, dataDir, gameID, profileName string) error {
	dir := ProfilePath(dataDir, gameID, profileName)
	if ok, _ := afero.Exists(fs, filepath.Join(dir, domain.ReservedProfileFile)); !ok {
		return domain.ErrProfileNotFound
	}
	if err := fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

// ExportProfile serializes a profile's manifest in a portable form
func ExportProfile(profile *domain.Profile) ([]byte, error) {
	data, err := yaml.Marshal(&ProfileConfig{
		Name:   profile.Name,
		GameID: profile.GameID,
		Mods:   profile.Mods,

		Overrides: profile.Overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling exported profile: %w", err)
	}
	return data, nil
}

// ImportProfile parses a manifest produced by ExportProfile
func ImportProfile(data []byte) (*domain.Profile, error) {
	var cfg ProfileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing exported profile: %w", err)
	}
	if cfg.Name == "" || cfg.GameID == "" {
		return nil, fmt.Errorf("%w: exported profile needs name and game_id", domain.ErrInvalidConfig)
	}

	profile := &domain.Profile{
		Name:   cfg.Name,
		GameID: cfg.GameID,
		Mods:   cfg.Mods,

		Overrides: cfg.Overrides,
	}
	if profile.Mods == nil {
		profile.Mods = []domain.ModReference{}
	}
	return profile, nil
}
