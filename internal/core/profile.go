package core

import (
	"fmt"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/config"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/db"

	"github.com/spf13/afero"
)

// ProfileManager handles profile CRUD operations.
// A profile is the directory <data>/profiles/<game>/<name> with its manifest at the root.
type ProfileManager struct {
	fs      afero.Fs
	dataDir string
	db      *db.DB
	locks   *ProfileLocks
}

// NewProfileManager creates a new profile manager
func NewProfileManager(fs afero.Fs, dataDir string, database *db.DB, locks *ProfileLocks) *ProfileManager {
	if locks == nil {
		locks = NewProfileLocks()
	}
	return &ProfileManager{
		fs:      fs,
		dataDir: dataDir,
		db:      database,
		locks:   locks,
	}
}

// ValidateProfileName rejects names that cannot be used as a single path component
func ValidateProfileName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("invalid profile name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("invalid profile name %q: must not contain path separators", name)
	}
	return nil
}

// Path returns the root directory of a profile, whether or not it exists
func (pm *ProfileManager) Path(gameID, name string) string {
	return config.ProfilePath(pm.dataDir, gameID, name)
}

// Create creates a new, empty profile for a game
func (pm *ProfileManager) Create(gameID, name string) (*domain.Profile, error) {
	if err := ValidateProfileName(name); err != nil {
		return nil, err
	}

	unlock := pm.locks.Lock(pm.Path(gameID, name))
	defer unlock()

	_, err := config.LoadProfile(pm.fs, pm.dataDir, gameID, name)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileExists, name)
	}
	if err != domain.ErrProfileNotFound {
		return nil, fmt.Errorf("checking profile: %w", err)
	}

	profile := &domain.Profile{
		Name:   name,
		GameID: gameID,
		Mods:   []domain.ModReference{},
	}

	if err := config.SaveProfile(pm.fs, pm.dataDir, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	return profile, nil
}

// List returns all profiles for a game
func (pm *ProfileManager) List(gameID string) ([]*domain.Profile, error) {
	names, err := config.ListProfiles(pm.fs, pm.dataDir, gameID)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(names))
	for _, name := range names {
		profile, err := config.LoadProfile(pm.fs, pm.dataDir, gameID, name)
		if err != nil {
			continue // Skip profiles that can't be loaded
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Get retrieves a specific profile
func (pm *ProfileManager) Get(gameID, name string) (*domain.Profile, error) {
	return config.LoadProfile(pm.fs, pm.dataDir, gameID, name)
}

// Save writes a profile's manifest
func (pm *ProfileManager) Save(profile *domain.Profile) error {
	return config.SaveProfile(pm.fs, pm.dataDir, profile)
}

// Delete removes a profile directory, everything deployed into it and its ledger records
func (pm *ProfileManager) Delete(gameID, name string) error {
	unlock := pm.locks.Lock(pm.Path(gameID, name))
	defer unlock()

	if err := config.DeleteProfile(pm.fs, pm.dataDir, gameID, name); err != nil {
		return err
	}
	if pm.db != nil {
		if err := pm.db.DeleteProfile(gameID, name); err != nil {
			return fmt.Errorf("clearing profile records: %w", err)
		}
	}
	return nil
}

// Export exports a profile's manifest to a portable format
func (pm *ProfileManager) Export(gameID, name string) ([]byte, error) {
	profile, err := pm.Get(gameID, name)
	if err != nil {
		return nil, err
	}
	return config.ExportProfile(profile)
}

// Import creates an empty profile from an exported manifest and returns the mods
// it lists. Deploying them is up to the caller.
func (pm *ProfileManager) Import(data []byte) (*domain.Profile, []domain.ModReference, error) {
	exported, err := config.ImportProfile(data)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateProfileName(exported.Name); err != nil {
		return nil, nil, err
	}

	unlock := pm.locks.Lock(pm.Path(exported.GameID, exported.Name))
	defer unlock()

	if _, err := pm.Get(exported.GameID, exported.Name); err == nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrProfileExists, exported.Name)
	}

	profile := &domain.Profile{
		Name:   exported.Name,
		GameID: exported.GameID,
		Mods:   []domain.ModReference{},

		Overrides: exported.Overrides,
	}
	if err := pm.Save(profile); err != nil {
		return nil, nil, fmt.Errorf("saving imported profile: %w", err)
	}
	return profile, exported.Mods, nil
}
