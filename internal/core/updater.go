package core

import (
	"errors"
	"fmt"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/cache"
)

// Update is a newer cached version of an installed mod
type Update struct {
	Name    string `json:"name"`
	Current string `json:"current"`
	Latest  string `json:"latest"`
}

// Updater compares installed mods against the versions in the cache
type Updater struct {
	cache  *cache.Cache
	gameID string
}

// NewUpdater creates a new updater for one game's cache
func NewUpdater(c *cache.Cache, gameID string) *Updater {
	return &Updater{cache: c, gameID: gameID}
}

// CheckUpdates returns the installed mods with a newer cached version, in input order.
// Mods that are no longer cached at all are skipped.
func (u *Updater) CheckUpdates(installed []domain.InstalledMod) ([]Update, error) {
	var updates []Update
	for _, mod := range installed {
		latest, err := u.cache.Latest(u.gameID, mod.Name)
		if errors.Is(err, domain.ErrNotCached) {
			continue
		}
		if err != nil {
			return updates, fmt.Errorf("checking %s: %w", mod.Name, err)
		}
		if domain.IsNewerVersion(mod.Version, latest) {
			updates = append(updates, Update{Name: mod.Name, Current: mod.Version, Latest: latest})
		}
	}
	return updates, nil
}
