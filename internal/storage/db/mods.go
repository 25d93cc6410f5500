package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
)

// SaveInstalledMod inserts or updates an installed mod record. The mode is not
// stored: plugin file names on disk are the only record of it.
func (d *DB) SaveInstalledMod(gameID string, mod *domain.InstalledMod) error {
	_, err := d.Exec(`
		INSERT INTO installed_mods (game_id, profile_name, name, version, loader, installed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id, profile_name, name) DO UPDATE SET
			name = excluded.name,
			version = excluded.version,
			loader = excluded.loader,
			installed_at = excluded.installed_at
	`, gameID, mod.ProfileName, mod.Name, mod.Version, mod.Loader, time.Now())
	if err != nil {
		return fmt.Errorf("saving installed mod: %w", err)
	}
	return nil
}

// GetInstalledMods returns all installed mods for a game/profile combination
func (d *DB) GetInstalledMods(gameID, profileName string) ([]domain.InstalledMod, error) {
	rows, err := d.Query(`
		SELECT profile_name, name, version, loader, installed_at
		FROM installed_mods
		WHERE game_id = ? AND profile_name = ?
		ORDER BY installed_at ASC, name ASC
	`, gameID, profileName)
	if err != nil {
		return nil, fmt.Errorf("querying installed mods: %w", err)
	}
	defer rows.Close()

	var mods []domain.InstalledMod
	for rows.Next() {
		var mod domain.InstalledMod
		err := rows.Scan(&mod.ProfileName, &mod.Name, &mod.Version, &mod.Loader, &mod.InstalledAt)
		if err != nil {
			return nil, fmt.Errorf("scanning installed mod: %w", err)
		}
		mods = append(mods, mod)
	}

	return mods, rows.Err()
}

// GetInstalledMod returns a single installed mod record
func (d *DB) GetInstalledMod(gameID, profileName, name string) (*domain.InstalledMod, error) {
	var mod domain.InstalledMod
	err := d.QueryRow(`
		SELECT profile_name, name, version, loader, installed_at
		FROM installed_mods
		WHERE game_id = ? AND profile_name = ? AND name = ?
	`, gameID, profileName, name).Scan(&mod.ProfileName, &mod.Name, &mod.Version, &mod.Loader, &mod.InstalledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrModNotFound
		}
		return nil, fmt.Errorf("getting installed mod: %w", err)
	}
	return &mod, nil
}

// DeleteInstalledMod removes an installed mod record
func (d *DB) DeleteInstalledMod(gameID, profileName, name string) error {
	result, err := d.Exec(`
		DELETE FROM installed_mods
		WHERE game_id = ? AND profile_name = ? AND name = ?
	`, gameID, profileName, name)
	if err != nil {
		return fmt.Errorf("deleting installed mod: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrModNotFound
	}

	return nil
}

// DeleteProfile removes every record belonging to a profile
func (d *DB) DeleteProfile(gameID, profileName string) error {
	for _, table := range []string{"installed_mods", "deployed_files"} {
		if _, err := d.Exec(`DELETE FROM `+table+` WHERE game_id = ? AND profile_name = ?`, gameID, profileName); err != nil {
			return fmt.Errorf("deleting profile records from %s: %w", table, err)
		}
	}
	return nil
}
