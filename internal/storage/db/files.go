package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// FileConflict represents a file that would be overwritten
type FileConflict struct {
	RelativePath string `json:"path"`
	ModName      string `json:"owner"` // Current owner
}

// SaveDeployedFile records that a file is deployed by a specific mod.
// Uses upsert to handle overwrites (new mod takes ownership).
func (d *DB) SaveDeployedFile(gameID, profileName, relativePath, modName string) error {
	_, err := d.Exec(`
		INSERT INTO deployed_files (game_id, profile_name, relative_path, mod_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, profile_name, relative_path) DO UPDATE SET
			mod_name = excluded.mod_name,
			deployed_at = CURRENT_TIMESTAMP
	`, gameID, profileName, relativePath, modName)
	if err != nil {
		return fmt.Errorf("saving deployed file: %w", err)
	}
	return nil
}

// SaveDeployedFiles records a batch of paths for one mod in a single transaction
func (d *DB) SaveDeployedFiles(gameID, profileName, modName string, paths []string) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO deployed_files (game_id, profile_name, relative_path, mod_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, profile_name, relative_path) DO UPDATE SET
			mod_name = excluded.mod_name,
			deployed_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range paths {
		if _, err := stmt.Exec(gameID, profileName, p, modName); err != nil {
			return fmt.Errorf("saving deployed file %s: %w", p, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deployed files: %w", err)
	}
	return nil
}

// GetFileOwner returns the name of the mod that owns a specific file path.
// Returns "" if no mod owns the file.
func (d *DB) GetFileOwner(gameID, profileName, relativePath string) (string, error) {
	var owner string
	err := d.QueryRow(`
		SELECT mod_name FROM deployed_files
		WHERE game_id = ? AND profile_name = ? AND relative_path = ?
	`, gameID, profileName, relativePath).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("getting file owner: %w", err)
	}
	return owner, nil
}

// DeleteDeployedFiles removes all deployed file records for a specific mod.
func (d *DB) DeleteDeployedFiles(gameID, profileName, modName string) error {
	_, err := d.Exec(`
		DELETE FROM deployed_files
		WHERE game_id = ? AND profile_name = ? AND mod_name = ?
	`, gameID, profileName, modName)
	if err != nil {
		return fmt.Errorf("deleting deployed files: %w", err)
	}
	return nil
}

// GetDeployedFilesForMod returns all file paths deployed by a specific mod.
func (d *DB) GetDeployedFilesForMod(gameID, profileName, modName string) ([]string, error) {
	rows, err := d.Query(`
		SELECT relative_path FROM deployed_files
		WHERE game_id = ? AND profile_name = ? AND mod_name = ?
		ORDER BY relative_path
	`, gameID, profileName, modName)
	if err != nil {
		return nil, fmt.Errorf("querying deployed files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// CheckFileConflicts checks which of the given paths are already owned by mods
// other than modName. Returns a slice of conflicts (empty if no conflicts).
func (d *DB) CheckFileConflicts(gameID, profileName, modName string, paths []string) ([]FileConflict, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	// Build placeholders for IN clause
	placeholders := make([]string, len(paths))
	args := make([]interface{}, 0, len(paths)+3)
	args = append(args, gameID, profileName, modName)
	for i, p := range paths {
		placeholders[i] = "?"
		args = append(args, p)
	}

	query := fmt.Sprintf(`
		SELECT relative_path, mod_name FROM deployed_files
		WHERE game_id = ? AND profile_name = ? AND mod_name != ? AND relative_path IN (%s)
		ORDER BY relative_path
	`, strings.Join(placeholders, ","))

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []FileConflict
	for rows.Next() {
		var c FileConflict
		if err := rows.Scan(&c.RelativePath, &c.ModName); err != nil {
			return nil, fmt.Errorf("scanning conflict: %w", err)
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

