// Package steam finds BepInEx games installed through Steam.
package steam

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/logging"

	"github.com/spf13/afero"
)

// DetectedGame is a known BepInEx game found in a Steam library
type DetectedGame struct {
	AppID       string
	InstallPath string
	GameInfo
}

// Game converts a detection into a game configuration using the built-in rule table
func (d DetectedGame) Game() *domain.Game {
	game := &domain.Game{
		ID:          d.ID,
		Name:        d.Name,
		InstallPath: d.InstallPath,
		LoaderDir:   domain.DefaultLoaderDir,
		Rules:       domain.DefaultRuleSet(domain.DefaultLoaderDir),
	}
	if d.LoaderPackage != "" {
		game.LoaderVariants = []domain.LoaderVariant{{PackageName: d.LoaderPackage, RootFolder: d.LoaderRoot}}
	}
	return game
}

// FindSteamRoots returns the existing Steam installation roots under home.
// $STEAM_ROOT, when set, is checked first.
func FindSteamRoots(fs afero.Fs, home string) []string {
	candidates := []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
	}
	if p := os.Getenv("STEAM_ROOT"); p != "" {
		candidates = append([]string{p}, candidates...)
	}

	var roots []string
	for _, p := range candidates {
		if ok, _ := afero.DirExists(fs, p); ok {
			roots = append(roots, p)
		}
	}
	return roots
}

// Detect scans the libraries of every Steam root for games in known.
// Each game is reported once, from the first library that has it installed.
func Detect(fs afero.Fs, roots []string, known map[string]GameInfo) []DetectedGame {
	logger := logging.Component("steam")
	seen := make(map[string]bool)
	var found []DetectedGame

	for _, root := range roots {
		libraries, err := LibraryPaths(fs, root)
		if err != nil {
			logger.Warn("skipping steam root", "root", root, "err", err)
			continue
		}
		for _, lib := range libraries {
			steamapps := filepath.Join(lib, "steamapps")
			entries, err := afero.ReadDir(fs, steamapps)
			if err != nil {
				logger.Debug("unreadable library", "path", steamapps, "err", err)
				continue
			}
			for _, e := range entries {
				name := e.Name()
				if e.IsDir() || !strings.HasPrefix(name, "appmanifest_") || !strings.HasSuffix(name, ".acf") {
					continue
				}
				data, err := afero.ReadFile(fs, filepath.Join(steamapps, name))
				if err != nil {
					continue
				}
				manifest, err := ParseAppManifest(data)
				if err != nil || manifest.InstallDir == "" {
					logger.Debug("skipping app manifest", "file", name, "err", err)
					continue
				}
				info, ok := known[manifest.AppID]
				if !ok || seen[info.ID] {
					continue
				}
				installPath := filepath.Join(steamapps, "common", manifest.InstallDir)
				if ok, _ := afero.DirExists(fs, installPath); !ok {
					continue
				}
				seen[info.ID] = true
				found = append(found, DetectedGame{AppID: manifest.AppID, InstallPath: installPath, GameInfo: info})
			}
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found
}
