package steam

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed data/games.yaml
var defaultGames []byte

// KnownGamesFile is the optional config-dir file extending the built-in list
const KnownGamesFile = "bepinex-games.yaml"

// GameInfo describes a BepInEx game recognized by its Steam App ID
type GameInfo struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	LoaderPackage string `yaml:"loader_package"`
	LoaderRoot    string `yaml:"loader_root"`
}

// LoadKnownGames returns the built-in App ID -> GameInfo map merged with
// <configDir>/bepinex-games.yaml, whose entries win.
func LoadKnownGames(fs afero.Fs, configDir string) (map[string]GameInfo, error) {
	games := make(map[string]GameInfo)
	if err := yaml.Unmarshal(defaultGames, &games); err != nil {
		return nil, fmt.Errorf("parsing built-in games: %w", err)
	}

	path := filepath.Join(configDir, KnownGamesFile)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return games, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var extra map[string]GameInfo
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for appID, info := range extra {
		games[appID] = info
	}
	return games, nil
}
