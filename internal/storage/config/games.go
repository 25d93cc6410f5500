package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"gopkg.in/yaml.v3"
)

// GameConfig is the YAML representation of a game
type GameConfig struct {
	Name           string                 `yaml:"name"`
	InstallPath    string                 `yaml:"install_path"`
	LoaderDir      string                 `yaml:"loader_dir,omitempty"`
	LinkMethod     string                 `yaml:"link_method,omitempty"`
	CachePath      string                 `yaml:"cache_path,omitempty"`
	Rules          map[string]string      `yaml:"rules,omitempty"`
	DefaultPath    string                 `yaml:"default_path,omitempty"`
	LoaderVariants []domain.LoaderVariant `yaml:"loader_variants,omitempty"`
	Hooks          domain.GameHooks       `yaml:"hooks,omitempty"`
}

// GamesFile is the top-level games.yaml structure
type GamesFile struct {
	Games map[string]GameConfig `yaml:"games"`
}

// LoadGames reads all game configurations from the config directory.
// A standalone rule file under rules/ replaces the rules given in games.yaml;
// a game with neither gets the stock BepInEx table for its loader dir.
func LoadGames(configDir string) (map[string]*domain.Game, error) {
	gamesPath := filepath.Join(configDir, "games.yaml")
	data, err := os.ReadFile(gamesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]*domain.Game), nil
		}
		return nil, fmt.Errorf("reading games.yaml: %w", err)
	}

	var gamesFile GamesFile
	if err := yaml.Unmarshal(data, &gamesFile); err != nil {
		return nil, fmt.Errorf("parsing games.yaml: %w", err)
	}

	games := make(map[string]*domain.Game)
	for id, cfg := range gamesFile.Games {
		game := &domain.Game{
			ID:                 id,
			Name:               cfg.Name,
			InstallPath:        ExpandPath(cfg.InstallPath),
			LoaderDir:          cfg.LoaderDir,
			LinkMethod:         domain.ParseLinkMethod(cfg.LinkMethod),
			LinkMethodExplicit: cfg.LinkMethod != "",
			CachePath:          ExpandPath(cfg.CachePath),
			Rules:              domain.RuleSet{Rules: cfg.Rules, DefaultPath: cfg.DefaultPath},
			LoaderVariants:     cfg.LoaderVariants,
			Hooks:              expandHooks(cfg.Hooks),
		}

		rules, err := LoadRuleFile(configDir, id)
		switch {
		case err == nil:
			game.Rules = *rules
		case !errors.Is(err, ErrNoRuleFile):
			return nil, fmt.Errorf("game %s: %w", id, err)
		}
		if game.Rules.IsEmpty() {
			game.Rules = domain.DefaultRuleSet(game.ManagedDir())
		}
		if err := validateGame(game); err != nil {
			return nil, err
		}

		games[id] = game
	}

	return games, nil
}

func validateGame(game *domain.Game) error {
	if game.Rules.DefaultPath == "" {
		return fmt.Errorf("%w: game %s has rules but no default_path", domain.ErrInvalidConfig, game.ID)
	}
	for _, v := range game.LoaderVariants {
		if v.PackageName == "" || v.RootFolder == "" {
			return fmt.Errorf("%w: game %s has a loader variant without package_name or root_folder", domain.ErrInvalidConfig, game.ID)
		}
	}
	return nil
}

func expandHooks(h domain.GameHooks) domain.GameHooks {
	expand := func(c domain.HookConfig) domain.HookConfig {
		return domain.HookConfig{Before: ExpandPath(c.Before), After: ExpandPath(c.After)}
	}
	return domain.GameHooks{
		Install:   expand(h.Install),
		Uninstall: expand(h.Uninstall),
		Toggle:    expand(h.Toggle),
	}
}

// SaveGame adds or updates a game in games.yaml
func SaveGame(configDir string, game *domain.Game) error {
	games, err := LoadGames(configDir)
	if err != nil {
		return err
	}

	games[game.ID] = game

	return saveGames(configDir, games)
}

func saveGames(configDir string, games map[string]*domain.Game) error {
	gamesFile := GamesFile{Games: make(map[string]GameConfig)}

	for id, game := range games {
		cfg := GameConfig{
			Name:           game.Name,
			InstallPath:    game.InstallPath,
			LoaderDir:      game.LoaderDir,
			CachePath:      game.CachePath,
			Rules:          game.Rules.Rules,
			DefaultPath:    game.Rules.DefaultPath,
			LoaderVariants: game.LoaderVariants,
			Hooks:          game.Hooks,
		}
		if game.LinkMethodExplicit {
			cfg.LinkMethod = game.LinkMethod.String()
		}
		gamesFile.Games[id] = cfg
	}

	data, err := yaml.Marshal(&gamesFile)
	if err != nil {
		return fmt.Errorf("marshaling games: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	gamesPath := filepath.Join(configDir, "games.yaml")
	if err := os.WriteFile(gamesPath, data, 0644); err != nil {
		return fmt.Errorf("writing games.yaml: %w", err)
	}

	return nil
}

// DeleteGame removes a game from games.yaml
func DeleteGame(configDir string, gameID string) error {
	games, err := LoadGames(configDir)
	if err != nil {
		return err
	}

	if _, exists := games[gameID]; !exists {
		return domain.ErrGameNotFound
	}

	delete(games, gameID)
	return saveGames(configDir, games)
}
