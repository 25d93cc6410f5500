package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkCopy, cfg.DefaultLinkMethod)
	assert.Equal(t, config.DefaultHookTimeout, cfg.HookTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.AppName)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
default_link_method: symlink
default_game: lethal-company
hook_timeout: 30s
log_level: debug
app_name: r2modman
`
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkSymlink, cfg.DefaultLinkMethod)
	assert.Equal(t, "lethal-company", cfg.DefaultGame)
	assert.Equal(t, 30*time.Second, cfg.HookTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "r2modman", cfg.AppName)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("default_game: [unclosed"), 0644))

	_, err := config.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DefaultLinkMethod: domain.LinkSymlink,
		DefaultGame:       "valheim",
		HookTimeout:       5 * time.Second,
	}
	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkSymlink, loaded.DefaultLinkMethod)
	assert.Equal(t, "valheim", loaded.DefaultGame)
	assert.Equal(t, 5*time.Second, loaded.HookTimeout)
}

func TestLoadGames_Empty(t *testing.T) {
	dir := t.TempDir()
	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestLoadGames_FromFile(t *testing.T) {
	dir := t.TempDir()
	gamesPath := filepath.Join(dir, "games.yaml")

	content := `
games:
  lethal-company:
    name: Lethal Company
    install_path: /games/lc
    link_method: symlink
    loader_variants:
      - package_name: BepInEx-BepInExPack
        root_folder: BepInExPack
    hooks:
      install:
        before: /hooks/backup.sh
      toggle:
        after: /hooks/notify.sh
`
	err := os.WriteFile(gamesPath, []byte(content), 0644)
	require.NoError(t, err)

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	require.Len(t, games, 1)

	game := games["lethal-company"]
	assert.Equal(t, "Lethal Company", game.Name)
	assert.Equal(t, "/games/lc", game.InstallPath)
	assert.Equal(t, domain.LinkSymlink, game.LinkMethod)
	assert.True(t, game.LinkMethodExplicit)
	assert.Equal(t, "BepInEx", game.ManagedDir())
	assert.True(t, game.IsLoaderVariant("bepinex-bepinexpack"))
	assert.Equal(t, "/hooks/backup.sh", game.Hooks.Install.Before)
	assert.Equal(t, "/hooks/notify.sh", game.Hooks.Toggle.After)
	assert.True(t, game.Hooks.Uninstall.IsEmpty())

	// No rules configured: stock table
	assert.Equal(t, domain.DefaultRuleSet("BepInEx"), game.Rules)
}

func TestLoadGames_CustomRules(t *testing.T) {
	dir := t.TempDir()
	content := `
games:
  h3vr:
    name: H3VR
    loader_dir: Loader
    rules:
      plugins: Loader/plugins
      sideloader: Mods
    default_path: Loader/plugins
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.yaml"), []byte(content), 0644))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)

	game := games["h3vr"]
	assert.Equal(t, "Loader", game.ManagedDir())
	assert.Equal(t, "Mods", game.Rules.Rules["sideloader"])
	assert.Equal(t, "Loader/plugins", game.Rules.DefaultPath)
	assert.False(t, game.LinkMethodExplicit)
}

func TestLoadGames_RulesWithoutDefaultPath(t *testing.T) {
	dir := t.TempDir()
	content := `
games:
  broken:
    name: Broken
    rules:
      plugins: BepInEx/plugins
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.yaml"), []byte(content), 0644))

	_, err := config.LoadGames(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestLoadGames_ExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir := t.TempDir()
	content := `
games:
  lethal-company:
    name: Lethal Company
    install_path: ~/games/lc
    hooks:
      uninstall:
        after: ~/hooks/cleanup.sh
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.yaml"), []byte(content), 0644))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)

	game := games["lethal-company"]
	assert.Equal(t, filepath.Join(home, "games/lc"), game.InstallPath)
	assert.Equal(t, filepath.Join(home, "hooks/cleanup.sh"), game.Hooks.Uninstall.After)
}

func TestSaveGame(t *testing.T) {
	dir := t.TempDir()

	game := &domain.Game{
		ID:          "valheim",
		Name:        "Valheim",
		InstallPath: "/games/valheim",
		Rules:       domain.DefaultRuleSet("BepInEx"),
		LoaderVariants: []domain.LoaderVariant{
			{PackageName: "denikson-BepInExPack_Valheim", RootFolder: "BepInExPack_Valheim"},
		},
	}
	require.NoError(t, config.SaveGame(dir, game))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	loaded := games["valheim"]
	require.NotNil(t, loaded)
	assert.Equal(t, "Valheim", loaded.Name)
	assert.Equal(t, game.LoaderVariants, loaded.LoaderVariants)
	assert.Equal(t, game.Rules, loaded.Rules)

	require.NoError(t, config.DeleteGame(dir, "valheim"))
	games, err = config.LoadGames(dir)
	require.NoError(t, err)
	assert.Empty(t, games)

	assert.ErrorIs(t, config.DeleteGame(dir, "valheim"), domain.ErrGameNotFound)
}

func TestLoadConfig_HookTimeout(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"45", 45 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"0", config.DefaultHookTimeout, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("hook_timeout: "+tt.value+"\n"), 0644))

			cfg, err := config.Load(dir)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.HookTimeout)
		})
	}
}
