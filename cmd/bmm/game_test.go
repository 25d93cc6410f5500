package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameCmd_Structure(t *testing.T) {
	var subCmds []string
	for _, cmd := range gameCmd.Commands() {
		subCmds = append(subCmds, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"list", "show", "set-default", "add", "remove", "detect"}, subCmds)
}

func TestGameList(t *testing.T) {
	setupEnv(t, testGamesYAML)

	out, err := execute(t, "", "game", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "lethal-company")
	assert.Contains(t, out, "Lethal Company")
	assert.Contains(t, out, "BepInEx")
}

func TestGameShow_JSON(t *testing.T) {
	setupEnv(t, testGamesYAML)

	out, err := execute(t, "", "--json", "game", "show", "lethal-company")
	require.NoError(t, err)

	var g gameJSON
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, "lethal-company", g.ID)
	assert.Equal(t, "BepInEx", g.LoaderDir)
	assert.Equal(t, "copy", g.LinkMethod)
	assert.Equal(t, filepath.Join("BepInEx", "plugins"), g.DefaultPath)
	assert.Equal(t, filepath.Join("BepInEx", "patchers"), g.Rules["patchers"])
	assert.Equal(t, []domain.LoaderVariant{{PackageName: "BepInEx-BepInExPack", RootFolder: "BepInExPack"}}, g.LoaderVariants)
}

func TestGameShow_Text(t *testing.T) {
	setupEnv(t, testGamesYAML)

	out, err := execute(t, "", "game", "show", "lethal-company")
	require.NoError(t, err)
	assert.Contains(t, out, "Lethal Company (lethal-company)")
	assert.Contains(t, out, "FOLDER")
	assert.Contains(t, out, "(default)")
	assert.Contains(t, out, "BepInEx-BepInExPack (root folder BepInExPack)")
}

func TestGameAddSetDefaultRemove(t *testing.T) {
	setupEnv(t, testGamesYAML)

	out, err := execute(t, "", "game", "add", "valheim", "--name", "Valheim", "--loader-package", "denikson-BepInExPack_Valheim", "--loader-root", "BepInExPack_Valheim")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Valheim (valheim)")

	data, err := os.ReadFile(filepath.Join(configDir, "games.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "denikson-BepInExPack_Valheim")

	out, err = execute(t, "", "game", "set-default", "valheim")
	require.NoError(t, err)
	assert.Contains(t, out, "Default game set to: Valheim")

	out, err = execute(t, "", "game", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Valheim (valheim)")

	_, err = execute(t, "", "game", "remove", "valheim")
	require.NoError(t, err)
	_, err = execute(t, "", "game", "remove", "valheim")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

// writeSteamLibrary creates a Steam root holding one installed app
func writeSteamLibrary(t *testing.T, appID, installDir string) string {
	t.Helper()
	root := t.TempDir()
	steamapps := filepath.Join(root, "steamapps")
	require.NoError(t, os.MkdirAll(filepath.Join(steamapps, "common", installDir), 0755))
	manifest := `"AppState"
{
	"appid"		"` + appID + `"
	"name"		"` + installDir + `"
	"installdir"		"` + installDir + `"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(steamapps, "appmanifest_"+appID+".acf"), []byte(manifest), 0644))
	return root
}

func TestGameDetect(t *testing.T) {
	setupEnv(t, testGamesYAML)
	root := writeSteamLibrary(t, "892970", "Valheim")

	out, err := execute(t, "", "--json", "game", "detect", "--steam-root", root)
	require.NoError(t, err)
	resetFlags()

	var items []detectJSON
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "valheim", items[0].ID)
	assert.Equal(t, filepath.Join(root, "steamapps", "common", "Valheim"), items[0].InstallPath)
	assert.False(t, items[0].Configured)

	out, err = execute(t, "", "game", "detect", "--add", "--steam-root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Added Valheim (valheim)")

	out, err = execute(t, "", "--json", "game", "show", "valheim")
	require.NoError(t, err)
	var g gameJSON
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, []domain.LoaderVariant{{PackageName: "denikson-BepInExPack_Valheim", RootFolder: "BepInExPack_Valheim"}}, g.LoaderVariants)
}

func TestGameDetect_AlreadyConfigured(t *testing.T) {
	setupEnv(t, testGamesYAML)
	root := writeSteamLibrary(t, "1966720", "Lethal Company")

	out, err := execute(t, "", "game", "detect", "--add", "--steam-root", root)
	require.NoError(t, err)
	assert.NotContains(t, out, "Added")
	assert.Contains(t, out, "lethal-company")
	assert.Contains(t, out, "yes")
}

func TestGameDetect_NothingFound(t *testing.T) {
	setupEnv(t, testGamesYAML)

	out, err := execute(t, "", "game", "detect", "--steam-root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No known BepInEx games found")
}
