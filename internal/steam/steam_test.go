package steam_test

import (
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/steam"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func installApp(t *testing.T, fs afero.Fs, library, appID, dir string) {
	t.Helper()
	writeFile(t, fs, library+"/steamapps/appmanifest_"+appID+".acf",
		`"AppState" { "appid" "`+appID+`" "name" "`+dir+`" "installdir" "`+dir+`" }`)
	require.NoError(t, fs.MkdirAll(library+"/steamapps/common/"+dir, 0755))
}

func TestLibraryPaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/steam/steamapps/libraryfolders.vdf", `"libraryfolders"
{
	"contentstatsid"	"123"
	"1"	{ "path" "/games" }
	"0"	{ "path" "/steam" }
}`)

	paths, err := steam.LibraryPaths(fs, "/steam")
	require.NoError(t, err)
	assert.Equal(t, []string{"/steam", "/games"}, paths)
}

func TestLibraryPaths_LegacyFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/steam/steamapps/libraryfolders.vdf", `"LibraryFolders" { "TimeNextStatsReport" "1" "1" "/games" }`)

	paths, err := steam.LibraryPaths(fs, "/steam")
	require.NoError(t, err)
	assert.Equal(t, []string{"/games"}, paths)
}

func TestLibraryPaths_NoFile(t *testing.T) {
	paths, err := steam.LibraryPaths(afero.NewMemMapFs(), "/steam")
	require.NoError(t, err)
	assert.Equal(t, []string{"/steam"}, paths)
}

func TestDetect(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/steam/steamapps/libraryfolders.vdf", `"libraryfolders" { "0" { "path" "/steam" } "1" { "path" "/games" } }`)
	installApp(t, fs, "/steam", "892970", "Valheim")
	installApp(t, fs, "/games", "1966720", "Lethal Company")
	installApp(t, fs, "/games", "570", "dota 2 beta")
	// Manifest left behind by an uninstalled game
	writeFile(t, fs, "/games/steamapps/appmanifest_632360.acf", `"AppState" { "appid" "632360" "installdir" "Risk of Rain 2" }`)

	known, err := steam.LoadKnownGames(fs, "/config")
	require.NoError(t, err)

	found := steam.Detect(fs, []string{"/steam", "/steam"}, known)
	require.Len(t, found, 2, "each game is reported once")
	assert.Equal(t, "lethal-company", found[0].ID)
	assert.Equal(t, "/games/steamapps/common/Lethal Company", found[0].InstallPath)
	assert.Equal(t, "valheim", found[1].ID)
	assert.Equal(t, "892970", found[1].AppID)
}

func TestDetectedGame_Game(t *testing.T) {
	d := steam.DetectedGame{
		AppID:       "892970",
		InstallPath: "/games/Valheim",
		GameInfo:    steam.GameInfo{ID: "valheim", Name: "Valheim", LoaderPackage: "denikson-BepInExPack_Valheim", LoaderRoot: "BepInExPack_Valheim"},
	}

	g := d.Game()
	assert.Equal(t, "valheim", g.ID)
	assert.Equal(t, "/games/Valheim", g.InstallPath)
	assert.Equal(t, domain.DefaultLoaderDir, g.ManagedDir())
	assert.False(t, g.Rules.IsEmpty())
	assert.True(t, g.IsLoaderVariant("DENIKSON-BepInExPack_Valheim"))
}

func TestLoadKnownGames_Override(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/config/"+steam.KnownGamesFile, `
"892970":
  id: valheim-custom
  name: Valheim
"1366540":
  id: dyson-sphere-program
  name: Dyson Sphere Program
`)

	known, err := steam.LoadKnownGames(fs, "/config")
	require.NoError(t, err)
	assert.Equal(t, "valheim-custom", known["892970"].ID)
	assert.Equal(t, "dyson-sphere-program", known["1366540"].ID)
	assert.Equal(t, "lethal-company", known["1966720"].ID, "built-in entries are kept")
}

func TestLoadKnownGames_Invalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/config/"+steam.KnownGamesFile, "not: [valid")

	_, err := steam.LoadKnownGames(fs, "/config")
	assert.Error(t, err)
}

func TestFindSteamRoots(t *testing.T) {
	t.Setenv("STEAM_ROOT", "")
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/u/.local/share/Steam", 0755))

	assert.Equal(t, []string{"/home/u/.local/share/Steam"}, steam.FindSteamRoots(fs, "/home/u"))
}
