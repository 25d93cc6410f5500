package core_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/linker"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooSource = "/cache/lethal-company/Foo/1.0.0"

func fooPackage(t *testing.T, fs afero.Fs) *core.FileTree {
	t.Helper()
	writeFiles(t, fs, fooSource, map[string]string{
		"plugins/Foo.dll":        "plugin",
		"plugins/assets/foo.bin": "asset",
		"config/foo.cfg":         "cfg",
		"Foo.mm.dll":             "patch",
		"readme.md":              "readme",
		"extra/bar.dll":          "bar",
		"extra/plugins/x.dll":    "x",
	})
	tree, err := core.BuildFileTree(fs, fooSource)
	require.NoError(t, err)
	return tree
}

func TestResolver_Resolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := fooPackage(t, fs)
	mod := domain.Mod{Name: "Foo", Version: "1.0.0"}

	r := core.NewResolver(fs, linker.NewCopy(fs), testGame(), "")
	require.NoError(t, r.Resolve(testProfile, fooSource, filepath.Base(fooSource), mod, tree))

	bep := filepath.Join(testProfile, "BepInEx")
	// Matched folder deployed whole and namespaced
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll"))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/assets/foo.bin"))
	// config is shared across mods
	assertExists(t, fs, filepath.Join(bep, "config/foo.cfg"))
	assertMissing(t, fs, filepath.Join(bep, "config/Foo"))
	// Patch assemblies go to monomod
	assertExists(t, fs, filepath.Join(bep, "monomod/Foo/Foo.mm.dll"))
	// Loose files land in the default path
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/readme.md"))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/bar.dll"))
	// Matched folders below unmatched ones are still recognized
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/x.dll"))

	data, err := afero.ReadFile(fs, filepath.Join(bep, "plugins/Foo/Foo.dll"))
	require.NoError(t, err)
	assert.Equal(t, "plugin", string(data))
}

func TestResolver_CaseInsensitiveRules(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, fooSource, map[string]string{
		"Plugins/Foo.dll": "plugin",
		"CONFIG/foo.cfg":  "cfg",
		"Foo.MM.DLL":      "patch",
	})
	tree, err := core.BuildFileTree(fs, fooSource)
	require.NoError(t, err)

	r := core.NewResolver(fs, linker.NewCopy(fs), testGame(), "")
	require.NoError(t, r.Resolve(testProfile, fooSource, "1.0.0", domain.Mod{Name: "Foo"}, tree))

	bep := filepath.Join(testProfile, "BepInEx")
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll"))
	assertExists(t, fs, filepath.Join(bep, "config/foo.cfg"))
	assertExists(t, fs, filepath.Join(bep, "monomod/Foo/Foo.MM.DLL"))
}

func TestResolver_VisitsEveryFileOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := fooPackage(t, fs)
	rec := linker.NewRecorder()

	r := core.NewResolver(fs, rec, testGame(), "")
	require.NoError(t, r.Resolve(testProfile, fooSource, "1.0.0", domain.Mod{Name: "Foo"}, tree))

	bep := filepath.Join(testProfile, "BepInEx")
	expected := []linker.Operation{
		{Kind: linker.OpFile, Src: fooSource + "/Foo.mm.dll", Dst: bep + "/monomod/Foo/Foo.mm.dll"},
		{Kind: linker.OpFile, Src: fooSource + "/readme.md", Dst: bep + "/plugins/Foo/readme.md"},
		{Kind: linker.OpDir, Src: fooSource + "/config", Dst: bep + "/config"},
		{Kind: linker.OpFile, Src: fooSource + "/extra/bar.dll", Dst: bep + "/plugins/Foo/bar.dll"},
		{Kind: linker.OpDir, Src: fooSource + "/extra/plugins", Dst: bep + "/plugins/Foo"},
		{Kind: linker.OpDir, Src: fooSource + "/plugins", Dst: bep + "/plugins/Foo"},
	}
	assert.Equal(t, expected, rec.Operations)
}

func TestResolver_Tracker(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := fooPackage(t, fs)

	var deployed []string
	r := core.NewResolver(fs, linker.NewCopy(fs), testGame(), "").
		WithTracker(func(p string) { deployed = append(deployed, p) })
	require.NoError(t, r.Resolve(testProfile, fooSource, "1.0.0", domain.Mod{Name: "Foo"}, tree))

	assert.Len(t, deployed, 7)
	assert.Contains(t, deployed, filepath.Join(testProfile, "BepInEx/config/foo.cfg"))
	assert.Contains(t, deployed, filepath.Join(testProfile, "BepInEx/plugins/Foo/assets/foo.bin"))
}

func TestResolver_WriteFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	tree := fooPackage(t, base)
	ro := afero.NewReadOnlyFs(base)

	r := core.NewResolver(ro, linker.NewCopy(ro), testGame(), "modctl")
	err := r.Resolve(testProfile, fooSource, "1.0.0", domain.Mod{Name: "Foo"}, tree)
	require.Error(t, err)

	assert.True(t, errors.Is(err, domain.ErrWrite))
	assert.Contains(t, domain.HintOf(err), "modctl")
	assert.Contains(t, domain.HintOf(err), "Is the game running?")

	var de *domain.DeployError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "creating directory", de.Action)
}
