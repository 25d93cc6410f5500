package core_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installedProfile(t *testing.T, fs afero.Fs) string {
	t.Helper()
	bep := filepath.Join(testProfile, "BepInEx")
	writeFiles(t, fs, bep, map[string]string{
		"plugins/Foo/Foo.dll":       "",
		"plugins/Foo/Foo.language":  "",
		"plugins/Foo/readme.txt":    "",
		"plugins/Foo/sub/Bar.dll":   "",
		"plugins/Other/Other.dll":   "",
		"monomod/foo/Foo.mm.dll":    "",
		"config/com.foo.plugin.cfg": "",
	})
	return bep
}

func setMode(t *testing.T, fs afero.Fs, bep string, mod domain.Mod, mode domain.ModMode) error {
	t.Helper()
	tree, err := core.BuildFileTree(fs, bep)
	require.NoError(t, err)
	return core.NewToggler(fs, "").SetMode(mod, tree, testProfile, bep, mode)
}

func TestToggler_DisableEnable(t *testing.T) {
	fs := afero.NewMemMapFs()
	bep := installedProfile(t, fs)
	mod := domain.Mod{Name: "Foo"}

	require.NoError(t, setMode(t, fs, bep, mod, domain.ModeDisabled))

	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll.old"))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.language.old"))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/sub/Bar.dll.old"))
	assertExists(t, fs, filepath.Join(bep, "monomod/foo/Foo.mm.dll.old"))
	// Non-plugin files and other mods are untouched
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/readme.txt"))
	assertExists(t, fs, filepath.Join(bep, "plugins/Other/Other.dll"))
	assertExists(t, fs, filepath.Join(bep, "config/com.foo.plugin.cfg"))
	assertMissing(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll"))

	require.NoError(t, setMode(t, fs, bep, mod, domain.ModeEnabled))

	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll"))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.language"))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/sub/Bar.dll"))
	assertExists(t, fs, filepath.Join(bep, "monomod/foo/Foo.mm.dll"))
	assertMissing(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll.old"))
}

func TestToggler_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	bep := installedProfile(t, fs)
	mod := domain.Mod{Name: "Foo"}

	require.NoError(t, setMode(t, fs, bep, mod, domain.ModeDisabled))
	require.NoError(t, setMode(t, fs, bep, mod, domain.ModeDisabled))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll.old"))
	assertMissing(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll.old.old"))

	require.NoError(t, setMode(t, fs, bep, mod, domain.ModeEnabled))
	require.NoError(t, setMode(t, fs, bep, mod, domain.ModeEnabled))
	assertExists(t, fs, filepath.Join(bep, "plugins/Foo/Foo.dll"))
}

func TestToggler_Mode(t *testing.T) {
	fs := afero.NewMemMapFs()
	bep := installedProfile(t, fs)
	toggler := core.NewToggler(fs, "")

	tree, err := core.BuildFileTree(fs, bep)
	require.NoError(t, err)
	mode, found := toggler.Mode(domain.Mod{Name: "Foo"}, tree)
	assert.True(t, found)
	assert.Equal(t, domain.ModeEnabled, mode)

	_, found = toggler.Mode(domain.Mod{Name: "Missing"}, tree)
	assert.False(t, found)

	require.NoError(t, setMode(t, fs, bep, domain.Mod{Name: "Foo"}, domain.ModeDisabled))
	tree, err = core.BuildFileTree(fs, bep)
	require.NoError(t, err)
	mode, found = toggler.Mode(domain.Mod{Name: "FOO"}, tree)
	assert.True(t, found)
	assert.Equal(t, domain.ModeDisabled, mode)
}

func TestToggler_RenameFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	bep := installedProfile(t, base)
	ro := afero.NewReadOnlyFs(base)

	tree, err := core.BuildFileTree(ro, bep)
	require.NoError(t, err)
	err = core.NewToggler(ro, "").SetMode(domain.Mod{Name: "Foo"}, tree, testProfile, bep, domain.ModeDisabled)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWrite))
	assert.Contains(t, err.Error(), "setting mode disabled on")
	assert.Contains(t, domain.HintOf(err), core.DefaultAppName)
}
