package core_test

import (
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/cache"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImporter_ImportZip(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := cache.New(fs, "/cache")
	zipPath := createTestZip(t, fs, "/downloads/Author-Foo-1.2.0.zip",
		zipEntry{"plugins/Foo.dll", "dll"},
		zipEntry{"manifest.json", "{}"},
	)

	result, err := core.NewImporter(fs, c).Import(zipPath, testGame(), domain.Mod{})
	require.NoError(t, err)
	assert.Equal(t, domain.Mod{Name: "Author-Foo", Version: "1.2.0"}, result.Mod)
	assert.Equal(t, 2, result.Files)
	assert.True(t, c.Exists("lethal-company", "Author-Foo", "1.2.0"))
}

func TestImporter_ImportDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := cache.New(fs, "/cache")
	writeFiles(t, fs, "/src/Foo", map[string]string{
		"Foo.dll":        "dll",
		"config/foo.cfg": "cfg",
	})

	result, err := core.NewImporter(fs, c).Import("/src/Foo", testGame(), domain.Mod{Name: "Foo", Version: "0.1.0"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Files)

	files, err := c.ListFiles("lethal-company", "Foo", "0.1.0")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Foo.dll", "config/foo.cfg"}, files)
}

func TestImporter_ReplacesExistingEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := cache.New(fs, "/cache")
	require.NoError(t, c.Store("lethal-company", "Foo", "0.1.0", "stale.dll", []byte("old")))
	writeFiles(t, fs, "/src/Foo", map[string]string{"Foo.dll": "dll"})

	_, err := core.NewImporter(fs, c).Import("/src/Foo", testGame(), domain.Mod{Name: "Foo", Version: "0.1.0"})
	require.NoError(t, err)

	files, err := c.ListFiles("lethal-company", "Foo", "0.1.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.dll"}, files)
}

func TestImporter_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := cache.New(fs, "/cache")
	importer := core.NewImporter(fs, c)

	_, err := importer.Import("/missing.zip", testGame(), domain.Mod{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package not found")

	require.NoError(t, afero.WriteFile(fs, "/downloads/Foo.zip", []byte(""), 0644))
	_, err = importer.Import("/downloads/Foo.zip", testGame(), domain.Mod{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot determine name and version")

	require.NoError(t, afero.WriteFile(fs, "/downloads/Foo-1.0.0.rar", []byte(""), 0644))
	_, err = importer.Import("/downloads/Foo-1.0.0.rar", testGame(), domain.Mod{})
	require.Error(t, err)
}
