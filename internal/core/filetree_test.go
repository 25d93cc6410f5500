package core_test

import (
	"errors"
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFileTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/mod", map[string]string{
		"readme.md":         "hi",
		"plugins/Foo.dll":   "dll",
		"plugins/sub/a.txt": "a",
		"config/foo.cfg":    "cfg",
	})
	require.NoError(t, fs.MkdirAll("/mod/empty", 0755))

	tree, err := core.BuildFileTree(fs, "/mod")
	require.NoError(t, err)

	assert.Equal(t, "/mod", tree.Path)
	assert.Equal(t, []string{"/mod/readme.md"}, tree.Files)
	assert.Equal(t, []string{"config", "empty", "plugins"}, tree.DirectoryNames())
	assert.Empty(t, tree.Directories["empty"].Files)
	assert.Equal(t, "/mod/plugins/sub", tree.Directories["plugins"].Directories["sub"].Path)
}

func TestFileTree_Flatten(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/mod", map[string]string{
		"a.dll":     "",
		"b/c.dll":   "",
		"b/d/e.dll": "",
		"f/g.dll":   "",
	})

	tree, err := core.BuildFileTree(fs, "/mod")
	require.NoError(t, err)

	assert.Equal(t, []string{"/mod/a.dll", "/mod/b/c.dll", "/mod/b/d/e.dll", "/mod/f/g.dll"}, tree.Flatten())
	assert.Equal(t, []string{"/mod/b/c.dll", "/mod/b/d/e.dll"}, tree.Directories["b"].Flatten())
}

func TestBuildFileTree_Missing(t *testing.T) {
	fs := afero.NewMemMapFs()

	tree, err := core.BuildFileTree(fs, "/nope")
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.True(t, errors.Is(err, domain.ErrScan))
	assert.Contains(t, err.Error(), "/nope")
}
