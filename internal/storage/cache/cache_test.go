package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/cache"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*cache.Cache, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return cache.New(fs, "/cache"), fs
}

func TestCache_ModPath(t *testing.T) {
	c, _ := newCache(t)

	path := c.ModPath("lethal-company", "Author-Foo", "1.0.0")
	assert.Equal(t, filepath.Join("/cache", "lethal-company", "Author-Foo", "1.0.0"), path)
}

func TestCache_Store(t *testing.T) {
	c, fs := newCache(t)

	content := []byte("test mod content")
	require.NoError(t, c.Store("lc", "Foo", "1.0.0", "plugins/Foo.dll", content))

	data, err := afero.ReadFile(fs, c.GetFilePath("lc", "Foo", "1.0.0", "plugins/Foo.dll"))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestCache_Exists(t *testing.T) {
	c, _ := newCache(t)

	assert.False(t, c.Exists("lc", "Foo", "1.0.0"))
	require.NoError(t, c.Store("lc", "Foo", "1.0.0", "test.txt", []byte("data")))
	assert.True(t, c.Exists("lc", "Foo", "1.0.0"))
}

func TestCache_ListFiles(t *testing.T) {
	c, _ := newCache(t)

	require.NoError(t, c.Store("lc", "Foo", "1.0.0", "file1.txt", []byte("1")))
	require.NoError(t, c.Store("lc", "Foo", "1.0.0", "subdir/file2.txt", []byte("2")))

	files, err := c.ListFiles("lc", "Foo", "1.0.0")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"file1.txt", filepath.Join("subdir", "file2.txt")}, files)
}

func TestCache_VersionsAndLatest(t *testing.T) {
	c, _ := newCache(t)

	for _, v := range []string{"1.10.0", "1.2.0", "1.9.3"} {
		require.NoError(t, c.Store("lc", "Foo", v, "a.dll", []byte(v)))
	}

	versions, err := c.Versions("lc", "Foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.0", "1.9.3", "1.10.0"}, versions)

	latest, err := c.Latest("lc", "Foo")
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", latest)
}

func TestCache_LatestNotCached(t *testing.T) {
	c, _ := newCache(t)

	_, err := c.Latest("lc", "Missing")
	assert.ErrorIs(t, err, domain.ErrNotCached)
}

func TestCache_Delete(t *testing.T) {
	c, _ := newCache(t)

	require.NoError(t, c.Store("lc", "Foo", "1.0.0", "test.txt", []byte("data")))
	require.NoError(t, c.Delete("lc", "Foo", "1.0.0"))
	assert.False(t, c.Exists("lc", "Foo", "1.0.0"))
}

func TestCache_Size(t *testing.T) {
	c, _ := newCache(t)

	require.NoError(t, c.Store("lc", "Foo", "1.0.0", "a", []byte("12345")))
	require.NoError(t, c.Store("lc", "Foo", "1.0.0", "b/c", []byte("678")))

	size, err := c.Size("lc", "Foo", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)
}
