package core_test

import (
	"path/filepath"
	"testing"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testProfile = "/profiles/lethal-company/default"

func testGame() *domain.Game {
	return &domain.Game{
		ID:        "lethal-company",
		Name:      "Lethal Company",
		LoaderDir: "BepInEx",
		Rules:     domain.DefaultRuleSet("BepInEx"),
		LoaderVariants: []domain.LoaderVariant{
			{PackageName: "BepInEx-BepInExPack", RootFolder: "BepInExPack"},
		},
	}
}

// writeFiles creates every relative path in files below root
func writeFiles(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
}

func assertExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	require.True(t, ok, "%s should exist", path)
}

func assertMissing(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	require.False(t, ok, "%s should not exist", path)
}
