package steam

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/afero"
)

// AppManifest holds the fields of an appmanifest_<id>.acf file the detector needs
type AppManifest struct {
	AppID      string
	Name       string
	InstallDir string // Directory name under steamapps/common
}

// ParseAppManifest parses the AppState block of an app manifest
func ParseAppManifest(data []byte) (AppManifest, error) {
	root, err := ParseVDF(bytes.NewReader(data))
	if err != nil {
		return AppManifest{}, err
	}
	state, ok := root.Child("AppState")
	if !ok {
		return AppManifest{}, fmt.Errorf("app manifest has no AppState")
	}
	return AppManifest{
		AppID:      state.String("appid"),
		Name:       state.String("name"),
		InstallDir: state.String("installdir"),
	}, nil
}

// LibraryPaths returns every library folder registered with a Steam root, in
// libraryfolders.vdf order. A root without the file is its own single library.
func LibraryPaths(fs afero.Fs, steamRoot string) ([]string, error) {
	data, err := afero.ReadFile(fs, filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{steamRoot}, nil
		}
		return nil, fmt.Errorf("reading libraryfolders: %w", err)
	}

	root, err := ParseVDF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing libraryfolders: %w", err)
	}
	folders, ok := root.Child("libraryfolders")
	if !ok {
		return []string{steamRoot}, nil
	}

	// Entries are keyed "0", "1", ...; older files also hold non-numeric keys like "contentstatsid".
	var indexes []int
	for k := range folders {
		if n, err := strconv.Atoi(k); err == nil {
			indexes = append(indexes, n)
		}
	}
	sort.Ints(indexes)

	var paths []string
	for _, n := range indexes {
		key := strconv.Itoa(n)
		if entry, ok := folders.Child(key); ok {
			if p := entry.String("path"); p != "" {
				paths = append(paths, p)
			}
		} else if p := folders.String(key); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return []string{steamRoot}, nil
	}
	return paths, nil
}
