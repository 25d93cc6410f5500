package domain

import "strings"

// DefaultLoaderDir is the loader-managed directory used when a game does not configure one
const DefaultLoaderDir = "BepInEx"

// LinkMethod determines how mod files are placed into a profile
type LinkMethod int

const (
	LinkCopy    LinkMethod = iota // Default: copy (profiles stay valid if the cache is cleared)
	LinkSymlink                   // Symlink into the cache (space efficient)
)

func (m LinkMethod) String() string {
	switch m {
	case LinkCopy:
		return "copy"
	case LinkSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// ParseLinkMethod converts a string to LinkMethod
func ParseLinkMethod(s string) LinkMethod {
	switch s {
	case "symlink":
		return LinkSymlink
	default:
		return LinkCopy
	}
}

// LoaderVariant identifies the package that is the mod loader itself.
// RootFolder is the directory inside the cached package whose contents belong at the profile root.
type LoaderVariant struct {
	PackageName string `yaml:"package_name" toml:"package_name"`
	RootFolder  string `yaml:"root_folder" toml:"root_folder"`
}

// Game represents a moddable game and the layout its mod loader expects
type Game struct {
	ID                 string          // Unique slug, e.g., "lethal-company"
	Name               string          // Display name
	InstallPath        string          // Game installation directory
	LoaderDir          string          // Loader-managed directory inside each profile, e.g., "BepInEx"
	LinkMethod         LinkMethod      // How to deploy mods
	LinkMethodExplicit bool            // True if LinkMethod was explicitly set in config
	CachePath          string          // Optional: custom cache path for this game's mods
	Rules              RuleSet         // Folder routing rules
	LoaderVariants     []LoaderVariant // Packages that are the loader itself
	Hooks              GameHooks       // Optional: scripts around install/uninstall/toggle
}

// ManagedDir returns the loader-managed directory name, falling back to DefaultLoaderDir
func (g *Game) ManagedDir() string {
	if g.LoaderDir == "" {
		return DefaultLoaderDir
	}
	return g.LoaderDir
}

// LoaderVariant reports whether modName is one of the game's loader packages.
// Comparison is case-insensitive.
func (g *Game) LoaderVariant(modName string) (LoaderVariant, bool) {
	for _, v := range g.LoaderVariants {
		if strings.EqualFold(v.PackageName, modName) {
			return v, true
		}
	}
	return LoaderVariant{}, false
}

// IsLoaderVariant is a convenience wrapper around LoaderVariant
func (g *Game) IsLoaderVariant(modName string) bool {
	_, ok := g.LoaderVariant(modName)
	return ok
}
