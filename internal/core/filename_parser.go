package core

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
)

// packagePattern matches Thunderstore-style package names: Author-Name-1.2.3.
// The version is the trailing run of dot-separated numbers; the name keeps every dash before it.
var packagePattern = regexp.MustCompile(`^(.+)-(\d+(?:\.\d+)*)$`)

// ParsePackageName splits "Author-Name-1.2.3[.zip]" into mod name and version.
// ok is false when the name carries no trailing version.
func ParsePackageName(filename string) (name, version string, ok bool) {
	base := filepath.Base(filename)
	if strings.EqualFold(filepath.Ext(base), ".zip") {
		base = base[:len(base)-len(".zip")]
	}
	m := packagePattern.FindStringSubmatch(base)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// ParseDependencyString parses a manifest dependency entry such as
// "BepInEx-BepInExPack-5.4.2100" into the mod it names
func ParseDependencyString(dep string) (domain.Mod, bool) {
	name, version, ok := ParsePackageName(strings.TrimSpace(dep))
	if !ok {
		return domain.Mod{}, false
	}
	return domain.Mod{Name: name, Version: version}, true
}
