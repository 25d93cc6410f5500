package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
)

// parseModArg splits "Name" or "Name@version" into a mod. An explicit
// --version flag wins over the @ suffix.
func parseModArg(arg, versionFlag string) (domain.Mod, error) {
	name, ver, _ := strings.Cut(arg, "@")
	if name == "" {
		return domain.Mod{}, fmt.Errorf("invalid mod %q: name is empty", arg)
	}
	if versionFlag != "" {
		ver = versionFlag
	}
	return domain.Mod{Name: name, Version: ver}, nil
}

// writeJSON encodes v to w with two-space indentation
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
