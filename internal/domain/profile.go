package domain

import "strings"

// Profile is an isolated deployment target: one directory holding one set of installed mods
type Profile struct {
	Name   string         // Profile identifier
	GameID string         // Which game this profile is for
	Path   string         // Absolute profile root; every destination resolves under it
	Mods   []ModReference // Mods in install order

	// Overrides maps profile-relative paths to file content written after every install,
	// e.g. a tuned BepInEx.cfg that mods must not clobber.
	Overrides map[string]string
}

// FindMod returns the index of the named mod in the manifest, or -1
func (p *Profile) FindMod(name string) int {
	for i, m := range p.Mods {
		if strings.EqualFold(m.Name, name) {
			return i
		}
	}
	return -1
}

// UpsertMod adds a mod to the manifest or replaces the entry with the same name
func (p *Profile) UpsertMod(ref ModReference) {
	if i := p.FindMod(ref.Name); i >= 0 {
		p.Mods[i] = ref
		return
	}
	p.Mods = append(p.Mods, ref)
}

// RemoveMod drops the named mod from the manifest. Returns false if it was not listed.
func (p *Profile) RemoveMod(name string) bool {
	i := p.FindMod(name)
	if i < 0 {
		return false
	}
	p.Mods = append(p.Mods[:i], p.Mods[i+1:]...)
	return true
}
