package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrNoRuleFile is returned when a game ships no standalone rule table
var ErrNoRuleFile = errors.New("no rule file")

// RulesDir is the config subdirectory holding per-game rule tables
const RulesDir = "rules"

// RuleFilePath returns the first existing rule file for gameID, preferring YAML over TOML
func RuleFilePath(configDir, gameID string) (string, bool) {
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		path := filepath.Join(configDir, RulesDir, gameID+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadRuleFile reads rules/<gameID>.{yaml,yml,toml} from configDir:
//
//	default_path = "BepInEx/plugins"
//	[rules]
//	plugins = "BepInEx/plugins"
//	config  = "BepInEx/config"
func LoadRuleFile(configDir, gameID string) (*domain.RuleSet, error) {
	path, ok := RuleFilePath(configDir, gameID)
	if !ok {
		return nil, ErrNoRuleFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}

	var rules domain.RuleSet
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, &rules)
	} else {
		err = yaml.Unmarshal(data, &rules)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if rules.DefaultPath == "" {
		return nil, fmt.Errorf("%w: %s has no default_path", domain.ErrInvalidConfig, filepath.Base(path))
	}

	return &rules, nil
}
