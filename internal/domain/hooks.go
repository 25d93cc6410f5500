package domain

// HookConfig defines scripts run around a single operation type
type HookConfig struct {
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// IsEmpty returns true if no hooks are configured
func (h HookConfig) IsEmpty() bool {
	return h.Before == "" && h.After == ""
}

// GameHooks contains all hooks for a game
type GameHooks struct {
	Install   HookConfig `yaml:"install"`
	Uninstall HookConfig `yaml:"uninstall"`
	Toggle    HookConfig `yaml:"toggle"`
}

// IsEmpty returns true if no hooks are configured
func (h GameHooks) IsEmpty() bool {
	return h.Install.IsEmpty() && h.Uninstall.IsEmpty() && h.Toggle.IsEmpty()
}
