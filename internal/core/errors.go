package core

import (
	"fmt"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
)

// DefaultAppName is used in remediation hints when no application name is configured
const DefaultAppName = "bmm"

// writeHint is the remediation shown for failed writes
func writeHint(appName string) string {
	if appName == "" {
		appName = DefaultAppName
	}
	return fmt.Sprintf("Is the game running? If so, close it and try again. Otherwise try running %s with elevated privileges.", appName)
}

func writeError(appName, action, path string, err error) error {
	return domain.NewDeployError(domain.ErrWrite, action, path, err, writeHint(appName))
}

func genericError(appName, action, path string, err error) error {
	return domain.NewDeployError(domain.ErrGeneric, action, path, err, writeHint(appName))
}
