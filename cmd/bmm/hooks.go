package main

import (
	"context"
	"fmt"
	"io"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
)

// getHookRunner returns a HookRunner if hooks are enabled (respects --no-hooks flag)
func getHookRunner(svc *core.Service) *core.HookRunner {
	if noHooks {
		return nil
	}
	return core.NewHookRunner(svc.Config().HookTimeout)
}

// makeHookContext creates a HookContext for one mod operation
func makeHookContext(svc *core.Service, game *domain.Game, profileName string, mod domain.Mod) core.HookContext {
	return core.HookContext{
		GameID:      game.ID,
		GamePath:    game.InstallPath,
		ProfileName: profileName,
		ProfilePath: svc.Profiles().Path(game.ID, profileName),
		ModName:     mod.Name,
		ModVersion:  mod.Version,
	}
}

// runBeforeHook aborts the operation on failure unless --force is set
func runBeforeHook(ctx context.Context, runner *core.HookRunner, cfg domain.HookConfig, operation string, hc core.HookContext, stderr io.Writer) error {
	err := runner.RunPhase(ctx, cfg, operation, true, hc)
	if err == nil {
		return nil
	}
	if !force {
		return fmt.Errorf("%w (use --force to continue anyway)", err)
	}
	fmt.Fprintf(stderr, "%s %v\n", styleWarning("Warning:"), err)
	return nil
}

// runAfterHook reports failures without failing the completed operation
func runAfterHook(ctx context.Context, runner *core.HookRunner, cfg domain.HookConfig, operation string, hc core.HookContext, stderr io.Writer) {
	if err := runner.RunPhase(ctx, cfg, operation, false, hc); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", styleWarning("Warning:"), err)
	}
}
