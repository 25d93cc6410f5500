package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
)

// HookContext provides environment information for hook scripts
type HookContext struct {
	GameID      string
	GamePath    string
	ProfileName string
	ProfilePath string
	ModName     string
	ModVersion  string
	HookName    string // e.g., "install.before"
}

// Env returns the BMM_* variables passed to a hook
func (hc HookContext) Env() []string {
	return []string{
		"BMM_GAME_ID=" + hc.GameID,
		"BMM_GAME_PATH=" + hc.GamePath,
		"BMM_PROFILE=" + hc.ProfileName,
		"BMM_PROFILE_PATH=" + hc.ProfilePath,
		"BMM_MOD_NAME=" + hc.ModName,
		"BMM_MOD_VERSION=" + hc.ModVersion,
		"BMM_HOOK=" + hc.HookName,
	}
}

// HookResult contains the output from running a hook
type HookResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// HookRunner executes hook scripts with timeout and environment
type HookRunner struct {
	timeout time.Duration
}

// NewHookRunner creates a new hook runner with the given timeout
func NewHookRunner(timeout time.Duration) *HookRunner {
	return &HookRunner{timeout: timeout}
}

// Run executes a hook script and returns its output
func (r *HookRunner) Run(ctx context.Context, scriptPath string, hc HookContext) (*HookResult, error) {
	result := &HookResult{}

	info, err := os.Stat(scriptPath)
	if os.IsNotExist(err) {
		return result, fmt.Errorf("hook script not found: %s", scriptPath)
	}
	if err != nil {
		return result, fmt.Errorf("checking hook script: %w", err)
	}

	if info.Mode()&0111 == 0 {
		return result, fmt.Errorf("hook script not executable: %s", scriptPath)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, scriptPath)
	cmd.WaitDelay = 100 * time.Millisecond // Allow graceful shutdown after context cancel
	cmd.Env = append(os.Environ(), hc.Env()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("hook timed out after %v: %s", r.timeout, scriptPath)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("hook failed with exit code %d: %s", result.ExitCode, scriptPath)
		}
		return result, fmt.Errorf("running hook: %w", err)
	}

	return result, nil
}

// RunPhase runs the before or after script of cfg if one is set. A nil runner is a no-op.
func (r *HookRunner) RunPhase(ctx context.Context, cfg domain.HookConfig, operation string, before bool, hc HookContext) error {
	if r == nil {
		return nil
	}
	script, phase := cfg.After, "after"
	if before {
		script, phase = cfg.Before, "before"
	}
	if script == "" {
		return nil
	}
	hc.HookName = operation + "." + phase
	if _, err := r.Run(ctx, script, hc); err != nil {
		return fmt.Errorf("%s hook failed: %w", hc.HookName, err)
	}
	return nil
}
