package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/logging"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/config"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
)

// ErrCancelled is returned when the user cancels an operation.
// When returned from a command, Execute exits with code 2.
var ErrCancelled = errors.New("cancelled")

const appDirName = "bmm"

var (
	version = "0.1.0"

	// Global flags
	configDir  string
	dataDir    string
	gameID     string
	verbosity  int
	noHooks    bool
	force      bool
	jsonOutput bool
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bmm",
	Short: "BepInEx Mod Manager - rule-driven plugin deployment",
	Long: `bmm deploys cached mod packages into isolated game profiles for
BepInEx-style mod loaders. Each package folder is routed by the game's rule
table; plugin files are enabled and disabled by renaming.

Use subcommands for operations. Run 'bmm --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: $XDG_CONFIG_HOME/bmm)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: $XDG_DATA_HOME/bmm)")
	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "", "game ID to operate on")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (repeat for debug logging)")
	rootCmd.PersistentFlags().BoolVar(&noHooks, "no-hooks", false, "disable all hooks")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "continue when a before hook fails")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list, plan, conflicts, outdated, game)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// setupLogging applies -v, falling back to log_level from config.yaml
func setupLogging(w io.Writer) {
	level := logging.Verbosity(verbosity)
	if verbosity == 0 {
		if cfg, err := config.Load(resolvedConfigDir()); err == nil && cfg.LogLevel != "" {
			level = cfg.LogLevel
		}
	}
	logging.Setup(level, w)
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"...","hint":"..."} to stdout.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			os.Exit(2)
		}
		printError(os.Stdout, os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports err and any remediation hint it carries
func printError(stdout, stderr io.Writer, err error) {
	hint := domain.HintOf(err)
	if jsonOutput {
		var partial []installJSON
		var pe *partialInstallError
		if errors.As(err, &pe) {
			partial = pe.results
		}
		_ = writeJSON(stdout, struct {
			Error     string        `json:"error"`
			Hint      string        `json:"hint,omitempty"`
			Installed []installJSON `json:"installed,omitempty"`
		}{err.Error(), hint, partial})
		return
	}
	fmt.Fprintf(stderr, "%s %v\n", styleError("Error:"), err)
	if hint != "" {
		fmt.Fprintf(stderr, "%s %s\n", styleWarning("Hint:"), hint)
	}
}

func resolvedConfigDir() string {
	if configDir != "" {
		return configDir
	}
	return filepath.Join(xdg.ConfigHome, appDirName)
}

func resolvedDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	return filepath.Join(xdg.DataHome, appDirName)
}

// getServiceConfig returns the service configuration with XDG defaults
func getServiceConfig() core.ServiceConfig {
	return core.ServiceConfig{
		ConfigDir: resolvedConfigDir(),
		DataDir:   resolvedDataDir(),
	}
}

// initService creates and initializes the core service
func initService() (*core.Service, error) {
	cfg := getServiceConfig()

	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	return core.NewService(cfg)
}

// requireGame ensures a game is specified, checking config for default if not provided
func requireGame(cmd *cobra.Command) error {
	if gameID != "" {
		return nil
	}

	cfg, err := config.Load(resolvedConfigDir())
	if err == nil && cfg.DefaultGame != "" {
		gameID = cfg.DefaultGame
		if verbosity > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Using default game: %s\n", gameID)
		}
		return nil
	}

	return fmt.Errorf("no game specified; use --game or -g flag, or set default_game in config.yaml")
}

// profileOrDefault returns the given profile name, or "default" if empty
func profileOrDefault(profile string) string {
	if profile == "" {
		return core.DefaultProfile
	}
	return profile
}
