package main

import (
	"fmt"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var toggleProfile string

var enableCmd = &cobra.Command{
	Use:   "enable <mod>",
	Short: "Enable a disabled mod",
	Long: `Enable a mod by restoring the names of its plugin files.

Examples:
  bmm enable Author-MoreCompany --game lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args[0], domain.ModeEnabled)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <mod>",
	Short: "Disable a mod without removing it",
	Long: `Disable a mod by appending .old to its plugin files so the loader skips them.
Configuration and other files are left untouched.

Examples:
  bmm disable Author-MoreCompany --game lethal-company --profile modpack`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args[0], domain.ModeDisabled)
	},
}

func init() {
	enableCmd.Flags().StringVarP(&toggleProfile, "profile", "p", "", "profile (default: default)")
	disableCmd.Flags().StringVarP(&toggleProfile, "profile", "p", "", "profile (default: default)")

	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runToggle(cmd *cobra.Command, modName string, mode domain.ModMode) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	profileName := profileOrDefault(toggleProfile)

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	game, err := svc.GetGame(gameID)
	if err != nil {
		return err
	}

	runner := getHookRunner(svc)
	hc := makeHookContext(svc, game, profileName, domain.Mod{Name: modName})
	if err := runBeforeHook(cmd.Context(), runner, game.Hooks.Toggle, "toggle", hc, cmd.ErrOrStderr()); err != nil {
		return err
	}

	if err := svc.SetModMode(gameID, profileName, modName, mode); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", styleSuccess("✓"), modName, mode)

	runAfterHook(cmd.Context(), runner, game.Hooks.Toggle, "toggle", hc, cmd.ErrOrStderr())
	return nil
}
