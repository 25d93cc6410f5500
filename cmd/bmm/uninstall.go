package main

import (
	"fmt"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var uninstallProfile string

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <mod>",
	Short: "Remove a mod from a profile",
	Long: `Remove a mod's folders from every loader-managed directory of a profile.
Removing the mod loader itself also deletes the files it placed at the
profile root.

Examples:
  bmm uninstall Author-MoreCompany --game lethal-company
  bmm uninstall BepInEx-BepInExPack --game lethal-company --profile modpack`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().StringVarP(&uninstallProfile, "profile", "p", "", "profile to uninstall from (default: default)")

	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	modName := args[0]
	profileName := profileOrDefault(uninstallProfile)

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
	if err := runBeforeHook(cmd.Context(), runner, game.Hooks.Uninstall, "uninstall", hc, cmd.ErrOrStderr()); err != nil {
		return err
	}

	if err := svc.UninstallMod(gameID, profileName, modName); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Uninstalled %s from profile %s\n", styleSuccess("✓"), modName, profileName)

	runAfterHook(cmd.Context(), runner, game.Hooks.Uninstall, "uninstall", hc, cmd.ErrOrStderr())
	return nil
}
