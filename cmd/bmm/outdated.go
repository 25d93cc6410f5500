package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"
	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var updateProfile string

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List installed mods with a newer cached version",
	Long: `Compare every mod in a profile with the versions in the cache.

Examples:
  bmm outdated --game lethal-company
  bmm outdated --game lethal-company --json`,
	RunE: runOutdated,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [mod...]",
	Short: "Reinstall mods at their newest cached version",
	Long: `Reinstall outdated mods at the newest version in the cache. Without
arguments every outdated mod in the profile is upgraded.

Examples:
  bmm upgrade --game lethal-company
  bmm upgrade Author-MoreCompany --profile modpack`,
	RunE: runUpgrade,
}

func init() {
	outdatedCmd.Flags().StringVarP(&updateProfile, "profile", "p", "", "profile (default: default)")
	upgradeCmd.Flags().StringVarP(&updateProfile, "profile", "p", "", "profile (default: default)")

	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(upgradeCmd)
}

func runOutdated(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	updates, err := svc.CheckUpdates(gameID, profileOrDefault(updateProfile))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if updates == nil {
			updates = []core.Update{}
		}
		return writeJSON(out, updates)
	}

	if len(updates) == 0 {
		fmt.Fprintln(out, "All mods are up to date.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCURRENT\tLATEST")
	fmt.Fprintln(w, "----\t-------\t------")
	for _, u := range updates {
		fmt.Fprintf(w, "%s\t%s\t%s\n", truncate(u.Name, 40), u.Current, u.Latest)
	}
	return w.Flush()
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	profileName := profileOrDefault(updateProfile)

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	game, err := svc.GetGame(gameID)
	if err != nil {
		return err
	}

	updates, err := svc.CheckUpdates(gameID, profileName)
	if err != nil {
		return err
	}
	updates = filterUpdates(updates, args)
	if len(updates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to upgrade.")
		return nil
	}

	runner := getHookRunner(svc)
	for _, u := range updates {
		mod := domain.Mod{Name: u.Name, Version: u.Latest}
		hc := makeHookContext(svc, game, profileName, mod)
		if err := runBeforeHook(cmd.Context(), runner, game.Hooks.Install, "install", hc, cmd.ErrOrStderr()); err != nil {
			return err
		}
		result, err := svc.InstallMod(gameID, profileName, mod)
		if result != nil {
			printInstallResult(cmd.OutOrStdout(), result)
		}
		if err != nil {
			return fmt.Errorf("upgrading %s: %w", u.Name, err)
		}
		runAfterHook(cmd.Context(), runner, game.Hooks.Install, "install", hc, cmd.ErrOrStderr())
	}
	return nil
}

// filterUpdates keeps the updates for the named mods; no names keeps all
func filterUpdates(updates []core.Update, names []string) []core.Update {
	if len(names) == 0 {
		return updates
	}
	var kept []core.Update
	for _, u := range updates {
		for _, n := range names {
			if (domain.Mod{Name: u.Name}).Is(n) {
				kept = append(kept, u)
				break
			}
		}
	}
	return kept
}
