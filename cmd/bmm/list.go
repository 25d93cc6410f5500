package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var listProfile string

type listJSON struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Enabled     bool      `json:"enabled"`
	Loader      bool      `json:"loader"`
	InstalledAt time.Time `json:"installed_at,omitzero"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods",
	Long: `List the mods in a profile in install order. The enabled column reflects
the plugin file names on disk.

Examples:
  bmm list --game lethal-company
  bmm list --game lethal-company --profile modpack --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listProfile, "profile", "p", "", "profile to list (default: default)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	profileName := profileOrDefault(listProfile)

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	game, err := svc.GetGame(gameID)
	if err != nil {
		return err
	}

	mods, err := svc.InstalledMods(gameID, profileName)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return fmt.Errorf("getting installed mods: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		items := make([]listJSON, len(mods))
		for i, m := range mods {
			items[i] = listJSON{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Loader: m.Loader, InstalledAt: m.InstalledAt}
		}
		return writeJSON(out, items)
	}

	if verbosity > 0 {
		fmt.Fprintf(out, "Installed mods in %s (profile: %s)\n\n", game.Name, profileName)
	}

	if len(mods) == 0 {
		fmt.Fprintln(out, "No mods installed.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tENABLED\tLOADER")
	fmt.Fprintln(w, "----\t-------\t-------\t------")
	for _, m := range mods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", truncate(m.Name, 40), m.Version, yesNo(m.Enabled), yesNo(m.Loader))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if verbosity > 0 {
		fmt.Fprintf(out, "\nTotal: %d mod(s)\n", len(mods))
	}
	return nil
}
