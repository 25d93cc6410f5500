package main

import (
	"fmt"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"

	"github.com/spf13/cobra"
)

var conflictsProfile string

type conflictsJSONOutput struct {
	GameID    string              `json:"game_id"`
	Profile   string              `json:"profile"`
	Conflicts []core.ShadowedFile `json:"conflicts"`
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Show files in a profile that one mod overwrote for another",
	Long: `Display all file conflicts in a profile.

A conflict is a file that a mod ships but that was last written by a
different mod. The mod listed as "owner" is the one whose copy is deployed.

Examples:
  bmm conflicts --game lethal-company
  bmm conflicts --game lethal-company --profile modpack`,
	RunE: runConflicts,
}

func init() {
	conflictsCmd.Flags().StringVarP(&conflictsProfile, "profile", "p", "", "profile (default: default)")

	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	profileName := profileOrDefault(conflictsProfile)

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	conflicts, err := svc.Conflicts(gameID, profileName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if conflicts == nil {
			conflicts = []core.ShadowedFile{}
		}
		return writeJSON(out, conflictsJSONOutput{GameID: gameID, Profile: profileName, Conflicts: conflicts})
	}

	if len(conflicts) == 0 {
		fmt.Fprintln(out, "No conflicts found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d conflicting file(s):\n\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(out, "  %s\n", c.Path)
		fmt.Fprintf(out, "    Owner: %s\n", c.Owner)
		fmt.Fprintf(out, "    Also in: %s\n\n", c.Mod)
	}
	return nil
}
