package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/DonovanMods/bepinex-mod-manager/internal/steam"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var gameDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Find BepInEx games installed through Steam",
	Long: `Scan Steam libraries for games with a known BepInEx layout. With --add,
games not yet in games.yaml are added with their loader package.

Extend the known list with bepinex-games.yaml in the config directory:
  "1966720":
    id: lethal-company
    name: Lethal Company
    loader_package: BepInEx-BepInExPack
    loader_root: BepInExPack`,
	Args: cobra.NoArgs,
	RunE: runGameDetect,
}

var (
	detectAdd        bool
	detectSteamRoots []string
)

type detectJSON struct {
	AppID       string `json:"app_id"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	InstallPath string `json:"install_path"`
	Configured  bool   `json:"configured"`
}

func init() {
	gameDetectCmd.Flags().BoolVar(&detectAdd, "add", false, "add detected games that are not configured yet")
	gameDetectCmd.Flags().StringSliceVar(&detectSteamRoots, "steam-root", nil, "Steam installation to scan (default: standard locations)")
	gameCmd.AddCommand(gameDetectCmd)
}

func runGameDetect(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	fs := afero.NewOsFs()
	known, err := steam.LoadKnownGames(fs, svc.ConfigDir())
	if err != nil {
		return err
	}

	roots := detectSteamRoots
	if len(roots) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		roots = steam.FindSteamRoots(fs, home)
	}

	found := steam.Detect(fs, roots, known)
	items := make([]detectJSON, len(found))
	for i, d := range found {
		_, err := svc.GetGame(d.ID)
		items[i] = detectJSON{AppID: d.AppID, ID: d.ID, Name: d.Name, InstallPath: d.InstallPath, Configured: err == nil}
	}

	if detectAdd {
		for i, d := range found {
			if items[i].Configured {
				continue
			}
			if err := svc.AddGame(d.Game()); err != nil {
				return fmt.Errorf("adding game %s: %w", d.ID, err)
			}
			items[i].Configured = true
			if !jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s (%s)\n", styleSuccess("✓"), d.Name, d.ID)
			}
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, items)
	}
	if len(found) == 0 {
		fmt.Fprintln(out, "No known BepInEx games found in Steam libraries.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCONFIGURED\tPATH")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.Name, yesNo(item.Configured), item.InstallPath)
	}
	return w.Flush()
}
