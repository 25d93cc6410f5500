package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var profileDeleteYes bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mod profiles",
	Long: `Manage mod profiles. Each profile is a self-contained directory with its
own loader and mods, so different mod sets for the same game never mix.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Long: `List all profiles for the specified game.

Examples:
  bmm profile list --game lethal-company`,
	RunE: runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Long: `Create a new empty profile for the specified game.

Examples:
  bmm profile create modpack --game lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileCreate,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Long: `Delete a profile directory together with everything deployed into it.

Examples:
  bmm profile delete old-pack --game lethal-company --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileDelete,
}

var profileExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a profile",
	Long: `Export a profile's manifest to a portable YAML file.

Examples:
  bmm profile export modpack --game lethal-company > modpack.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileExport,
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a profile",
	Long: `Create a profile from an exported manifest and install every mod it lists
from the cache. Mods exported as disabled are disabled again.

Examples:
  bmm profile import modpack.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileImport,
}

func init() {
	profileDeleteCmd.Flags().BoolVarP(&profileDeleteYes, "yes", "y", false, "delete without asking")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)

	rootCmd.AddCommand(profileCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	profiles, err := svc.Profiles().List(gameID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		type profileJSON struct {
			Name string `json:"name"`
			Path string `json:"path"`
			Mods int    `json:"mods"`
		}
		items := make([]profileJSON, len(profiles))
		for i, p := range profiles {
			items[i] = profileJSON{Name: p.Name, Path: p.Path, Mods: len(p.Mods)}
		}
		return writeJSON(out, items)
	}

	if len(profiles) == 0 {
		fmt.Fprintln(out, "No profiles found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODS\tPATH")
	fmt.Fprintln(w, "----\t----\t----")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.Name, len(p.Mods), p.Path)
	}
	return w.Flush()
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if _, err := svc.GetGame(gameID); err != nil {
		return err
	}
	profile, err := svc.Profiles().Create(gameID, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created profile %s at %s\n", styleSuccess("✓"), profile.Name, profile.Path)
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	name := args[0]

	if !profileDeleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete profile %s and every mod deployed in it? [y/N]: ", name)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			return ErrCancelled
		}
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.Profiles().Delete(gameID, name); err != nil {
		return fmt.Errorf("deleting profile %s: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted profile %s\n", styleSuccess("✓"), name)
	return nil
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	data, err := svc.Profiles().Export(gameID, args[0])
	if err != nil {
		return fmt.Errorf("exporting profile %s: %w", args[0], err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	profile, err := svc.ImportProfile(data)
	if err != nil {
		return fmt.Errorf("importing profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Imported profile %s for %s (%d mods)\n",
		styleSuccess("✓"), profile.Name, profile.GameID, len(profile.Mods))
	return nil
}
