package main

import (
	"fmt"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var (
	importName    string
	importVersion string
	importInstall bool
	importProfile string
)

var importCmd = &cobra.Command{
	Use:   "import <dir|zip>",
	Short: "Add a local package to the mod cache",
	Long: `Copy a package directory or extract a .zip archive into the mod cache.

Name and version are taken from Thunderstore-style file names
("Author-Name-1.2.3.zip") unless given explicitly.

Examples:
  bmm import ./BepInEx-BepInExPack-5.4.2100.zip --game lethal-company
  bmm import ./my-mod --name Me-MyMod --version 0.1.0 --install`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "mod name (default: parsed from the file name)")
	importCmd.Flags().StringVar(&importVersion, "version", "", "mod version (default: parsed from the file name)")
	importCmd.Flags().BoolVar(&importInstall, "install", false, "install the package after importing it")
	importCmd.Flags().StringVarP(&importProfile, "profile", "p", "", "profile to install to with --install (default: default)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	result, err := svc.Import(gameID, args[0], domain.Mod{Name: importName, Version: importVersion})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Cached %s %s (%d files)\n",
		styleSuccess("✓"), result.Mod.Name, result.Mod.Version, result.Files)

	if !importInstall {
		return nil
	}
	installed, err := svc.InstallMod(gameID, profileOrDefault(importProfile), result.Mod)
	if installed != nil {
		printInstallResult(cmd.OutOrStdout(), installed)
	}
	return err
}
