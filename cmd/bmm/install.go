package main

import (
	"fmt"
	"io"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"

	"github.com/spf13/cobra"
)

var (
	installProfile string
	installVersion string
	installDeps    bool
)

type installJSON struct {
	Mod       string          `json:"mod"`
	Version   string          `json:"version"`
	Profile   string          `json:"profile"`
	Loader    bool            `json:"loader"`
	Files     []string        `json:"files"`
	Conflicts []conflictEntry `json:"conflicts"`
}

type conflictEntry struct {
	Path  string `json:"path"`
	Owner string `json:"owner"`
}

// partialInstallError carries what a failed install had already deployed,
// so the JSON error report can list it.
type partialInstallError struct {
	err     error
	results []installJSON
}

func (e *partialInstallError) Error() string { return e.err.Error() }
func (e *partialInstallError) Unwrap() error { return e.err }

var installCmd = &cobra.Command{
	Use:   "install <mod>[@version]",
	Short: "Deploy a cached mod into a profile",
	Long: `Deploy a mod from the cache into a profile, routing each of its folders
through the game's rule table. The profile is created if it does not exist.
Without a version the newest cached version is used. A mod already in the
profile is removed first.

Examples:
  bmm install BepInEx-BepInExPack --game lethal-company
  bmm install Author-MoreCompany@1.7.2 --game lethal-company --profile modpack
  bmm install Author-MoreCompany --deps`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installProfile, "profile", "p", "", "profile to install to (default: default)")
	installCmd.Flags().StringVar(&installVersion, "version", "", "specific cached version to install (default: newest)")
	installCmd.Flags().BoolVar(&installDeps, "deps", false, "install the dependencies listed in the package manifest first")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	mod, err := parseModArg(args[0], installVersion)
	if err != nil {
		return err
	}
	profileName := profileOrDefault(installProfile)

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
	hc := makeHookContext(svc, game, profileName, mod)
	if err := runBeforeHook(cmd.Context(), runner, game.Hooks.Install, "install", hc, cmd.ErrOrStderr()); err != nil {
		return err
	}

	var results []*core.InstallResult
	if installDeps {
		results, err = svc.InstallWithDependencies(gameID, profileName, mod)
	} else {
		var result *core.InstallResult
		result, err = svc.InstallMod(gameID, profileName, mod)
		if result != nil {
			results = append(results, result)
		}
	}

	if jsonOutput {
		out := make([]installJSON, len(results))
		for i, r := range results {
			out[i] = toInstallJSON(r)
		}
		if err != nil {
			return &partialInstallError{err: err, results: out}
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	for _, r := range results {
		printInstallResult(cmd.OutOrStdout(), r)
	}
	if err != nil {
		return err
	}

	runAfterHook(cmd.Context(), runner, game.Hooks.Install, "install", hc, cmd.ErrOrStderr())
	return nil
}

func toInstallJSON(r *core.InstallResult) installJSON {
	out := installJSON{
		Mod:       r.Mod.Name,
		Version:   r.Mod.Version,
		Profile:   r.Profile,
		Loader:    r.Loader,
		Files:     r.Deployed,
		Conflicts: make([]conflictEntry, len(r.Conflicts)),
	}
	if out.Files == nil {
		out.Files = []string{}
	}
	for i, c := range r.Conflicts {
		out.Conflicts[i] = conflictEntry{Path: c.RelativePath, Owner: c.ModName}
	}
	return out
}

func printInstallResult(w io.Writer, r *core.InstallResult) {
	kind := "mod"
	if r.Loader {
		kind = "loader"
	}
	fmt.Fprintf(w, "%s Installed %s %s %s (%d files, profile %s)\n",
		styleSuccess("✓"), kind, r.Mod.Name, r.Mod.Version, len(r.Deployed), r.Profile)
	if verbosity > 0 {
		for _, f := range r.Deployed {
			fmt.Fprintf(w, "    %s\n", styleMuted(f))
		}
	}
	for _, c := range r.Conflicts {
		fmt.Fprintf(w, "  %s %s was owned by %s\n", styleWarning("overwrote"), c.RelativePath, c.ModName)
	}
}
