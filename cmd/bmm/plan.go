package main

import (
	"fmt"
	"path/filepath"

	"github.com/DonovanMods/bepinex-mod-manager/internal/core"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"
)

var (
	planProfile string
	planVersion string
)

var planCmd = &cobra.Command{
	Use:   "plan <mod>[@version]",
	Short: "Show where a mod would be deployed without writing anything",
	Long: `Resolve a cached mod against the game's rule table and print the files it
would place in the profile, as a tree. Nothing in the profile is changed.
Files already owned by other mods are flagged.

Examples:
  bmm plan Author-MoreCompany --game lethal-company
  bmm plan BepInEx-BepInExPack@5.4.2100 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planProfile, "profile", "p", "", "profile to plan against (default: default)")
	planCmd.Flags().StringVar(&planVersion, "version", "", "specific cached version (default: newest)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := requireGame(cmd); err != nil {
		return err
	}
	mod, err := parseModArg(args[0], planVersion)
	if err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	plan, err := svc.Plan(gameID, profileOrDefault(planProfile), mod)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), plan)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderPlan(plan, svc.Profiles().Path(gameID, plan.Profile)))
	if len(plan.Conflicts) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d file(s) would overwrite another mod's files\n",
			styleWarning("!"), len(plan.Conflicts))
	}
	return nil
}

// renderPlan draws the planned destinations as a tree rooted at the profile
func renderPlan(plan *core.Plan, profilePath string) string {
	owners := make(map[string]string, len(plan.Conflicts))
	for _, c := range plan.Conflicts {
		owners[c.RelativePath] = c.ModName
	}

	label := fmt.Sprintf("%s %s -> %s", plan.Mod.Name, plan.Mod.Version, plan.Profile)
	if plan.Loader {
		label += " (loader)"
	}
	tree := newPathTree(label)
	for _, f := range plan.Files {
		rel, err := filepath.Rel(profilePath, f.Dst)
		if err != nil {
			rel = f.Dst
		}
		note := ""
		if owner, ok := owners[filepath.ToSlash(rel)]; ok {
			note = styleWarning(" [owned by " + owner + "]")
		}
		tree.insert(rel, note)
	}
	return tree.render()
}

// pathTree groups file paths into directory nodes
type pathTree struct {
	root gotree.Tree
	dirs map[string]gotree.Tree
}

func newPathTree(label string) pathTree {
	return pathTree{root: gotree.New(label), dirs: make(map[string]gotree.Tree)}
}

func (t pathTree) dir(path string) gotree.Tree {
	if path == "." || path == "" {
		return t.root
	}
	d, ok := t.dirs[path]
	if !ok {
		d = t.dir(filepath.Dir(path)).Add(filepath.Base(path) + "/")
		t.dirs[path] = d
	}
	return d
}

func (t pathTree) insert(path, suffix string) {
	t.dir(filepath.Dir(path)).Add(filepath.Base(path) + suffix)
}

func (t pathTree) render() string {
	return t.root.Print()
}
