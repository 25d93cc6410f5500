package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Game management commands",
	Long:  `Commands for inspecting game configurations from games.yaml.`,
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured games",
	Args:  cobra.NoArgs,
	RunE:  runGameList,
}

var gameShowCmd = &cobra.Command{
	Use:   "show [game-id]",
	Short: "Show a game's loader layout and rule table",
	Long: `Show where a game's mods are routed: the loader-managed directory, the
folder rule table, the default destination and the loader packages.

Examples:
  bmm game show lethal-company`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGameShow,
}

var gameSetDefaultCmd = &cobra.Command{
	Use:   "set-default <game-id>",
	Short: "Set the default game",
	Long: `Set the default game so you don't have to specify --game for every command.

Example:
  bmm game set-default lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: runGameSetDefault,
}

var gameAddCmd = &cobra.Command{
	Use:   "add <game-id>",
	Short: "Add or replace a game in games.yaml",
	Long: `Add a game using the built-in BepInEx rule table. Edit games.yaml or drop
a rules/<game-id>.yaml file into the config directory to customize routing.

Example:
  bmm game add lethal-company --name "Lethal Company" --loader-package BepInEx-BepInExPack`,
	Args: cobra.ExactArgs(1),
	RunE: runGameAdd,
}

var gameRemoveCmd = &cobra.Command{
	Use:   "remove <game-id>",
	Short: "Remove a game from games.yaml",
	Long:  `Remove a game's configuration. Its profiles and cached packages are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGameRemove,
}

var (
	gameAddName        string
	gameAddInstallPath string
	gameAddLoaderDir   string
	gameAddLinkMethod  string
	gameAddLoaderPkg   string
	gameAddLoaderRoot  string
)

type gameJSON struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	InstallPath    string                 `json:"install_path,omitempty"`
	LoaderDir      string                 `json:"loader_dir"`
	LinkMethod     string                 `json:"link_method"`
	Rules          map[string]string      `json:"rules"`
	DefaultPath    string                 `json:"default_path"`
	LoaderVariants []domain.LoaderVariant `json:"loader_variants"`
}

func init() {
	gameAddCmd.Flags().StringVar(&gameAddName, "name", "", "display name (default: the game ID)")
	gameAddCmd.Flags().StringVar(&gameAddInstallPath, "install-path", "", "game installation directory")
	gameAddCmd.Flags().StringVar(&gameAddLoaderDir, "loader-dir", domain.DefaultLoaderDir, "loader-managed directory inside each profile")
	gameAddCmd.Flags().StringVar(&gameAddLinkMethod, "link-method", "", "copy or symlink (default: config default)")
	gameAddCmd.Flags().StringVar(&gameAddLoaderPkg, "loader-package", "", "package name of the mod loader, e.g. BepInEx-BepInExPack")
	gameAddCmd.Flags().StringVar(&gameAddLoaderRoot, "loader-root", "BepInExPack", "folder inside the loader package holding the profile root files")

	gameCmd.AddCommand(gameListCmd)
	gameCmd.AddCommand(gameShowCmd)
	gameCmd.AddCommand(gameSetDefaultCmd)
	gameCmd.AddCommand(gameAddCmd)
	gameCmd.AddCommand(gameRemoveCmd)
	rootCmd.AddCommand(gameCmd)
}

func runGameList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	games := svc.ListGames()
	out := cmd.OutOrStdout()
	if jsonOutput {
		items := make([]gameJSON, len(games))
		for i, g := range games {
			items[i] = toGameJSON(g, svc.GetGameLinkMethod(g))
		}
		return writeJSON(out, items)
	}

	if len(games) == 0 {
		fmt.Fprintf(out, "No games configured. Add one with 'bmm game add' or edit %s.\n", filepath.Join(svc.ConfigDir(), "games.yaml"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOADER DIR\tLINK")
	fmt.Fprintln(w, "--\t----\t----------\t----")
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.ID, g.Name, g.ManagedDir(), svc.GetGameLinkMethod(g))
	}
	return w.Flush()
}

func runGameShow(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		gameID = args[0]
	}
	if err := requireGame(cmd); err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	game, err := svc.GetGame(gameID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	g := toGameJSON(game, svc.GetGameLinkMethod(game))
	if jsonOutput {
		return writeJSON(out, g)
	}

	fmt.Fprintf(out, "%s (%s)\n", styleHeader(g.Name), g.ID)
	if g.InstallPath != "" {
		fmt.Fprintf(out, "  Install path: %s\n", g.InstallPath)
	}
	fmt.Fprintf(out, "  Loader dir:   %s\n", g.LoaderDir)
	fmt.Fprintf(out, "  Link method:  %s\n", g.LinkMethod)
	fmt.Fprintf(out, "  Cache:        %s\n", svc.GetGameCachePath(game))
	fmt.Fprintln(out)

	folders := make([]string, 0, len(g.Rules))
	for folder := range g.Rules {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  FOLDER\tDESTINATION")
	for _, folder := range folders {
		fmt.Fprintf(w, "  %s\t%s\n", folder, g.Rules[folder])
	}
	fmt.Fprintf(w, "  %s\t%s\n", styleMuted("(default)"), g.DefaultPath)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(g.LoaderVariants) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Loader packages:")
		for _, v := range g.LoaderVariants {
			fmt.Fprintf(out, "    %s (root folder %s)\n", v.PackageName, v.RootFolder)
		}
	}
	return nil
}

func runGameSetDefault(cmd *cobra.Command, args []string) error {
	newDefault := args[0]

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	game, err := svc.GetGame(newDefault)
	if err != nil {
		return err
	}

	cfg := svc.Config()
	cfg.DefaultGame = newDefault
	if err := cfg.Save(svc.ConfigDir()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Default game set to: %s (%s)\n", game.Name, newDefault)
	return nil
}

func toGameJSON(g *domain.Game, method domain.LinkMethod) gameJSON {
	return gameJSON{
		ID:             g.ID,
		Name:           g.Name,
		InstallPath:    g.InstallPath,
		LoaderDir:      g.ManagedDir(),
		LinkMethod:     method.String(),
		Rules:          g.Rules.Rules,
		DefaultPath:    g.Rules.DefaultPath,
		LoaderVariants: g.LoaderVariants,
	}
}

func runGameAdd(cmd *cobra.Command, args []string) error {
	game := &domain.Game{
		ID:          args[0],
		Name:        gameAddName,
		InstallPath: gameAddInstallPath,
		LoaderDir:   gameAddLoaderDir,
	}
	if game.Name == "" {
		game.Name = game.ID
	}
	if gameAddLinkMethod != "" {
		game.LinkMethod = domain.ParseLinkMethod(gameAddLinkMethod)
		game.LinkMethodExplicit = true
	}
	if gameAddLoaderPkg != "" {
		game.LoaderVariants = []domain.LoaderVariant{{PackageName: gameAddLoaderPkg, RootFolder: gameAddLoaderRoot}}
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.AddGame(game); err != nil {
		return fmt.Errorf("adding game: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s (%s)\n", styleSuccess("✓"), game.Name, game.ID)
	return nil
}

func runGameRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.RemoveGame(args[0]); err != nil {
		return fmt.Errorf("removing game %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", styleSuccess("✓"), args[0])
	return nil
}
