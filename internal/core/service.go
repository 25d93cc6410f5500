package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DonovanMods/bepinex-mod-manager/internal/domain"
	"github.com/DonovanMods/bepinex-mod-manager/internal/linker"
	"github.com/DonovanMods/bepinex-mod-manager/internal/logging"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/cache"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/config"
	"github.com/DonovanMods/bepinex-mod-manager/internal/storage/db"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// DefaultProfile is used when no profile is named
const DefaultProfile = "default"

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir string   // Directory for configuration files
	DataDir   string   // Directory for database and profiles
	CacheDir  string   // Directory for mod file cache; defaults to cache_path or <data>/cache
	DBPath    string   // Defaults to <data>/bmm.db
	Fs        afero.Fs // Filesystem for cache and profiles; defaults to the OS
}

// Service is the main orchestrator for mod management operations
type Service struct {
	fs       afero.Fs
	config   *config.Config
	db       *db.DB
	cache    *cache.Cache
	games    map[string]*domain.Game
	locks    *ProfileLocks
	profiles *ProfileManager
	logger   *log.Logger

	configDir string
	dataDir   string
	cacheDir  string
}

// InstallResult describes a completed or partially completed install
type InstallResult struct {
	Mod       domain.Mod
	Profile   string
	Loader    bool
	Deployed  []string          // Profile-relative paths written
	Conflicts []db.FileConflict // Paths taken over from other mods
}

// PlannedFile is one file a deployment would write
type PlannedFile struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// Plan is the outcome of a dry-run install
type Plan struct {
	Mod        domain.Mod         `json:"mod"`
	Profile    string             `json:"profile"`
	Loader     bool               `json:"loader"`
	Operations []linker.Operation `json:"operations"`
	Files      []PlannedFile      `json:"files"`
	Conflicts  []db.FileConflict  `json:"conflicts,omitempty"`
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	// Load configuration
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = appConfig.CachePath
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(cfg.DataDir, "cache")
	}

	// Open database
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(cfg.DataDir, "bmm.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}
	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Load games
	games, err := config.LoadGames(cfg.ConfigDir)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading games: %w", err)
	}

	locks := NewProfileLocks()
	return &Service{
		fs:        fs,
		config:    appConfig,
		db:        database,
		cache:     cache.New(fs, cacheDir),
		games:     games,
		locks:     locks,
		profiles:  NewProfileManager(fs, cfg.DataDir, database, locks),
		logger:    logging.Component("service"),
		configDir: cfg.ConfigDir,
		dataDir:   cfg.DataDir,
		cacheDir:  cacheDir,
	}, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*domain.Game, error) {
	game, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID)
	}
	return game, nil
}

// ListGames returns all configured games sorted by ID
func (s *Service) ListGames() []*domain.Game {
	games := make([]*domain.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games
}

// AddGame adds or replaces a game and persists it
func (s *Service) AddGame(game *domain.Game) error {
	if game.Rules.IsEmpty() {
		game.Rules = domain.DefaultRuleSet(game.ManagedDir())
	}
	if err := config.SaveGame(s.configDir, game); err != nil {
		return err
	}
	s.games[game.ID] = game
	return nil
}

// RemoveGame deletes a game from games.yaml. Profiles and cache are left in place.
func (s *Service) RemoveGame(gameID string) error {
	if err := config.DeleteGame(s.configDir, gameID); err != nil {
		return err
	}
	delete(s.games, gameID)
	return nil
}

// Config returns the loaded application config
func (s *Service) Config() *config.Config {
	return s.config
}

// AppName is the application name shown in remediation hints
func (s *Service) AppName() string {
	if s.config.AppName != "" {
		return s.config.AppName
	}
	return DefaultAppName
}

// GetLinker returns a linker for the given method
func (s *Service) GetLinker(method domain.LinkMethod) linker.Linker {
	return linker.New(method, s.fs)
}

// GetGameLinkMethod returns the effective link method for a game.
// Uses the game's explicit setting if configured, otherwise falls back to global default.
func (s *Service) GetGameLinkMethod(game *domain.Game) domain.LinkMethod {
	if game.LinkMethodExplicit {
		return game.LinkMethod
	}
	return s.config.DefaultLinkMethod
}

// GetInstaller returns an Installer configured for the given game
func (s *Service) GetInstaller(game *domain.Game) *Installer {
	lnk := s.GetLinker(s.GetGameLinkMethod(game))
	return NewInstaller(s.fs, s.GetGameCache(game), lnk, game, s.AppName())
}

// GetGameCachePath returns the effective cache path for a game.
// Uses the game's cache_path if configured, otherwise falls back to global cache.
func (s *Service) GetGameCachePath(game *domain.Game) string {
	if game.CachePath != "" {
		return game.CachePath
	}
	return s.cacheDir
}

// GetGameCache returns a cache manager for the specified game
func (s *Service) GetGameCache(game *domain.Game) *cache.Cache {
	if game.CachePath != "" {
		return cache.New(s.fs, game.CachePath)
	}
	return s.cache
}

// Profiles returns the profile manager
func (s *Service) Profiles() *ProfileManager {
	return s.profiles
}

// DB returns the database
func (s *Service) DB() *db.DB {
	return s.db
}

// ConfigDir returns the configuration directory
func (s *Service) ConfigDir() string {
	return s.configDir
}

// DataDir returns the data directory
func (s *Service) DataDir() string {
	return s.dataDir
}

func (s *Service) resolve(gameID, profileName string) (*domain.Game, *domain.Profile, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, nil, err
	}
	if profileName == "" {
		profileName = DefaultProfile
	}
	profile, err := s.profiles.Get(gameID, profileName)
	if err != nil {
		return nil, nil, fmt.Errorf("profile %s: %w", profileName, err)
	}
	return game, profile, nil
}

// lockProfile takes the profile's lock and loads its manifest while holding it.
// On success the caller must call unlock.
func (s *Service) lockProfile(gameID, profileName string) (*domain.Game, *domain.Profile, func(), error) {
	if profileName == "" {
		profileName = DefaultProfile
	}
	unlock := s.locks.Lock(s.profiles.Path(gameID, profileName))
	game, profile, err := s.resolve(gameID, profileName)
	if err != nil {
		unlock()
		return nil, nil, nil, err
	}
	return game, profile, unlock, nil
}

// resolveVersion fills in the newest cached version when none is given
func (s *Service) resolveVersion(game *domain.Game, mod domain.Mod) (domain.Mod, error) {
	if mod.Version != "" {
		return mod, nil
	}
	version, err := s.GetGameCache(game).Latest(game.ID, mod.Name)
	if err != nil {
		return mod, err
	}
	mod.Version = version
	return mod, nil
}

// InstallMod deploys a cached mod into a profile, creating the profile if needed.
// A mod already listed in the profile is uninstalled first. Files written before
// a failure are still recorded in the ledger.
func (s *Service) InstallMod(gameID, profileName string, mod domain.Mod) (*InstallResult, error) {
	if profileName == "" {
		profileName = DefaultProfile
	}
	if _, err := s.GetGame(gameID); err != nil {
		return nil, err
	}
	if _, err := s.profiles.Get(gameID, profileName); errors.Is(err, domain.ErrProfileNotFound) {
		if _, err := s.profiles.Create(gameID, profileName); err != nil && !errors.Is(err, domain.ErrProfileExists) {
			return nil, err
		}
	}

	game, profile, unlock, err := s.lockProfile(gameID, profileName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	mod, err = s.resolveVersion(game, mod)
	if err != nil {
		return nil, err
	}

	installer := s.GetInstaller(game)
	if i := profile.FindMod(mod.Name); i >= 0 {
		prev := domain.Mod{Name: profile.Mods[i].Name, Version: profile.Mods[i].Version}
		s.logger.Info("replacing installed mod", "mod", prev.Name, "from", prev.Version, "to", mod.Version)
		if err := installer.Uninstall(profile.Path, prev); err != nil {
			return nil, err
		}
		if err := s.db.DeleteDeployedFiles(game.ID, profile.Name, prev.Name); err != nil {
			return nil, err
		}
	}

	s.logger.Info("installing mod", "game", game.ID, "profile", profile.Name, "mod", mod.Name, "version", mod.Version)
	deployed, installErr := installer.Install(profile.Path, mod)

	result := &InstallResult{
		Mod:      mod,
		Profile:  profile.Name,
		Loader:   game.IsLoaderVariant(mod.Name),
		Deployed: relativePaths(profile.Path, deployed),
	}

	conflicts, err := s.db.CheckFileConflicts(game.ID, profile.Name, mod.Name, result.Deployed)
	if err != nil {
		return result, err
	}
	result.Conflicts = conflicts
	if err := s.db.SaveDeployedFiles(game.ID, profile.Name, mod.Name, result.Deployed); err != nil {
		return result, err
	}

	if installErr != nil {
		s.logger.Error("install failed", "mod", mod.Name, "deployed", len(deployed), "err", installErr)
		return result, installErr
	}

	installed := &domain.InstalledMod{Mod: mod, ProfileName: profile.Name, Enabled: true, Loader: result.Loader}
	if err := s.db.SaveInstalledMod(game.ID, installed); err != nil {
		return result, err
	}

	profile.UpsertMod(domain.ModReference{Name: mod.Name, Version: mod.Version, Enabled: true})
	if err := s.profiles.Save(profile); err != nil {
		return result, fmt.Errorf("updating profile manifest: %w", err)
	}
	if err := ApplyProfileOverrides(s.fs, profile); err != nil {
		return result, err
	}

	s.logger.Info("installed mod", "mod", mod.Name, "files", len(deployed), "conflicts", len(conflicts))
	return result, nil
}

// ResolveDependencies returns mod and its cached dependencies in install order
func (s *Service) ResolveDependencies(gameID string, mod domain.Mod) ([]domain.Mod, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return NewDependencyResolver(s.fs, s.GetGameCache(game), game.ID).Resolve(mod)
}

// InstallWithDependencies installs mod after every dependency its manifest lists.
// Dependencies already listed in the profile at the same or a newer version are left alone.
func (s *Service) InstallWithDependencies(gameID, profileName string, mod domain.Mod) ([]*InstallResult, error) {
	order, err := s.ResolveDependencies(gameID, mod)
	if err != nil {
		return nil, err
	}

	var current *domain.Profile
	if _, profile, err := s.resolve(gameID, profileName); err == nil {
		current = profile
	}

	var results []*InstallResult
	for i, m := range order {
		root := i == len(order)-1
		if !root && current != nil {
			if j := current.FindMod(m.Name); j >= 0 && !domain.IsNewerVersion(current.Mods[j].Version, m.Version) {
				s.logger.Debug("dependency already installed", "mod", m.Name, "version", current.Mods[j].Version)
				continue
			}
		}
		result, err := s.InstallMod(gameID, profileName, m)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			return results, fmt.Errorf("installing %s: %w", m.Name, err)
		}
	}
	return results, nil
}

// CheckUpdates lists the mods in a profile with a newer version in the cache
func (s *Service) CheckUpdates(gameID, profileName string) ([]Update, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	mods, err := s.InstalledMods(gameID, profileName)
	if err != nil {
		return nil, err
	}
	return NewUpdater(s.GetGameCache(game), game.ID).CheckUpdates(mods)
}

// UninstallMod removes a mod listed in a profile
func (s *Service) UninstallMod(gameID, profileName, modName string) error {
	game, profile, unlock, err := s.lockProfile(gameID, profileName)
	if err != nil {
		return err
	}
	defer unlock()

	i := profile.FindMod(modName)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, modName)
	}
	ref := profile.Mods[i]

	s.logger.Info("uninstalling mod", "game", game.ID, "profile", profile.Name, "mod", ref.Name)
	if err := s.GetInstaller(game).Uninstall(profile.Path, domain.Mod{Name: ref.Name, Version: ref.Version}); err != nil {
		return err
	}

	if err := s.db.DeleteDeployedFiles(game.ID, profile.Name, ref.Name); err != nil {
		return err
	}
	if err := s.db.DeleteInstalledMod(game.ID, profile.Name, ref.Name); err != nil && !errors.Is(err, domain.ErrModNotFound) {
		return err
	}

	profile.RemoveMod(ref.Name)
	if err := s.profiles.Save(profile); err != nil {
		return fmt.Errorf("updating profile manifest: %w", err)
	}
	return nil
}

// EnableMod restores a disabled mod's plugin files
func (s *Service) EnableMod(gameID, profileName, modName string) error {
	return s.SetModMode(gameID, profileName, modName, domain.ModeEnabled)
}

// DisableMod neutralizes a mod's plugin files without removing them
func (s *Service) DisableMod(gameID, profileName, modName string) error {
	return s.SetModMode(gameID, profileName, modName, domain.ModeDisabled)
}

// SetModMode renames a listed mod's plugin files to match mode
func (s *Service) SetModMode(gameID, profileName, modName string, mode domain.ModMode) error {
	game, profile, unlock, err := s.lockProfile(gameID, profileName)
	if err != nil {
		return err
	}
	defer unlock()

	i := profile.FindMod(modName)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, modName)
	}
	ref := profile.Mods[i]

	s.logger.Info("setting mode", "game", game.ID, "profile", profile.Name, "mod", ref.Name, "mode", mode)
	if err := s.GetInstaller(game).SetMode(profile.Path, domain.Mod{Name: ref.Name, Version: ref.Version}, mode); err != nil {
		return err
	}

	profile.Mods[i].Enabled = mode == domain.ModeEnabled
	if err := s.profiles.Save(profile); err != nil {
		return fmt.Errorf("updating profile manifest: %w", err)
	}
	return nil
}

// Plan resolves where a mod would be deployed without writing to the profile.
// The real installer runs over a copy-on-write overlay with a recording linker.
func (s *Service) Plan(gameID, profileName string, mod domain.Mod) (*Plan, error) {
	game, profile, err := s.resolve(gameID, profileName)
	if err != nil {
		return nil, err
	}
	mod, err = s.resolveVersion(game, mod)
	if err != nil {
		return nil, err
	}

	overlay := afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(s.fs), afero.NewMemMapFs())
	rec := linker.NewRecorder()
	installer := NewInstaller(overlay, cache.New(overlay, s.GetGameCachePath(game)), rec, game, s.AppName())
	if _, err := installer.Install(profile.Path, mod); err != nil {
		return nil, err
	}

	plan := &Plan{
		Mod:        mod,
		Profile:    profile.Name,
		Loader:     game.IsLoaderVariant(mod.Name),
		Operations: rec.Operations,
	}
	plan.Files, err = expandOperations(overlay, rec.Operations)
	if err != nil {
		return nil, err
	}

	dsts := make([]string, len(plan.Files))
	for i, f := range plan.Files {
		dsts[i] = f.Dst
	}
	plan.Conflicts, err = s.db.CheckFileConflicts(game.ID, profile.Name, mod.Name, relativePaths(profile.Path, dsts))
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// ShadowedFile is a file a listed mod ships that another mod now owns
type ShadowedFile struct {
	Path  string `json:"path"`
	Mod   string `json:"mod"`
	Owner string `json:"owner"`
}

// Conflicts re-plans every mod in a profile and reports the files each one
// would write that the ledger attributes to a different mod.
func (s *Service) Conflicts(gameID, profileName string) ([]ShadowedFile, error) {
	_, profile, err := s.resolve(gameID, profileName)
	if err != nil {
		return nil, err
	}

	var shadowed []ShadowedFile
	for _, ref := range profile.Mods {
		plan, err := s.Plan(gameID, profile.Name, domain.Mod{Name: ref.Name, Version: ref.Version})
		if errors.Is(err, domain.ErrNotCached) {
			s.logger.Warn("skipping mod missing from cache", "mod", ref.Name, "version", ref.Version)
			continue
		}
		if err != nil {
			return shadowed, fmt.Errorf("planning %s: %w", ref.Name, err)
		}
		for _, c := range plan.Conflicts {
			shadowed = append(shadowed, ShadowedFile{Path: c.RelativePath, Mod: ref.Name, Owner: c.ModName})
		}
	}
	return shadowed, nil
}

// InstalledMods lists the mods in a profile in install order. The enabled state
// comes from the plugin file names on disk; the manifest is only a fallback.
func (s *Service) InstalledMods(gameID, profileName string) ([]domain.InstalledMod, error) {
	game, profile, err := s.resolve(gameID, profileName)
	if err != nil {
		return nil, err
	}

	records, err := s.db.GetInstalledMods(game.ID, profile.Name)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]domain.InstalledMod, len(records))
	for _, r := range records {
		byName[strings.ToLower(r.Name)] = r
	}

	installer := s.GetInstaller(game)
	mods := make([]domain.InstalledMod, 0, len(profile.Mods))
	for _, ref := range profile.Mods {
		im := domain.InstalledMod{
			Mod:         domain.Mod{Name: ref.Name, Version: ref.Version},
			ProfileName: profile.Name,
			Enabled:     ref.Enabled,
			Loader:      game.IsLoaderVariant(ref.Name),
		}
		mode, found, err := installer.Mode(profile.Path, im.Mod)
		if err != nil {
			return nil, err
		}
		if found {
			im.Enabled = mode == domain.ModeEnabled
		}
		if r, ok := byName[strings.ToLower(ref.Name)]; ok {
			im.InstalledAt = r.InstalledAt
		}
		mods = append(mods, im)
	}
	return mods, nil
}

// Import places a local package into the game's cache
func (s *Service) Import(gameID, path string, mod domain.Mod) (*ImportResult, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	result, err := NewImporter(s.fs, s.GetGameCache(game)).Import(path, game, mod)
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported package", "game", game.ID, "mod", result.Mod.Name, "version", result.Mod.Version, "files", result.Files)
	return result, nil
}

// ImportProfile creates a profile from an exported manifest and installs every
// mod it lists, disabling those exported as disabled. Stops at the first failure.
func (s *Service) ImportProfile(data []byte) (*domain.Profile, error) {
	profile, wanted, err := s.profiles.Import(data)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetGame(profile.GameID); err != nil {
		return profile, err
	}

	for _, ref := range wanted {
		if _, err := s.InstallMod(profile.GameID, profile.Name, domain.Mod{Name: ref.Name, Version: ref.Version}); err != nil {
			return profile, fmt.Errorf("installing %s: %w", ref.Name, err)
		}
		if !ref.Enabled {
			if err := s.DisableMod(profile.GameID, profile.Name, ref.Name); err != nil {
				return profile, fmt.Errorf("disabling %s: %w", ref.Name, err)
			}
		}
	}

	profile, err = s.profiles.Get(profile.GameID, profile.Name)
	if err != nil {
		return nil, err
	}
	return profile, ApplyProfileOverrides(s.fs, profile)
}

// expandOperations lists every file a recorded folder placement would write
func expandOperations(fs afero.Fs, ops []linker.Operation) ([]PlannedFile, error) {
	var files []PlannedFile
	for _, op := range ops {
		if op.Kind == linker.OpFile {
			files = append(files, PlannedFile{Src: op.Src, Dst: op.Dst})
			continue
		}
		err := afero.Walk(fs, op.Src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(op.Src, path)
			if err != nil {
				return err
			}
			files = append(files, PlannedFile{Src: path, Dst: filepath.Join(op.Dst, rel)})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", op.Src, err)
		}
	}
	return files, nil
}

// relativePaths converts absolute destinations to profile-relative ledger keys
func relativePaths(root string, paths []string) []string {
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			r = p
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}
