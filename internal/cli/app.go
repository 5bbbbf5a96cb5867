// Package cli wires dimmer's adapters together for the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/application/usecase"
	"github.com/bnema/dimmer/internal/cli/styles"
	"github.com/bnema/dimmer/internal/domain/build"
	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/infrastructure/colorscheme"
	"github.com/bnema/dimmer/internal/infrastructure/config"
	"github.com/bnema/dimmer/internal/infrastructure/persistence/memory"
	"github.com/bnema/dimmer/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/dimmer/internal/infrastructure/persistence/tomlfile"
	"github.com/bnema/dimmer/internal/infrastructure/rootflag"
	"github.com/bnema/dimmer/internal/logging"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	// ConfigFile replaces the XDG config location.
	ConfigFile string
	// Ephemeral keeps the preference in memory for this process only.
	Ephemeral bool
}

// StoreInfo describes the preference backend actually in use.
type StoreInfo struct {
	Backend config.StoreBackend
	Path    string
	// Fallback is true when the configured backend could not be opened.
	Fallback bool
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	BuildInfo build.Info

	// RootFlag mirrors the applied root visual flag in-process.
	RootFlag *rootflag.Memory
	// RootFlagPath is the state file written on every change, empty if disabled.
	RootFlagPath string

	opts Options

	// Context with logger
	ctx context.Context

	initOnce   sync.Once
	themeOnce  sync.Once
	theme      *styles.Theme
	store      port.KeyValueStore
	storeInfo  StoreInfo
	lazyDB     *sqlite.LazyDB
	stateFile  *rootflag.StateFile
	portal     *colorscheme.PortalDetector
	signal     *colorscheme.Signal
	controller *usecase.ThemeController
}

// NewApp loads the configuration and logger. Stores and detectors are
// opened on first use.
func NewApp(opts Options) (*App, error) {
	mgr, cfg, loadErr := loadConfig(opts.ConfigFile)
	// An explicit config file that exists but does not load is fatal.
	if loadErr != nil && opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err == nil {
			return nil, fmt.Errorf("load config %s: %w", opts.ConfigFile, loadErr)
		}
	}

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	// Several dimmer processes can share one store; the pid tells them apart.
	ctx := logging.With(logging.WithContext(context.Background(), logger), map[string]any{"pid": os.Getpid()})
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("failed to load config, using defaults")
	}

	return &App{
		Config:    cfg,
		ConfigMgr: mgr,
		RootFlag:  rootflag.NewMemory(),
		opts:      opts,
		ctx:       ctx,
	}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Theme returns the output styles for the mode dimmer resolves, built on
// first call. Resolving reads the store and the signal but never applies
// the root flag.
func (a *App) Theme() *styles.Theme {
	a.themeOnce.Do(func() {
		mode := a.Controller().Resolver().Resolve(a.ctx).Mode
		a.theme = styles.NewTheme(mode)
	})
	return a.theme
}

// Controller returns the theme controller, opening the store and the
// system signal on first call.
func (a *App) Controller() *usecase.ThemeController {
	a.init()
	return a.controller
}

// Signal returns the system color scheme signal.
func (a *App) Signal() *colorscheme.Signal {
	a.init()
	return a.signal
}

// StoreInfo returns the preference backend in use.
func (a *App) StoreInfo() StoreInfo {
	a.init()
	return a.storeInfo
}

// RootClass returns the published root class, "" if none was applied yet.
// The state file wins over the in-process flag so changes made by other
// dimmer processes show up.
func (a *App) RootClass() string {
	a.init()
	if a.stateFile != nil {
		if class, err := a.stateFile.ReadClass(); err == nil && class != "" {
			return class
		}
	}
	if dark, set := a.RootFlag.Dark(); set {
		return string(entity.ModeFromDark(dark))
	}
	return ""
}

// StoreValues returns the raw persisted keys.
func (a *App) StoreValues(ctx context.Context) (map[string]string, error) {
	a.init()
	if store, ok := a.store.(*memory.Store); ok {
		return store.Snapshot(), nil
	}

	if a.lazyDB != nil && a.storeInfo.Backend == config.StoreBackendSQLite {
		db, err := a.lazyDB.DB(ctx)
		if err != nil {
			return nil, err
		}
		return sqlite.ListPreferences(ctx, db)
	}

	values := make(map[string]string)
	for _, key := range []string{entity.KeyTheme, entity.KeyDarkMode} {
		value, ok, err := a.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			values[key] = value
		}
	}
	return values, nil
}

// SchemaVersion returns the SQLite schema version, false for other backends.
func (a *App) SchemaVersion(ctx context.Context) (int64, bool) {
	a.init()
	if a.lazyDB == nil || !a.lazyDB.IsInitialized() || a.storeInfo.Backend != config.StoreBackendSQLite {
		return 0, false
	}
	db, err := a.lazyDB.DB(ctx)
	if err != nil {
		return 0, false
	}
	version, err := sqlite.GetMigrationStatus(ctx, db)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("failed to read schema version")
		return 0, false
	}
	return version, true
}

// WatchConfig reloads the config file on change and re-reads the system
// signal so a new override takes effect immediately.
func (a *App) WatchConfig() {
	if a.ConfigMgr == nil || a.ConfigMgr.GetConfigFile() == "" {
		return
	}
	log := logging.FromContext(a.ctx)

	a.ConfigMgr.OnConfigChange(func(cfg *config.Config) {
		log.Info().Str("override", cfg.Signal.Override).Msg("config reloaded")
		a.Signal().Refresh(a.ctx)
	})
	if err := a.ConfigMgr.Watch(); err != nil {
		log.Warn().Err(err).Msg("failed to watch config file")
	}
}

// Close releases all resources.
func (a *App) Close() error {
	if a.controller != nil {
		a.controller.Close()
	}

	var errs []error
	if a.signal != nil {
		errs = append(errs, a.signal.Close())
	}
	if a.portal != nil {
		errs = append(errs, a.portal.Close())
	}
	if a.lazyDB != nil {
		errs = append(errs, a.lazyDB.Close())
	}
	return errors.Join(errs...)
}

func (a *App) init() {
	a.initOnce.Do(func() {
		ctx := logging.WithComponent(a.ctx, "app")

		a.store, a.storeInfo = a.openStore(ctx)
		a.signal = a.buildSignal(ctx)

		flag := rootflag.Multi{a.RootFlag}
		if a.Config.RootFlag.Enabled && a.Config.RootFlag.Path != "" && !a.opts.Ephemeral {
			a.stateFile = rootflag.NewStateFile(a.Config.RootFlag.Path)
			a.RootFlagPath = a.stateFile.Path()
			flag = append(flag, a.stateFile)
		}

		a.controller = usecase.NewThemeController(usecase.NewPreferenceStore(a.store), a.signal, flag)
	})
}

// openStore opens the configured backend, falling back to memory when it
// cannot be used so the theme still resolves.
func (a *App) openStore(ctx context.Context) (port.KeyValueStore, StoreInfo) {
	log := logging.FromContext(ctx)
	sc := a.Config.Store

	if a.opts.Ephemeral || sc.Backend == config.StoreBackendMemory {
		return memory.NewStore(nil), StoreInfo{Backend: config.StoreBackendMemory}
	}

	info := StoreInfo{Backend: sc.Backend, Path: sc.Path}
	var (
		store port.KeyValueStore
		err   error
	)
	switch sc.Backend {
	case config.StoreBackendTOML:
		store, err = openTOMLStore(ctx, sc.Path)
	default:
		a.lazyDB = sqlite.NewLazyDB(sc.Path)
		store, err = sqlite.NewLazyPreferenceRepository(a.lazyDB), a.probeDB(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Str("backend", string(sc.Backend)).Str("path", sc.Path).
			Msg("preference store unavailable, keeping preferences in memory")
		return memory.NewStore(nil), StoreInfo{Backend: config.StoreBackendMemory, Fallback: true}
	}

	log.Debug().Str("backend", string(info.Backend)).Str("path", info.Path).Msg("preference store opened")
	return store, info
}

func (a *App) probeDB(ctx context.Context) error {
	if _, err := a.lazyDB.DB(ctx); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	return nil
}

func openTOMLStore(ctx context.Context, path string) (port.KeyValueStore, error) {
	store, err := tomlfile.NewStore(path)
	if err != nil {
		return nil, err
	}
	if _, _, err := store.Get(ctx, entity.KeyTheme); err != nil {
		return nil, fmt.Errorf("read preferences file: %w", err)
	}
	return store, nil
}

// buildSignal assembles the enabled detectors in priority order.
func (a *App) buildSignal(ctx context.Context) *colorscheme.Signal {
	sc := a.Config.Signal

	var detectors []port.ColorSchemeDetector
	if sc.DetectorEnabled(config.DetectorOverride) {
		detectors = append(detectors, colorscheme.NewOverrideDetector(colorscheme.NewConfigAdapter(a.ConfigMgr)))
	}
	if sc.DetectorEnabled(config.DetectorPortal) {
		a.portal = colorscheme.NewPortalDetector(ctx)
		detectors = append(detectors, a.portal)
	}
	if sc.DetectorEnabled(config.DetectorFile) && sc.File != "" {
		detectors = append(detectors, colorscheme.NewFileDetector(sc.File))
	}
	if sc.DetectorEnabled(config.DetectorEnv) {
		detectors = append(detectors, colorscheme.NewEnvDetector())
	}
	if sc.DetectorEnabled(config.DetectorGsettings) {
		detectors = append(detectors, colorscheme.NewGsettingsDetector())
	}
	if sc.DetectorEnabled(config.DetectorTerminal) {
		detectors = append(detectors, colorscheme.NewTerminalDetector())
	}

	logging.FromContext(ctx).Debug().Int("detectors", len(detectors)).Msg("system color scheme signal configured")

	return colorscheme.NewSignal(detectors, colorscheme.WithPollInterval(time.Duration(sc.PollIntervalMs)*time.Millisecond))
}

// loadConfig loads configuration from standard locations. Errors are
// returned alongside defaults so callers can decide whether to continue.
func loadConfig(path string) (*config.Manager, *config.Config, error) {
	mgr, err := config.NewManager(config.WithConfigFile(path))
	if err != nil {
		return nil, config.DefaultConfig(), err
	}
	if err := mgr.Load(); err != nil {
		return mgr, config.DefaultConfig(), err
	}
	return mgr, mgr.Get(), nil
}
