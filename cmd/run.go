package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/careertree/internal/app"
	"github.com/abhisek/careertree/internal/config"
	"github.com/abhisek/careertree/internal/llm"
	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/store"
	"github.com/abhisek/careertree/internal/tracker"
)

// env is everything a command needs to act for one user.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	tracker *tracker.Tracker
	dbPath  string
}

func (e *env) user() string { return e.cfg.User.ID }

func (e *env) Close() error { return e.store.Close() }

// openEnv loads config, opens the store and builds the tracker. Logs go
// to logOut. Callers must Close the env.
func openEnv(cmd *cobra.Command, logOut io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := cfg.Log.NewLogger(logOut)
	slog.SetDefault(logger)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	var base *skilltree.Catalog
	if cfg.Catalog.Path != "" {
		base, err = skilltree.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{cfg: cfg, logger: logger, store: st, dbPath: dbPath}
	e.tracker = tracker.New(tracker.Config{
		Base:      base,
		Progress:  st.ProgressRepo(),
		Catalogs:  st.CatalogRepo(),
		Events:    st.EventRepo(),
		Generator: newGenerator(cmd.Context(), cfg.LLM, st.EventRepo(), logger),
		Options:   tracker.Options{AllowLocked: cfg.Progress.AllowLockedCompletion},
		Logger:    logger,
	})
	return e, nil
}

// newGenerator returns nil when no provider key is configured, which
// turns personalization off rather than failing every command.
func newGenerator(ctx context.Context, cfg llm.Config, events store.EventRepo, logger *slog.Logger) *personalize.Generator {
	if !cfg.HasKey() {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			logger.Debug("no LLM provider configured; personalization disabled")
			return nil
		}
		discovered.Retry = cfg.Retry
		discovered.Timeout = cfg.Timeout
		cfg = discovered
	}

	provider, err := llm.NewProvider(ctx, cfg, events, logger)
	if err != nil {
		logger.Warn("LLM provider unavailable; personalization disabled", "provider", cfg.Provider, "error", err)
		return nil
	}

	gcfg := personalize.DefaultConfig()
	gcfg.Timeout = cfg.Timeout
	return personalize.NewGenerator(llm.WithRetry(provider, cfg.Retry), gcfg)
}

// runApp opens the store, builds dependencies, and launches the TUI. The
// TUI owns the terminal, so logs go to a file beside the database.
func runApp(cmd *cobra.Command) error {
	logFile, err := openLogFile(cmd)
	if err != nil {
		return err
	}
	defer logFile.Close()

	e, err := openEnv(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(cmd.Context(), app.Options{
		Tracker: e.tracker,
		UserID:  e.user(),
		Logger:  e.logger,
	})
}

func openLogFile(cmd *cobra.Command) (*os.File, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	path := filepath.Join(filepath.Dir(dbPath), "careertree.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
