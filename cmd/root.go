package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/careertree/internal/config"
	"github.com/abhisek/careertree/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "careertree",
	Short: "Career skill tree and progression tracker",
	Long: "careertree maps a career as a tree of skills, tracks which ones you have completed, " +
		"and can extend the tree with an AI-recommended path from a short questionnaire.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/careertree/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CAREERTREE_DB env var)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "User to act for (overrides user.id)")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(personalizeCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config (or the default
// path), applies environment overrides and then the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.User.ID = u
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then database.path (which CAREERTREE_DB overrides), then the default XDG
// path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}
