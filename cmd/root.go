package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/config"
	"github.com/examprep/examprep/internal/store"
)

// cfg is loaded before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "examprep",
	Short: "Exam study companion",
	Long:  "examprep imports exam question banks, runs multiple-choice practice in the terminal and plans study weeks around your weakest subjects.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides EXAMPREP_DB env var)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/examprep/config.yaml)")
	pf.StringP("user", "u", "", "Profile whose history and plans are used")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(tipsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		c.User = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		c.LogLevel = v
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file and EXAMPREP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
