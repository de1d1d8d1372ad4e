package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/aiready/internal/config"
	"github.com/abhisek/aiready/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "aiready",
	Short: "AI readiness check",
	Long: "aiready scores an organization's answers to the AI readiness questionnaire,\n" +
		"keeps a history of diagnoses and exports them as JSON, CSV, PDF or a radar chart.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AIREADY_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./aiready.yaml)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then AIREADY_DB env var, then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv("AIREADY_DB"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}
