// Package cli wires the cratedex commands together.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/config"
	"github.com/llehouerou/cratedex/internal/db"
)

var rootCmd = &cobra.Command{
	Use:           "cratedex",
	Short:         "Index and search a DJ music collection",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// openDB loads the configuration and opens the index database. The --db
// flag overrides the configured path.
func openDB(cmd *cobra.Command) (*sql.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path, err = cfg.DatabasePath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving database path: %w", err)
		}
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return conn, cfg, nil
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the index database (overrides config)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(importXMLCmd)
	rootCmd.AddCommand(importUSBCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cuesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(exportPlaylistsCmd)
	rootCmd.AddCommand(queryCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
