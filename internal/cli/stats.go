package cli

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		s, err := report.GatherStats(conn)
		if err != nil {
			return err
		}
		report.WriteStats(cmd.OutOrStdout(), s)
		return nil
	},
}
