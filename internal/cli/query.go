package cli

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a read-only SQL query against the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		return query.Run(conn, cmd.OutOrStdout(), args[0])
	},
}
