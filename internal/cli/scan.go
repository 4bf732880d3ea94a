package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/index"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Scan a directory tree and index its audio files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")

		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		scanner := index.NewScanner(conn, cmd.OutOrStdout())
		res, err := scanner.Scan(args[0], label)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d track(s), skipped %d\n", res.Indexed, res.Skipped)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringP("label", "l", "", "Source label recorded for every indexed track (e.g. USB1)")
	scanCmd.MarkFlagRequired("label")
}
