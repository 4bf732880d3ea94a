package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/report"
	"github.com/llehouerou/cratedex/internal/search"
)

var cuesCmd = &cobra.Command{
	Use:   "cues <query>",
	Short: "Show cue point details for matching tracks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		tracks, err := search.TracksForCues(conn, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(tracks) == 0 {
			fmt.Fprintf(out, "No tracks matching %q\n", args[0])
			return nil
		}

		for i := range tracks {
			cues, err := search.Cues(conn, tracks[i].ID)
			if err != nil {
				return err
			}
			report.WriteCueDetails(out, &tracks[i], cues)
		}
		return nil
	},
}
