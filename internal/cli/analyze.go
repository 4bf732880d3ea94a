package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Break the collection down by containing folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ok, _ := cmd.Flags().GetBool("folders"); !ok {
			return errors.New("nothing to analyze, pass --folders")
		}
		inRB, _ := cmd.Flags().GetBool("in-rekordbox")
		notInRB, _ := cmd.Flags().GetBool("not-in-rekordbox")
		if inRB && notInRB {
			return errors.New("--in-rekordbox and --not-in-rekordbox are mutually exclusive")
		}

		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		f := &report.FolderFilters{
			InRekordbox:    inRB,
			NotInRekordbox: notInRB,
		}
		f.Source, _ = cmd.Flags().GetString("source")
		f.Format, _ = cmd.Flags().GetString("format")
		f.Genre, _ = cmd.Flags().GetString("genre")
		f.Limit, _ = cmd.Flags().GetInt("limit")
		if cmd.Flags().Changed("bpm-min") {
			v, _ := cmd.Flags().GetFloat64("bpm-min")
			f.BPMMin = &v
		}
		if cmd.Flags().Changed("bpm-max") {
			v, _ := cmd.Flags().GetFloat64("bpm-max")
			f.BPMMax = &v
		}

		folders, err := report.AnalyzeFolders(conn, f)
		if err != nil {
			return err
		}
		report.WriteFolders(cmd.OutOrStdout(), folders, f)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("folders", false, "Show the per-folder track breakdown")
	analyzeCmd.Flags().Bool("in-rekordbox", false, "Only rekordbox tracks")
	analyzeCmd.Flags().Bool("not-in-rekordbox", false, "Only non-rekordbox tracks")
	analyzeCmd.Flags().StringP("source", "s", "", "Filter by source label")
	analyzeCmd.Flags().String("format", "", "Filter by file format")
	analyzeCmd.Flags().StringP("genre", "g", "", "Filter by genre")
	analyzeCmd.Flags().Float64("bpm-min", 0, "Minimum BPM")
	analyzeCmd.Flags().Float64("bpm-max", 0, "Maximum BPM")
	analyzeCmd.Flags().Int("limit", 50, "Max folders to show")
}
