package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/config"
	"github.com/llehouerou/cratedex/internal/export"
	"github.com/llehouerou/cratedex/internal/report"
	"github.com/llehouerou/cratedex/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index with filters and special modes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inRB, _ := cmd.Flags().GetBool("in-rekordbox")
		notInRB, _ := cmd.Flags().GetBool("not-in-rekordbox")
		if inRB && notInRB {
			return errors.New("--in-rekordbox and --not-in-rekordbox are mutually exclusive")
		}

		conn, cfg, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		out := cmd.OutOrStdout()
		limit, _ := cmd.Flags().GetInt("limit")
		if !cmd.Flags().Changed("limit") {
			limit = cfg.DefaultLimit
		}

		// Special modes short-circuit the filter search.
		if ok, _ := cmd.Flags().GetBool("playlists"); ok {
			playlists, err := search.Playlists(conn)
			if err != nil {
				return err
			}
			report.WritePlaylists(out, playlists)
			return nil
		}
		if ok, _ := cmd.Flags().GetBool("duplicates"); ok {
			groups, err := search.Duplicates(conn)
			if err != nil {
				return err
			}
			report.WriteDuplicates(out, groups)
			return nil
		}
		if pattern, _ := cmd.Flags().GetString("playlist"); pattern != "" {
			fieldRegex, _ := cmd.Flags().GetBool("re")
			sections, err := search.PlaylistTracks(conn, pattern, fieldRegex)
			if err != nil {
				return err
			}
			report.WritePlaylistSections(out, sections)
			return nil
		}
		if ok, _ := cmd.Flags().GetBool("no-cues"); ok {
			rows, err := search.NoCues(conn, limit)
			if err != nil {
				return err
			}
			return emitResults(cmd, cfg, rows, "Rekordbox tracks without cues")
		}

		f := filtersFromFlags(cmd, args, limit)
		rows, err := search.Tracks(conn, f)
		if err != nil {
			return err
		}
		return emitResults(cmd, cfg, rows, "Search results")
	},
}

func filtersFromFlags(cmd *cobra.Command, args []string, limit int) *search.Filters {
	f := &search.Filters{Limit: limit}
	if len(args) > 0 {
		f.Query = args[0]
	}
	f.QueryRegex, _ = cmd.Flags().GetBool("regex")
	f.Artist, _ = cmd.Flags().GetString("artist")
	f.Title, _ = cmd.Flags().GetString("title")
	f.Filename, _ = cmd.Flags().GetString("filename")
	f.Genre, _ = cmd.Flags().GetString("genre")
	f.Key, _ = cmd.Flags().GetString("key")
	f.FieldRegex, _ = cmd.Flags().GetBool("re")
	f.Source, _ = cmd.Flags().GetString("source")
	f.Format, _ = cmd.Flags().GetString("format")
	f.InRekordbox, _ = cmd.Flags().GetBool("in-rekordbox")
	f.NotInRekordbox, _ = cmd.Flags().GetBool("not-in-rekordbox")

	if cmd.Flags().Changed("bpm-min") {
		v, _ := cmd.Flags().GetFloat64("bpm-min")
		f.BPMMin = &v
	}
	if cmd.Flags().Changed("bpm-max") {
		v, _ := cmd.Flags().GetFloat64("bpm-max")
		f.BPMMax = &v
	}
	return f
}

// emitResults prints result rows, or writes them to CSV when --export-csv
// is set.
func emitResults(cmd *cobra.Command, cfg *config.Config, rows []search.Row, header string) error {
	out := cmd.OutOrStdout()

	csvPath, _ := cmd.Flags().GetString("export-csv")
	if csvPath == "" {
		report.WriteResults(out, rows, header)
		return nil
	}

	opts := export.Options{}
	if cols, _ := cmd.Flags().GetStringSlice("columns"); len(cols) > 0 {
		opts.Columns = cols
	}
	if convName, _ := cmd.Flags().GetString("path-conversion"); convName != "" {
		conv, err := export.ParseConversion(convName)
		if err != nil {
			return err
		}
		opts.Conversion = conv

		pairs, _ := cmd.Flags().GetStringSlice("volume-map")
		if len(pairs) == 0 {
			pairs = cfg.VolumeMappings()
		}
		volumes, err := export.ParseVolumeMap(pairs)
		if err != nil {
			return err
		}
		opts.Volumes = volumes
	}

	records := make([][]string, len(rows))
	for i := range rows {
		records[i] = rows[i].Record()
	}

	res, err := export.WriteCSV(csvPath, search.Columns(), records, opts)
	if err != nil {
		if errors.Is(err, export.ErrNoRows) {
			fmt.Fprintln(out, "No results to export")
			return nil
		}
		return err
	}

	for _, col := range res.SkippedColumns {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown column %q skipped\n", col)
	}
	fmt.Fprintf(out, "Exported %d row(s) to %s\n", res.Rows, csvPath)
	return nil
}

func init() {
	searchCmd.Flags().BoolP("regex", "r", false, "Regex search on all free-text fields")
	searchCmd.Flags().StringP("artist", "a", "", "Filter by artist")
	searchCmd.Flags().StringP("title", "t", "", "Filter by title")
	searchCmd.Flags().String("filename", "", "Filter by filename")
	searchCmd.Flags().StringP("genre", "g", "", "Filter by genre")
	searchCmd.Flags().StringP("key", "k", "", "Filter by musical key")
	searchCmd.Flags().Float64("bpm-min", 0, "Minimum BPM")
	searchCmd.Flags().Float64("bpm-max", 0, "Maximum BPM")
	searchCmd.Flags().StringP("source", "s", "", "Filter by source label")
	searchCmd.Flags().String("format", "", "Filter by file format")
	searchCmd.Flags().Bool("in-rekordbox", false, "Only rekordbox tracks")
	searchCmd.Flags().Bool("not-in-rekordbox", false, "Only non-rekordbox tracks")
	searchCmd.Flags().Bool("no-cues", false, "Rekordbox tracks without cue points")
	searchCmd.Flags().Bool("duplicates", false, "Show duplicate filenames")
	searchCmd.Flags().Bool("playlists", false, "List all playlists")
	searchCmd.Flags().String("playlist", "", "Show tracks of playlists matching a name or path")
	searchCmd.Flags().Bool("re", false, "Regex mode for field and playlist filters")
	searchCmd.Flags().Int("limit", 100, "Max results")
	searchCmd.Flags().String("export-csv", "", "Write results to a CSV file instead of printing")
	searchCmd.Flags().StringSlice("columns", nil, "Columns to include in the CSV export")
	searchCmd.Flags().String("path-conversion", "", "Convert path columns (mac-to-windows or windows-to-mac)")
	searchCmd.Flags().StringSlice("volume-map", nil, "Volume mappings for path conversion, NAME=LETTER")
}
