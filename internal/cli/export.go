package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <output.csv>",
	Short: "Export the full track index to CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		out := cmd.OutOrStdout()
		columns, rows, err := export.TrackDump(conn)
		if err != nil {
			return err
		}
		if err := writeDump(out, args[0], columns, rows); err != nil {
			return err
		}

		if withPlaylists, _ := cmd.Flags().GetBool("playlists"); withPlaylists {
			return exportPlaylistCSV(conn, out, playlistPath(args[0]))
		}
		return nil
	},
}

var exportPlaylistsCmd = &cobra.Command{
	Use:   "export-playlists <output.csv>",
	Short: "Export playlist memberships to CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		return exportPlaylistCSV(conn, cmd.OutOrStdout(), args[0])
	},
}

func exportPlaylistCSV(conn *sql.DB, out io.Writer, path string) error {
	columns, rows, err := export.PlaylistDump(conn)
	if err != nil {
		return err
	}
	return writeDump(out, path, columns, rows)
}

func writeDump(out io.Writer, path string, columns []string, rows [][]string) error {
	res, err := export.WriteCSV(path, columns, rows, export.Options{})
	if err != nil {
		if errors.Is(err, export.ErrNoRows) {
			fmt.Fprintf(out, "Nothing to export to %s\n", path)
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "Exported %d row(s) to %s\n", res.Rows, path)
	return nil
}

// playlistPath derives the companion playlist file name from the track
// export path, e.g. index.csv becomes index_playlists.csv.
func playlistPath(trackPath string) string {
	if ext := ".csv"; strings.HasSuffix(trackPath, ext) {
		return strings.TrimSuffix(trackPath, ext) + "_playlists" + ext
	}
	return trackPath + "_playlists"
}

func init() {
	exportCmd.Flags().Bool("playlists", false, "Also export playlists to a companion file")
}
