package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/cratedex/internal/rekordbox"
)

var importXMLCmd = &cobra.Command{
	Use:   "import-xml <collection.xml>",
	Short: "Import a rekordbox XML collection export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		im := rekordbox.NewImporter(conn, cmd.OutOrStdout())
		stats, err := im.ImportXML(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d track(s) with %d cue point(s), skipped %d already known\n",
			stats.Imported, stats.Cues, stats.Skipped)
		fmt.Fprintf(out, "Rebuilt %d playlist(s)\n", stats.Playlists)
		return nil
	},
}

var importUSBCmd = &cobra.Command{
	Use:   "import-usb <usb-root>",
	Short: "Match tracks against a rekordbox USB export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		im := rekordbox.NewImporter(conn, cmd.OutOrStdout())
		stats, err := im.ImportUSB(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Found %d ANLZ file(s)\n", stats.AnlzFiles)
		fmt.Fprintf(out, "Matched %d track(s), %d without an index entry\n", stats.Matched, stats.Unmatched)
		return nil
	},
}
