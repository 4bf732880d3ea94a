// Package report renders query results, cue listings, statistics, and
// tabular output for the CLI.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/llehouerou/cratedex/internal/search"
)

// WriteResults prints search result blocks: artist/title line, then a
// BPM | key | source line with [RB], [NO CUES] or [xH/yC] badges.
func WriteResults(w io.Writer, rows []search.Row, header string) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "\n%s: 0 tracks\n\n", header)
		return
	}

	fmt.Fprintf(w, "\n%s (%d tracks):\n\n", header, len(rows))
	for _, r := range rows {
		title := r.Title
		if title == "" {
			title = r.Filename
		}
		if r.Artist != "" {
			fmt.Fprintf(w, "   %s -- %s\n", r.Artist, title)
		} else {
			fmt.Fprintf(w, "   %s\n", title)
		}

		bpm := "?"
		if r.BPM != nil {
			bpm = fmt.Sprintf("%.0f", *r.BPM)
		}
		key := r.MusicalKey
		if key == "" {
			key = "?"
		}

		var badges strings.Builder
		if r.InRekordbox {
			badges.WriteString(" [RB]")
			if r.NumCues == 0 {
				badges.WriteString("  [NO CUES]")
			} else {
				fmt.Fprintf(&badges, "  [%dH/%dC]", r.NumHotCues, r.NumCues)
			}
		}
		fmt.Fprintf(w, "     %s BPM | %s | %s%s\n\n", bpm, key, r.SourceLabel, badges.String())
	}
}

// WritePlaylists prints the grouped playlist listing.
func WritePlaylists(w io.Writer, playlists []search.PlaylistInfo) {
	if len(playlists) == 0 {
		fmt.Fprintf(w, "\nNo playlists found.\n\n")
		return
	}
	fmt.Fprintf(w, "\nPlaylists (%d):\n\n", len(playlists))
	for _, p := range playlists {
		fmt.Fprintf(w, "   %s  (%d tracks)\n", p.Path, p.TrackCount)
	}
	fmt.Fprintln(w)
}

// WriteDuplicates prints duplicate filename groups.
func WriteDuplicates(w io.Writer, groups []search.DuplicateGroup) {
	if len(groups) == 0 {
		fmt.Fprintf(w, "\nNo duplicate filenames found.\n\n")
		return
	}
	fmt.Fprintf(w, "\nDuplicate filenames (%d):\n\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(w, "   %s  x%d  [%s]\n", g.FilenameLower, g.Count, g.Sources)
	}
	fmt.Fprintln(w)
}

// WritePlaylistSections prints each matched playlist's tracks as its own
// section.
func WritePlaylistSections(w io.Writer, sections []search.PlaylistSection) {
	if len(sections) == 0 {
		fmt.Fprintf(w, "\nNo playlists matched.\n\n")
		return
	}
	for _, s := range sections {
		WriteResults(w, s.Tracks, "Playlist: "+s.Path)
	}
}
