package report

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// Stats holds the collection statistics report data.
type Stats struct {
	TotalTracks       int64
	InRekordbox       int64
	TracksWithCues    int64
	TracksWithHotCues int64
	RBTracksNoCues    int64
	TotalCues         int64
	Playlists         int64
	DuplicateFiles    int64
	LibraryBytes      int64

	BPMMin *float64
	BPMMax *float64
	BPMAvg *float64

	BySource  []CountRow
	ByFormat  []CountRow
	TopGenres []CountRow
}

// CountRow is one (label, count) line of a breakdown.
type CountRow struct {
	Label string
	Count int64
}

// GatherStats collects the statistics report from the store.
func GatherStats(conn *sql.DB) (*Stats, error) {
	s := &Stats{}

	if err := conn.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&s.TotalTracks); err != nil {
		return nil, err
	}
	if s.TotalTracks == 0 {
		return s, nil
	}

	if err := conn.QueryRow(`SELECT COUNT(*) FROM tracks WHERE in_rekordbox = 1`).Scan(&s.InRekordbox); err != nil {
		return nil, err
	}

	err := conn.QueryRow(`
		SELECT
			COUNT(DISTINCT track_id),
			COUNT(DISTINCT CASE WHEN cue_type LIKE 'hot_cue_%' THEN track_id END)
		FROM cue_points
	`).Scan(&s.TracksWithCues, &s.TracksWithHotCues)
	if err != nil {
		return nil, err
	}

	err = conn.QueryRow(`
		SELECT COUNT(*) FROM tracks
		WHERE in_rekordbox = 1 AND id NOT IN (SELECT DISTINCT track_id FROM cue_points)
	`).Scan(&s.RBTracksNoCues)
	if err != nil {
		return nil, err
	}

	if err := conn.QueryRow(`SELECT COUNT(*) FROM cue_points`).Scan(&s.TotalCues); err != nil {
		return nil, err
	}
	if err := conn.QueryRow(`SELECT COUNT(DISTINCT playlist_name) FROM playlists`).Scan(&s.Playlists); err != nil {
		return nil, err
	}

	err = conn.QueryRow(`
		SELECT COUNT(DISTINCT filename_lower) FROM tracks
		WHERE filename_lower IN (
			SELECT filename_lower FROM tracks GROUP BY filename_lower HAVING COUNT(*) > 1
		)
	`).Scan(&s.DuplicateFiles)
	if err != nil {
		return nil, err
	}

	if err := conn.QueryRow(`SELECT COALESCE(SUM(file_size), 0) FROM tracks`).Scan(&s.LibraryBytes); err != nil {
		return nil, err
	}

	var bpmMin, bpmMax, bpmAvg sql.NullFloat64
	err = conn.QueryRow(`SELECT MIN(bpm), MAX(bpm), AVG(bpm) FROM tracks WHERE bpm IS NOT NULL`).
		Scan(&bpmMin, &bpmMax, &bpmAvg)
	if err != nil {
		return nil, err
	}
	if bpmMin.Valid {
		s.BPMMin, s.BPMMax, s.BPMAvg = &bpmMin.Float64, &bpmMax.Float64, &bpmAvg.Float64
	}

	if s.BySource, err = countRows(conn, `
		SELECT source_label, COUNT(*) FROM tracks GROUP BY source_label ORDER BY COUNT(*) DESC
	`); err != nil {
		return nil, err
	}
	if s.ByFormat, err = countRows(conn, `
		SELECT file_format, COUNT(*) FROM tracks WHERE file_format IS NOT NULL GROUP BY file_format ORDER BY COUNT(*) DESC
	`); err != nil {
		return nil, err
	}
	if s.TopGenres, err = countRows(conn, `
		SELECT genre, COUNT(*) FROM tracks WHERE genre IS NOT NULL AND genre != '' GROUP BY genre ORDER BY COUNT(*) DESC LIMIT 5
	`); err != nil {
		return nil, err
	}

	return s, nil
}

func countRows(conn *sql.DB, query string) ([]CountRow, error) {
	rows, err := conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var r CountRow
		var label sql.NullString
		if err := rows.Scan(&label, &r.Count); err != nil {
			return nil, err
		}
		r.Label = label.String
		if r.Label == "" {
			r.Label = "(unknown)"
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WriteStats prints the statistics report.
func WriteStats(w io.Writer, s *Stats) {
	if s.TotalTracks == 0 {
		fmt.Fprintln(w, "Database is empty. No tracks indexed yet.")
		fmt.Fprintln(w, "\nStart by scanning a directory:")
		fmt.Fprintln(w, "  cratedex scan <directory> --label <name>")
		return
	}

	line := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", line, center("DJ MUSIC INDEX STATISTICS", 60), line)

	fmt.Fprintf(w, "\nTracks:\n")
	fmt.Fprintf(w, "  Total:                 %s\n", humanize.Comma(s.TotalTracks))
	if s.InRekordbox > 0 {
		pct := float64(s.InRekordbox) / float64(s.TotalTracks) * 100
		fmt.Fprintf(w, "  In Rekordbox:          %s (%.1f%%)\n", humanize.Comma(s.InRekordbox), pct)
	} else {
		fmt.Fprintf(w, "  In Rekordbox:          0\n")
	}
	fmt.Fprintf(w, "  With any cue points:   %s\n", humanize.Comma(s.TracksWithCues))
	fmt.Fprintf(w, "  With hot cues:         %s\n", humanize.Comma(s.TracksWithHotCues))
	if s.RBTracksNoCues > 0 {
		fmt.Fprintf(w, "  [!] RB tracks no cues:  %d (need prep)\n", s.RBTracksNoCues)
	}

	fmt.Fprintf(w, "\nCue Points:\n")
	fmt.Fprintf(w, "  Total cue points:      %s\n", humanize.Comma(s.TotalCues))

	fmt.Fprintf(w, "\nPlaylists & Duplicates:\n")
	fmt.Fprintf(w, "  Playlists:             %s\n", humanize.Comma(s.Playlists))
	fmt.Fprintf(w, "  Duplicate files:       %d\n", s.DuplicateFiles)

	if s.LibraryBytes > 0 {
		fmt.Fprintf(w, "\nLibrary Size:\n")
		fmt.Fprintf(w, "  Total:                 %s\n", humanize.Bytes(uint64(s.LibraryBytes)))
	}

	if s.BPMMin != nil {
		fmt.Fprintf(w, "\nBPM Range:\n")
		fmt.Fprintf(w, "  Min:                   %.1f\n", *s.BPMMin)
		fmt.Fprintf(w, "  Max:                   %.1f\n", *s.BPMMax)
		fmt.Fprintf(w, "  Average:               %.1f\n", *s.BPMAvg)
	}

	writeBreakdown(w, "Tracks by Source", s.BySource)
	writeBreakdown(w, "Tracks by Format", s.ByFormat)
	writeBreakdown(w, "Top Genres", s.TopGenres)

	fmt.Fprintf(w, "\n%s\n", line)
}

func writeBreakdown(w io.Writer, title string, rows []CountRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, r := range rows {
		fmt.Fprintf(w, "  %-30s %s\n", r.Label, humanize.Comma(r.Count))
	}
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
