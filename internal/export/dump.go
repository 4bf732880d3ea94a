package export

import (
	"database/sql"
)

// trackDumpColumns is the full-index export projection, in schema order.
var trackDumpColumns = []string{
	"filename", "title", "artist", "album", "genre", "bpm", "musical_key",
	"duration_sec", "bitrate", "file_format", "source_label", "in_rekordbox",
	"filepath", "comments", "label", "remixer", "num_cues", "num_hot_cues",
	"cue_summary",
}

// TrackDump reads the full track index with cue counts and a
// comma-separated cue summary per track.
func TrackDump(conn *sql.DB) ([]string, [][]string, error) {
	rows, err := conn.Query(`
		SELECT
			t.filename, t.title, t.artist, t.album, t.genre, t.bpm, t.musical_key,
			t.duration_sec, t.bitrate, t.file_format, t.source_label, t.in_rekordbox,
			t.filepath, t.comments, t.label, t.remixer,
			COUNT(cp.id) as num_cues,
			COUNT(CASE WHEN cp.cue_type LIKE 'hot_cue_%' THEN 1 END) as num_hot_cues,
			GROUP_CONCAT(cp.cue_type, ',') as cue_summary
		FROM tracks t
		LEFT JOIN cue_points cp ON t.id = cp.track_id
		GROUP BY t.id
		ORDER BY t.artist, t.title
	`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	records, err := stringRows(rows, len(trackDumpColumns))
	if err != nil {
		return nil, nil, err
	}
	return trackDumpColumns, records, nil
}

// playlistDumpColumns is the playlist membership export projection.
var playlistDumpColumns = []string{
	"playlist_name", "playlist_path", "position", "track_id", "filename",
	"title", "artist", "album", "genre", "bpm", "musical_key",
}

// PlaylistDump reads every track-in-playlist row joined with track
// metadata, in playlist order.
func PlaylistDump(conn *sql.DB) ([]string, [][]string, error) {
	rows, err := conn.Query(`
		SELECT
			p.playlist_name, p.playlist_path, p.position, p.track_id,
			t.filename, t.title, t.artist, t.album, t.genre, t.bpm, t.musical_key
		FROM playlists p
		JOIN tracks t ON t.id = p.track_id
		ORDER BY p.playlist_path, p.position
	`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	records, err := stringRows(rows, len(playlistDumpColumns))
	if err != nil {
		return nil, nil, err
	}
	return playlistDumpColumns, records, nil
}

// stringRows scans every cell to a string; NULL becomes an empty field.
func stringRows(rows *sql.Rows, width int) ([][]string, error) {
	var records [][]string
	for rows.Next() {
		cells := make([]any, width)
		for i := range cells {
			cells[i] = new(sql.NullString)
		}
		if err := rows.Scan(cells...); err != nil {
			return nil, err
		}
		record := make([]string, width)
		for i, c := range cells {
			ns := c.(*sql.NullString)
			if ns.Valid {
				record[i] = ns.String
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
