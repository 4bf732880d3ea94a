package export

import (
	"path/filepath"
	"testing"

	"github.com/llehouerou/cratedex/internal/db"
)

func TestTrackDump(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`
		INSERT INTO tracks (filepath, filename, filename_lower, source_label, title, artist, bpm, in_rekordbox)
		VALUES ('/m/a.mp3', 'a.mp3', 'a.mp3', 'USB1', 'Alpha', 'Artist', 128, 1),
			('/m/b.mp3', 'b.mp3', 'b.mp3', 'USB1', 'Beta', 'Artist', NULL, 0)
	`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`
		INSERT INTO cue_points (track_id, cue_type, cue_num, position_sec)
		VALUES (1, 'memory_cue', -1, 1.0), (1, 'hot_cue_a', 0, 5.0)
	`); err != nil {
		t.Fatal(err)
	}

	columns, rows, err := TrackDump(conn)
	if err != nil {
		t.Fatal(err)
	}
	if len(columns) != 19 {
		t.Errorf("columns = %d", len(columns))
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}

	idx := make(map[string]int)
	for i, c := range columns {
		idx[c] = i
	}
	first := rows[0]
	if first[idx["title"]] != "Alpha" {
		t.Errorf("title = %q", first[idx["title"]])
	}
	if first[idx["num_cues"]] != "2" || first[idx["num_hot_cues"]] != "1" {
		t.Errorf("cue counts = %q/%q", first[idx["num_cues"]], first[idx["num_hot_cues"]])
	}
	// NULL bpm exports as an empty field.
	if rows[1][idx["bpm"]] != "" {
		t.Errorf("null bpm = %q", rows[1][idx["bpm"]])
	}
}

func TestPlaylistDump(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`
		INSERT INTO tracks (filepath, filename, filename_lower, title, artist)
		VALUES ('/m/a.mp3', 'a.mp3', 'a.mp3', 'Alpha', 'Artist')
	`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`
		INSERT INTO playlists (playlist_name, playlist_path, track_id, position)
		VALUES ('Set', 'Sets/Set', 1, 1)
	`); err != nil {
		t.Fatal(err)
	}

	columns, rows, err := PlaylistDump(conn)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if columns[0] != "playlist_name" || rows[0][0] != "Set" || rows[0][1] != "Sets/Set" {
		t.Errorf("row = %v", rows[0])
	}
}
