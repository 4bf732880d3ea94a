package rekordbox

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/llehouerou/cratedex/internal/db"
	"github.com/llehouerou/cratedex/internal/index"
)

const collectionXML = `<?xml version="1.0" encoding="UTF-8"?>
<DJ_PLAYLISTS Version="1.0.0">
  <PRODUCT Name="rekordbox" Version="6.0.0" Company="AlphaTheta"/>
  <COLLECTION Entries="2">
    <TRACK TrackID="1" Name="Demo Track 1" Artist="Loopmasters" Album="" Genre=""
      Kind="Mp3 File" Size="6199093" TotalTime="172" AverageBpm="128.00"
      BitRate="320" SampleRate="44100" Comments="Tracks by www.loopmasters.com"
      Rating="0" Location="file://localhost/Volumes/USB1/Demo%20Tracks/Demo%20Track%201.mp3"
      Remixer="" Tonality="Fm" Label="Loopmasters" Colour="">
      <POSITION_MARK Name="" Type="0" Start="0.025" Num="-1"/>
      <POSITION_MARK Name="" Type="0" Start="32.025" Num="-1"/>
      <POSITION_MARK Name="Drop" Type="0" Start="64.025" Num="0" Red="255" Green="0" Blue="0"/>
      <POSITION_MARK Name="" Type="4" Start="96.025" End="104.025" Num="1"/>
    </TRACK>
    <TRACK TrackID="2" Name="Demo Track 2" Artist="Loopmasters" Album="" Genre=""
      Kind="Mp3 File" Size="5566959" TotalTime="156" AverageBpm="120.00"
      BitRate="320" SampleRate="44100" Comments="" Rating="0"
      Location="file://localhost/Volumes/USB1/Demo%20Tracks/Demo%20Track%202.mp3"
      Remixer="" Tonality="" Label="" Colour="">
    </TRACK>
  </COLLECTION>
  <PLAYLISTS>
    <NODE Type="0" Name="ROOT" Count="2">
      <NODE Name="Playlist1" Type="1" KeyType="0" Entries="2">
        <TRACK Key="1"/>
        <TRACK Key="2"/>
      </NODE>
      <NODE Type="0" Name="Folder" Count="1">
        <NODE Name="Sub Playlist" Type="1" KeyType="0" Entries="2">
          <TRACK Key="2"/>
          <TRACK Key="1"/>
        </NODE>
      </NODE>
    </NODE>
  </PLAYLISTS>
</DJ_PLAYLISTS>`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func writeXML(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collection.xml")
	if err := os.WriteFile(path, []byte(collectionXML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportXMLTracks(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn, io.Discard)

	stats, err := im.ImportXML(writeXML(t))
	if err != nil {
		t.Fatalf("ImportXML: %v", err)
	}
	if stats.Imported != 2 {
		t.Errorf("Imported = %d, want 2", stats.Imported)
	}
	if stats.Playlists != 2 {
		t.Errorf("Playlists = %d, want 2", stats.Playlists)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM tracks WHERE in_rekordbox = 1`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("in_rekordbox count = %d, want 2", count)
	}

	var artist, key, label, comments string
	var bpm float64
	err = conn.QueryRow(`
		SELECT artist, musical_key, label, comments, bpm FROM tracks WHERE title = 'Demo Track 1'
	`).Scan(&artist, &key, &label, &comments, &bpm)
	if err != nil {
		t.Fatalf("Demo Track 1 lookup: %v", err)
	}
	if artist != "Loopmasters" || key != "Fm" || label != "Loopmasters" || bpm != 128 {
		t.Errorf("metadata: artist=%q key=%q label=%q bpm=%v", artist, key, label, bpm)
	}
	if comments != "Tracks by www.loopmasters.com" {
		t.Errorf("comments = %q", comments)
	}

	// Location was URL-decoded.
	var path string
	if err := conn.QueryRow(`SELECT filepath FROM tracks WHERE title = 'Demo Track 1'`).Scan(&path); err != nil {
		t.Fatal(err)
	}
	if path != "/Volumes/USB1/Demo Tracks/Demo Track 1.mp3" {
		t.Errorf("filepath = %q", path)
	}
}

func TestImportXMLCues(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn, io.Discard)
	if _, err := im.ImportXML(writeXML(t)); err != nil {
		t.Fatal(err)
	}

	rows, err := conn.Query(`
		SELECT cue_type, cue_num, position_sec, is_loop FROM cue_points
		WHERE track_id = (SELECT id FROM tracks WHERE title = 'Demo Track 1')
		ORDER BY position_sec
	`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	type cueRow struct {
		typ    string
		num    int
		pos    float64
		isLoop int
	}
	var cues []cueRow
	for rows.Next() {
		var c cueRow
		if err := rows.Scan(&c.typ, &c.num, &c.pos, &c.isLoop); err != nil {
			t.Fatal(err)
		}
		cues = append(cues, c)
	}
	if len(cues) != 4 {
		t.Fatalf("cue count = %d, want 4", len(cues))
	}
	if cues[0].typ != "memory_cue" || cues[0].num != -1 || cues[0].pos != 0.025 {
		t.Errorf("first cue = %+v", cues[0])
	}
	if cues[2].typ != "hot_cue_a" || cues[2].num != 0 {
		t.Errorf("hot cue = %+v", cues[2])
	}
	if cues[3].typ != "hot_cue_b" || cues[3].isLoop != 1 {
		t.Errorf("loop cue = %+v", cues[3])
	}
}

func TestImportXMLPlaylists(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn, io.Discard)
	if _, err := im.ImportXML(writeXML(t)); err != nil {
		t.Fatal(err)
	}

	rows, err := conn.Query(`
		SELECT playlist_name, playlist_path, position FROM playlists
		ORDER BY playlist_path, position
	`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	type plRow struct {
		name, path string
		pos        int
	}
	var entries []plRow
	for rows.Next() {
		var e plRow
		if err := rows.Scan(&e.name, &e.path, &e.pos); err != nil {
			t.Fatal(err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 4 {
		t.Fatalf("playlist entries = %d, want 4", len(entries))
	}
	// Folder name is part of the nested playlist's path.
	if entries[0].path != "Folder/Sub Playlist" || entries[0].pos != 1 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[2].name != "Playlist1" || entries[2].path != "Playlist1" {
		t.Errorf("top-level entry = %+v", entries[2])
	}
}

func TestImportXMLIdempotent(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn, io.Discard)
	path := writeXML(t)

	if _, err := im.ImportXML(path); err != nil {
		t.Fatal(err)
	}
	stats, err := im.ImportXML(path)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Imported != 0 || stats.Skipped != 2 {
		t.Errorf("rerun stats = %+v, want all skipped", stats)
	}

	var tracks, cues, playlists int
	conn.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&tracks)
	conn.QueryRow(`SELECT COUNT(*) FROM cue_points`).Scan(&cues)
	conn.QueryRow(`SELECT COUNT(*) FROM playlists`).Scan(&playlists)
	if tracks != 2 || cues != 4 || playlists != 4 {
		t.Errorf("after rerun: tracks=%d cues=%d playlists=%d", tracks, cues, playlists)
	}
}

func TestImportXMLMatchesScannedByFilename(t *testing.T) {
	conn := setupTestDB(t)

	scanned := &index.Track{
		Filepath:    "/music/local/Demo Track 1.mp3",
		SourceLabel: "laptop",
		Title:       "From Scanner",
		Artist:      "Unknown",
	}
	if err := index.UpsertScanned(conn, scanned); err != nil {
		t.Fatal(err)
	}

	im := NewImporter(conn, io.Discard)
	if _, err := im.ImportXML(writeXML(t)); err != nil {
		t.Fatal(err)
	}

	var artist string
	var inRB int
	err := conn.QueryRow(`
		SELECT artist, in_rekordbox FROM tracks WHERE filename_lower = 'demo track 1.mp3'
	`).Scan(&artist, &inRB)
	if err != nil {
		t.Fatal(err)
	}
	if artist != "Loopmasters" || inRB != 1 {
		t.Errorf("scanned row not enriched: artist=%q in_rb=%d", artist, inRB)
	}

	var count int
	conn.QueryRow(`SELECT COUNT(*) FROM tracks WHERE filename_lower = 'demo track 1.mp3'`).Scan(&count)
	if count != 1 {
		t.Errorf("filename match duplicated the row: count=%d", count)
	}
}

func TestImportXMLMissingFile(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn, io.Discard)
	if _, err := im.ImportXML("/nonexistent/collection.xml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeLocation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"file://localhost/Volumes/USB1/My%20Track.mp3", "/Volumes/USB1/My Track.mp3"},
		{"file:///music/a.mp3", "/music/a.mp3"},
		{"/already/plain.mp3", "/already/plain.mp3"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DecodeLocation(tt.in); got != tt.want {
			t.Errorf("DecodeLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
