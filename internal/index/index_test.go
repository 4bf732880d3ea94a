package index

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/llehouerou/cratedex/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int64) *int64       { return &n }

func TestUpsertScannedInsertAndUpdate(t *testing.T) {
	conn := setupTestDB(t)
	ix := New(conn)

	track := &Track{
		Filepath:    "/music/house/Artist - Song.mp3",
		SourceLabel: "laptop",
		Title:       "Song",
		Artist:      "Artist",
		BPM:         floatPtr(126),
		MusicalKey:  "8A",
		FileFormat:  ".mp3",
		FileSize:    intPtr(8_000_000),
	}
	if err := UpsertScanned(conn, track); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := ix.TrackByPath(track.Filepath)
	if err != nil {
		t.Fatalf("TrackByPath: %v", err)
	}
	if got == nil {
		t.Fatal("track not found after insert")
	}
	if got.Filename != "Artist - Song.mp3" {
		t.Errorf("Filename = %q", got.Filename)
	}
	if got.BPM == nil || *got.BPM != 126 {
		t.Errorf("BPM = %v", got.BPM)
	}

	// Mark as rekordbox-owned, then rescan with changed tags.
	if _, err := conn.Exec(`UPDATE tracks SET in_rekordbox = 1, rb_track_id = '42' WHERE id = ?`, got.ID); err != nil {
		t.Fatal(err)
	}

	track.Title = "Song (Extended Mix)"
	track.BPM = floatPtr(127)
	if err := UpsertScanned(conn, track); err != nil {
		t.Fatalf("rescan: %v", err)
	}

	got2, err := ix.TrackByPath(track.Filepath)
	if err != nil {
		t.Fatal(err)
	}
	if got2.ID != got.ID {
		t.Errorf("rescan created a new row: %d != %d", got2.ID, got.ID)
	}
	if got2.Title != "Song (Extended Mix)" {
		t.Errorf("Title not updated: %q", got2.Title)
	}
	if !got2.InRekordbox || got2.RBTrackID != "42" {
		t.Errorf("rescan clobbered rekordbox columns: in_rb=%v rb_id=%q", got2.InRekordbox, got2.RBTrackID)
	}

	n, err := ix.TrackCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("TrackCount = %d, want 1", n)
	}
}

func TestMergeCatalogEnrichesScannedRow(t *testing.T) {
	conn := setupTestDB(t)

	scanned := &Track{
		Filepath:    "/music/Track One.mp3",
		SourceLabel: "laptop",
		Title:       "Track One",
		Artist:      "Somebody",
		Genre:       "House",
	}
	if err := UpsertScanned(conn, scanned); err != nil {
		t.Fatal(err)
	}

	// Catalog refers to the same file at a different location, matched by
	// filename. Empty catalog fields must not erase indexed values.
	catalog := &Track{
		Filepath:    "/Volumes/USB1/Track One.mp3",
		SourceLabel: "rekordbox_xml",
		Artist:      "",
		Genre:       "",
		BPM:         floatPtr(124),
		MusicalKey:  "5A",
		RBTrackID:   "1001",
		RBLocation:  "/Volumes/USB1/Track One.mp3",
		Rating:      intPtr(255),
	}
	id, err := MergeCatalog(conn, catalog)
	if err != nil {
		t.Fatalf("MergeCatalog: %v", err)
	}

	ix := New(conn)
	got, err := ix.TrackByPath("/music/Track One.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != id {
		t.Fatalf("merge did not hit the scanned row (got %+v, id %d)", got, id)
	}
	if got.Artist != "Somebody" || got.Genre != "House" {
		t.Errorf("empty catalog values clobbered indexed data: artist=%q genre=%q", got.Artist, got.Genre)
	}
	if got.BPM == nil || *got.BPM != 124 {
		t.Errorf("BPM not merged: %v", got.BPM)
	}
	if !got.InRekordbox || got.RBTrackID != "1001" {
		t.Errorf("rekordbox columns not set: in_rb=%v rb_id=%q", got.InRekordbox, got.RBTrackID)
	}

	n, _ := ix.TrackCount()
	if n != 1 {
		t.Errorf("merge created a duplicate row: count = %d", n)
	}
}

func TestMergeCatalogInsertsUnknownTrack(t *testing.T) {
	conn := setupTestDB(t)

	catalog := &Track{
		Filepath:    "/Volumes/USB1/New Track.mp3",
		SourceLabel: "rekordbox_xml",
		Title:       "New Track",
		Artist:      "Nobody",
		RBTrackID:   "77",
	}
	id, err := MergeCatalog(conn, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected a track id")
	}

	ids, err := New(conn).ExistingRBIDs()
	if err != nil {
		t.Fatal(err)
	}
	if ids["77"] != id {
		t.Errorf("ExistingRBIDs[77] = %d, want %d", ids["77"], id)
	}
}

func TestReplaceCues(t *testing.T) {
	conn := setupTestDB(t)
	if err := UpsertScanned(conn, &Track{Filepath: "/music/a.mp3"}); err != nil {
		t.Fatal(err)
	}
	track, err := New(conn).TrackByPath("/music/a.mp3")
	if err != nil || track == nil {
		t.Fatalf("track lookup: %v", err)
	}

	first := []Cue{
		{Type: "memory_cue", Num: -1, PositionSec: 10},
		{Type: "hot_cue_a", Num: 0, PositionSec: 30.5, ColorRed: intPtr(255)},
		{Type: "hot_cue_b", Num: 1, PositionSec: 60, IsLoop: true, LoopEndSec: floatPtr(68)},
	}
	if err := ReplaceCues(conn, track.ID, first); err != nil {
		t.Fatal(err)
	}

	// Re-import replaces rather than accumulates.
	second := []Cue{{Type: "memory_cue", Num: -1, PositionSec: 5}}
	if err := ReplaceCues(conn, track.ID, second); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM cue_points WHERE track_id = ?`, track.ID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("cue count after re-import = %d, want 1", n)
	}
}

func TestPlaylistRebuild(t *testing.T) {
	conn := setupTestDB(t)
	if err := UpsertScanned(conn, &Track{Filepath: "/music/a.mp3"}); err != nil {
		t.Fatal(err)
	}
	track, _ := New(conn).TrackByPath("/music/a.mp3")

	if err := AddPlaylistEntry(conn, "Peak Time", "Sets/Peak Time", track.ID, 1); err != nil {
		t.Fatal(err)
	}
	if err := ClearPlaylists(conn); err != nil {
		t.Fatal(err)
	}
	if err := AddPlaylistEntry(conn, "Warmup", "Sets/Warmup", track.ID, 1); err != nil {
		t.Fatal(err)
	}

	var name string
	if err := conn.QueryRow(`SELECT playlist_name FROM playlists`).Scan(&name); err != nil {
		t.Fatal(err)
	}
	if name != "Warmup" {
		t.Errorf("playlist after rebuild = %q, want Warmup", name)
	}
}
