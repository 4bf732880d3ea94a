package rekordbox

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/llehouerou/cratedex/internal/index"
)

func writeUSBFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestImportUSB(t *testing.T) {
	conn := setupTestDB(t)
	if err := index.UpsertScanned(conn, &index.Track{
		Filepath:    "/music/Track A.mp3",
		SourceLabel: "laptop",
		Title:       "Track A",
	}); err != nil {
		t.Fatal(err)
	}

	usb := t.TempDir()
	writeUSBFile(t, usb, "Contents/Artist/Track A.mp3")
	writeUSBFile(t, usb, "Contents/Artist/Unknown Track.mp3")
	writeUSBFile(t, usb, "PIONEER/USBANLZ/P016/0000B8E4/ANLZ0000.DAT")
	writeUSBFile(t, usb, "PIONEER/USBANLZ/P016/0000B8E4/ANLZ0000.EXT")

	im := NewImporter(conn, io.Discard)
	stats, err := im.ImportUSB(usb)
	if err != nil {
		t.Fatalf("ImportUSB: %v", err)
	}
	if stats.AnlzFiles != 2 {
		t.Errorf("AnlzFiles = %d, want 2", stats.AnlzFiles)
	}
	if stats.Matched != 1 || stats.Unmatched != 1 {
		t.Errorf("Matched/Unmatched = %d/%d, want 1/1", stats.Matched, stats.Unmatched)
	}

	var inRB int
	var rbLocation string
	err = conn.QueryRow(`SELECT in_rekordbox, rb_location FROM tracks WHERE filename_lower = 'track a.mp3'`).
		Scan(&inRB, &rbLocation)
	if err != nil {
		t.Fatal(err)
	}
	if inRB != 1 {
		t.Error("matched track not marked catalog-known")
	}
	if filepath.Base(rbLocation) != "Track A.mp3" {
		t.Errorf("rb_location = %q", rbLocation)
	}

	var records int
	conn.QueryRow(`SELECT COUNT(*) FROM analysis_records`).Scan(&records)
	if records != 1 {
		t.Errorf("analysis_records = %d, want 1", records)
	}

	// Rerun does not accumulate analysis records.
	if _, err := im.ImportUSB(usb); err != nil {
		t.Fatal(err)
	}
	conn.QueryRow(`SELECT COUNT(*) FROM analysis_records`).Scan(&records)
	if records != 1 {
		t.Errorf("analysis_records after rerun = %d, want 1", records)
	}
}

func TestImportUSBSourceLabel(t *testing.T) {
	conn := setupTestDB(t)
	if err := index.UpsertScanned(conn, &index.Track{
		Filepath:    "/music/Labeled.mp3",
		SourceLabel: "laptop",
	}); err != nil {
		t.Fatal(err)
	}
	if err := index.UpsertScanned(conn, &index.Track{
		Filepath: "/music/Unlabeled.mp3",
	}); err != nil {
		t.Fatal(err)
	}

	usb := t.TempDir()
	writeUSBFile(t, usb, "Contents/Labeled.mp3")
	writeUSBFile(t, usb, "Contents/Unlabeled.mp3")

	im := NewImporter(conn, io.Discard)
	if _, err := im.ImportUSB(usb); err != nil {
		t.Fatal(err)
	}

	var label string
	if err := conn.QueryRow(
		`SELECT source_label FROM tracks WHERE filename_lower = 'labeled.mp3'`,
	).Scan(&label); err != nil {
		t.Fatal(err)
	}
	if label != "laptop" {
		t.Errorf("scan label overwritten: %q", label)
	}

	if err := conn.QueryRow(
		`SELECT source_label FROM tracks WHERE filename_lower = 'unlabeled.mp3'`,
	).Scan(&label); err != nil {
		t.Fatal(err)
	}
	if label != SourceLabelUSB {
		t.Errorf("usb-only track label = %q, want %q", label, SourceLabelUSB)
	}
}

func TestImportUSBMissingPath(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn, io.Discard)
	if _, err := im.ImportUSB("/nonexistent/usb"); err == nil {
		t.Fatal("expected error for missing usb path")
	}
}
