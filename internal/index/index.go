// Package index is the store layer for the track index: scan upserts,
// rekordbox catalog merges, cue and playlist replacement.
package index

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/llehouerou/cratedex/internal/db"
)

// executor abstracts *sql.DB and *sql.Tx for functions that work in both.
type executor interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Index wraps the database with track index operations.
type Index struct {
	db *sql.DB
}

func New(conn *sql.DB) *Index {
	return &Index{db: conn}
}

func (ix *Index) DB() *sql.DB {
	return ix.db
}

// Track mirrors a row of the tracks table. Pointer fields are nullable
// columns.
type Track struct {
	ID          int64
	Filepath    string
	Filename    string
	SourceLabel string
	Title       string
	Artist      string
	Album       string
	Genre       string
	BPM         *float64
	MusicalKey  string
	DurationSec *float64
	Bitrate     *int64
	SampleRate  *int64
	FileFormat  string
	FileSize    *int64
	InRekordbox bool
	RBTrackID   string
	RBLocation  string
	Comments    string
	Rating      *int64
	Label       string
	Remixer     string
	Color       string
}

// UpsertScanned inserts or updates a track found by a directory scan.
// Rekordbox-owned columns (in_rekordbox, rb_track_id, rb_location, rating,
// color) are left untouched so a rescan never loses catalog data.
func UpsertScanned(ex executor, t *Track) error {
	filename := filepath.Base(t.Filepath)
	_, err := ex.Exec(`
		INSERT INTO tracks (filepath, filename, filename_lower, source_label,
			title, artist, album, genre, bpm, musical_key, duration_sec,
			bitrate, sample_rate, file_format, file_size, comments, label, remixer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filepath) DO UPDATE SET
			filename = excluded.filename,
			filename_lower = excluded.filename_lower,
			source_label = excluded.source_label,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			genre = excluded.genre,
			bpm = excluded.bpm,
			musical_key = excluded.musical_key,
			duration_sec = excluded.duration_sec,
			bitrate = excluded.bitrate,
			sample_rate = excluded.sample_rate,
			file_format = excluded.file_format,
			file_size = excluded.file_size,
			comments = excluded.comments,
			label = excluded.label,
			remixer = excluded.remixer,
			date_indexed = datetime('now')
	`, t.Filepath, filename, strings.ToLower(filename), t.SourceLabel,
		t.Title, t.Artist, t.Album, t.Genre, t.BPM, t.MusicalKey, t.DurationSec,
		t.Bitrate, t.SampleRate, t.FileFormat, t.FileSize, t.Comments, t.Label, t.Remixer)
	if err != nil {
		return fmt.Errorf("upsert track %s: %w", t.Filepath, err)
	}
	return nil
}

// TrackByPath returns the track with the given filepath, or nil if absent.
func (ix *Index) TrackByPath(path string) (*Track, error) {
	return trackByPath(ix.db, path)
}

func trackByPath(ex executor, path string) (*Track, error) {
	row := ex.QueryRow(`
		SELECT id, filepath, filename, source_label, title, artist, album, genre,
			bpm, musical_key, duration_sec, bitrate, sample_rate, file_format,
			file_size, in_rekordbox, rb_track_id, rb_location, comments, rating,
			label, remixer, color
		FROM tracks WHERE filepath = ?
	`, path)
	return scanTrack(row)
}

func scanTrack(row *sql.Row) (*Track, error) {
	var t Track
	var sourceLabel, title, artist, album, genre, key, format sql.NullString
	var rbTrackID, rbLocation, comments, label, remixer, color sql.NullString
	var bpm, duration sql.NullFloat64
	var bitrate, sampleRate, fileSize, rating sql.NullInt64
	var inRB sql.NullInt64

	err := row.Scan(&t.ID, &t.Filepath, &t.Filename, &sourceLabel, &title,
		&artist, &album, &genre, &bpm, &key, &duration, &bitrate, &sampleRate,
		&format, &fileSize, &inRB, &rbTrackID, &rbLocation, &comments, &rating,
		&label, &remixer, &color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.SourceLabel = db.NullStringValue(sourceLabel)
	t.Title = db.NullStringValue(title)
	t.Artist = db.NullStringValue(artist)
	t.Album = db.NullStringValue(album)
	t.Genre = db.NullStringValue(genre)
	t.BPM = db.NullFloat64Ptr(bpm)
	t.MusicalKey = db.NullStringValue(key)
	t.DurationSec = db.NullFloat64Ptr(duration)
	t.Bitrate = db.NullInt64Ptr(bitrate)
	t.SampleRate = db.NullInt64Ptr(sampleRate)
	t.FileFormat = db.NullStringValue(format)
	t.FileSize = db.NullInt64Ptr(fileSize)
	t.InRekordbox = inRB.Valid && inRB.Int64 != 0
	t.RBTrackID = db.NullStringValue(rbTrackID)
	t.RBLocation = db.NullStringValue(rbLocation)
	t.Comments = db.NullStringValue(comments)
	t.Rating = db.NullInt64Ptr(rating)
	t.Label = db.NullStringValue(label)
	t.Remixer = db.NullStringValue(remixer)
	t.Color = db.NullStringValue(color)
	return &t, nil
}

// TrackCount returns the number of tracks in the index.
func (ix *Index) TrackCount() (int64, error) {
	var n int64
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&n)
	return n, err
}
