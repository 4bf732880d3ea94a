package index

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
)

// MergeCatalog merges a track from a rekordbox catalog into the index.
// Matching is by lowercased filename first so a catalog entry enriches the
// row created by a directory scan of the same file; filepath is the
// fallback for tracks not seen by any scan. Non-empty existing values are
// never overwritten by empty catalog values. Returns the track id.
func MergeCatalog(ex executor, t *Track) (int64, error) {
	filename := filepath.Base(t.Filepath)
	lower := strings.ToLower(filename)

	id, found, err := findByFilenameLower(ex, lower)
	if err != nil {
		return 0, err
	}
	if found {
		if err := mergeInto(ex, id, t); err != nil {
			return 0, err
		}
		return id, nil
	}

	_, err = ex.Exec(`
		INSERT INTO tracks (filepath, filename, filename_lower, source_label,
			title, artist, album, genre, bpm, musical_key, duration_sec,
			file_size, file_format, in_rekordbox, rb_track_id, rb_location,
			comments, rating, label, remixer, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filepath) DO UPDATE SET
			title = COALESCE(NULLIF(excluded.title, ''), title),
			artist = COALESCE(NULLIF(excluded.artist, ''), artist),
			album = COALESCE(NULLIF(excluded.album, ''), album),
			genre = COALESCE(NULLIF(excluded.genre, ''), genre),
			bpm = COALESCE(excluded.bpm, bpm),
			musical_key = COALESCE(NULLIF(excluded.musical_key, ''), musical_key),
			duration_sec = COALESCE(excluded.duration_sec, duration_sec),
			file_size = COALESCE(excluded.file_size, file_size),
			in_rekordbox = 1,
			rb_track_id = excluded.rb_track_id,
			rb_location = excluded.rb_location,
			comments = COALESCE(NULLIF(excluded.comments, ''), comments),
			rating = COALESCE(excluded.rating, rating),
			label = COALESCE(NULLIF(excluded.label, ''), label),
			remixer = COALESCE(NULLIF(excluded.remixer, ''), remixer),
			color = COALESCE(NULLIF(excluded.color, ''), color)
	`, t.Filepath, filename, lower, t.SourceLabel,
		t.Title, t.Artist, t.Album, t.Genre, t.BPM, t.MusicalKey, t.DurationSec,
		t.FileSize, t.FileFormat, t.RBTrackID, t.RBLocation,
		t.Comments, t.Rating, t.Label, t.Remixer, t.Color)
	if err != nil {
		return 0, fmt.Errorf("insert catalog track %s: %w", t.Filepath, err)
	}

	// Resolve by path rather than LastInsertId, which lies after DO UPDATE.
	var existing int64
	err = ex.QueryRow(`SELECT id FROM tracks WHERE filepath = ?`, t.Filepath).Scan(&existing)
	if err != nil {
		return 0, fmt.Errorf("resolve catalog track %s: %w", t.Filepath, err)
	}
	return existing, nil
}

// mergeInto updates an existing row with catalog values, coalescing so an
// empty catalog value never clobbers indexed data.
func mergeInto(ex executor, id int64, t *Track) error {
	_, err := ex.Exec(`
		UPDATE tracks SET
			title = COALESCE(NULLIF(?, ''), title),
			artist = COALESCE(NULLIF(?, ''), artist),
			album = COALESCE(NULLIF(?, ''), album),
			genre = COALESCE(NULLIF(?, ''), genre),
			bpm = COALESCE(?, bpm),
			musical_key = COALESCE(NULLIF(?, ''), musical_key),
			duration_sec = COALESCE(?, duration_sec),
			file_size = COALESCE(?, file_size),
			in_rekordbox = 1,
			rb_track_id = ?,
			rb_location = ?,
			comments = COALESCE(NULLIF(?, ''), comments),
			rating = COALESCE(?, rating),
			label = COALESCE(NULLIF(?, ''), label),
			remixer = COALESCE(NULLIF(?, ''), remixer),
			color = COALESCE(NULLIF(?, ''), color)
		WHERE id = ?
	`, t.Title, t.Artist, t.Album, t.Genre, t.BPM, t.MusicalKey,
		t.DurationSec, t.FileSize, t.RBTrackID, t.RBLocation,
		t.Comments, t.Rating, t.Label, t.Remixer, t.Color, id)
	if err != nil {
		return fmt.Errorf("merge catalog track %s: %w", t.Filepath, err)
	}
	return nil
}

func findByFilenameLower(ex executor, lower string) (int64, bool, error) {
	var id int64
	err := ex.QueryRow(`SELECT id FROM tracks WHERE filename_lower = ? ORDER BY id LIMIT 1`, lower).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ExistingRBIDs returns a map of rekordbox track id to index track id for
// all previously imported catalog tracks.
func (ix *Index) ExistingRBIDs() (map[string]int64, error) {
	rows, err := ix.db.Query(`SELECT rb_track_id, id FROM tracks WHERE rb_track_id IS NOT NULL AND rb_track_id != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var rbID string
		var id int64
		if err := rows.Scan(&rbID, &id); err != nil {
			return nil, err
		}
		ids[rbID] = id
	}
	return ids, rows.Err()
}

// Cue mirrors a row of the cue_points table. Type is "memory_cue" or
// "hot_cue_a".."hot_cue_h"; Num is -1 for memory cues, 0-7 for hot cues.
type Cue struct {
	Type        string
	Name        string
	Num         int
	PositionSec float64
	IsLoop      bool
	LoopEndSec  *float64
	ColorRed    *int64
	ColorGreen  *int64
	ColorBlue   *int64
}

// ReplaceCues deletes a track's cue points and inserts the given set.
// A re-import replaces cues rather than accumulating them.
func ReplaceCues(ex executor, trackID int64, cues []Cue) error {
	if _, err := ex.Exec(`DELETE FROM cue_points WHERE track_id = ?`, trackID); err != nil {
		return fmt.Errorf("clear cues for track %d: %w", trackID, err)
	}
	for _, c := range cues {
		isLoop := 0
		if c.IsLoop {
			isLoop = 1
		}
		_, err := ex.Exec(`
			INSERT INTO cue_points (track_id, cue_type, cue_name, cue_num,
				position_sec, is_loop, loop_end_sec, color_red, color_green, color_blue)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, trackID, c.Type, c.Name, c.Num, c.PositionSec, isLoop,
			c.LoopEndSec, c.ColorRed, c.ColorGreen, c.ColorBlue)
		if err != nil {
			return fmt.Errorf("insert cue for track %d: %w", trackID, err)
		}
	}
	return nil
}

// ClearPlaylists removes all playlist membership rows. A catalog import
// rebuilds playlists from scratch.
func ClearPlaylists(ex executor) error {
	_, err := ex.Exec(`DELETE FROM playlists`)
	return err
}

// AddPlaylistEntry records one track's membership in a playlist.
// Position is 1-based within the playlist.
func AddPlaylistEntry(ex executor, name, path string, trackID int64, position int) error {
	_, err := ex.Exec(`
		INSERT INTO playlists (playlist_name, playlist_path, track_id, position)
		VALUES (?, ?, ?, ?)
	`, name, path, trackID, position)
	return err
}

// AddAnalysisRecord records the location of a rekordbox ANLZ analysis file
// for a track. Content flags stay zero until the binary format is decoded.
func AddAnalysisRecord(ex executor, trackID int64, anlzPath string) error {
	_, err := ex.Exec(`
		INSERT INTO analysis_records (track_id, anlz_path)
		VALUES (?, ?)
	`, trackID, anlzPath)
	return err
}
