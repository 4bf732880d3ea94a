package search

import (
	"database/sql"

	"github.com/llehouerou/cratedex/internal/db"
)

// TrackDetail is the header info for a cue listing.
type TrackDetail struct {
	ID          int64
	Artist      string
	Title       string
	Filename    string
	BPM         *float64
	MusicalKey  string
	SourceLabel string
	DurationSec *float64
}

// CueDetail is one cue point of a track.
type CueDetail struct {
	Type        string
	Name        string
	Num         int
	PositionSec float64
	IsLoop      bool
	LoopEndSec  *float64
}

// TracksForCues finds tracks matching a free-text query, for the cue
// listing command.
func TracksForCues(conn *sql.DB, query string) ([]TrackDetail, error) {
	rows, err := conn.Query(`
		SELECT id, artist, title, filename, bpm, musical_key, source_label, duration_sec
		FROM tracks
		WHERE title LIKE ? OR artist LIKE ? OR filename LIKE ?
		ORDER BY artist, title
	`, "%"+query+"%", "%"+query+"%", "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []TrackDetail
	for rows.Next() {
		var t TrackDetail
		var artist, title, filename, key, source sql.NullString
		var bpm, duration sql.NullFloat64
		err := rows.Scan(&t.ID, &artist, &title, &filename, &bpm, &key, &source, &duration)
		if err != nil {
			return nil, err
		}
		t.Artist = db.NullStringValue(artist)
		t.Title = db.NullStringValue(title)
		t.Filename = db.NullStringValue(filename)
		t.BPM = db.NullFloat64Ptr(bpm)
		t.MusicalKey = db.NullStringValue(key)
		t.SourceLabel = db.NullStringValue(source)
		t.DurationSec = db.NullFloat64Ptr(duration)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// Cues lists a track's cue points ordered by position.
func Cues(conn *sql.DB, trackID int64) ([]CueDetail, error) {
	rows, err := conn.Query(`
		SELECT cue_type, cue_name, cue_num, position_sec, is_loop, loop_end_sec
		FROM cue_points
		WHERE track_id = ?
		ORDER BY position_sec
	`, trackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cues []CueDetail
	for rows.Next() {
		var c CueDetail
		var name sql.NullString
		var isLoop sql.NullInt64
		var loopEnd sql.NullFloat64
		err := rows.Scan(&c.Type, &name, &c.Num, &c.PositionSec, &isLoop, &loopEnd)
		if err != nil {
			return nil, err
		}
		c.Name = db.NullStringValue(name)
		c.IsLoop = isLoop.Valid && isLoop.Int64 != 0
		c.LoopEndSec = db.NullFloat64Ptr(loopEnd)
		cues = append(cues, c)
	}
	return cues, rows.Err()
}
