package search

import (
	"database/sql"
	"strconv"

	"github.com/llehouerou/cratedex/internal/db"
)

// Row is one search result with its cue counts.
type Row struct {
	ID          int64
	Artist      string
	Title       string
	Filename    string
	Filepath    string
	BPM         *float64
	MusicalKey  string
	SourceLabel string
	InRekordbox bool
	NumHotCues  int
	NumCues     int
}

// Columns lists the exportable column names of a Row, in schema order.
func Columns() []string {
	return []string{
		"id", "artist", "title", "filename", "filepath", "bpm", "musical_key",
		"source_label", "in_rekordbox", "num_hot_cues", "num_cues",
	}
}

// Record renders a Row as CSV-ready strings in Columns order. Null BPM
// becomes an empty field.
func (r *Row) Record() []string {
	bpm := ""
	if r.BPM != nil {
		bpm = strconv.FormatFloat(*r.BPM, 'f', -1, 64)
	}
	inRB := "0"
	if r.InRekordbox {
		inRB = "1"
	}
	return []string{
		strconv.FormatInt(r.ID, 10), r.Artist, r.Title, r.Filename, r.Filepath,
		bpm, r.MusicalKey, r.SourceLabel, inRB,
		strconv.Itoa(r.NumHotCues), strconv.Itoa(r.NumCues),
	}
}

// Tracks runs the general filter search.
func Tracks(conn *sql.DB, f *Filters) ([]Row, error) {
	query, params := f.Build()
	return queryRows(conn, query, params...)
}

func queryRows(conn *sql.DB, query string, params ...any) ([]Row, error) {
	rows, err := conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var r Row
		var artist, title, filename, key, source sql.NullString
		var bpm sql.NullFloat64
		var inRB sql.NullInt64
		err := rows.Scan(&r.ID, &artist, &title, &filename, &r.Filepath,
			&bpm, &key, &source, &inRB, &r.NumHotCues, &r.NumCues)
		if err != nil {
			return nil, err
		}
		r.Artist = db.NullStringValue(artist)
		r.Title = db.NullStringValue(title)
		r.Filename = db.NullStringValue(filename)
		r.BPM = db.NullFloat64Ptr(bpm)
		r.MusicalKey = db.NullStringValue(key)
		r.SourceLabel = db.NullStringValue(source)
		r.InRekordbox = inRB.Valid && inRB.Int64 != 0
		results = append(results, r)
	}
	return results, rows.Err()
}
