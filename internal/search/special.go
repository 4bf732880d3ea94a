package search

import (
	"database/sql"

	"github.com/llehouerou/cratedex/internal/db"
)

// PlaylistInfo is one playlist with its member count.
type PlaylistInfo struct {
	Name       string
	Path       string
	TrackCount int
}

// Playlists lists all playlists grouped by (name, path), ordered by path.
func Playlists(conn *sql.DB) ([]PlaylistInfo, error) {
	rows, err := conn.Query(`
		SELECT playlist_name, playlist_path, COUNT(*) as track_count
		FROM playlists
		GROUP BY playlist_name, playlist_path
		ORDER BY playlist_path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []PlaylistInfo
	for rows.Next() {
		var p PlaylistInfo
		var name, path sql.NullString
		if err := rows.Scan(&name, &path, &p.TrackCount); err != nil {
			return nil, err
		}
		p.Name = db.NullStringValue(name)
		p.Path = db.NullStringValue(path)
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// DuplicateGroup is a set of tracks sharing a lowercased filename.
type DuplicateGroup struct {
	FilenameLower string
	Count         int
	Sources       string // distinct source labels, comma separated
}

// Duplicates finds filenames indexed more than once.
func Duplicates(conn *sql.DB) ([]DuplicateGroup, error) {
	rows, err := conn.Query(`
		SELECT filename_lower, COUNT(*) as cnt,
			GROUP_CONCAT(DISTINCT source_label) as sources
		FROM tracks
		GROUP BY filename_lower
		HAVING COUNT(*) > 1
		ORDER BY cnt DESC, filename_lower
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var g DuplicateGroup
		var sources sql.NullString
		if err := rows.Scan(&g.FilenameLower, &g.Count, &sources); err != nil {
			return nil, err
		}
		g.Sources = db.NullStringValue(sources)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// NoCues finds rekordbox tracks without any cue points. Same row shape and
// cap semantics as the general search.
func NoCues(conn *sql.DB, limit int) ([]Row, error) {
	query := baseSelect + `
	WHERE t.in_rekordbox = 1
	GROUP BY t.id
	HAVING COUNT(cp.id) = 0
	ORDER BY t.artist, t.title
	LIMIT ?`
	return queryRows(conn, query, limit)
}

// PlaylistSection is one matched playlist with its member tracks in
// stored order.
type PlaylistSection struct {
	Name   string
	Path   string
	Tracks []Row
}

// PlaylistTracks resolves playlists whose name or path matches the
// pattern (substring, or regex when regex is set) and returns each one's
// member tracks ordered by position.
func PlaylistTracks(conn *sql.DB, pattern string, regex bool) ([]PlaylistSection, error) {
	nameCond, nameParam := match("playlist_name", pattern, regex)
	pathCond, pathParam := match("playlist_path", pattern, regex)
	rows, err := conn.Query(`
		SELECT DISTINCT playlist_name, playlist_path
		FROM playlists
		WHERE `+nameCond+` OR `+pathCond+`
		ORDER BY playlist_path
	`, nameParam, pathParam)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []PlaylistSection
	for rows.Next() {
		var s PlaylistSection
		var name, path sql.NullString
		if err := rows.Scan(&name, &path); err != nil {
			return nil, err
		}
		s.Name = db.NullStringValue(name)
		s.Path = db.NullStringValue(path)
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sections {
		tracks, err := playlistMembers(conn, sections[i].Name, sections[i].Path)
		if err != nil {
			return nil, err
		}
		sections[i].Tracks = tracks
	}
	return sections, nil
}

func playlistMembers(conn *sql.DB, name, path string) ([]Row, error) {
	query := `
	SELECT
		t.id, t.artist, t.title, t.filename, t.filepath, t.bpm, t.musical_key,
		t.source_label, t.in_rekordbox,
		COUNT(CASE WHEN cp.cue_type LIKE 'hot_cue_%' THEN 1 END) as num_hot_cues,
		COUNT(cp.id) as num_cues
	FROM playlists p
	JOIN tracks t ON t.id = p.track_id
	LEFT JOIN cue_points cp ON t.id = cp.track_id
	WHERE p.playlist_name = ? AND p.playlist_path = ?
	GROUP BY t.id, p.position
	ORDER BY p.position`
	return queryRows(conn, query, name, path)
}
