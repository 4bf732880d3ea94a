package db

import "database/sql"

// createSchema creates all tables and indexes if they don't exist.
func createSchema(conn *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filepath TEXT UNIQUE,
			filename TEXT,
			filename_lower TEXT,
			source_label TEXT,
			title TEXT,
			artist TEXT,
			album TEXT,
			genre TEXT,
			bpm REAL,
			musical_key TEXT,
			duration_sec REAL,
			bitrate INTEGER,
			sample_rate INTEGER,
			file_format TEXT,
			file_size INTEGER,
			in_rekordbox INTEGER DEFAULT 0,
			rb_track_id TEXT,
			rb_location TEXT,
			comments TEXT,
			rating INTEGER,
			label TEXT,
			remixer TEXT,
			color TEXT,
			date_indexed TEXT DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS cue_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id INTEGER NOT NULL,
			cue_type TEXT,
			cue_name TEXT,
			cue_num INTEGER,
			position_sec REAL,
			is_loop INTEGER DEFAULT 0,
			loop_end_sec REAL,
			color_red INTEGER,
			color_green INTEGER,
			color_blue INTEGER,
			FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS playlists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			playlist_name TEXT,
			playlist_path TEXT,
			track_id INTEGER,
			position INTEGER,
			FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id INTEGER NOT NULL,
			has_beat_grid INTEGER DEFAULT 0,
			has_waveform INTEGER DEFAULT 0,
			has_waveform_color INTEGER DEFAULT 0,
			anlz_path TEXT,
			FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE
		)`,
	}

	for _, stmt := range tables {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}

	return createIndexes(conn)
}

// createIndexes creates indexes on the commonly filtered columns.
func createIndexes(conn *sql.DB) error {
	indexes := []struct {
		name, table, column string
	}{
		{"idx_tracks_filename", "tracks", "filename"},
		{"idx_tracks_filename_lower", "tracks", "filename_lower"},
		{"idx_tracks_artist", "tracks", "artist"},
		{"idx_tracks_title", "tracks", "title"},
		{"idx_tracks_genre", "tracks", "genre"},
		{"idx_tracks_bpm", "tracks", "bpm"},
		{"idx_tracks_source_label", "tracks", "source_label"},
		{"idx_tracks_musical_key", "tracks", "musical_key"},
		{"idx_cue_points_track_id", "cue_points", "track_id"},
		{"idx_playlists_track_id", "playlists", "track_id"},
	}

	for _, idx := range indexes {
		stmt := "CREATE INDEX IF NOT EXISTS " + idx.name + " ON " + idx.table + "(" + idx.column + ")"
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
