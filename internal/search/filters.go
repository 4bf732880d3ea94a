// Package search builds and runs the dynamic track filter queries.
package search

import "strings"

// freeTextColumns are the fields a free-text query matches against.
var freeTextColumns = []string{
	"t.title", "t.artist", "t.album", "t.filename",
	"t.genre", "t.remixer", "t.label", "t.comments",
}

// Filters is the bag of optional search parameters. All set filters
// combine with AND.
type Filters struct {
	// Free-text query across title/artist/album/filename/genre/remixer/
	// label/comments. QueryRegex switches it from substring to regex.
	Query      string
	QueryRegex bool

	// Field-scoped filters. FieldRegex switches all of them to regex at
	// once.
	Artist     string
	Title      string
	Filename   string
	Genre      string
	Key        string
	FieldRegex bool

	Source string // substring match despite being a label
	Format string // exact match

	BPMMin *float64
	BPMMax *float64

	InRekordbox    bool
	NotInRekordbox bool

	Limit int
}

const baseSelect = `
	SELECT
		t.id, t.artist, t.title, t.filename, t.filepath, t.bpm, t.musical_key,
		t.source_label, t.in_rekordbox,
		COUNT(CASE WHEN cp.cue_type LIKE 'hot_cue_%' THEN 1 END) as num_hot_cues,
		COUNT(cp.id) as num_cues
	FROM tracks t
	LEFT JOIN cue_points cp ON t.id = cp.track_id`

// Build returns the parameterized query for the general filter search.
func (f *Filters) Build() (string, []any) {
	var conditions []string
	var params []any

	if f.Query != "" {
		var parts []string
		for _, col := range freeTextColumns {
			cond, param := match(col, f.Query, f.QueryRegex)
			parts = append(parts, cond)
			params = append(params, param)
		}
		conditions = append(conditions, "("+strings.Join(parts, " OR ")+")")
	}

	fieldFilters := []struct {
		col, value string
	}{
		{"t.artist", f.Artist},
		{"t.title", f.Title},
		{"t.filename", f.Filename},
		{"t.genre", f.Genre},
		{"t.musical_key", f.Key},
	}
	for _, ff := range fieldFilters {
		if ff.value == "" {
			continue
		}
		cond, param := match(ff.col, ff.value, f.FieldRegex)
		conditions = append(conditions, cond)
		params = append(params, param)
	}

	if f.Source != "" {
		conditions = append(conditions, "t.source_label LIKE ?")
		params = append(params, "%"+f.Source+"%")
	}
	if f.Format != "" {
		conditions = append(conditions, "t.file_format = ?")
		params = append(params, f.Format)
	}
	if f.BPMMin != nil {
		conditions = append(conditions, "t.bpm >= ?")
		params = append(params, *f.BPMMin)
	}
	if f.BPMMax != nil {
		conditions = append(conditions, "t.bpm <= ?")
		params = append(params, *f.BPMMax)
	}
	if f.InRekordbox {
		conditions = append(conditions, "t.in_rekordbox = 1")
	}
	if f.NotInRekordbox {
		conditions = append(conditions, "t.in_rekordbox = 0")
	}

	sql := baseSelect
	if len(conditions) > 0 {
		sql += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}
	sql += "\n\tGROUP BY t.id\n\tORDER BY t.artist, t.title\n\tLIMIT ?"
	params = append(params, f.Limit)

	return sql, params
}

// match builds one column condition: REGEXP in regex mode, otherwise a
// case-insensitive substring via LIKE.
func match(col, value string, regex bool) (string, any) {
	if regex {
		return col + " REGEXP ?", value
	}
	return col + " LIKE ?", "%" + value + "%"
}
