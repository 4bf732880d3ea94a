package report

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
)

// FolderFilters is the filter subset accepted by the folder breakdown.
type FolderFilters struct {
	InRekordbox    bool
	NotInRekordbox bool
	Source         string
	Format         string
	Genre          string
	BPMMin         *float64
	BPMMax         *float64
	Limit          int
}

// FolderRow is one folder with its track count.
type FolderRow struct {
	Path  string
	Count int64
}

// AnalyzeFolders counts tracks per containing folder using the dirname
// scalar function, most populated first.
func AnalyzeFolders(conn *sql.DB, f *FolderFilters) ([]FolderRow, error) {
	var conditions []string
	var params []any

	if f.InRekordbox {
		conditions = append(conditions, "in_rekordbox = 1")
	}
	if f.NotInRekordbox {
		conditions = append(conditions, "in_rekordbox = 0")
	}
	if f.Source != "" {
		conditions = append(conditions, "source_label LIKE ?")
		params = append(params, "%"+f.Source+"%")
	}
	if f.Format != "" {
		conditions = append(conditions, "file_format = ?")
		params = append(params, f.Format)
	}
	if f.Genre != "" {
		conditions = append(conditions, "genre LIKE ?")
		params = append(params, "%"+f.Genre+"%")
	}
	if f.BPMMin != nil {
		conditions = append(conditions, "bpm >= ?")
		params = append(params, *f.BPMMin)
	}
	if f.BPMMax != nil {
		conditions = append(conditions, "bpm <= ?")
		params = append(params, *f.BPMMax)
	}

	where := "1=1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}
	params = append(params, f.Limit)

	rows, err := conn.Query(`
		SELECT DIRNAME(filepath) as folder_path, COUNT(*) as track_count
		FROM tracks
		WHERE `+where+`
		GROUP BY DIRNAME(filepath)
		ORDER BY track_count DESC
		LIMIT ?
	`, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []FolderRow
	for rows.Next() {
		var r FolderRow
		var path sql.NullString
		if err := rows.Scan(&path, &r.Count); err != nil {
			return nil, err
		}
		r.Path = path.String
		folders = append(folders, r)
	}
	return folders, rows.Err()
}

// Describe renders the active filters for the report title.
func (f *FolderFilters) Describe() string {
	var parts []string
	if f.InRekordbox {
		parts = append(parts, "in rekordbox")
	}
	if f.NotInRekordbox {
		parts = append(parts, "not in rekordbox")
	}
	if f.Source != "" {
		parts = append(parts, "source="+f.Source)
	}
	if f.Format != "" {
		parts = append(parts, "format="+f.Format)
	}
	if f.Genre != "" {
		parts = append(parts, "genre="+f.Genre)
	}
	if f.BPMMin != nil || f.BPMMax != nil {
		var bounds []string
		if f.BPMMin != nil {
			bounds = append(bounds, fmt.Sprintf("%g", *f.BPMMin))
		}
		if f.BPMMax != nil {
			bounds = append(bounds, fmt.Sprintf("%g", *f.BPMMax))
		}
		parts = append(parts, "bpm="+strings.Join(bounds, "-"))
	}
	return strings.Join(parts, " | ")
}

// WriteFolders prints the folder breakdown, paths left-aligned.
func WriteFolders(w io.Writer, folders []FolderRow, filters *FolderFilters) {
	if len(folders) == 0 {
		fmt.Fprintf(w, "\nNo folders found matching criteria.\n\n")
		return
	}

	maxLen := len("Folder Path")
	for _, f := range folders {
		path := f.Path
		if path == "" {
			path = "(no path)"
		}
		if len(path) > maxLen {
			maxLen = len(path)
		}
	}

	title := fmt.Sprintf("Folder Analysis (%d unique folders)", len(folders))
	if desc := filters.Describe(); desc != "" {
		title += " [" + desc + "]"
	}
	fmt.Fprintf(w, "\n%s:\n\n", title)

	for _, f := range folders {
		path := f.Path
		if path == "" {
			path = "(no path)"
		}
		plural := "s"
		if f.Count == 1 {
			plural = ""
		}
		fmt.Fprintf(w, "   %-*s  %d track%s\n", maxLen, path, f.Count, plural)
	}
	fmt.Fprintln(w)
}
