package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// ErrNoRows signals an export with nothing to write. The output file is
// not created in that case.
var ErrNoRows = errors.New("no results to export")

// pathColumns are the column names subject to path conversion.
var pathColumns = map[string]bool{
	"filepath":  true,
	"path":      true,
	"file_path": true,
}

// Options controls column projection and path conversion.
type Options struct {
	// Columns selects an ordered subset to export; nil means all columns
	// in their given order.
	Columns    []string
	Conversion *Conversion
	Volumes    VolumeMap
}

// Result reports what an export wrote.
type Result struct {
	Rows           int
	Columns        []string
	SkippedColumns []string
}

// WriteCSV writes rows to a CSV file with a header. Unknown requested
// columns are skipped and reported in the result; when none of the
// requested columns resolve, nothing is written and an error is returned.
func WriteCSV(path string, columns []string, rows [][]string, opts Options) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	indices, exportCols, skipped := project(columns, opts.Columns)
	if len(indices) == 0 {
		return nil, fmt.Errorf("no valid columns selected")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportCols); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := make([]string, len(indices))
		for i, idx := range indices {
			value := ""
			if idx < len(row) {
				value = row[idx]
			}
			if opts.Conversion != nil && pathColumns[exportCols[i]] {
				value = ConvertPath(value, opts.Conversion, opts.Volumes)
			}
			record[i] = value
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &Result{Rows: len(rows), Columns: exportCols, SkippedColumns: skipped}, nil
}

// project resolves the requested column subset against the available
// columns, preserving request order and collecting unknown names.
func project(available, requested []string) (indices []int, cols, skipped []string) {
	if requested == nil {
		for i, c := range available {
			indices = append(indices, i)
			cols = append(cols, c)
		}
		return indices, cols, nil
	}

	pos := make(map[string]int, len(available))
	for i, c := range available {
		pos[c] = i
	}
	for _, c := range requested {
		if i, ok := pos[c]; ok {
			indices = append(indices, i)
			cols = append(cols, c)
		} else {
			skipped = append(skipped, c)
		}
	}
	return indices, cols, skipped
}
