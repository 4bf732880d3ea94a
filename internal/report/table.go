package report

import (
	"fmt"
	"io"
	"strings"
)

// Table prints rows with aligned columns, a separator under the header,
// and a row-count footer.
func Table(w io.Writer, columns []string, rows [][]string) {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	fmt.Fprintln(w)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = pad(c, widths[i])
	}
	fmt.Fprintln(w, "   "+strings.Join(header, " | "))

	sep := make([]string, len(columns))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	fmt.Fprintln(w, "   "+strings.Join(sep, "-+-"))

	for _, row := range rows {
		cells := make([]string, len(columns))
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i])
		}
		fmt.Fprintln(w, "   "+strings.Join(cells, " | "))
	}

	plural := "s"
	if len(rows) == 1 {
		plural = ""
	}
	fmt.Fprintf(w, "\n(%d row%s)\n\n", len(rows), plural)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
