package query

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/llehouerou/cratedex/internal/report"
)

// ErrNotSelect is returned for statements that could modify the index.
var ErrNotSelect = errors.New("only SELECT queries are allowed")

// Run executes an ad-hoc read-only query and renders the result as an
// aligned table. Anything that is not a plain SELECT is rejected before
// it reaches the database.
func Run(conn *sql.DB, w io.Writer, sqlText string) error {
	trimmed := strings.TrimSpace(sqlText)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return ErrNotSelect
	}

	rows, err := conn.Query(trimmed)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	var records [][]string
	for rows.Next() {
		cells := make([]any, len(columns))
		for i := range cells {
			cells[i] = new(any)
		}
		if err := rows.Scan(cells...); err != nil {
			return err
		}
		record := make([]string, len(columns))
		for i, c := range cells {
			record[i] = formatCell(*c.(*any))
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	report.Table(w, columns, records)
	return nil
}

// formatCell renders a scanned value for display. Whole floats drop
// their fractional part, other floats keep two decimals.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
