package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/darhnoel/xsql/query"
)

// ListFormatter outputs one value per line. Rows with several columns
// join them with tabs, though the LIST binding itself is single-column.
type ListFormatter struct {
	writer io.Writer
}

// NewListFormatter creates a new list formatter
func NewListFormatter(w io.Writer) *ListFormatter {
	return &ListFormatter{writer: w}
}

// SetOutput sets the output writer
func (l *ListFormatter) SetOutput(w io.Writer) {
	l.writer = w
}

// Format writes each row on its own line
func (l *ListFormatter) Format(rs *query.ResultSet) error {
	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.Text()
		}
		if _, err := fmt.Fprintln(l.writer, strings.Join(cells, "\t")); err != nil {
			return &query.OutputError{Target: "list", Err: err}
		}
	}
	return nil
}
