package output

import (
	"bytes"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/darhnoel/xsql/query"
)

// TableFormatter renders the result set as an aligned table with an
// optional header line. When Export is set, the same rendering is also
// persisted to a file.
type TableFormatter struct {
	writer io.Writer
	header bool
	export string
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer, header bool) *TableFormatter {
	return &TableFormatter{writer: w, header: header}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// SetExport additionally persists renderings to the given file path
func (t *TableFormatter) SetExport(path string) {
	t.export = path
}

// Format renders the result set
func (t *TableFormatter) Format(rs *query.ResultSet) error {
	var buf bytes.Buffer
	t.render(&buf, rs)

	if t.export != "" {
		err := writeFileAtomic(t.export, func(w io.Writer) error {
			_, err := w.Write(buf.Bytes())
			return err
		})
		if err != nil {
			return &query.OutputError{Target: t.export, Err: err}
		}
	}

	if _, err := t.writer.Write(buf.Bytes()); err != nil {
		return &query.OutputError{Target: "table", Err: err}
	}
	return nil
}

func (t *TableFormatter) render(w io.Writer, rs *query.ResultSet) {
	table := tablewriter.NewWriter(w)
	if t.header {
		table.SetHeader(rs.Columns)
	}
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.Text()
		}
		table.Append(cells)
	}
	table.Render()
}
