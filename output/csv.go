package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/darhnoel/xsql/query"
)

// CSVFormatter outputs result sets as CSV with a header row. Columns keep
// their select-list order; null values render as empty cells.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the result set as CSV
func (c *CSVFormatter) Format(rs *query.ResultSet) error {
	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(rs.Columns); err != nil {
		return &query.OutputError{Target: "csv", Err: err}
	}

	for _, row := range rs.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = v.Text()
		}
		if err := csvWriter.Write(record); err != nil {
			return &query.OutputError{Target: "csv", Err: err}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return &query.OutputError{Target: "csv", Err: fmt.Errorf("failed to flush CSV writer: %w", err)}
	}

	return nil
}

// WriteCSVFile exports the result set to a CSV file, writing through a
// temporary file renamed into place.
func WriteCSVFile(path string, rs *query.ResultSet) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return NewCSVFormatter(w).Format(rs)
	})
	if err != nil {
		return &query.OutputError{Target: path, Err: err}
	}
	return nil
}
