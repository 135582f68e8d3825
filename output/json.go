package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/darhnoel/xsql/query"
)

// JSONLFormatter writes one JSON object per row, keyed by column label.
// Null cells are omitted from the object.
type JSONLFormatter struct {
	writer io.Writer
}

// NewJSONLFormatter creates a new JSON Lines formatter
func NewJSONLFormatter(w io.Writer) *JSONLFormatter {
	return &JSONLFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONLFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the result set as JSON Lines
func (j *JSONLFormatter) Format(rs *query.ResultSet) error {
	enc := json.NewEncoder(j.writer)
	for _, row := range rs.Rows {
		record := make(map[string]any, len(row))
		for i, v := range row {
			if v.IsNull() {
				continue
			}
			switch v.Kind {
			case query.ValueNumber:
				record[rs.Columns[i]] = v.Num
			case query.ValueBool:
				record[rs.Columns[i]] = v.Bool
			case query.ValueList:
				record[rs.Columns[i]] = v.List
			default:
				record[rs.Columns[i]] = v.Str
			}
		}
		if err := enc.Encode(record); err != nil {
			return &query.OutputError{Target: "jsonl", Err: fmt.Errorf("failed to encode row: %w", err)}
		}
	}
	return nil
}
