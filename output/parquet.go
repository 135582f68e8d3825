package output

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/darhnoel/xsql/query"
)

// ParquetFormatter writes result sets as Parquet. The schema is derived
// from the result columns: columns whose non-null values are all numeric
// become optional doubles, booleans become optional booleans, everything
// else becomes an optional string (lists render to joined text).
type ParquetFormatter struct {
	writer io.Writer
}

// NewParquetFormatter creates a new Parquet formatter
func NewParquetFormatter(w io.Writer) *ParquetFormatter {
	return &ParquetFormatter{writer: w}
}

// SetOutput sets the output writer
func (p *ParquetFormatter) SetOutput(w io.Writer) {
	p.writer = w
}

// Format writes the result set as a Parquet file
func (p *ParquetFormatter) Format(rs *query.ResultSet) error {
	kinds := columnKinds(rs)
	schema := buildSchema(rs, kinds)

	writer := parquet.NewGenericWriter[map[string]any](p.writer, schema)
	rows := make([]map[string]any, len(rs.Rows))
	for i, row := range rs.Rows {
		record := make(map[string]any, len(row))
		for j, v := range row {
			if v.IsNull() {
				continue
			}
			// Cell values must match the inferred column type; mixed
			// columns degrade to text.
			switch kinds[j] {
			case query.ValueNumber:
				record[rs.Columns[j]] = v.Num
			case query.ValueBool:
				record[rs.Columns[j]] = v.Bool
			default:
				record[rs.Columns[j]] = v.Text()
			}
		}
		rows[i] = record
	}

	if _, err := writer.Write(rows); err != nil {
		return &query.OutputError{Target: "parquet", Err: fmt.Errorf("failed to write rows: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return &query.OutputError{Target: "parquet", Err: fmt.Errorf("failed to finalize file: %w", err)}
	}
	return nil
}

// WriteParquetFile exports the result set to a Parquet file, writing
// through a temporary file renamed into place.
func WriteParquetFile(path string, rs *query.ResultSet) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return NewParquetFormatter(w).Format(rs)
	})
	if err != nil {
		if _, ok := err.(*query.OutputError); ok {
			return err
		}
		return &query.OutputError{Target: path, Err: err}
	}
	return nil
}

// columnKinds infers one value kind per column from the non-null cells.
// Columns with mixed kinds fall back to strings.
func columnKinds(rs *query.ResultSet) []query.ValueKind {
	kinds := make([]query.ValueKind, len(rs.Columns))
	for col := range rs.Columns {
		kind := query.ValueNull
		for _, row := range rs.Rows {
			v := row[col]
			if v.IsNull() {
				continue
			}
			if kind == query.ValueNull {
				kind = v.Kind
				continue
			}
			if kind != v.Kind {
				kind = query.ValueString
				break
			}
		}
		kinds[col] = kind
	}
	return kinds
}

// buildSchema derives a Parquet schema from the inferred column kinds
func buildSchema(rs *query.ResultSet, kinds []query.ValueKind) *parquet.Schema {
	group := parquet.Group{}
	for i, col := range rs.Columns {
		var node parquet.Node
		switch kinds[i] {
		case query.ValueNumber:
			node = parquet.Leaf(parquet.DoubleType)
		case query.ValueBool:
			node = parquet.Leaf(parquet.BooleanType)
		default:
			node = parquet.String()
		}
		group[col] = parquet.Optional(node)
	}
	return parquet.NewSchema("result", group)
}
