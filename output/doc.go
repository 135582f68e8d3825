// Package output provides renderers for query result sets.
//
// This package defines the Formatter interface and provides
// implementations for the result bindings of the query language plus a
// JSON Lines convenience format for the CLI. All formatters work with
// *query.ResultSet values.
//
// # Supported Formats
//
//   - List: one value per line (TO LIST)
//   - Table: aligned columns with an optional header line (TO TABLE)
//   - CSV: comma-separated values with header row (TO CSV)
//   - Parquet: one column per result column (TO PARQUET)
//   - JSON Lines: one JSON object per line (CLI only)
//
// # Basic Usage
//
// Rendering to standard output:
//
//	formatter := output.NewTableFormatter(os.Stdout, true)
//	if err := formatter.Format(rs); err != nil {
//	    log.Fatal(err)
//	}
//
// # Exporting to Files
//
// The CSV and Parquet formatters provide file exports that write to a
// temporary file in the target directory and rename it into place, so a
// failed export never leaves a truncated file behind:
//
//	if err := output.WriteCSVFile("out.csv", rs); err != nil {
//	    log.Fatal(err)
//	}
//
// # Formatter Interface
//
// Implement custom formatters by satisfying the Formatter interface:
//
//	type Formatter interface {
//	    Format(rs *query.ResultSet) error
//	    SetOutput(w io.Writer)
//	}
//
// # Type Handling
//
// Null values render as empty cells in CSV and table output and are
// omitted from JSON and Parquet rows. Whole numbers render without a
// fraction; lists join with ", " in textual formats.
package output
