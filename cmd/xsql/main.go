package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/darhnoel/xsql/htmldoc"
	"github.com/darhnoel/xsql/output"
	"github.com/darhnoel/xsql/query"
)

var (
	queryFlag  = flag.String("q", "", "query (e.g., \"SELECT title.text FROM document\")")
	formatFlag = flag.String("f", "table", "Output format: table, list, csv, jsonl")
	limitFlag  = flag.Int("limit", 0, "Limit number of rows (0 = unlimited)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file.html]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A tool to query HTML documents with an SQL-like language.\n\n")
		fmt.Fprintf(os.Stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -q \"SELECT title.text FROM document\" page.html\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"SELECT a.text, a.href FROM document WHERE a.href ~ '^https'\" page.html\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"SELECT SUMMARIZE(*) FROM 'https://example.com' TO TABLE(HEADER=ON)\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"SHOW FUNCTIONS\"\n", os.Args[0])
	}

	flag.Parse()

	if *limitFlag < 0 {
		fmt.Fprintf(os.Stderr, "Error: -limit must be non-negative, got %d\n", *limitFlag)
		os.Exit(1)
	}
	if *queryFlag == "" {
		fmt.Fprintf(os.Stderr, "Error: missing -q query\n\n")
		flag.Usage()
		os.Exit(1)
	}

	q, err := query.Parse(*queryFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing query: %v\n", err)
		os.Exit(1)
	}

	// The positional file argument binds the default document. Queries that
	// name their own source (a path, URL, RAW or FRAGMENTS) run without one.
	var doc *htmldoc.Document
	if flag.NArg() >= 1 {
		doc, err = htmldoc.Load(flag.Arg(0))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error: file '%s' not found\n", flag.Arg(0))
				fmt.Fprintf(os.Stderr, "Please check the file path and try again.\n")
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
	}

	ctx := query.NewExecutionContext(doc)
	rs, err := ctx.Execute(q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flag-based limit applies only when the query itself has no LIMIT
	if *limitFlag > 0 && (q.Kind != query.QuerySelect || q.Limit == nil) && len(rs.Rows) > *limitFlag {
		rs.Rows = rs.Rows[:*limitFlag]
	}

	if err := render(q, rs); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}

// render honors an explicit TO clause, falling back to the -f flag
func render(q *query.Query, rs *query.ResultSet) error {
	if q.Sink != nil {
		switch q.Sink.Kind {
		case query.SinkList:
			return output.NewListFormatter(os.Stdout).Format(rs)
		case query.SinkTable:
			f := output.NewTableFormatter(os.Stdout, q.Sink.Header)
			if q.Sink.Path != "" {
				f.SetExport(q.Sink.Path)
			}
			return f.Format(rs)
		case query.SinkCSV:
			return output.WriteCSVFile(q.Sink.Path, rs)
		case query.SinkParquet:
			return output.WriteParquetFile(q.Sink.Path, rs)
		}
	}

	var formatter output.Formatter
	switch *formatFlag {
	case "table":
		formatter = output.NewTableFormatter(os.Stdout, true)
	case "list":
		formatter = output.NewListFormatter(os.Stdout)
	case "csv":
		formatter = output.NewCSVFormatter(os.Stdout)
	case "json", "jsonl":
		formatter = output.NewJSONLFormatter(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'\n", *formatFlag)
		fmt.Fprintf(os.Stderr, "Supported formats: table, list, csv, jsonl\n")
		os.Exit(1)
	}
	return formatter.Format(rs)
}
