package query

import "fmt"

// The SHOW and DESCRIBE subjects render fixed, read-only tables compiled
// into the binary. Only SHOW INPUT and SHOW INPUTS consult the execution
// context.

var functionRegistry = ResultSet{
	Columns: []string{"function", "returns", "description"},
	Rows: [][]Value{
		{Str("COUNT(*|tag)"), Str("number"), Str("count of matched nodes, optionally restricted to a tag")},
		{Str("SUMMARIZE(*)"), Str("rows"), Str("per-tag frequency table over the matched nodes")},
		{Str("TFIDF(tag...|*, opts)"), Str("rows"), Str("top scored terms per node over the matched corpus")},
		{Str("TEXT(tag)"), Str("string"), Str("direct text of the resolved node, inline children included")},
		{Str("INNER_HTML(tag[, depth])"), Str("string"), Str("inner markup limited to the given element depth (default 1)")},
		{Str("TRIM(x)"), Str("string"), Str("edge-whitespace-trimmed projection; sole select item")},
	},
}

var axisRegistry = ResultSet{
	Columns: []string{"axis", "description"},
	Rows: [][]Value{
		{Str("self"), Str("the candidate node itself (implied when no axis is given)")},
		{Str("parent"), Str("the candidate's parent, empty for roots")},
		{Str("child"), Str("the candidate's direct children")},
		{Str("ancestor"), Str("every node on the path to the root")},
		{Str("descendant"), Str("every node below the candidate, in document order")},
	},
}

var operatorRegistry = ResultSet{
	Columns: []string{"operator", "description"},
	Rows: [][]Value{
		{Str("="), Str("equality; class compares as a token set, tags fold case")},
		{Str("<> / !="), Str("inequality")},
		{Str("~"), Str("regular expression match, unanchored")},
		{Str("IN (v1, ...)"), Str("membership in a value list")},
		{Str("CONTAINS v"), Str("case-insensitive substring test on an attribute")},
		{Str("CONTAINS ALL (...)"), Str("every value is a substring; empty list is vacuously true")},
		{Str("CONTAINS ANY (...)"), Str("some value is a substring; empty list is false")},
		{Str("IS NULL / IS NOT NULL"), Str("field or axis absence test")},
		{Str("HAS_DIRECT_TEXT 'str'"), Str("case-insensitive substring test on direct text")},
		{Str("EXISTS(axis [WHERE expr])"), Str("axis is non-empty, optionally constrained by a predicate")},
		{Str("AND / OR"), Str("boolean combination; OR binds loosest")},
	},
}

var describeDoc = ResultSet{
	Columns: []string{"column_name", "type", "nullable", "notes"},
	Rows: [][]Value{
		{Str("node_id"), Str("number"), Str("no"), Str("arena index, stable per document")},
		{Str("tag"), Str("string"), Str("no"), Str("lowercase element name")},
		{Str("text"), Str("string"), Str("yes"), Str("whitespace-normalized subtree text")},
		{Str("attributes"), Str("list"), Str("yes"), Str("ordered key=value pairs")},
		{Str("parent_id"), Str("number"), Str("yes"), Str("null for root nodes")},
		{Str("sibling_pos"), Str("number"), Str("no"), Str("1-based position among the parent's children")},
		{Str("max_depth"), Str("number"), Str("no"), Str("height of the subtree rooted at the node")},
		{Str("doc_order"), Str("number"), Str("no"), Str("preorder position")},
	},
}

var describeLanguage = ResultSet{
	Columns: []string{"category", "name", "syntax", "notes"},
	Rows: [][]Value{
		{Str("statement"), Str("SELECT"), Str("SELECT list [EXCLUDE fields] FROM source [WHERE expr] [ORDER BY ...] [LIMIT n] [TO sink]"), Str("core query form")},
		{Str("statement"), Str("SHOW"), Str("SHOW INPUT|INPUTS|FUNCTIONS|AXES|OPERATORS"), Str("introspection")},
		{Str("statement"), Str("DESCRIBE"), Str("DESCRIBE DOC|DOCUMENT|LANGUAGE"), Str("schema and language reference")},
		{Str("clause"), Str("FROM"), Str("document | 'path' | 'http(s)://...' | RAW('<markup>') | FRAGMENTS(...) | alias [AS name]"), Str("source resolution")},
		{Str("clause"), Str("WHERE"), Str("operand op value [AND|OR ...]"), Str("axis-aware predicates; parentheses allowed")},
		{Str("clause"), Str("TO"), Str("TO LIST() | TABLE([HEADER=ON|OFF][, EXPORT='file']) | CSV('file') | PARQUET('file')"), Str("result binding")},
		{Str("operand"), Str("axis.field"), Str("[qualifier.][parent|child|ancestor|descendant.]field"), Str("self axis implied")},
	},
}

// executeMeta renders a SHOW or DESCRIBE statement
func (ctx *ExecutionContext) executeMeta(q *Query) (*ResultSet, error) {
	switch q.Subject {
	case "FUNCTIONS":
		return copyResult(&functionRegistry), nil
	case "AXES":
		return copyResult(&axisRegistry), nil
	case "OPERATORS":
		return copyResult(&operatorRegistry), nil
	case "DOC":
		return copyResult(&describeDoc), nil
	case "LANGUAGE":
		return copyResult(&describeLanguage), nil
	case "INPUT":
		return ctx.showInput()
	case "INPUTS":
		return ctx.showInputs(), nil
	default:
		return nil, fmt.Errorf("unknown subject %q", q.Subject)
	}
}

// showInput describes the default bound document
func (ctx *ExecutionContext) showInput() (*ResultSet, error) {
	doc, ok := ctx.Documents["document"]
	if !ok {
		return nil, &SourceError{Source: "document", Err: fmt.Errorf("no document bound")}
	}
	uri := doc.SourceURI
	if uri == "" {
		uri = "(in-memory)"
	}
	return &ResultSet{
		Columns: []string{"key", "value"},
		Rows: [][]Value{
			{Str("source_uri"), Str(uri)},
			{Str("node_count"), Int(int64(len(doc.Nodes)))},
		},
	}, nil
}

// showInputs lists every bound document in binding order
func (ctx *ExecutionContext) showInputs() *ResultSet {
	rs := &ResultSet{Columns: []string{"alias", "source_uri"}}
	for _, alias := range ctx.order {
		doc := ctx.Documents[alias]
		uri := doc.SourceURI
		if uri == "" {
			uri = "(in-memory)"
		}
		rs.Rows = append(rs.Rows, []Value{Str(alias), Str(uri)})
	}
	return rs
}

// copyResult clones a registry table so callers cannot mutate it
func copyResult(rs *ResultSet) *ResultSet {
	out := &ResultSet{Columns: append([]string(nil), rs.Columns...)}
	out.Rows = make([][]Value, len(rs.Rows))
	for i, row := range rs.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}
