package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/darhnoel/xsql/htmldoc"
)

const (
	// maxFragments caps the fragment count a FRAGMENTS source may merge
	maxFragments = 10000
	// maxFragmentBytes caps the merged fragment markup size
	maxFragmentBytes = 16 << 20
)

// ExecutionContext holds the documents bound for query execution. The
// default document is bound under "document"; FROM ... AS alias adds
// further bindings usable by later statements in the same session.
type ExecutionContext struct {
	Documents map[string]*htmldoc.Document
	order     []string // binding order, for SHOW INPUTS
}

// NewExecutionContext creates a context, optionally binding the default
// document.
func NewExecutionContext(doc *htmldoc.Document) *ExecutionContext {
	ctx := &ExecutionContext{Documents: make(map[string]*htmldoc.Document)}
	if doc != nil {
		ctx.Bind("document", doc)
	}
	return ctx
}

// Bind registers a document under an alias
func (ctx *ExecutionContext) Bind(alias string, doc *htmldoc.Document) {
	if _, exists := ctx.Documents[alias]; !exists {
		ctx.order = append(ctx.order, alias)
	}
	ctx.Documents[alias] = doc
}

// Execute runs a parsed statement against the bound default document
func Execute(q *Query, doc *htmldoc.Document) (*ResultSet, error) {
	return NewExecutionContext(doc).Execute(q)
}

// Execute runs a parsed statement through the pipeline: resolve source,
// select candidates, filter, project, order, limit.
func (ctx *ExecutionContext) Execute(q *Query) (*ResultSet, error) {
	if q.Kind == QueryShow || q.Kind == QueryDescribe {
		return ctx.executeMeta(q)
	}

	doc, err := ctx.resolveSource(q)
	if err != nil {
		return nil, execErr("source resolution", err)
	}
	if q.Source.Alias != "" {
		ctx.Bind(q.Source.Alias, doc)
	}

	candidates := selectCandidates(q, doc)

	matched, err := ApplyFilter(doc, candidates, q.Filter)
	if err != nil {
		return nil, execErr("filter", err)
	}

	rs, rowNodes, err := buildResult(doc, q, matched)
	if err != nil {
		return nil, execErr("projection", err)
	}

	if err := orderRows(doc, q, rs, rowNodes); err != nil {
		return nil, execErr("ordering", err)
	}

	if q.Limit != nil && int64(len(rs.Rows)) > *q.Limit {
		rs.Rows = rs.Rows[:*q.Limit]
	}

	return rs, nil
}

// resolveSource materializes the FROM clause into a document
func (ctx *ExecutionContext) resolveSource(q *Query) (*htmldoc.Document, error) {
	src := &q.Source
	switch src.Kind {
	case SourceDocument:
		doc, ok := ctx.Documents["document"]
		if !ok {
			return nil, &SourceError{Source: "document", Err: fmt.Errorf("no document bound")}
		}
		return doc, nil
	case SourceAlias:
		doc, ok := ctx.Documents[src.Value]
		if !ok {
			return nil, &SourceError{Source: src.Value, Err: fmt.Errorf("alias not bound")}
		}
		return doc, nil
	case SourcePath, SourceURL:
		doc, err := htmldoc.Load(src.Value)
		if err != nil {
			return nil, &SourceError{Source: src.Value, Err: err}
		}
		return doc, nil
	case SourceRaw:
		doc, err := htmldoc.ParseFragment(src.Value)
		if err != nil {
			return nil, &SourceError{Source: "RAW", Err: err}
		}
		doc.SourceURI = "raw"
		return doc, nil
	case SourceFragments:
		return ctx.resolveFragments(src)
	default:
		return nil, &SourceError{Source: "FROM", Err: fmt.Errorf("unsupported source")}
	}
}

// resolveFragments merges FRAGMENTS input into a single document. Zero
// usable fragments produce an empty document, not an error.
func (ctx *ExecutionContext) resolveFragments(src *Source) (*htmldoc.Document, error) {
	var fragments []string
	if src.Sub == nil {
		fragments = []string{src.Value}
	} else {
		rs, err := ctx.Execute(src.Sub)
		if err != nil {
			return nil, &SourceError{Source: "FRAGMENTS", Err: err}
		}
		for _, row := range rs.Rows {
			if len(row) != 1 || row[0].IsNull() {
				continue
			}
			markup := strings.TrimSpace(row[0].Text())
			if markup == "" {
				continue
			}
			if !strings.Contains(markup, "<") || !strings.Contains(markup, ">") {
				return nil, &SourceError{Source: "FRAGMENTS", Err: fmt.Errorf("subquery value is not markup: %.40q", markup)}
			}
			fragments = append(fragments, markup)
		}
	}

	if len(fragments) > maxFragments {
		return nil, &SourceError{Source: "FRAGMENTS", Err: fmt.Errorf("too many fragments: %d", len(fragments))}
	}
	var total int
	for _, f := range fragments {
		total += len(f)
	}
	if total > maxFragmentBytes {
		return nil, &SourceError{Source: "FRAGMENTS", Err: fmt.Errorf("fragments exceed %d bytes", maxFragmentBytes)}
	}

	merged := &htmldoc.Document{SourceURI: "fragments"}
	for _, markup := range fragments {
		frag, err := htmldoc.ParseFragment(markup)
		if err != nil {
			return nil, &SourceError{Source: "FRAGMENTS", Err: err}
		}
		merged.Append(frag)
	}
	return merged, nil
}

// selectCandidates picks the nodes the WHERE clause runs against. Bare tag
// select items restrict candidates to those tags; a projected tag scope
// without a WHERE restricts to nodes of that tag; everything else starts
// from all nodes in document order.
func selectCandidates(q *Query, doc *htmldoc.Document) []int64 {
	tags := make(map[string]bool)
	wildcard := false
	scope := ""
	for i := range q.Select {
		item := &q.Select[i]
		switch item.Kind {
		case SelectWildcard:
			wildcard = true
		case SelectTag:
			tags[item.Tag] = true
		case SelectField, SelectText, SelectInnerHTML:
			if item.Tag != "" {
				scope = item.Tag
			}
		}
	}

	var restrict map[string]bool
	if !wildcard {
		if len(tags) > 0 {
			restrict = tags
		} else if scope != "" && q.Filter == nil {
			restrict = map[string]bool{scope: true}
		}
	}

	var candidates []int64
	for i := range doc.Nodes {
		if restrict != nil && !restrict[doc.Nodes[i].Tag] {
			continue
		}
		candidates = append(candidates, doc.Nodes[i].ID)
	}
	return candidates
}

// orderRows stable-sorts the result rows. Sort keys are result column
// labels first, then natural node fields for row-backed results.
func orderRows(doc *htmldoc.Document, q *Query, rs *ResultSet, rowNodes []int64) error {
	if len(q.OrderBy) == 0 {
		return nil
	}

	type key struct {
		column int  // result column index, -1 for natural field
		field  FieldKind
		desc   bool
	}
	keys := make([]key, 0, len(q.OrderBy))
	for _, item := range q.OrderBy {
		k := key{desc: item.Desc}
		if idx := rs.ColumnIndex(item.Column); idx >= 0 {
			k.column = idx
		} else {
			if len(rowNodes) != len(rs.Rows) {
				return fmt.Errorf("unknown ORDER BY column %q", item.Column)
			}
			op := operandFromField(item.Column)
			if op.Field == FieldAttribute {
				return fmt.Errorf("unknown ORDER BY column %q", item.Column)
			}
			k.column = -1
			k.field = op.Field
		}
		keys = append(keys, k)
	}

	indices := make([]int, len(rs.Rows))
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		ia, ib := indices[a], indices[b]
		for _, k := range keys {
			var va, vb Value
			if k.column >= 0 {
				va, vb = rs.Rows[ia][k.column], rs.Rows[ib][k.column]
			} else {
				va = naturalFieldValue(doc, rowNodes[ia], k.field)
				vb = naturalFieldValue(doc, rowNodes[ib], k.field)
			}
			cmp := compareValues(va, vb)
			if cmp == 0 {
				continue
			}
			if k.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	rows := make([][]Value, len(rs.Rows))
	nodes := make([]int64, 0, len(rowNodes))
	for i, idx := range indices {
		rows[i] = rs.Rows[idx]
		if len(rowNodes) == len(rs.Rows) {
			nodes = append(nodes, rowNodes[idx])
		}
	}
	rs.Rows = rows
	copy(rowNodes, nodes)
	return nil
}

// compareValues orders two values: nulls last, numbers numerically,
// everything else by rendered text.
func compareValues(a, b Value) int {
	if a.IsNull() || b.IsNull() {
		switch {
		case a.IsNull() && b.IsNull():
			return 0
		case a.IsNull():
			return 1
		default:
			return -1
		}
	}
	if a.Kind == ValueNumber && b.Kind == ValueNumber {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.Text(), b.Text())
}

// naturalFieldValue reads a sortable node field
func naturalFieldValue(doc *htmldoc.Document, id int64, field FieldKind) Value {
	n := doc.Node(id)
	if n == nil {
		return Null()
	}
	switch field {
	case FieldTag:
		return Str(n.Tag)
	case FieldText:
		return Str(n.Text)
	case FieldNodeID:
		return Int(n.ID)
	case FieldParentID:
		if n.Parent < 0 {
			return Null()
		}
		return Int(n.Parent)
	case FieldSiblingPos:
		return Int(doc.SiblingPos(id))
	case FieldMaxDepth:
		return Int(n.MaxDepth)
	case FieldDocOrder:
		return Int(n.DocOrder)
	default:
		return Null()
	}
}
