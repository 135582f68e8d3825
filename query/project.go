package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/darhnoel/xsql/htmldoc"
)

// defaultInnerHTMLDepth applies when INNER_HTML is called without a depth
const defaultInnerHTMLDepth = int64(1)

// buildResult turns the matched nodes into a result set. The returned
// node slice parallels the rows for row-backed shapes and is empty for
// aggregate shapes.
func buildResult(doc *htmldoc.Document, q *Query, matched []int64) (*ResultSet, []int64, error) {
	if len(q.Select) == 1 {
		switch q.Select[0].Kind {
		case SelectSummarize:
			rs := summarize(doc, matched)
			return rs, nil, nil
		case SelectTfidf:
			rs := tfidfResult(doc, matched, q.Select[0].Tfidf)
			return rs, nil, nil
		case SelectCount:
			count := countMatches(doc, matched, q.Select[0].Tag)
			rs := &ResultSet{
				Columns: []string{"count"},
				Rows:    [][]Value{{Int(count)}},
			}
			return rs, nil, nil
		}
	}

	projected := false
	for i := range q.Select {
		switch q.Select[i].Kind {
		case SelectField, SelectText, SelectInnerHTML:
			projected = true
		}
	}
	if projected {
		return projectRows(doc, q, matched)
	}
	return naturalRows(doc, q, matched)
}

// countMatches counts the matched nodes, optionally restricted to a tag
func countMatches(doc *htmldoc.Document, matched []int64, tag string) int64 {
	if tag == "*" || tag == "" {
		return int64(len(matched))
	}
	var count int64
	for _, id := range matched {
		if n := doc.Node(id); n != nil && n.Tag == tag {
			count++
		}
	}
	return count
}

// naturalRows builds the default row shape: node_id, tag, attributes,
// parent_id, max_depth, doc_order, minus any EXCLUDE fields.
func naturalRows(doc *htmldoc.Document, q *Query, matched []int64) (*ResultSet, []int64, error) {
	excluded := make(map[string]bool, len(q.Exclude))
	for _, field := range q.Exclude {
		excluded[field] = true
	}

	var columns []string
	for _, col := range naturalColumns {
		if !excluded[col] {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("no columns left after EXCLUDE")
	}

	rs := &ResultSet{Columns: columns}
	for _, id := range matched {
		n := doc.Node(id)
		row := make([]Value, 0, len(columns))
		for _, col := range columns {
			switch col {
			case "node_id":
				row = append(row, Int(n.ID))
			case "tag":
				row = append(row, Str(n.Tag))
			case "attributes":
				row = append(row, attributesValue(n))
			case "parent_id":
				if n.Parent < 0 {
					row = append(row, Null())
				} else {
					row = append(row, Int(n.Parent))
				}
			case "max_depth":
				row = append(row, Int(n.MaxDepth))
			case "doc_order":
				row = append(row, Int(n.DocOrder))
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, append([]int64(nil), matched...), nil
}

// projectRows builds rows from projected select items. COUNT items mixed
// into the list broadcast the total match count onto every row.
func projectRows(doc *htmldoc.Document, q *Query, matched []int64) (*ResultSet, []int64, error) {
	columns := make([]string, len(q.Select))
	for i := range q.Select {
		columns[i] = q.Select[i].Label
	}

	rs := &ResultSet{Columns: columns}
	for _, id := range matched {
		row := make([]Value, len(q.Select))
		for i := range q.Select {
			item := &q.Select[i]
			if item.Kind == SelectCount {
				row[i] = Int(countMatches(doc, matched, item.Tag))
				continue
			}
			row[i] = projectItem(doc, id, item)
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, append([]int64(nil), matched...), nil
}

// projectItem evaluates one projected item against a candidate node
func projectItem(doc *htmldoc.Document, candidate int64, item *SelectItem) Value {
	target := resolveScope(doc, candidate, item.Tag)
	if target < 0 {
		return Null()
	}
	n := doc.Node(target)

	var v Value
	switch item.Kind {
	case SelectText:
		v = Str(n.DirectText)
	case SelectInnerHTML:
		depth := defaultInnerHTMLDepth
		if item.Depth != nil {
			depth = *item.Depth
		}
		v = Str(htmldoc.LimitDepth(n.InnerHTML, depth))
	default: // SelectField
		v = fieldValue(doc, n, item)
	}

	if item.Trim && v.Kind == ValueString {
		v.Str = strings.TrimSpace(v.Str)
	}
	return v
}

// fieldValue reads a projected node field
func fieldValue(doc *htmldoc.Document, n *htmldoc.Node, item *SelectItem) Value {
	switch item.Field {
	case FieldTag:
		return Str(n.Tag)
	case FieldText:
		return Str(n.Text)
	case FieldAttribute:
		value, ok := n.Attr(item.Attr)
		if !ok {
			return Null()
		}
		return Str(value)
	case FieldAttributes:
		return attributesValue(n)
	case FieldNodeID:
		return Int(n.ID)
	case FieldParentID:
		if n.Parent < 0 {
			return Null()
		}
		return Int(n.Parent)
	case FieldSiblingPos:
		return Int(doc.SiblingPos(n.ID))
	case FieldMaxDepth:
		return Int(n.MaxDepth)
	case FieldDocOrder:
		return Int(n.DocOrder)
	default:
		return Null()
	}
}

// attributesValue renders the ordered attribute map as a list of
// key="value" entries, null when the node has no attributes.
func attributesValue(n *htmldoc.Node) Value {
	if len(n.Attrs) == 0 {
		return Null()
	}
	items := make([]string, len(n.Attrs))
	for i, a := range n.Attrs {
		items[i] = a.Key + `="` + a.Val + `"`
	}
	return List(items)
}

// resolveScope maps a candidate to the node its tag scope refers to: the
// candidate itself when the tag matches (or no tag is given), otherwise
// the first descendant with that tag in document order, or -1.
func resolveScope(doc *htmldoc.Document, candidate int64, tag string) int64 {
	if tag == "" {
		return candidate
	}
	n := doc.Node(candidate)
	if n == nil {
		return -1
	}
	if n.Tag == tag {
		return candidate
	}
	for _, id := range doc.Descendants(candidate) {
		if doc.Nodes[id].Tag == tag {
			return id
		}
	}
	return -1
}

// summarize builds the per-tag frequency table, sorted by count
// descending then tag ascending.
func summarize(doc *htmldoc.Document, matched []int64) *ResultSet {
	counts := make(map[string]int64)
	for _, id := range matched {
		if n := doc.Node(id); n != nil {
			counts[n.Tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(a, b int) bool {
		if counts[tags[a]] != counts[tags[b]] {
			return counts[tags[a]] > counts[tags[b]]
		}
		return tags[a] < tags[b]
	})

	rs := &ResultSet{Columns: []string{"tag", "count"}}
	for _, tag := range tags {
		rs.Rows = append(rs.Rows, []Value{Str(tag), Int(counts[tag])})
	}
	return rs
}
