package query

import (
	"fmt"
	"strings"
)

// maxRawBytes caps inline RAW markup
const maxRawBytes = 4 << 20

// maxRegexBytes caps regex pattern length
const maxRegexBytes = 1000

// naturalColumns are the columns of a non-projected row, in order
var naturalColumns = []string{"node_id", "tag", "attributes", "parent_id", "max_depth", "doc_order"}

// Validate checks the semantic rules a SELECT query must satisfy beyond
// the grammar: select list composition, EXCLUDE rules, operator/field
// compatibility, ORDER BY and sink constraints, and resource guardrails.
func Validate(q *Query) error {
	var bare, projected, aggregates, trims int
	var wildcard bool

	for i := range q.Select {
		item := &q.Select[i]
		switch item.Kind {
		case SelectWildcard:
			wildcard = true
			bare++
		case SelectTag:
			bare++
		case SelectField, SelectText, SelectInnerHTML:
			projected++
		case SelectCount, SelectSummarize, SelectTfidf:
			aggregates++
		}
		if item.Trim {
			trims++
		}
	}

	if wildcard && len(q.Select) > 1 {
		return fmt.Errorf("SELECT * cannot be combined with other select items")
	}
	if bare > 0 && projected > 0 {
		return fmt.Errorf("cannot mix bare tag and projected field select items")
	}
	if trims > 0 && len(q.Select) > 1 {
		return fmt.Errorf("TRIM must be the only select item")
	}

	for i := range q.Select {
		item := &q.Select[i]
		switch item.Kind {
		case SelectSummarize, SelectTfidf:
			if len(q.Select) > 1 {
				return fmt.Errorf("%s must be the only select item", item.Label)
			}
		case SelectCount:
			if bare > 0 {
				return fmt.Errorf("COUNT cannot be combined with bare tag select items")
			}
		}
	}

	if err := validateTagScope(q); err != nil {
		return err
	}
	if err := validateExclude(q); err != nil {
		return err
	}
	if err := validateInnerHTMLDepth(q); err != nil {
		return err
	}
	if err := validateOrderBy(q); err != nil {
		return err
	}
	if err := validateSink(q); err != nil {
		return err
	}
	if err := validateSource(q); err != nil {
		return err
	}

	if q.Limit != nil {
		if *q.Limit < 0 {
			return fmt.Errorf("LIMIT must be non-negative, got %d", *q.Limit)
		}
		if *q.Limit > maxLimit {
			return fmt.Errorf("LIMIT exceeds maximum of %d", maxLimit)
		}
	}

	if q.Filter != nil {
		if err := validateExpr(q, q.Filter); err != nil {
			return err
		}
	}

	return nil
}

// validateTagScope checks that projected items agree on a single tag
func validateTagScope(q *Query) error {
	scope := ""
	for i := range q.Select {
		item := &q.Select[i]
		switch item.Kind {
		case SelectField, SelectText, SelectInnerHTML:
			if item.Tag == "" {
				continue // attributes.x projects the candidate itself
			}
			if scope == "" {
				scope = item.Tag
			} else if scope != item.Tag {
				return fmt.Errorf("projected fields must share one tag, got %q and %q", scope, item.Tag)
			}
		}
	}
	return nil
}

// validateExclude enforces the EXCLUDE rules
func validateExclude(q *Query) error {
	if len(q.Exclude) == 0 {
		return nil
	}
	if len(q.Select) != 1 || q.Select[0].Kind != SelectWildcard {
		return fmt.Errorf("EXCLUDE requires SELECT *")
	}

	allowed := make(map[string]bool, len(naturalColumns))
	for _, col := range naturalColumns {
		allowed[col] = true
	}
	excluded := make(map[string]bool)
	for _, field := range q.Exclude {
		if !allowed[field] {
			return fmt.Errorf("cannot EXCLUDE unknown field %q", field)
		}
		excluded[field] = true
	}
	if len(excluded) >= len(naturalColumns) {
		return fmt.Errorf("EXCLUDE cannot remove every column")
	}
	return nil
}

// validateInnerHTMLDepth requires a consistent depth across INNER_HTML items
func validateInnerHTMLDepth(q *Query) error {
	var depth *int64
	for i := range q.Select {
		item := &q.Select[i]
		if item.Kind != SelectInnerHTML || item.Depth == nil {
			continue
		}
		if depth == nil {
			depth = item.Depth
		} else if *depth != *item.Depth {
			return fmt.Errorf("INNER_HTML depth must be consistent, got %d and %d", *depth, *item.Depth)
		}
	}
	return nil
}

// validateOrderBy restricts sorting on aggregate result shapes
func validateOrderBy(q *Query) error {
	if len(q.OrderBy) == 0 {
		return nil
	}
	if len(q.Select) == 1 {
		switch q.Select[0].Kind {
		case SelectSummarize:
			for _, item := range q.OrderBy {
				if item.Column != "tag" && item.Column != "count" {
					return fmt.Errorf("SUMMARIZE supports ORDER BY tag or count only, got %q", item.Column)
				}
			}
			return nil
		case SelectTfidf:
			return fmt.Errorf("ORDER BY is not supported with TFIDF")
		case SelectCount:
			return fmt.Errorf("ORDER BY is not supported with a lone COUNT")
		}
	}
	return nil
}

// validateSink enforces the TO clause constraints
func validateSink(q *Query) error {
	if q.Sink == nil {
		return nil
	}
	switch q.Sink.Kind {
	case SinkList:
		oneColumn := false
		if len(q.Select) == 1 {
			switch q.Select[0].Kind {
			case SelectField, SelectText, SelectInnerHTML, SelectCount:
				oneColumn = true
			}
		}
		if !oneColumn {
			return fmt.Errorf("TO LIST requires exactly one projected column")
		}
	case SinkCSV, SinkParquet:
		if strings.TrimSpace(q.Sink.Path) == "" {
			return fmt.Errorf("export path must not be empty")
		}
	case SinkTable:
		if q.Sink.Path != "" && strings.TrimSpace(q.Sink.Path) == "" {
			return fmt.Errorf("EXPORT path must not be empty")
		}
	}
	return nil
}

// validateSource checks RAW size caps and FRAGMENTS subquery shape
func validateSource(q *Query) error {
	src := &q.Source
	switch src.Kind {
	case SourceRaw:
		if len(src.Value) > maxRawBytes {
			return fmt.Errorf("RAW markup exceeds %d bytes", maxRawBytes)
		}
	case SourceFragments:
		if src.Sub == nil {
			if len(src.Value) > maxRawBytes {
				return fmt.Errorf("RAW markup exceeds %d bytes", maxRawBytes)
			}
			return nil
		}
		sub := src.Sub
		switch sub.Source.Kind {
		case SourcePath, SourceURL:
			return fmt.Errorf("FRAGMENTS subquery cannot read paths or URLs")
		}
		single := false
		if len(sub.Select) == 1 {
			switch sub.Select[0].Kind {
			case SelectField, SelectText, SelectInnerHTML:
				single = true
			}
		}
		if !single {
			return fmt.Errorf("FRAGMENTS subquery must produce exactly one projected column")
		}
		if sub.Sink != nil {
			return fmt.Errorf("FRAGMENTS subquery cannot have a TO clause")
		}
	}
	return nil
}

// validateExpr walks the filter tree checking operator/field compatibility
func validateExpr(q *Query, e Expr) error {
	switch expr := e.(type) {
	case *BinaryExpr:
		if err := validateExpr(q, expr.Left); err != nil {
			return err
		}
		return validateExpr(q, expr.Right)
	case *ExistsExpr:
		if expr.Axis == AxisSelf {
			return fmt.Errorf("EXISTS requires an explicit axis")
		}
		if expr.Where != nil {
			return validateExpr(q, expr.Where)
		}
		return nil
	case *CompareExpr:
		return validateCompare(q, expr)
	default:
		return fmt.Errorf("unsupported expression type %T", e)
	}
}

// validateCompare checks a single comparison
func validateCompare(q *Query, c *CompareExpr) error {
	switch c.Op {
	case OpContains, OpContainsAll, OpContainsAny:
		if c.Operand.Field != FieldAttribute {
			return fmt.Errorf("CONTAINS applies to attribute fields only")
		}
	case OpHasDirectText:
		// Accepts the tag field or a bare tag name, both on the self axis.
		tagOperand := c.Operand.Field == FieldTag || c.Operand.Field == FieldAttribute
		if !tagOperand || c.Operand.Axis != AxisSelf {
			return fmt.Errorf("HAS_DIRECT_TEXT requires a self tag operand")
		}
	case OpRegexMatch:
		if len(c.Values) == 1 && len(c.Values[0]) > maxRegexBytes {
			return fmt.Errorf("regex pattern exceeds %d bytes", maxRegexBytes)
		}
	}

	if c.Operand.Field == FieldAttributes && c.Op != OpIsNull && c.Op != OpIsNotNull {
		return fmt.Errorf("the attributes map supports IS [NOT] NULL only")
	}

	if c.Operand.Qualifier != "" {
		if err := validateQualifier(q, c.Operand.Qualifier); err != nil {
			return err
		}
	}
	return nil
}

// validateQualifier checks that a qualifier names the source alias, the
// document itself, or the single selected tag
func validateQualifier(q *Query, qualifier string) error {
	lower := strings.ToLower(qualifier)
	if lower == "document" || lower == "doc" {
		return nil
	}
	if q.Source.Alias != "" && qualifier == q.Source.Alias {
		return nil
	}
	for i := range q.Select {
		if q.Select[i].Tag == lower && lower != "" && lower != "*" {
			return nil
		}
	}
	return fmt.Errorf("unknown qualifier %q", qualifier)
}
