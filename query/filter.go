package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/darhnoel/xsql/htmldoc"
)

// evaluator evaluates filter expressions against document nodes, caching
// compiled regex patterns across the run.
type evaluator struct {
	doc      *htmldoc.Document
	patterns map[string]*regexp.Regexp
}

func newEvaluator(doc *htmldoc.Document) *evaluator {
	return &evaluator{doc: doc, patterns: make(map[string]*regexp.Regexp)}
}

// ApplyFilter returns the candidate node ids that satisfy the expression.
// A nil expression keeps every candidate.
func ApplyFilter(doc *htmldoc.Document, candidates []int64, expr Expr) ([]int64, error) {
	if expr == nil {
		return candidates, nil
	}
	ev := newEvaluator(doc)
	var matched []int64
	for _, id := range candidates {
		ok, err := ev.eval(id, expr)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, id)
		}
	}
	return matched, nil
}

// eval evaluates an expression with the given node as self
func (e *evaluator) eval(id int64, expr Expr) (bool, error) {
	switch ex := expr.(type) {
	case *BinaryExpr:
		left, err := e.eval(id, ex.Left)
		if err != nil {
			return false, err
		}
		// Short-circuit like the boolean operators themselves
		if ex.Operator == TokenAnd && !left {
			return false, nil
		}
		if ex.Operator == TokenOr && left {
			return true, nil
		}
		return e.eval(id, ex.Right)
	case *CompareExpr:
		return e.evalCompare(id, ex)
	case *ExistsExpr:
		return e.evalExists(id, ex)
	default:
		return false, &FilterError{Msg: "unsupported expression"}
	}
}

// axisNodes resolves the nodes an operand's axis reaches from self
func (e *evaluator) axisNodes(id int64, axis Axis) []int64 {
	switch axis {
	case AxisParent:
		n := e.doc.Node(id)
		if n == nil || n.Parent < 0 {
			return nil
		}
		return []int64{n.Parent}
	case AxisChild:
		n := e.doc.Node(id)
		if n == nil {
			return nil
		}
		return n.Children
	case AxisAncestor:
		return e.doc.Ancestors(id)
	case AxisDescendant:
		return e.doc.Descendants(id)
	default:
		return []int64{id}
	}
}

// evalCompare evaluates a comparison existentially over the axis: true if
// any reachable node matches. IS NULL inverts existence.
func (e *evaluator) evalCompare(id int64, c *CompareExpr) (bool, error) {
	nodes := e.axisNodes(id, c.Operand.Axis)

	switch c.Op {
	case OpIsNull, OpIsNotNull:
		present := false
		for _, nodeID := range nodes {
			if e.fieldPresent(nodeID, &c.Operand) {
				present = true
				break
			}
		}
		if c.Op == OpIsNull {
			return !present, nil
		}
		return present, nil
	}

	for _, nodeID := range nodes {
		match, err := e.matchNode(nodeID, c)
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// evalExists evaluates EXISTS(axis [WHERE expr])
func (e *evaluator) evalExists(id int64, ex *ExistsExpr) (bool, error) {
	nodes := e.axisNodes(id, ex.Axis)
	if len(nodes) == 0 {
		return false, nil
	}
	if ex.Where == nil {
		return true, nil
	}
	for _, nodeID := range nodes {
		ok, err := e.eval(nodeID, ex.Where)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// fieldPresent reports whether the operand's field carries a value on the
// node. Missing attributes, empty text, and absent parents read as null.
func (e *evaluator) fieldPresent(id int64, op *Operand) bool {
	n := e.doc.Node(id)
	if n == nil {
		return false
	}
	switch op.Field {
	case FieldAttribute:
		_, ok := n.Attr(op.Attr)
		return ok
	case FieldAttributes:
		return len(n.Attrs) > 0
	case FieldText:
		return n.Text != ""
	case FieldParentID:
		return n.Parent >= 0
	default:
		return true
	}
}

// matchNode evaluates the comparison against one concrete node
func (e *evaluator) matchNode(id int64, c *CompareExpr) (bool, error) {
	n := e.doc.Node(id)
	if n == nil {
		return false, nil
	}

	if numericField(c.Operand.Field) {
		return e.matchNumeric(n, c)
	}

	if c.Op == OpHasDirectText {
		// A bare tag name operand gates the match on that tag.
		if c.Operand.Field == FieldAttribute && n.Tag != c.Operand.Attr {
			return false, nil
		}
		return containsFold(n.DirectText, c.Values[0]), nil
	}

	var subject string
	switch c.Operand.Field {
	case FieldTag:
		subject = n.Tag
	case FieldText:
		subject = n.Text
	case FieldAttribute:
		value, ok := n.Attr(c.Operand.Attr)
		if !ok {
			return false, nil
		}
		subject = value
	default:
		return false, &FilterError{Msg: "operator not applicable to " + c.Operand.Field.String()}
	}

	switch c.Op {
	case OpEqual, OpNotEqual, OpIn:
		return e.matchSet(n, c, subject)
	case OpRegexMatch:
		re, err := e.compile(c.Values[0])
		if err != nil {
			return false, err
		}
		return re.MatchString(subject), nil
	case OpContains:
		return containsFold(subject, c.Values[0]), nil
	case OpContainsAll:
		for _, needle := range c.Values {
			if !containsFold(subject, needle) {
				return false, nil
			}
		}
		return true, nil
	case OpContainsAny:
		for _, needle := range c.Values {
			if containsFold(subject, needle) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, &FilterError{Msg: "unsupported operator"}
	}
}

// matchSet handles =, <> and IN, with the class attribute compared as a
// whitespace token set and tag literals lowercased.
func (e *evaluator) matchSet(n *htmldoc.Node, c *CompareExpr, subject string) (bool, error) {
	classAttr := c.Operand.Field == FieldAttribute && c.Operand.Attr == "class"
	var tokens map[string]bool
	if classAttr {
		tokens = make(map[string]bool)
		for _, t := range strings.Fields(subject) {
			tokens[t] = true
		}
	}

	match := func(literal string) bool {
		if c.Operand.Field == FieldTag {
			return subject == strings.ToLower(literal)
		}
		if classAttr {
			return tokens[literal]
		}
		return subject == literal
	}

	switch c.Op {
	case OpEqual:
		return match(c.Values[0]), nil
	case OpNotEqual:
		return !match(c.Values[0]), nil
	default: // OpIn
		for _, v := range c.Values {
			if match(v) {
				return true, nil
			}
		}
		return false, nil
	}
}

// matchNumeric compares integer node fields with strict literal parsing
func (e *evaluator) matchNumeric(n *htmldoc.Node, c *CompareExpr) (bool, error) {
	var actual int64
	switch c.Operand.Field {
	case FieldNodeID:
		actual = n.ID
	case FieldParentID:
		if n.Parent < 0 {
			return false, nil
		}
		actual = n.Parent
	case FieldSiblingPos:
		actual = e.doc.SiblingPos(n.ID)
	case FieldMaxDepth:
		actual = n.MaxDepth
	case FieldDocOrder:
		actual = n.DocOrder
	}

	parse := func(literal string) (int64, error) {
		v, err := strconv.ParseInt(strings.TrimSpace(literal), 10, 64)
		if err != nil {
			return 0, &FilterError{Msg: "invalid numeric literal " + strconv.Quote(literal) + " for " + c.Operand.Field.String()}
		}
		return v, nil
	}

	switch c.Op {
	case OpEqual:
		v, err := parse(c.Values[0])
		if err != nil {
			return false, err
		}
		return actual == v, nil
	case OpNotEqual:
		v, err := parse(c.Values[0])
		if err != nil {
			return false, err
		}
		return actual != v, nil
	case OpIn:
		for _, literal := range c.Values {
			v, err := parse(literal)
			if err != nil {
				return false, err
			}
			if actual == v {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, &FilterError{Msg: "operator not applicable to " + c.Operand.Field.String()}
	}
}

// compile returns a cached compiled regex, failing with a FilterError on
// an invalid pattern.
func (e *evaluator) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &FilterError{Msg: "invalid regex pattern: " + err.Error()}
	}
	e.patterns[pattern] = re
	return re, nil
}

// containsFold is a case-insensitive substring test. An empty needle
// always matches.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
