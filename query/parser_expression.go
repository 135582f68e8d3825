package query

import (
	"fmt"
	"strings"
)

// parseOr parses OR expressions (lowest precedence, left-associative)
func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenOr, Right: right}
	}

	return left, nil
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenAnd, Right: right}
	}

	return left, nil
}

// parsePrimary parses a parenthesized expression, EXISTS, or a comparison
func (p *Parser) parsePrimary() (Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxExprDepth {
		return nil, fmt.Errorf("expression nesting exceeds %d levels", maxExprDepth)
	}

	if p.current().Type == TokenLeftParen {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	if p.current().Type == TokenExists {
		return p.parseExists()
	}

	return p.parseComparison()
}

// parseExists parses EXISTS(axis [WHERE expr])
func (p *Parser) parseExists() (Expr, error) {
	p.advance() // EXISTS
	if err := p.expect(TokenLeftParen, "'(' after EXISTS"); err != nil {
		return nil, err
	}

	if p.current().Type != TokenIdent {
		return nil, p.errExpected("axis name in EXISTS")
	}
	axis, ok := axisFromName(p.current().Value)
	if !ok {
		return nil, p.errExpected("parent, child, ancestor, or descendant in EXISTS")
	}
	p.advance()

	exists := &ExistsExpr{Axis: axis}
	if p.current().Type == TokenWhere {
		p.advance()
		where, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		exists.Where = where
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	return exists, nil
}

// parseComparison parses: operand op [value | '(' values ')']
func (p *Parser) parseComparison() (Expr, error) {
	operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case TokenEqual:
		p.advance()
		value, err := p.parseScalarValue()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Operand: operand, Op: OpEqual, Values: []string{value}}, nil
	case TokenNotEqual:
		p.advance()
		value, err := p.parseScalarValue()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Operand: operand, Op: OpNotEqual, Values: []string{value}}, nil
	case TokenRegexMatch:
		p.advance()
		if p.current().Type != TokenString {
			return nil, p.errExpected("regex pattern string after ~")
		}
		pattern := p.current().Value
		p.advance()
		return &CompareExpr{Operand: operand, Op: OpRegexMatch, Values: []string{pattern}}, nil
	case TokenIn:
		p.advance()
		values, err := p.parseValueList()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Operand: operand, Op: OpIn, Values: values}, nil
	case TokenContains:
		p.advance()
		switch p.current().Type {
		case TokenAll:
			p.advance()
			values, err := p.parseValueList()
			if err != nil {
				return nil, err
			}
			return &CompareExpr{Operand: operand, Op: OpContainsAll, Values: values}, nil
		case TokenAny:
			p.advance()
			values, err := p.parseValueList()
			if err != nil {
				return nil, err
			}
			return &CompareExpr{Operand: operand, Op: OpContainsAny, Values: values}, nil
		default:
			value, err := p.parseScalarValue()
			if err != nil {
				return nil, err
			}
			return &CompareExpr{Operand: operand, Op: OpContains, Values: []string{value}}, nil
		}
	case TokenIs:
		p.advance()
		op := OpIsNull
		if p.current().Type == TokenNot {
			op = OpIsNotNull
			p.advance()
		}
		if err := p.expect(TokenNull, "NULL after IS"); err != nil {
			return nil, err
		}
		return &CompareExpr{Operand: operand, Op: op}, nil
	case TokenHasDirectText:
		p.advance()
		if p.current().Type != TokenString {
			return nil, p.errExpected("string after HAS_DIRECT_TEXT")
		}
		value := p.current().Value
		p.advance()
		return &CompareExpr{Operand: operand, Op: OpHasDirectText, Values: []string{value}}, nil
	default:
		return nil, p.errExpected("comparison operator")
	}
}

// parseOperand parses [qualifier.][axis.]field with up to three dotted
// segments. Unknown field names are attribute references.
func (p *Parser) parseOperand() (Operand, error) {
	var segments []string
	for {
		if p.current().Type != TokenIdent {
			return Operand{}, p.errExpected("field name")
		}
		segments = append(segments, p.current().Value)
		p.advance()
		if p.current().Type == TokenDot {
			p.advance()
			continue
		}
		break
	}

	switch len(segments) {
	case 1:
		return operandFromField(segments[0]), nil
	case 2:
		if axis, ok := axisFromName(segments[0]); ok {
			op := operandFromField(segments[1])
			op.Axis = axis
			return op, nil
		}
		if strings.ToLower(segments[0]) == "attributes" {
			return Operand{Field: FieldAttribute, Attr: strings.ToLower(segments[1])}, nil
		}
		op := operandFromField(segments[1])
		op.Qualifier = segments[0]
		return op, nil
	case 3:
		if axis, ok := axisFromName(segments[1]); ok {
			op := operandFromField(segments[2])
			op.Qualifier = segments[0]
			op.Axis = axis
			return op, nil
		}
		if strings.ToLower(segments[1]) == "attributes" {
			return Operand{
				Qualifier: segments[0],
				Field:     FieldAttribute,
				Attr:      strings.ToLower(segments[2]),
			}, nil
		}
		return Operand{}, p.errExpected("axis or attributes in dotted operand")
	default:
		return Operand{}, p.errExpected("operand with at most three segments")
	}
}

// operandFromField classifies a bare field name
func operandFromField(name string) Operand {
	switch strings.ToLower(name) {
	case "tag":
		return Operand{Field: FieldTag}
	case "text":
		return Operand{Field: FieldText}
	case "attributes":
		return Operand{Field: FieldAttributes}
	case "node_id":
		return Operand{Field: FieldNodeID}
	case "parent_id":
		return Operand{Field: FieldParentID}
	case "sibling_pos":
		return Operand{Field: FieldSiblingPos}
	case "max_depth":
		return Operand{Field: FieldMaxDepth}
	case "doc_order":
		return Operand{Field: FieldDocOrder}
	default:
		return Operand{Field: FieldAttribute, Attr: strings.ToLower(name)}
	}
}

// axisFromName resolves an axis keyword (case-insensitive)
func axisFromName(name string) (Axis, bool) {
	switch strings.ToLower(name) {
	case "parent":
		return AxisParent, true
	case "child":
		return AxisChild, true
	case "ancestor":
		return AxisAncestor, true
	case "descendant":
		return AxisDescendant, true
	case "self":
		return AxisSelf, true
	default:
		return AxisSelf, false
	}
}

// parseScalarValue parses a single string or number literal
func (p *Parser) parseScalarValue() (string, error) {
	switch p.current().Type {
	case TokenString, TokenNumber:
		value := p.current().Value
		p.advance()
		return value, nil
	default:
		return "", p.errExpected("string or number value")
	}
}

// parseValueList parses '(' value [, value]* ')'
func (p *Parser) parseValueList() ([]string, error) {
	if err := p.expect(TokenLeftParen, "'('"); err != nil {
		return nil, err
	}

	var values []string
	for {
		value, err := p.parseScalarValue()
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	return values, nil
}
