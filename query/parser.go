package query

import (
	"fmt"
	"strconv"
	"strings"
)

// maxLimit caps the LIMIT clause
const maxLimit = 100000

// maxExprDepth caps filter expression nesting
const maxExprDepth = 100

// Parser parses query statements into AST
type Parser struct {
	tokens []Token
	pos    int
	depth  int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks that the current token matches and advances
func (p *Parser) expect(tokType TokenType, what string) error {
	if p.current().Type != tokType {
		return p.errExpected(what)
	}
	p.advance()
	return nil
}

// errExpected builds a ParseError for the current token
func (p *Parser) errExpected(what string) error {
	tok := p.current()
	found := tok.Value
	if tok.Type == TokenEOF {
		found = "end of input"
	}
	return &ParseError{Pos: tok.Pos, Expected: what, Found: found}
}

// Parse parses a statement: SELECT, SHOW, or DESCRIBE
func Parse(input string) (*Query, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	parser := NewParser(tokens)

	var q *Query
	switch parser.current().Type {
	case TokenSelect:
		q, err = parser.parseSelectQuery()
	case TokenShow:
		q, err = parser.parseShow()
	case TokenDescribe:
		q, err = parser.parseDescribe()
	default:
		return nil, parser.errExpected("SELECT, SHOW, or DESCRIBE")
	}
	if err != nil {
		return nil, err
	}

	// A single trailing semicolon is allowed
	if parser.current().Type == TokenSemicolon {
		parser.advance()
	}
	if parser.current().Type != TokenEOF {
		return nil, parser.errExpected("end of statement")
	}

	if q.Kind == QuerySelect {
		if err := Validate(q); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// parseSelectQuery parses: SELECT list [EXCLUDE fields] FROM source
// [WHERE expr] [ORDER BY ...] [LIMIT n] [TO sink]
func (p *Parser) parseSelectQuery() (*Query, error) {
	if err := p.expect(TokenSelect, "SELECT"); err != nil {
		return nil, err
	}

	selectList, err := p.parseSelectList()
	if err != nil {
		return nil, fmt.Errorf("failed to parse SELECT list: %w", err)
	}

	q := &Query{Kind: QuerySelect, Select: selectList}

	// EXCLUDE comes before FROM
	if p.current().Type == TokenExclude {
		p.advance()
		exclude, err := p.parseExcludeList()
		if err != nil {
			return nil, fmt.Errorf("failed to parse EXCLUDE list: %w", err)
		}
		q.Exclude = exclude
	}

	if err := p.expect(TokenFrom, "FROM"); err != nil {
		return nil, err
	}

	source, err := p.parseSource()
	if err != nil {
		return nil, fmt.Errorf("failed to parse FROM source: %w", err)
	}
	q.Source = source

	if p.current().Type == TokenWhere {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		q.Filter = expr
	}

	if p.current().Type == TokenOrder {
		orderBy, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		q.OrderBy = orderBy
	}

	if p.current().Type == TokenLimit {
		limit, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		q.Limit = limit
	}

	if p.current().Type == TokenTo {
		sink, err := p.parseSink()
		if err != nil {
			return nil, err
		}
		q.Sink = sink
	}

	return q, nil
}

// parseExcludeList parses the EXCLUDE field names
func (p *Parser) parseExcludeList() ([]string, error) {
	var fields []string
	for {
		if p.current().Type != TokenIdent {
			return nil, p.errExpected("field name in EXCLUDE")
		}
		fields = append(fields, strings.ToLower(p.current().Value))
		p.advance()

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return fields, nil
}

// parseOrderBy parses the ORDER BY clause
func (p *Parser) parseOrderBy() ([]OrderByItem, error) {
	if err := p.expect(TokenOrder, "ORDER"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenBy, "BY"); err != nil {
		return nil, err
	}

	var items []OrderByItem
	for {
		column, err := p.parseOrderColumn()
		if err != nil {
			return nil, err
		}

		item := OrderByItem{Column: column}
		if p.current().Type == TokenAsc {
			p.advance()
		} else if p.current().Type == TokenDesc {
			item.Desc = true
			p.advance()
		}
		items = append(items, item)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

// parseOrderColumn parses a sort key: a dotted identifier chain, or a
// quoted string for labels that are not lexable as identifiers
func (p *Parser) parseOrderColumn() (string, error) {
	if p.current().Type == TokenString {
		column := p.current().Value
		p.advance()
		return column, nil
	}
	if p.current().Type != TokenIdent {
		return "", p.errExpected("column name in ORDER BY")
	}
	column := p.current().Value
	p.advance()
	for p.current().Type == TokenDot {
		p.advance()
		if p.current().Type != TokenIdent {
			return "", p.errExpected("field name after '.' in ORDER BY")
		}
		column += "." + p.current().Value
		p.advance()
	}
	return column, nil
}

// parseLimit parses the LIMIT clause
func (p *Parser) parseLimit() (*int64, error) {
	if err := p.expect(TokenLimit, "LIMIT"); err != nil {
		return nil, err
	}
	if p.current().Type != TokenNumber {
		return nil, p.errExpected("number after LIMIT")
	}
	limit, err := strconv.ParseInt(p.current().Value, 10, 64)
	if err != nil {
		return nil, &ParseError{Pos: p.current().Pos, Expected: "valid LIMIT value", Found: p.current().Value}
	}
	p.advance()
	return &limit, nil
}

// parseSink parses: TO LIST() | TABLE(opts) | CSV('path') | PARQUET('path')
func (p *Parser) parseSink() (*Sink, error) {
	if err := p.expect(TokenTo, "TO"); err != nil {
		return nil, err
	}
	if p.current().Type != TokenIdent {
		return nil, p.errExpected("LIST, TABLE, CSV, or PARQUET")
	}
	target := strings.ToUpper(p.current().Value)
	p.advance()

	if err := p.expect(TokenLeftParen, "'('"); err != nil {
		return nil, err
	}

	sink := &Sink{Header: true}
	switch target {
	case "LIST":
		sink.Kind = SinkList
	case "TABLE":
		sink.Kind = SinkTable
		if err := p.parseTableOptions(sink); err != nil {
			return nil, err
		}
	case "CSV", "PARQUET":
		if target == "CSV" {
			sink.Kind = SinkCSV
		} else {
			sink.Kind = SinkParquet
		}
		if p.current().Type != TokenString {
			return nil, p.errExpected("file path string")
		}
		sink.Path = p.current().Value
		p.advance()
	default:
		return nil, &ParseError{Pos: p.current().Pos, Expected: "LIST, TABLE, CSV, or PARQUET", Found: target}
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	return sink, nil
}

// parseTableOptions parses the TABLE option list:
// [HEADER [=] ON|OFF][, NOHEADER][, NO_HEADER][, EXPORT='path']
func (p *Parser) parseTableOptions(sink *Sink) error {
	for p.current().Type == TokenIdent {
		opt := strings.ToUpper(p.current().Value)
		p.advance()

		switch opt {
		case "HEADER":
			// The '=' is optional: HEADER=ON and HEADER ON both work
			if p.current().Type == TokenEqual {
				p.advance()
			}
			if p.current().Type != TokenIdent {
				return p.errExpected("ON or OFF")
			}
			switch strings.ToUpper(p.current().Value) {
			case "ON":
				sink.Header = true
			case "OFF":
				sink.Header = false
			default:
				return p.errExpected("ON or OFF")
			}
			p.advance()
		case "NOHEADER", "NO_HEADER":
			sink.Header = false
		case "EXPORT":
			if err := p.expect(TokenEqual, "'=' after EXPORT"); err != nil {
				return err
			}
			if p.current().Type != TokenString {
				return p.errExpected("file path string after EXPORT=")
			}
			sink.Path = p.current().Value
			p.advance()
		default:
			return &ParseError{Pos: p.current().Pos, Expected: "HEADER, NOHEADER, NO_HEADER, or EXPORT", Found: opt}
		}

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return nil
}

// parseShow parses: SHOW INPUT | INPUTS | FUNCTIONS | AXES | OPERATORS
func (p *Parser) parseShow() (*Query, error) {
	if err := p.expect(TokenShow, "SHOW"); err != nil {
		return nil, err
	}
	if p.current().Type != TokenIdent {
		return nil, p.errExpected("INPUT, INPUTS, FUNCTIONS, AXES, or OPERATORS")
	}
	subject := strings.ToUpper(p.current().Value)
	switch subject {
	case "INPUT", "INPUTS", "FUNCTIONS", "AXES", "OPERATORS":
	default:
		return nil, p.errExpected("INPUT, INPUTS, FUNCTIONS, AXES, or OPERATORS")
	}
	p.advance()
	return &Query{Kind: QueryShow, Subject: subject}, nil
}

// parseDescribe parses: DESCRIBE DOC | DOCUMENT | LANGUAGE
func (p *Parser) parseDescribe() (*Query, error) {
	if err := p.expect(TokenDescribe, "DESCRIBE"); err != nil {
		return nil, err
	}
	if p.current().Type != TokenIdent {
		return nil, p.errExpected("DOC, DOCUMENT, or LANGUAGE")
	}
	subject := strings.ToUpper(p.current().Value)
	switch subject {
	case "DOC", "DOCUMENT":
		subject = "DOC"
	case "LANGUAGE":
	default:
		return nil, p.errExpected("DOC, DOCUMENT, or LANGUAGE")
	}
	p.advance()
	return &Query{Kind: QueryDescribe, Subject: subject}, nil
}
