package query

import "strings"

// parseSource parses the FROM clause source
func (p *Parser) parseSource() (Source, error) {
	var source Source

	switch p.current().Type {
	case TokenString:
		value := p.current().Value
		p.advance()
		if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
			source = Source{Kind: SourceURL, Value: value}
		} else {
			source = Source{Kind: SourcePath, Value: value}
		}
	case TokenRaw:
		markup, err := p.parseRawArg()
		if err != nil {
			return Source{}, err
		}
		source = Source{Kind: SourceRaw, Value: markup}
	case TokenFragments:
		var err error
		source, err = p.parseFragments()
		if err != nil {
			return Source{}, err
		}
	case TokenIdent:
		name := p.current().Value
		p.advance()
		if lower := strings.ToLower(name); lower == "document" || lower == "doc" {
			source = Source{Kind: SourceDocument}
		} else {
			source = Source{Kind: SourceAlias, Value: name}
		}
	default:
		return Source{}, p.errExpected("source after FROM")
	}

	// Optional alias: AS name, or a bare trailing identifier
	if p.current().Type == TokenAs {
		p.advance()
		if p.current().Type != TokenIdent {
			return Source{}, p.errExpected("alias name after AS")
		}
		source.Alias = p.current().Value
		p.advance()
	} else if p.current().Type == TokenIdent {
		source.Alias = p.current().Value
		p.advance()
	}

	return source, nil
}

// parseRawArg parses RAW('<markup>')
func (p *Parser) parseRawArg() (string, error) {
	p.advance() // RAW
	if err := p.expect(TokenLeftParen, "'(' after RAW"); err != nil {
		return "", err
	}
	if p.current().Type != TokenString {
		return "", p.errExpected("markup string in RAW")
	}
	markup := p.current().Value
	p.advance()
	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return "", err
	}
	return markup, nil
}

// parseFragments parses FRAGMENTS(RAW('...')) or FRAGMENTS(subquery)
func (p *Parser) parseFragments() (Source, error) {
	p.advance() // FRAGMENTS
	if err := p.expect(TokenLeftParen, "'(' after FRAGMENTS"); err != nil {
		return Source{}, err
	}

	source := Source{Kind: SourceFragments}
	switch p.current().Type {
	case TokenRaw:
		markup, err := p.parseRawArg()
		if err != nil {
			return Source{}, err
		}
		source.Value = markup
	case TokenSelect:
		sub, err := p.parseSelectQuery()
		if err != nil {
			return Source{}, err
		}
		// The subquery may carry its own trailing semicolon
		if p.current().Type == TokenSemicolon {
			p.advance()
		}
		if err := Validate(sub); err != nil {
			return Source{}, err
		}
		source.Sub = sub
	default:
		return Source{}, p.errExpected("RAW or a SELECT subquery in FRAGMENTS")
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return Source{}, err
	}
	return source, nil
}
