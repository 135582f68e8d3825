package query

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSelectList parses the SELECT list
func (p *Parser) parseSelectList() ([]SelectItem, error) {
	var items []SelectItem

	for {
		parsed, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, parsed...)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	return items, nil
}

// parseSelectItem parses one select item. The tag(f1, f2) shorthand
// expands to several items, so a slice is returned.
func (p *Parser) parseSelectItem() ([]SelectItem, error) {
	if p.current().Type == TokenStar {
		p.advance()
		return []SelectItem{{Kind: SelectWildcard, Label: "*"}}, nil
	}

	if p.current().Type != TokenIdent {
		return nil, p.errExpected("tag name, field, or function in SELECT list")
	}

	name := p.current().Value

	// Function call or tag(field, ...) shorthand
	if p.peek().Type == TokenLeftParen {
		switch strings.ToUpper(name) {
		case "COUNT":
			item, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			return []SelectItem{item}, nil
		case "SUMMARIZE":
			item, err := p.parseSummarize()
			if err != nil {
				return nil, err
			}
			return []SelectItem{item}, nil
		case "TFIDF":
			item, err := p.parseTfidf()
			if err != nil {
				return nil, err
			}
			return []SelectItem{item}, nil
		case "TRIM":
			item, err := p.parseTrim()
			if err != nil {
				return nil, err
			}
			return []SelectItem{item}, nil
		case "TEXT":
			item, err := p.parseTextFn()
			if err != nil {
				return nil, err
			}
			return []SelectItem{item}, nil
		case "INNER_HTML":
			item, err := p.parseInnerHTMLFn()
			if err != nil {
				return nil, err
			}
			return []SelectItem{item}, nil
		}
		return p.parseTagFieldList(name)
	}

	// tag.field
	if p.peek().Type == TokenDot {
		p.advance() // tag
		p.advance() // dot
		if p.current().Type != TokenIdent {
			return nil, p.errExpected("field name after '.'")
		}
		field := p.current().Value
		p.advance()
		item, err := makeFieldItem(name, field)
		if err != nil {
			return nil, err
		}
		return []SelectItem{item}, nil
	}

	p.advance()
	if strings.ToLower(name) == "attributes" {
		return []SelectItem{{
			Kind:  SelectField,
			Field: FieldAttributes,
			Label: "attributes",
		}}, nil
	}
	return []SelectItem{{Kind: SelectTag, Tag: strings.ToLower(name), Label: strings.ToLower(name)}}, nil
}

// parseTagFieldList parses the tag(f1, f2, ...) shorthand
func (p *Parser) parseTagFieldList(tag string) ([]SelectItem, error) {
	p.advance() // tag
	p.advance() // (

	var items []SelectItem
	for {
		if p.current().Type != TokenIdent {
			return nil, p.errExpected("field name in " + tag + "(...)")
		}
		field := p.current().Value
		p.advance()

		item, err := makeFieldItem(tag, field)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	return items, nil
}

// makeFieldItem builds a projected field item from a tag.field pair.
// The head "attributes" projects an attribute of the candidate itself.
func makeFieldItem(tag, field string) (SelectItem, error) {
	tag = strings.ToLower(tag)
	field = strings.ToLower(field)

	if tag == "attributes" {
		return SelectItem{
			Kind:  SelectField,
			Field: FieldAttribute,
			Attr:  field,
			Label: "attributes." + field,
		}, nil
	}

	item := SelectItem{Kind: SelectField, Tag: tag, Label: tag + "." + field}
	switch field {
	case "tag":
		item.Field = FieldTag
	case "text":
		item.Field = FieldText
	case "attributes":
		item.Field = FieldAttributes
	case "node_id":
		item.Field = FieldNodeID
	case "parent_id":
		item.Field = FieldParentID
	case "sibling_pos":
		item.Field = FieldSiblingPos
	case "max_depth":
		item.Field = FieldMaxDepth
	case "doc_order":
		item.Field = FieldDocOrder
	default:
		item.Field = FieldAttribute
		item.Attr = field
	}
	return item, nil
}

// parseCount parses COUNT(*) or COUNT(tag)
func (p *Parser) parseCount() (SelectItem, error) {
	p.advance() // COUNT
	p.advance() // (

	var tag string
	switch p.current().Type {
	case TokenStar:
		tag = "*"
		p.advance()
	case TokenIdent:
		tag = strings.ToLower(p.current().Value)
		p.advance()
	default:
		return SelectItem{}, p.errExpected("* or tag name in COUNT")
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return SelectItem{}, err
	}
	return SelectItem{Kind: SelectCount, Tag: tag, Label: "COUNT(" + tag + ")"}, nil
}

// parseSummarize parses SUMMARIZE(*)
func (p *Parser) parseSummarize() (SelectItem, error) {
	p.advance() // SUMMARIZE
	p.advance() // (

	if p.current().Type != TokenStar {
		return SelectItem{}, p.errExpected("* in SUMMARIZE")
	}
	p.advance()

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return SelectItem{}, err
	}
	return SelectItem{Kind: SelectSummarize, Tag: "*", Label: "SUMMARIZE(*)"}, nil
}

// parseTextFn parses TEXT(tag)
func (p *Parser) parseTextFn() (SelectItem, error) {
	p.advance() // TEXT
	p.advance() // (

	if p.current().Type != TokenIdent {
		return SelectItem{}, p.errExpected("tag name in TEXT")
	}
	tag := strings.ToLower(p.current().Value)
	p.advance()

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return SelectItem{}, err
	}
	return SelectItem{Kind: SelectText, Tag: tag, Label: "TEXT(" + tag + ")"}, nil
}

// parseInnerHTMLFn parses INNER_HTML(tag[, depth])
func (p *Parser) parseInnerHTMLFn() (SelectItem, error) {
	p.advance() // INNER_HTML
	p.advance() // (

	if p.current().Type != TokenIdent {
		return SelectItem{}, p.errExpected("tag name in INNER_HTML")
	}
	tag := strings.ToLower(p.current().Value)
	p.advance()

	item := SelectItem{Kind: SelectInnerHTML, Tag: tag, Label: "INNER_HTML(" + tag + ")"}

	if p.current().Type == TokenComma {
		p.advance()
		if p.current().Type != TokenNumber {
			return SelectItem{}, p.errExpected("depth number in INNER_HTML")
		}
		depth, err := strconv.ParseInt(p.current().Value, 10, 64)
		if err != nil || depth < 1 {
			return SelectItem{}, &ParseError{Pos: p.current().Pos, Expected: "positive INNER_HTML depth", Found: p.current().Value}
		}
		item.Depth = &depth
		p.advance()
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return SelectItem{}, err
	}
	return item, nil
}

// parseTrim parses TRIM(TEXT(tag)), TRIM(INNER_HTML(tag[, n])), or
// TRIM(tag.field)
func (p *Parser) parseTrim() (SelectItem, error) {
	p.advance() // TRIM
	p.advance() // (

	if p.current().Type != TokenIdent {
		return SelectItem{}, p.errExpected("TEXT, INNER_HTML, or tag.field in TRIM")
	}

	var inner SelectItem
	var err error
	name := p.current().Value
	if p.peek().Type == TokenLeftParen {
		switch strings.ToUpper(name) {
		case "TEXT":
			inner, err = p.parseTextFn()
		case "INNER_HTML":
			inner, err = p.parseInnerHTMLFn()
		default:
			return SelectItem{}, p.errExpected("TEXT or INNER_HTML in TRIM")
		}
		if err != nil {
			return SelectItem{}, err
		}
	} else {
		p.advance() // tag
		if err := p.expect(TokenDot, "'.' in TRIM(tag.field)"); err != nil {
			return SelectItem{}, err
		}
		if p.current().Type != TokenIdent {
			return SelectItem{}, p.errExpected("field name in TRIM(tag.field)")
		}
		field := p.current().Value
		p.advance()
		inner, err = makeFieldItem(name, field)
		if err != nil {
			return SelectItem{}, err
		}
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return SelectItem{}, err
	}

	inner.Trim = true
	inner.Label = "TRIM(" + inner.Label + ")"
	return inner, nil
}

// parseTfidf parses TFIDF(tag... | *, [TOP_TERMS=n][, MIN_DF=n]
// [, MAX_DF=n][, STOPWORDS=ENGLISH|NONE]). Tags must precede options.
func (p *Parser) parseTfidf() (SelectItem, error) {
	p.advance() // TFIDF
	p.advance() // (

	spec := &TfidfSpec{TopTerms: 10, MinDF: 1, Stopwords: "ENGLISH"}
	sawOption := false

	for {
		switch {
		case p.current().Type == TokenStar:
			if sawOption {
				return SelectItem{}, p.errExpected("option after TFIDF options began")
			}
			if len(spec.Tags) > 0 {
				return SelectItem{}, &ParseError{Pos: p.current().Pos, Expected: "tag list or *", Found: "* combined with tags"}
			}
			spec.All = true
			p.advance()
		case p.current().Type == TokenIdent && p.peek().Type == TokenEqual:
			opt := strings.ToUpper(p.current().Value)
			p.advance() // option name
			p.advance() // =
			if err := p.parseTfidfOption(spec, opt); err != nil {
				return SelectItem{}, err
			}
			sawOption = true
		case p.current().Type == TokenIdent:
			if sawOption {
				return SelectItem{}, &ParseError{Pos: p.current().Pos, Expected: "option", Found: "tag after options"}
			}
			if spec.All {
				return SelectItem{}, &ParseError{Pos: p.current().Pos, Expected: "option", Found: "tag combined with *"}
			}
			spec.Tags = append(spec.Tags, strings.ToLower(p.current().Value))
			p.advance()
		default:
			return SelectItem{}, p.errExpected("tag, *, or option in TFIDF")
		}

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	if err := p.expect(TokenRightParen, "')'"); err != nil {
		return SelectItem{}, err
	}

	if !spec.All && len(spec.Tags) == 0 {
		return SelectItem{}, fmt.Errorf("TFIDF requires at least one tag or *")
	}

	label := "TFIDF(*)"
	if !spec.All {
		label = "TFIDF(" + strings.Join(spec.Tags, ", ") + ")"
	}
	return SelectItem{Kind: SelectTfidf, Tfidf: spec, Label: label}, nil
}

// parseTfidfOption parses the value of a single TFIDF option
func (p *Parser) parseTfidfOption(spec *TfidfSpec, opt string) error {
	switch opt {
	case "TOP_TERMS", "MIN_DF", "MAX_DF":
		if p.current().Type != TokenNumber {
			return p.errExpected("number for " + opt)
		}
		n, err := strconv.ParseInt(p.current().Value, 10, 64)
		if err != nil {
			return &ParseError{Pos: p.current().Pos, Expected: "valid number for " + opt, Found: p.current().Value}
		}
		p.advance()
		switch opt {
		case "TOP_TERMS":
			if n < 1 {
				return fmt.Errorf("TOP_TERMS must be positive, got %d", n)
			}
			spec.TopTerms = n
		case "MIN_DF":
			if n < 1 {
				return fmt.Errorf("MIN_DF must be positive, got %d", n)
			}
			spec.MinDF = n
		case "MAX_DF":
			if n < 0 {
				return fmt.Errorf("MAX_DF must be non-negative, got %d", n)
			}
			spec.MaxDF = n
		}
	case "STOPWORDS":
		if p.current().Type != TokenIdent {
			return p.errExpected("ENGLISH or NONE for STOPWORDS")
		}
		val := strings.ToUpper(p.current().Value)
		if val != "ENGLISH" && val != "NONE" {
			return p.errExpected("ENGLISH or NONE for STOPWORDS")
		}
		spec.Stopwords = val
		p.advance()
	default:
		return &ParseError{Pos: p.current().Pos, Expected: "TOP_TERMS, MIN_DF, MAX_DF, or STOPWORDS", Found: opt}
	}
	return nil
}
