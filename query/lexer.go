package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes query strings
type Lexer struct {
	input string
	pos   int // offset of the next unread byte
	chPos int // offset of the current rune
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next rune, advancing by its encoded width
func (l *Lexer) readChar() {
	l.chPos = l.pos
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.pos += w
}

// peekChar looks at the next rune without advancing
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a quoted string, failing on an unterminated literal
func (l *Lexer) readString(quote rune) (string, error) {
	start := l.chPos
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case quote:
				result.WriteRune(quote)
			default:
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}
		l.readChar()
	}

	if l.ch != quote {
		return "", &LexError{Pos: start, Msg: "unterminated string literal"}
	}
	l.readChar() // skip closing quote

	return result.String(), nil
}

// readNumber reads an unsigned integer
func (l *Lexer) readNumber() string {
	var result strings.Builder
	for unicode.IsDigit(l.ch) {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' || l.ch == '-' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// NextToken returns the next token
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	start := l.chPos

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: start}, nil
	case '=':
		l.readChar()
		return Token{Type: TokenEqual, Value: "=", Pos: start}, nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenNotEqual, Value: "!=", Pos: start}, nil
		}
		return Token{}, &LexError{Pos: start, Char: "!"}
	case '<':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenNotEqual, Value: "<>", Pos: start}, nil
		}
		return Token{}, &LexError{Pos: start, Char: "<"}
	case '~':
		l.readChar()
		return Token{Type: TokenRegexMatch, Value: "~", Pos: start}, nil
	case '\'', '"':
		quote := l.ch
		value, err := l.readString(quote)
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenString, Value: value, Pos: start}, nil
	case '*':
		l.readChar()
		return Token{Type: TokenStar, Value: "*", Pos: start}, nil
	case ',':
		l.readChar()
		return Token{Type: TokenComma, Value: ",", Pos: start}, nil
	case '.':
		l.readChar()
		return Token{Type: TokenDot, Value: ".", Pos: start}, nil
	case '(':
		l.readChar()
		return Token{Type: TokenLeftParen, Value: "(", Pos: start}, nil
	case ')':
		l.readChar()
		return Token{Type: TokenRightParen, Value: ")", Pos: start}, nil
	case ';':
		l.readChar()
		return Token{Type: TokenSemicolon, Value: ";", Pos: start}, nil
	}

	if unicode.IsDigit(l.ch) {
		return Token{Type: TokenNumber, Value: l.readNumber(), Pos: start}, nil
	}
	if unicode.IsLetter(l.ch) || l.ch == '_' {
		value := l.readIdentifier()
		return Token{Type: identifierType(value), Value: value, Pos: start}, nil
	}

	return Token{}, &LexError{Pos: start, Char: string(l.ch)}
}

// keywords maps uppercase identifiers to their token types. Axis and field
// names are deliberately absent: they stay plain identifiers so they can be
// used as attribute names too.
var keywords = map[string]TokenType{
	"SELECT":          TokenSelect,
	"EXCLUDE":         TokenExclude,
	"FROM":            TokenFrom,
	"WHERE":           TokenWhere,
	"AND":             TokenAnd,
	"OR":              TokenOr,
	"AS":              TokenAs,
	"ORDER":           TokenOrder,
	"BY":              TokenBy,
	"ASC":             TokenAsc,
	"DESC":            TokenDesc,
	"LIMIT":           TokenLimit,
	"TO":              TokenTo,
	"IN":              TokenIn,
	"IS":              TokenIs,
	"NOT":             TokenNot,
	"NULL":            TokenNull,
	"CONTAINS":        TokenContains,
	"ALL":             TokenAll,
	"ANY":             TokenAny,
	"EXISTS":          TokenExists,
	"HAS_DIRECT_TEXT": TokenHasDirectText,
	"SHOW":            TokenShow,
	"DESCRIBE":        TokenDescribe,
	"RAW":             TokenRaw,
	"FRAGMENTS":       TokenFragments,
}

// identifierType determines if an identifier is a keyword (case-insensitive)
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToUpper(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input
func Tokenize(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
