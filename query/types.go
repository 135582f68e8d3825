// Package query implements an SQL-like query language over HTML documents.
//
// A query selects element nodes from a document, filters them with
// axis-aware predicates (parent, child, ancestor, descendant), projects
// node fields or applies analysis functions (COUNT, SUMMARIZE, TFIDF,
// TEXT, INNER_HTML, TRIM), and binds the result to a renderer (LIST,
// TABLE, CSV, PARQUET). The package includes a lexer for tokenization,
// a recursive-descent parser building a closed AST, a semantic
// validator, a filter evaluator, and an executor pipeline.
//
// Example usage:
//
//	q, err := Parse("SELECT a.href FROM document WHERE attributes.href <> ''")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rs, err := Execute(q, doc)
package query

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenSelect TokenType = iota
	TokenExclude
	TokenFrom
	TokenWhere
	TokenAnd
	TokenOr
	TokenAs
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc
	TokenLimit
	TokenTo
	TokenIn
	TokenIs
	TokenNot
	TokenNull
	TokenContains
	TokenAll
	TokenAny
	TokenExists
	TokenHasDirectText
	TokenShow
	TokenDescribe
	TokenRaw
	TokenFragments

	// Operators
	TokenEqual      // =
	TokenNotEqual   // <> or !=
	TokenRegexMatch // ~

	// Literals
	TokenString
	TokenNumber
	TokenIdent

	// Delimiters
	TokenComma      // ,
	TokenDot        // .
	TokenStar       // *
	TokenLeftParen  // (
	TokenRightParen // )
	TokenSemicolon  // ;

	// Special
	TokenEOF
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset in the input
}

// QueryKind distinguishes the three statement forms
type QueryKind int

const (
	QuerySelect QueryKind = iota
	QueryShow
	QueryDescribe
)

// Query represents a parsed statement
type Query struct {
	Kind    QueryKind
	Subject string // SHOW/DESCRIBE subject (INPUT, FUNCTIONS, DOC, ...)

	Select  []SelectItem
	Exclude []string
	Source  Source
	Filter  Expr
	OrderBy []OrderByItem
	Limit   *int64
	Sink    *Sink
}

// OrderByItem represents a column to sort by
type OrderByItem struct {
	Column string // result column label or natural field name
	Desc   bool   // DESC vs ASC (default)
}

// SinkKind identifies the TO target
type SinkKind int

const (
	SinkList SinkKind = iota
	SinkTable
	SinkCSV
	SinkParquet
)

// Sink represents the TO clause
type Sink struct {
	Kind   SinkKind
	Path   string // CSV/PARQUET target, or TABLE EXPORT path
	Header bool   // TABLE header line (default on)
}

// SourceKind identifies where the queried document comes from
type SourceKind int

const (
	SourceDocument SourceKind = iota // the bound default document
	SourcePath                       // local file path
	SourceURL                        // http(s) URL
	SourceRaw                        // inline RAW('<markup>') fragment
	SourceFragments                  // FRAGMENTS(RAW(...)) or FRAGMENTS(subquery)
	SourceAlias                      // reference to a previously bound alias
)

// Source represents the FROM clause
type Source struct {
	Kind  SourceKind
	Value string // path, URL, raw markup, or alias name
	Sub   *Query // FRAGMENTS subquery
	Alias string // AS binding
}

// Axis selects which related nodes an operand resolves against
type Axis int

const (
	AxisSelf Axis = iota
	AxisParent
	AxisChild
	AxisAncestor
	AxisDescendant
)

// String returns the lowercase axis name
func (a Axis) String() string {
	switch a {
	case AxisParent:
		return "parent"
	case AxisChild:
		return "child"
	case AxisAncestor:
		return "ancestor"
	case AxisDescendant:
		return "descendant"
	default:
		return "self"
	}
}

// FieldKind identifies a node field referenced by an operand or projection
type FieldKind int

const (
	FieldTag FieldKind = iota
	FieldText
	FieldAttribute  // a single named attribute
	FieldAttributes // the whole attribute map
	FieldNodeID
	FieldParentID
	FieldSiblingPos
	FieldMaxDepth
	FieldDocOrder
)

// String returns the canonical field name
func (f FieldKind) String() string {
	switch f {
	case FieldTag:
		return "tag"
	case FieldText:
		return "text"
	case FieldAttributes:
		return "attributes"
	case FieldNodeID:
		return "node_id"
	case FieldParentID:
		return "parent_id"
	case FieldSiblingPos:
		return "sibling_pos"
	case FieldMaxDepth:
		return "max_depth"
	case FieldDocOrder:
		return "doc_order"
	default:
		return "attribute"
	}
}

// numericField reports whether the field carries an integer value
func numericField(f FieldKind) bool {
	switch f {
	case FieldNodeID, FieldParentID, FieldSiblingPos, FieldMaxDepth, FieldDocOrder:
		return true
	}
	return false
}

// Operand is the left side of a comparison: [qualifier.][axis.]field
type Operand struct {
	Qualifier string
	Axis      Axis
	Field     FieldKind
	Attr      string // attribute name when Field is FieldAttribute
}

// CompareOp identifies a comparison operator
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpRegexMatch
	OpIn
	OpContains
	OpContainsAll
	OpContainsAny
	OpIsNull
	OpIsNotNull
	OpHasDirectText
)

// Expr is a boolean expression in the WHERE clause. The implementations
// form a closed set: BinaryExpr, CompareExpr and ExistsExpr.
type Expr interface {
	exprNode()
}

// BinaryExpr represents an AND/OR combination
type BinaryExpr struct {
	Left     Expr
	Operator TokenType // TokenAnd or TokenOr
	Right    Expr
}

// CompareExpr represents a comparison (operand op values)
type CompareExpr struct {
	Operand Operand
	Op      CompareOp
	Values  []string
}

// ExistsExpr represents EXISTS(axis [WHERE expr])
type ExistsExpr struct {
	Axis  Axis
	Where Expr
}

func (*BinaryExpr) exprNode()  {}
func (*CompareExpr) exprNode() {}
func (*ExistsExpr) exprNode()  {}

// SelectKind identifies a select list item form
type SelectKind int

const (
	SelectWildcard  SelectKind = iota // *
	SelectTag                         // bare tag
	SelectField                       // tag.field, attributes.name, attributes
	SelectCount                       // COUNT(*) / COUNT(tag)
	SelectSummarize                   // SUMMARIZE(*)
	SelectTfidf                       // TFIDF(...)
	SelectText                        // TEXT(tag)
	SelectInnerHTML                   // INNER_HTML(tag[, depth])
)

// SelectItem represents a single item in the SELECT list
type SelectItem struct {
	Kind  SelectKind
	Tag   string     // tag scope; "*" for COUNT(*); empty for self scope
	Field FieldKind  // SelectField only
	Attr  string     // attribute name when Field is FieldAttribute
	Trim  bool       // wrapped in TRIM(...)
	Depth *int64     // INNER_HTML depth
	Tfidf *TfidfSpec // SelectTfidf only
	Label string     // canonical column label
}

// TfidfSpec holds the TFIDF(...) arguments
type TfidfSpec struct {
	Tags      []string
	All       bool // TFIDF(*)
	TopTerms  int64
	MinDF     int64
	MaxDF     int64 // 0 means no upper bound
	Stopwords string
}
