package query

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_SelectForms(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		labels []string
	}{
		{
			name:   "wildcard",
			query:  "SELECT * FROM document",
			labels: []string{"*"},
		},
		{
			name:   "bare tags",
			query:  "SELECT h1, h2 FROM document",
			labels: []string{"h1", "h2"},
		},
		{
			name:   "tag fields",
			query:  "SELECT a.text, a.href FROM document",
			labels: []string{"a.text", "a.href"},
		},
		{
			name:   "field list shorthand",
			query:  "SELECT a(text, href, class) FROM document",
			labels: []string{"a.text", "a.href", "a.class"},
		},
		{
			name:   "attributes of the candidate",
			query:  "SELECT attributes FROM document",
			labels: []string{"attributes"},
		},
		{
			name:   "named attribute of the candidate",
			query:  "SELECT attributes.id FROM document",
			labels: []string{"attributes.id"},
		},
		{
			name:   "count star",
			query:  "SELECT COUNT(*) FROM document",
			labels: []string{"COUNT(*)"},
		},
		{
			name:   "count tag",
			query:  "SELECT COUNT(div) FROM document",
			labels: []string{"COUNT(div)"},
		},
		{
			name:   "count with projection",
			query:  "SELECT title.text, COUNT(*) FROM document",
			labels: []string{"title.text", "COUNT(*)"},
		},
		{
			name:   "summarize",
			query:  "SELECT SUMMARIZE(*) FROM document",
			labels: []string{"SUMMARIZE(*)"},
		},
		{
			name:   "text function",
			query:  "SELECT TEXT(p) FROM document",
			labels: []string{"TEXT(p)"},
		},
		{
			name:   "inner html",
			query:  "SELECT INNER_HTML(div) FROM document",
			labels: []string{"INNER_HTML(div)"},
		},
		{
			name:   "inner html with depth",
			query:  "SELECT INNER_HTML(div, 3) FROM document",
			labels: []string{"INNER_HTML(div)"},
		},
		{
			name:   "trim text",
			query:  "SELECT TRIM(TEXT(p)) FROM document",
			labels: []string{"TRIM(TEXT(p))"},
		},
		{
			name:   "trim field",
			query:  "SELECT TRIM(p.text) FROM document",
			labels: []string{"TRIM(p.text)"},
		},
		{
			name:   "tfidf",
			query:  "SELECT TFIDF(p, li) FROM document",
			labels: []string{"TFIDF(p, li)"},
		},
		{
			name:   "uppercase tags fold",
			query:  "SELECT DIV, SPAN FROM document",
			labels: []string{"div", "span"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			labels := make([]string, len(q.Select))
			for i := range q.Select {
				labels[i] = q.Select[i].Label
			}
			if diff := cmp.Diff(tt.labels, labels); diff != "" {
				t.Errorf("select labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Sources(t *testing.T) {
	tests := []struct {
		name  string
		query string
		kind  SourceKind
		value string
		alias string
	}{
		{"document", "SELECT * FROM document", SourceDocument, "", ""},
		{"doc shorthand", "SELECT * FROM doc", SourceDocument, "", ""},
		{"path", "SELECT * FROM 'page.html'", SourcePath, "page.html", ""},
		{"url", "SELECT * FROM 'https://example.com/a'", SourceURL, "https://example.com/a", ""},
		{"raw", "SELECT * FROM RAW('<p>x</p>')", SourceRaw, "<p>x</p>", ""},
		{"alias reference", "SELECT * FROM snippet", SourceAlias, "snippet", ""},
		{"as alias", "SELECT * FROM RAW('<p>x</p>') AS snip", SourceRaw, "<p>x</p>", "snip"},
		{"bare alias", "SELECT * FROM document d", SourceDocument, "", "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if q.Source.Kind != tt.kind {
				t.Errorf("source kind = %v, want %v", q.Source.Kind, tt.kind)
			}
			if q.Source.Value != tt.value {
				t.Errorf("source value = %q, want %q", q.Source.Value, tt.value)
			}
			if q.Source.Alias != tt.alias {
				t.Errorf("source alias = %q, want %q", q.Source.Alias, tt.alias)
			}
		})
	}
}

func TestParse_FragmentsSubquery(t *testing.T) {
	q, err := Parse("SELECT li FROM FRAGMENTS(SELECT INNER_HTML(ul) FROM RAW('<ul><li>x</li></ul>'))")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if q.Source.Kind != SourceFragments {
		t.Fatalf("source kind = %v, want SourceFragments", q.Source.Kind)
	}
	if q.Source.Sub == nil {
		t.Fatal("fragments subquery is nil")
	}
	if q.Source.Sub.Source.Kind != SourceRaw {
		t.Errorf("subquery source kind = %v, want SourceRaw", q.Source.Sub.Source.Kind)
	}
}

func TestParse_Clauses(t *testing.T) {
	q, err := Parse("SELECT li FROM document WHERE class = 'item' ORDER BY doc_order DESC, tag LIMIT 10 TO TABLE(HEADER=OFF, EXPORT='out.txt');")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if q.Filter == nil {
		t.Error("filter is nil")
	}
	wantOrder := []OrderByItem{
		{Column: "doc_order", Desc: true},
		{Column: "tag"},
	}
	if diff := cmp.Diff(wantOrder, q.OrderBy); diff != "" {
		t.Errorf("order by mismatch (-want +got):\n%s", diff)
	}
	if q.Limit == nil || *q.Limit != 10 {
		t.Errorf("limit = %v, want 10", q.Limit)
	}
	if q.Sink == nil || q.Sink.Kind != SinkTable {
		t.Fatalf("sink = %+v, want TABLE", q.Sink)
	}
	if q.Sink.Header {
		t.Error("header = true, want false")
	}
	if q.Sink.Path != "out.txt" {
		t.Errorf("export path = %q, want out.txt", q.Sink.Path)
	}
}

func TestParse_Sinks(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		kind   SinkKind
		path   string
		header bool
	}{
		{"list", "SELECT p.text FROM document TO LIST()", SinkList, "", true},
		{"table default header", "SELECT p.text FROM document TO TABLE()", SinkTable, "", true},
		{"table header on", "SELECT p.text FROM document TO TABLE(HEADER=ON)", SinkTable, "", true},
		{"table header off bare", "SELECT p.text FROM document TO TABLE(HEADER OFF)", SinkTable, "", false},
		{"table header on bare", "SELECT p.text FROM document TO TABLE(HEADER ON)", SinkTable, "", true},
		{"table noheader", "SELECT p.text FROM document TO TABLE(NOHEADER)", SinkTable, "", false},
		{"table no_header", "SELECT p.text FROM document TO TABLE(NO_HEADER)", SinkTable, "", false},
		{"csv", "SELECT p.text FROM document TO CSV('out.csv')", SinkCSV, "out.csv", true},
		{"parquet", "SELECT p.text FROM document TO PARQUET('out.parquet')", SinkParquet, "out.parquet", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if q.Sink == nil {
				t.Fatal("sink is nil")
			}
			if q.Sink.Kind != tt.kind || q.Sink.Path != tt.path || q.Sink.Header != tt.header {
				t.Errorf("sink = %+v, want kind=%v path=%q header=%v", q.Sink, tt.kind, tt.path, tt.header)
			}
		})
	}
}

func TestParse_Exclude(t *testing.T) {
	q, err := Parse("SELECT * EXCLUDE attributes, max_depth FROM document")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"attributes", "max_depth"}, q.Exclude); diff != "" {
		t.Errorf("exclude mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ShowAndDescribe(t *testing.T) {
	tests := []struct {
		query   string
		kind    QueryKind
		subject string
	}{
		{"SHOW INPUT", QueryShow, "INPUT"},
		{"SHOW INPUTS", QueryShow, "INPUTS"},
		{"show functions", QueryShow, "FUNCTIONS"},
		{"SHOW AXES", QueryShow, "AXES"},
		{"SHOW OPERATORS;", QueryShow, "OPERATORS"},
		{"DESCRIBE DOC", QueryDescribe, "DOC"},
		{"DESCRIBE DOCUMENT", QueryDescribe, "DOC"},
		{"describe language", QueryDescribe, "LANGUAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if q.Kind != tt.kind || q.Subject != tt.subject {
				t.Errorf("Parse(%q) = kind %v subject %q, want kind %v subject %q",
					tt.query, q.Kind, q.Subject, tt.kind, tt.subject)
			}
		})
	}
}

func TestParse_TfidfOptions(t *testing.T) {
	q, err := Parse("SELECT TFIDF(p, TOP_TERMS=5, MIN_DF=2, MAX_DF=8, STOPWORDS=NONE) FROM document")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	spec := q.Select[0].Tfidf
	if spec == nil {
		t.Fatal("tfidf spec is nil")
	}
	want := &TfidfSpec{Tags: []string{"p"}, TopTerms: 5, MinDF: 2, MaxDF: 8, Stopwords: "NONE"}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Errorf("tfidf spec mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TfidfDefaults(t *testing.T) {
	q, err := Parse("SELECT TFIDF(*) FROM document")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	spec := q.Select[0].Tfidf
	if !spec.All {
		t.Error("All = false, want true")
	}
	if spec.TopTerms != 10 || spec.MinDF != 1 || spec.MaxDF != 0 || spec.Stopwords != "ENGLISH" {
		t.Errorf("defaults = %+v, want TopTerms=10 MinDF=1 MaxDF=0 Stopwords=ENGLISH", spec)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"missing FROM", "SELECT *"},
		{"missing source", "SELECT * FROM"},
		{"missing select list", "SELECT FROM document"},
		{"trailing garbage", "SELECT * FROM document extra tokens here"},
		{"double semicolon", "SELECT * FROM document;;"},
		{"unknown statement", "DELETE FROM document"},
		{"bad sink", "SELECT p.text FROM document TO XML('x')"},
		{"sink missing path", "SELECT p.text FROM document TO CSV()"},
		{"bad table option", "SELECT p.text FROM document TO TABLE(COLOR=ON)"},
		{"limit not a number", "SELECT * FROM document LIMIT ten"},
		{"bad show subject", "SHOW TABLES"},
		{"bad describe subject", "DESCRIBE INDEX"},
		{"count missing arg", "SELECT COUNT() FROM document"},
		{"summarize requires star", "SELECT SUMMARIZE(p) FROM document"},
		{"inner html zero depth", "SELECT INNER_HTML(div, 0) FROM document"},
		{"tfidf empty", "SELECT TFIDF() FROM document"},
		{"tfidf star with tags", "SELECT TFIDF(*, p) FROM document"},
		{"tfidf tag after options", "SELECT TFIDF(p, TOP_TERMS=3, li) FROM document"},
		{"tfidf bad stopwords", "SELECT TFIDF(p, STOPWORDS=FRENCH) FROM document"},
		{"raw missing paren", "SELECT * FROM RAW '<p>x</p>'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.query); err == nil {
				t.Errorf("Parse(%q) expected error, got none", tt.query)
			}
		})
	}
}

func TestParse_ExpressionDepth(t *testing.T) {
	shallow := strings.Repeat("(", 50) + "tag = 'p'" + strings.Repeat(")", 50)
	if _, err := Parse("SELECT p FROM document WHERE " + shallow); err != nil {
		t.Errorf("nested expression within the cap should parse, got %v", err)
	}

	deep := strings.Repeat("(", 150) + "tag = 'p'" + strings.Repeat(")", 150)
	_, err := Parse("SELECT p FROM document WHERE " + deep)
	if err == nil || !strings.Contains(err.Error(), "nesting") {
		t.Errorf("error = %v, want nesting depth error", err)
	}
}

func TestParse_LimitBounds(t *testing.T) {
	if _, err := Parse("SELECT * FROM document LIMIT 100000"); err != nil {
		t.Errorf("LIMIT at the cap should parse, got %v", err)
	}
	_, err := Parse("SELECT * FROM document LIMIT 100001")
	if err == nil || !strings.Contains(err.Error(), "LIMIT") {
		t.Errorf("LIMIT over the cap: error = %v, want LIMIT error", err)
	}
}
