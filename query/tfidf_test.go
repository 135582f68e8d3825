package query

import (
	"strings"
	"testing"
)

func TestTokenize_Terms(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		stopwords map[string]bool
		want      []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Hello, World! Go-lang 2024",
			want: []string{"hello", "world", "go", "lang", "2024"},
		},
		{
			name:      "drops stopwords",
			text:      "the quick fox and the dog",
			stopwords: englishStopwords,
			want:      []string{"quick", "fox", "dog"},
		},
		{
			name: "keeps underscores",
			text: "snake_case stays",
			want: []string{"snake_case", "stays"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stop := tt.stopwords
			if stop == nil {
				stop = map[string]bool{}
			}
			got := tokenize(tt.text, stop)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
					break
				}
			}
		})
	}
}

func TestExecute_Tfidf(t *testing.T) {
	markup := "<div><p>apple banana apple</p><p>banana cherry</p><p>durian</p></div>"
	q := mustParse(t, "SELECT TFIDF(p, STOPWORDS=NONE) FROM RAW('" + markup + "')")
	rs, err := Execute(q, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	wantColumns := []string{"node_id", "parent_id", "tag", "terms_score"}
	for i, col := range wantColumns {
		if rs.Columns[i] != col {
			t.Fatalf("columns = %v, want %v", rs.Columns, wantColumns)
		}
	}
	if len(rs.Rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(rs.Rows))
	}

	// Terms unique to a node outscore terms shared across the corpus
	first := rs.Rows[0][3].Text()
	if !strings.HasPrefix(first, "apple:") {
		t.Errorf("first node terms = %q, want apple ranked first", first)
	}
	third := rs.Rows[2][3].Text()
	if !strings.HasPrefix(third, "durian:") {
		t.Errorf("third node terms = %q, want durian ranked first", third)
	}
	for _, row := range rs.Rows {
		if row[2].Text() != "p" {
			t.Errorf("tag = %q, want p", row[2].Text())
		}
	}
}

func TestExecute_TfidfTopTerms(t *testing.T) {
	q := mustParse(t, "SELECT TFIDF(p, TOP_TERMS=1, STOPWORDS=NONE) FROM RAW('<p>alpha beta gamma</p>')")
	rs, err := Execute(q, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(rs.Rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(rs.Rows))
	}
	terms := rs.Rows[0][3].Text()
	if strings.Contains(terms, ",") {
		t.Errorf("terms = %q, want a single term", terms)
	}
	// Equal scores break ties alphabetically
	if !strings.HasPrefix(terms, "alpha:") {
		t.Errorf("terms = %q, want alpha first", terms)
	}
}

func TestExecute_TfidfMinDF(t *testing.T) {
	markup := "<div><p>shared unique1</p><p>shared unique2</p></div>"
	q := mustParse(t, "SELECT TFIDF(p, MIN_DF=2, STOPWORDS=NONE) FROM RAW('" + markup + "')")
	rs, err := Execute(q, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, row := range rs.Rows {
		terms := row[3].Text()
		if strings.Contains(terms, "unique") {
			t.Errorf("terms = %q, want only terms with df >= 2", terms)
		}
		if !strings.Contains(terms, "shared") {
			t.Errorf("terms = %q, want shared present", terms)
		}
	}
}

func TestExecute_TfidfStopwordsDefault(t *testing.T) {
	q := mustParse(t, "SELECT TFIDF(p) FROM RAW('<p>the cat and the hat</p>')")
	rs, err := Execute(q, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	terms := rs.Rows[0][3].Text()
	if strings.Contains(terms, "the:") || strings.Contains(terms, "and:") {
		t.Errorf("terms = %q, want english stopwords removed", terms)
	}
	if !strings.Contains(terms, "cat:") || !strings.Contains(terms, "hat:") {
		t.Errorf("terms = %q, want cat and hat scored", terms)
	}
}
