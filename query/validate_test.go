package query

import (
	"strings"
	"testing"
)

func TestValidate_SelectListRules(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{
			name:    "wildcard with other items",
			query:   "SELECT *, p FROM document",
			wantErr: "SELECT *",
		},
		{
			name:    "bare tag mixed with projection",
			query:   "SELECT p, a.href FROM document",
			wantErr: "mix",
		},
		{
			name:    "trim with other items",
			query:   "SELECT TRIM(TEXT(p)), p.text FROM document",
			wantErr: "TRIM",
		},
		{
			name:    "summarize with other items",
			query:   "SELECT SUMMARIZE(*), p FROM document",
			wantErr: "only select item",
		},
		{
			name:    "tfidf with other items",
			query:   "SELECT TFIDF(p), COUNT(*) FROM document",
			wantErr: "only select item",
		},
		{
			name:    "count with bare tag",
			query:   "SELECT p, COUNT(*) FROM document",
			wantErr: "COUNT",
		},
		{
			name:    "projections disagree on tag",
			query:   "SELECT p.text, a.href FROM document",
			wantErr: "share one tag",
		},
		{
			name:    "inconsistent inner html depth",
			query:   "SELECT INNER_HTML(div, 2), INNER_HTML(div, 3) FROM document",
			wantErr: "depth",
		},
		{
			name:  "count with projection is fine",
			query: "SELECT title.text, COUNT(*) FROM document",
		},
		{
			name:  "attributes item shares any scope",
			query: "SELECT a.href, attributes.id FROM document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Parse(%q) error = %v, want none", tt.query, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got none", tt.query)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want it to mention %q", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Exclude(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"valid exclude", "SELECT * EXCLUDE attributes FROM document", false},
		{"exclude without wildcard", "SELECT p EXCLUDE attributes FROM document", true},
		{"unknown field", "SELECT * EXCLUDE text FROM document", true},
		{"every column removed", "SELECT * EXCLUDE node_id, tag, attributes, parent_id, max_depth, doc_order FROM document", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_OrderBy(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"summarize by count", "SELECT SUMMARIZE(*) FROM document ORDER BY count DESC", false},
		{"summarize by tag", "SELECT SUMMARIZE(*) FROM document ORDER BY tag", false},
		{"summarize by other", "SELECT SUMMARIZE(*) FROM document ORDER BY node_id", true},
		{"tfidf rejects order by", "SELECT TFIDF(*) FROM document ORDER BY tag", true},
		{"lone count rejects order by", "SELECT COUNT(*) FROM document ORDER BY count", true},
		{"row shape allows order by", "SELECT p.text FROM document ORDER BY doc_order", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Sinks(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"list with one projection", "SELECT p.text FROM document TO LIST()", false},
		{"list with lone count", "SELECT COUNT(*) FROM document TO LIST()", false},
		{"list with wildcard", "SELECT * FROM document TO LIST()", true},
		{"list with two projections", "SELECT a.text, a.href FROM document TO LIST()", true},
		{"list with bare tag", "SELECT p FROM document TO LIST()", true},
		{"csv blank path", "SELECT p.text FROM document TO CSV('  ')", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FragmentsSubquery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{
			name:  "single projected column",
			query: "SELECT li FROM FRAGMENTS(SELECT INNER_HTML(li) FROM RAW('<ul><li>x</li></ul>'))",
		},
		{
			name:    "subquery reads a path",
			query:   "SELECT li FROM FRAGMENTS(SELECT INNER_HTML(li) FROM 'page.html')",
			wantErr: true,
		},
		{
			name:    "subquery with wildcard",
			query:   "SELECT li FROM FRAGMENTS(SELECT * FROM RAW('<ul><li>x</li></ul>'))",
			wantErr: true,
		},
		{
			name:    "subquery with sink",
			query:   "SELECT li FROM FRAGMENTS(SELECT INNER_HTML(li) FROM RAW('<ul><li>x</li></ul>') TO LIST())",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FilterRules(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{
			name:    "contains on text",
			query:   "SELECT p FROM document WHERE text CONTAINS 'x'",
			wantErr: "CONTAINS",
		},
		{
			name:    "has_direct_text on an axis operand",
			query:   "SELECT p FROM document WHERE child.tag HAS_DIRECT_TEXT 'x'",
			wantErr: "HAS_DIRECT_TEXT",
		},
		{
			name:    "has_direct_text on text",
			query:   "SELECT p FROM document WHERE text HAS_DIRECT_TEXT 'x'",
			wantErr: "HAS_DIRECT_TEXT",
		},
		{
			name:    "attributes map with equality",
			query:   "SELECT p FROM document WHERE attributes = 'x'",
			wantErr: "IS [NOT] NULL",
		},
		{
			name:    "unknown qualifier",
			query:   "SELECT p.text FROM document WHERE nav.tag = 'x'",
			wantErr: "qualifier",
		},
		{
			name:    "exists without axis",
			query:   "SELECT p FROM document WHERE EXISTS(self)",
			wantErr: "axis",
		},
		{
			name:  "selected tag qualifier",
			query: "SELECT p.text FROM document WHERE p.text = 'x'",
		},
		{
			name:  "document qualifier",
			query: "SELECT p.text FROM document WHERE document.max_depth = '2'",
		},
		{
			name:  "source alias qualifier",
			query: "SELECT p.text FROM document d WHERE d.tag = 'p'",
		},
		{
			name:  "has_direct_text on the self tag",
			query: "SELECT p FROM document WHERE tag HAS_DIRECT_TEXT 'x'",
		},
		{
			name:  "has_direct_text on a tag name",
			query: "SELECT div FROM document WHERE div HAS_DIRECT_TEXT 'something'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Parse(%q) error = %v, want none", tt.query, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got none", tt.query)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want it to mention %q", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RegexLength(t *testing.T) {
	long := strings.Repeat("a", 1001)
	_, err := Parse("SELECT p FROM document WHERE text ~ '" + long + "'")
	if err == nil || !strings.Contains(err.Error(), "regex") {
		t.Errorf("oversized regex: error = %v, want regex length error", err)
	}
}
