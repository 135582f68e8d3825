package query

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/darhnoel/xsql/htmldoc"
)

// englishStopwords is the fixed stopword set used when STOPWORDS=ENGLISH
var englishStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "but": true, "by": true, "for": true,
	"from": true, "has": true, "have": true, "he": true, "her": true,
	"his": true, "i": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "or": true, "she": true,
	"that": true, "the": true, "their": true, "they": true, "to": true,
	"was": true, "were": true, "with": true, "you": true,
}

// tfidfResult scores terms per node over the matched corpus: tf is the
// term share within a node, idf is ln((N+1)/(df+1))+1 over the corpus.
func tfidfResult(doc *htmldoc.Document, matched []int64, spec *TfidfSpec) *ResultSet {
	rs := &ResultSet{Columns: []string{"node_id", "parent_id", "tag", "terms_score"}}

	corpus := corpusNodes(doc, matched, spec)
	if len(corpus) == 0 {
		return rs
	}

	stopwords := map[string]bool{}
	if spec.Stopwords == "ENGLISH" {
		stopwords = englishStopwords
	}

	// Per-node term frequencies and corpus document frequencies
	tokenized := make([][]string, len(corpus))
	df := make(map[string]int64)
	for i, id := range corpus {
		tokens := tokenize(doc.Nodes[id].Text, stopwords)
		tokenized[i] = tokens
		seen := make(map[string]bool)
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := int64(len(corpus))
	maxDF := spec.MaxDF
	if maxDF == 0 {
		maxDF = n
	}

	for i, id := range corpus {
		node := doc.Node(id)
		row := []Value{Int(node.ID), Null(), Str(node.Tag), Null()}
		if node.Parent >= 0 {
			row[1] = Int(node.Parent)
		}
		row[3] = Str(scoreTerms(tokenized[i], df, n, spec.MinDF, maxDF, spec.TopTerms))
		rs.Rows = append(rs.Rows, row)
	}
	return rs
}

// corpusNodes restricts the matched nodes to the requested tags
func corpusNodes(doc *htmldoc.Document, matched []int64, spec *TfidfSpec) []int64 {
	if spec.All {
		return matched
	}
	want := make(map[string]bool, len(spec.Tags))
	for _, tag := range spec.Tags {
		want[tag] = true
	}
	var corpus []int64
	for _, id := range matched {
		if n := doc.Node(id); n != nil && want[n.Tag] {
			corpus = append(corpus, id)
		}
	}
	return corpus
}

// tokenize lowercases and splits text into alphanumeric/underscore runs,
// dropping stopwords.
func tokenize(text string, stopwords map[string]bool) []string {
	var tokens []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() == 0 {
			return
		}
		token := sb.String()
		sb.Reset()
		if !stopwords[token] {
			tokens = append(tokens, token)
		}
	}
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			sb.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// scoreTerms renders the top scored terms of one node as
// "term:score, term:score".
func scoreTerms(tokens []string, df map[string]int64, n, minDF, maxDF, topTerms int64) string {
	if len(tokens) == 0 {
		return ""
	}

	tf := make(map[string]float64)
	for _, t := range tokens {
		tf[t]++
	}
	total := float64(len(tokens))

	type scored struct {
		term  string
		score float64
	}
	var terms []scored
	for term, count := range tf {
		d := df[term]
		if d < minDF || d > maxDF {
			continue
		}
		idf := math.Log(float64(n+1)/float64(d+1)) + 1
		terms = append(terms, scored{term: term, score: count / total * idf})
	}

	sort.Slice(terms, func(a, b int) bool {
		if terms[a].score != terms[b].score {
			return terms[a].score > terms[b].score
		}
		return terms[a].term < terms[b].term
	})
	if int64(len(terms)) > topTerms {
		terms = terms[:topTerms]
	}

	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.term + ":" + strconv.FormatFloat(t.score, 'f', 4, 64)
	}
	return strings.Join(parts, ", ")
}
