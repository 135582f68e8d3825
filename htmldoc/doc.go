// Package htmldoc provides the HTML document model used by the query engine.
//
// Documents are parsed into a flat arena of nodes rather than a pointer
// tree: every element becomes a Node identified by its arena index, with
// the parent stored as an index (-1 for roots) and children as an ordered
// index slice. This keeps node identity stable and makes axis traversal
// (parent, child, ancestor, descendant) cheap.
//
// # Basic Usage
//
// Parsing a full document:
//
//	doc, err := htmldoc.Parse(strings.NewReader(markup))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for i := range doc.Nodes {
//	    fmt.Printf("%d %s\n", doc.Nodes[i].ID, doc.Nodes[i].Tag)
//	}
//
// # Fragments
//
// Inline markup snippets are parsed without the implied html/head/body
// wrappers:
//
//	frag, err := htmldoc.ParseFragment("<li>one</li><li>two</li>")
//
// Multiple fragment documents can be merged into one with Append, which
// offsets ids, parent ids and document order so they never collide.
//
// # Loading
//
// Load reads a document from a file path or an http(s) URL and records the
// origin in Document.SourceURI.
//
// The package uses golang.org/x/net/html for the underlying HTML parsing
// and serialization.
package htmldoc
