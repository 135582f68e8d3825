package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// inlineTags are elements that do not increase text depth: their text is
// still considered direct text of the enclosing element.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"br": true, "cite": true, "code": true, "data": true, "dfn": true,
	"em": true, "i": true, "kbd": true, "mark": true, "q": true,
	"rp": true, "rt": true, "ruby": true, "s": true, "samp": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true,
	"time": true, "u": true, "var": true, "wbr": true,
}

// Parse parses a complete HTML document into an arena document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc := &Document{}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			addSubtree(doc, child, -1)
		}
	}
	return doc, nil
}

// ParseString parses a complete HTML document from a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFragment parses an HTML snippet without injecting the implied
// html/head/body wrapper elements.
func ParseFragment(markup string) (*Document, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}
	doc := &Document{}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			addSubtree(doc, n, -1)
		}
	}
	return doc, nil
}

// addSubtree appends the element and its descendants to the arena in
// preorder and returns the new node's id.
func addSubtree(doc *Document, n *html.Node, parent int64) int64 {
	id := int64(len(doc.Nodes))
	node := Node{
		ID:       id,
		Tag:      strings.ToLower(n.Data),
		Parent:   parent,
		DocOrder: id,
	}
	for _, a := range n.Attr {
		node.Attrs = append(node.Attrs, Attr{Key: strings.ToLower(a.Key), Val: a.Val})
	}
	node.Text = normalizeSpace(collectText(n))
	node.DirectText = normalizeSpace(collectDirectText(n))
	node.InnerHTML = renderInner(n)
	doc.Nodes = append(doc.Nodes, node)

	var height int64 = 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		childID := addSubtree(doc, child, id)
		doc.Nodes[id].Children = append(doc.Nodes[id].Children, childID)
		if h := doc.Nodes[childID].MaxDepth + 1; h > height {
			height = h
		}
	}
	doc.Nodes[id].MaxDepth = height
	return id
}

// collectText gathers all text in the subtree, skipping script and style
// content.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for child := cur.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case html.TextNode:
				sb.WriteString(child.Data)
			case html.ElementNode:
				tag := strings.ToLower(child.Data)
				if tag == "script" || tag == "style" || tag == "noscript" {
					continue
				}
				walk(child)
			}
		}
	}
	walk(n)
	return sb.String()
}

// collectDirectText gathers text at inline depth zero: text children of the
// element itself plus text reached only through inline elements.
func collectDirectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for child := cur.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case html.TextNode:
				sb.WriteString(child.Data)
			case html.ElementNode:
				if inlineTags[strings.ToLower(child.Data)] {
					walk(child)
				}
			}
		}
	}
	walk(n)
	return sb.String()
}

// renderInner serializes the element's children back to markup.
func renderInner(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		// Render failures on an in-memory tree are not actionable;
		// skip the child rather than fail the whole parse.
		_ = html.Render(&sb, child)
	}
	return sb.String()
}

// normalizeSpace collapses whitespace runs to single spaces and trims the
// edges.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
