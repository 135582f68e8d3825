package htmldoc

import (
	"strings"
	"testing"
)

func TestParseString_Arena(t *testing.T) {
	doc, err := ParseString("<html><head><title>T</title></head><body><p id='x'>Hi</p></body></html>")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	wantTags := []string{"html", "head", "title", "body", "p"}
	if len(doc.Nodes) != len(wantTags) {
		t.Fatalf("node count = %d, want %d", len(doc.Nodes), len(wantTags))
	}
	for i, tag := range wantTags {
		n := &doc.Nodes[i]
		if n.Tag != tag {
			t.Errorf("node %d tag = %q, want %q", i, n.Tag, tag)
		}
		if n.ID != int64(i) || n.DocOrder != int64(i) {
			t.Errorf("node %d id/order = %d/%d, want preorder position %d", i, n.ID, n.DocOrder, i)
		}
	}

	p := &doc.Nodes[4]
	if p.Parent != 3 {
		t.Errorf("p parent = %d, want 3 (body)", p.Parent)
	}
	if v, ok := p.Attr("id"); !ok || v != "x" {
		t.Errorf("p id attribute = %q/%v, want x/true", v, ok)
	}
	if doc.Nodes[0].MaxDepth != 2 {
		t.Errorf("html max depth = %d, want 2", doc.Nodes[0].MaxDepth)
	}
	if p.MaxDepth != 0 {
		t.Errorf("p max depth = %d, want 0 (leaf)", p.MaxDepth)
	}
}

func TestParseFragment_NoWrappers(t *testing.T) {
	doc, err := ParseFragment("<li>a</li><li>b</li>")
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(doc.Nodes))
	}
	for i := range doc.Nodes {
		if doc.Nodes[i].Tag != "li" {
			t.Errorf("node %d tag = %q, want li", i, doc.Nodes[i].Tag)
		}
		if doc.Nodes[i].Parent != -1 {
			t.Errorf("node %d parent = %d, want -1 (root)", i, doc.Nodes[i].Parent)
		}
	}
}

func TestParse_TextCollection(t *testing.T) {
	tests := []struct {
		name       string
		markup     string
		text       string
		directText string
	}{
		{
			name:       "plain text",
			markup:     "<p>Hello</p>",
			text:       "Hello",
			directText: "Hello",
		},
		{
			name:       "inline child keeps direct text",
			markup:     "<p>Hello <b>world</b>!</p>",
			text:       "Hello world!",
			directText: "Hello world!",
		},
		{
			name:       "block child breaks direct text",
			markup:     "<div>intro <p>nested</p></div>",
			text:       "intro nested",
			directText: "intro",
		},
		{
			name:       "whitespace is normalized",
			markup:     "<p>  a \n\t b  </p>",
			text:       "a b",
			directText: "a b",
		},
		{
			name:       "script content is skipped",
			markup:     "<div>seen<script>var hidden = 1;</script></div>",
			text:       "seen",
			directText: "seen",
		},
		{
			name:       "style content is skipped",
			markup:     "<div>seen<style>.x{color:red}</style></div>",
			text:       "seen",
			directText: "seen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseFragment(tt.markup)
			if err != nil {
				t.Fatalf("ParseFragment() error = %v", err)
			}
			root := &doc.Nodes[0]
			if root.Text != tt.text {
				t.Errorf("Text = %q, want %q", root.Text, tt.text)
			}
			if root.DirectText != tt.directText {
				t.Errorf("DirectText = %q, want %q", root.DirectText, tt.directText)
			}
		})
	}
}

func TestParse_InnerHTML(t *testing.T) {
	doc, err := ParseFragment("<div><p>a</p><span>b</span></div>")
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	inner := doc.Nodes[0].InnerHTML
	if !strings.Contains(inner, "<p>a</p>") || !strings.Contains(inner, "<span>b</span>") {
		t.Errorf("InnerHTML = %q, want both children serialized", inner)
	}
}

func TestParse_AttributeOrderAndCase(t *testing.T) {
	doc, err := ParseFragment(`<a HREF="/x" Data-Id="7" class="b">link</a>`)
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	attrs := doc.Nodes[0].Attrs
	wantKeys := []string{"href", "data-id", "class"}
	if len(attrs) != len(wantKeys) {
		t.Fatalf("attr count = %d, want %d", len(attrs), len(wantKeys))
	}
	for i, key := range wantKeys {
		if attrs[i].Key != key {
			t.Errorf("attr %d key = %q, want %q (lowercased, source order)", i, attrs[i].Key, key)
		}
	}
}
