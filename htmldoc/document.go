package htmldoc

// Attr is a single element attribute. Attribute order from the source
// markup is preserved.
type Attr struct {
	Key string
	Val string
}

// Node is one element in the document arena.
type Node struct {
	ID         int64
	Tag        string // lowercase element name
	Attrs      []Attr
	Text       string // whitespace-normalized text of the whole subtree
	DirectText string // text at inline depth zero only
	InnerHTML  string // serialized inner markup
	Parent     int64  // arena index of the parent, -1 for roots
	Children   []int64
	MaxDepth   int64 // height of the subtree rooted here (leaf = 0)
	DocOrder   int64 // preorder position
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == name {
			return n.Attrs[i].Val, true
		}
	}
	return "", false
}

// Document is a flat arena of element nodes. Node IDs are arena indexes
// and remain stable for the lifetime of the document.
type Document struct {
	Nodes     []Node
	SourceURI string
}

// Node returns the node with the given id, or nil if the id is out of range.
func (d *Document) Node(id int64) *Node {
	if id < 0 || id >= int64(len(d.Nodes)) {
		return nil
	}
	return &d.Nodes[id]
}

// Roots returns the ids of all top-level nodes.
func (d *Document) Roots() []int64 {
	var roots []int64
	for i := range d.Nodes {
		if d.Nodes[i].Parent < 0 {
			roots = append(roots, d.Nodes[i].ID)
		}
	}
	return roots
}

// SiblingPos returns the 1-based position of the node among its parent's
// children. Roots report position 1.
func (d *Document) SiblingPos(id int64) int64 {
	n := d.Node(id)
	if n == nil {
		return 0
	}
	if n.Parent < 0 {
		return 1
	}
	parent := d.Node(n.Parent)
	for i, child := range parent.Children {
		if child == id {
			return int64(i + 1)
		}
	}
	return 0
}

// Ancestors returns the chain of ancestor ids from the node's parent up to
// its root, nearest first.
func (d *Document) Ancestors(id int64) []int64 {
	var chain []int64
	n := d.Node(id)
	if n == nil {
		return nil
	}
	for cur := n.Parent; cur >= 0; {
		chain = append(chain, cur)
		cur = d.Nodes[cur].Parent
	}
	return chain
}

// Descendants returns the ids of all nodes below the given node in
// document order, excluding the node itself.
func (d *Document) Descendants(id int64) []int64 {
	n := d.Node(id)
	if n == nil {
		return nil
	}
	var out []int64
	var walk func(int64)
	walk = func(cur int64) {
		for _, child := range d.Nodes[cur].Children {
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

// Append merges another document into this one. The appended nodes keep
// their relative structure but have ids, parent ids and document order
// shifted past the existing nodes.
func (d *Document) Append(other *Document) {
	if other == nil || len(other.Nodes) == 0 {
		return
	}
	offset := int64(len(d.Nodes))
	var maxOrder int64 = -1
	for i := range d.Nodes {
		if d.Nodes[i].DocOrder > maxOrder {
			maxOrder = d.Nodes[i].DocOrder
		}
	}
	orderOffset := maxOrder + 1

	for i := range other.Nodes {
		n := other.Nodes[i]
		n.ID += offset
		if n.Parent >= 0 {
			n.Parent += offset
		}
		n.DocOrder += orderOffset
		children := make([]int64, len(n.Children))
		for j, child := range n.Children {
			children[j] = child + offset
		}
		n.Children = children
		d.Nodes = append(d.Nodes, n)
	}
}
