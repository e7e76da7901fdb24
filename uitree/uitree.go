package uitree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Node is one element in a UI snapshot.
type Node struct {
	Tag     string            `json:"tag"`
	ID      string            `json:"id,omitempty"`
	Classes []string          `json:"classes,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Styles  map[string]string `json:"styles,omitempty"`
	Text    string            `json:"text,omitempty"`

	Children []*Node `json:"children,omitempty"`

	parent *Node
	path   []int
}

// Decode parses a JSON snapshot and links it. A JSON null yields a nil root
// and no error: an absent subtree is not a failure.
func Decode(data []byte) (*Node, error) {
	var root *Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return Link(root), nil
}

// Link rebuilds parent pointers and root-relative element paths for the whole
// tree and returns the root for chaining. It must be called after hand-building
// or decoding a tree.
func Link(root *Node) *Node {
	if root == nil {
		return nil
	}
	root.parent = nil
	root.path = nil
	var link func(n *Node)
	link = func(n *Node) {
		for i, c := range n.Children {
			if c == nil {
				continue
			}
			c.parent = n
			c.path = append(append([]int(nil), n.path...), i)
			link(c)
		}
	}
	link(root)
	return root
}

// Parent returns the linked parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Path returns a copy of the element-index path from the snapshot root.
func (n *Node) Path() []int { return append([]int(nil), n.path...) }

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// Style returns the named computed-style entry, or "" when absent.
func (n *Node) Style(name string) string {
	if n == nil || n.Styles == nil {
		return ""
	}
	return n.Styles[name]
}

// HasClass reports whether the node carries the given class token.
func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// HasAnyClass reports whether the node carries at least one of the tokens.
func (n *Node) HasAnyClass(classes []string) bool {
	for _, c := range classes {
		if n.HasClass(c) {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in document order. Returning false from
// fn prunes the subtree below the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Query returns the first node (document order, including n itself) matching
// pred, or nil.
func (n *Node) Query(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(m *Node) bool {
		if found != nil {
			return false
		}
		if pred(m) {
			found = m
			return false
		}
		return true
	})
	return found
}

// QueryAll returns every node (document order, including n itself) matching pred.
func (n *Node) QueryAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(m *Node) bool {
		if pred(m) {
			out = append(out, m)
		}
		return true
	})
	return out
}

// Closest returns the nearest node matching pred, starting from n itself and
// walking up through ancestors. Returns nil when nothing on the chain matches.
func (n *Node) Closest(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// FindByID returns the first node in the subtree with the given raw id.
func (n *Node) FindByID(id string) *Node {
	if id == "" {
		return nil
	}
	return n.Query(func(m *Node) bool { return m.ID == id })
}

// AtPath resolves an element-index path relative to n. Returns nil when the
// path runs off the tree.
func (n *Node) AtPath(path []int) *Node {
	cur := n
	for _, i := range path {
		if cur == nil || i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

// FlatText returns the node's own text plus all descendant text, joined with
// single spaces and trimmed.
func (n *Node) FlatText() string {
	var parts []string
	n.Walk(func(m *Node) bool {
		if t := strings.TrimSpace(m.Text); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	return strings.Join(parts, " ")
}

// HiddenWithin reports whether the node is hidden by its own styles or those
// of any ancestor strictly below boundary. A node counts as hidden when any
// node on that chain has display none, hidden visibility, or zero opacity.
// A nil boundary walks the chain to the snapshot root.
func (n *Node) HiddenWithin(boundary *Node) bool {
	for cur := n; cur != nil && cur != boundary; cur = cur.parent {
		if nodeHidden(cur) {
			return true
		}
	}
	return false
}

func nodeHidden(n *Node) bool {
	if n.Style("display") == "none" {
		return true
	}
	if n.Style("visibility") == "hidden" {
		return true
	}
	if op := n.Style("opacity"); op != "" {
		if v, err := strconv.ParseFloat(op, 64); err == nil && v == 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the subtree, linked as its own root.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	return Link(n.clone())
}

func (n *Node) clone() *Node {
	out := &Node{
		Tag:  n.Tag,
		ID:   n.ID,
		Text: n.Text,
	}
	if n.Classes != nil {
		out.Classes = append([]string(nil), n.Classes...)
	}
	if n.Attrs != nil {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Styles != nil {
		out.Styles = make(map[string]string, len(n.Styles))
		for k, v := range n.Styles {
			out.Styles[k] = v
		}
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			if c != nil {
				out.Children[i] = c.clone()
			}
		}
	}
	return out
}
