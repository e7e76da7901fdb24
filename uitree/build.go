package uitree

// Builder helpers for constructing snapshot trees in tests and fixtures.
// Trees built this way must be passed through Link before use; the fixture
// sources do that on construction.

// Mod mutates a node under construction.
type Mod func(*Node)

// El constructs an element node with the given tag and modifiers.
func El(tag string, mods ...Mod) *Node {
	n := &Node{Tag: tag}
	for _, m := range mods {
		m(n)
	}
	return n
}

// ID sets the raw element id.
func ID(id string) Mod { return func(n *Node) { n.ID = id } }

// Class appends class tokens.
func Class(classes ...string) Mod {
	return func(n *Node) { n.Classes = append(n.Classes, classes...) }
}

// Attr sets one attribute.
func Attr(name, value string) Mod {
	return func(n *Node) {
		if n.Attrs == nil {
			n.Attrs = make(map[string]string)
		}
		n.Attrs[name] = value
	}
}

// Style sets one computed-style entry.
func Style(name, value string) Mod {
	return func(n *Node) {
		if n.Styles == nil {
			n.Styles = make(map[string]string)
		}
		n.Styles[name] = value
	}
}

// Text sets the node's own text.
func Text(t string) Mod { return func(n *Node) { n.Text = t } }

// Kids appends child nodes.
func Kids(children ...*Node) Mod {
	return func(n *Node) { n.Children = append(n.Children, children...) }
}
