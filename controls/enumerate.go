package controls

import (
	"math"
	"strconv"
	"strings"

	"samplerctl/uitree"
)

// Enumerate discovers the sampler parameters currently present in the
// snapshot, in document order. It never fails: a missing panel, malformed
// controls or unlabeled candidates just yield fewer results.
func Enumerate(root *uitree.Node, schema *Schema) []Parameter {
	if root == nil || schema == nil {
		return nil
	}
	panel := root.FindByID(schema.PanelID)
	if panel == nil {
		return nil
	}
	boundary := root.FindByID(schema.BoundaryID)

	var out []Parameter
	panel.Walk(func(n *uitree.Node) bool {
		p, ok := candidate(n, boundary, schema)
		if ok {
			out = append(out, p)
		}
		return true
	})
	return out
}

func candidate(n *uitree.Node, boundary *uitree.Node, schema *Schema) (Parameter, bool) {
	if n.Tag != "input" {
		return Parameter{}, false
	}
	typ := strings.ToLower(n.Attr("type"))
	switch typ {
	case "range", "checkbox":
	case "number":
		// Readout twins of sliders are displays, not controls.
		if n.HasAnyClass(schema.DerivedClasses) {
			return Parameter{}, false
		}
	default:
		return Parameter{}, false
	}

	if n.HiddenWithin(boundary) {
		return Parameter{}, false
	}
	if excluded(n, schema) {
		return Parameter{}, false
	}

	name := resolveLabel(n, schema)
	id := SanitizeID(n.ID, schema.StripTokens)
	if id == "" || name == "" {
		return Parameter{}, false
	}

	p := Parameter{
		ID:   id,
		Name: name,
		Ref:  Ref{Path: n.Path(), RawID: n.ID},
	}
	if typ == "checkbox" {
		p.Kind = KindBoolean
		p.Checked = ParseTruthy(n.Attr("checked"))
		return p, true
	}
	p.Kind = KindNumeric
	p.Min = Round(attrFloat(n, "min", math.Inf(-1)))
	p.Max = Round(attrFloat(n, "max", math.Inf(1)))
	p.Value = Round(attrFloat(n, "value", 0))
	return p, true
}

// excluded reports whether the control sits inside one of the sub-regions
// owned by a different settings provider.
func excluded(n *uitree.Node, schema *Schema) bool {
	if len(schema.ExcludeIDs) == 0 {
		return false
	}
	hit := n.Closest(func(m *uitree.Node) bool {
		for _, id := range schema.ExcludeIDs {
			if m.ID == id && id != "" {
				return true
			}
		}
		return false
	})
	return hit != nil
}

// resolveLabel finds the control's display name: within the nearest labeled
// block, a title element, else an annotation element, else a checkbox label,
// else the block's own text. First non-empty candidate wins.
func resolveLabel(n *uitree.Node, schema *Schema) string {
	block := n.Closest(func(m *uitree.Node) bool { return m.HasAnyClass(schema.BlockClasses) })
	if block == nil {
		block = n.Parent()
	}
	if block == nil {
		return ""
	}
	if t := classText(block, schema.TitleClasses); t != "" {
		return t
	}
	if t := classText(block, schema.NoteClasses); t != "" {
		return t
	}
	if lbl := block.Query(func(m *uitree.Node) bool { return m.Tag == "label" }); lbl != nil {
		if t := strings.TrimSpace(lbl.FlatText()); t != "" {
			return t
		}
	}
	return strings.TrimSpace(block.FlatText())
}

func classText(block *uitree.Node, classes []string) string {
	el := block.Query(func(m *uitree.Node) bool { return m.HasAnyClass(classes) })
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.FlatText())
}

// SanitizeID derives the stable identifier from a raw control id by removing
// each strip token in order, as a plain substring replacement at any
// position. Unanchored replacement is deliberate: it mirrors how the host
// panel composes its ids, and anchoring it would change which controls
// resolve on existing markup.
func SanitizeID(raw string, stripTokens []string) string {
	id := raw
	for _, tok := range stripTokens {
		if tok == "" {
			continue
		}
		id = strings.ReplaceAll(id, tok, "")
	}
	return strings.TrimSpace(id)
}

func attrFloat(n *uitree.Node, name string, fallback float64) float64 {
	raw := n.Attr(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return v
}
