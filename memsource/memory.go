package memsource

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"samplerctl/controls"
	"samplerctl/uitree"
)

// Event records one synthetic change notification dispatched by Mutate.
type Event struct {
	RawID string
	Path  []int
}

// Source is an in-memory controls.Source over a mutable fixture tree.
type Source struct {
	mu     sync.Mutex
	root   *uitree.Node
	events []Event
}

var _ controls.Source = (*Source)(nil)

// New builds a Source over the given fixture tree (linked on construction).
// A nil root models an absent UI.
func New(root *uitree.Node) *Source {
	return &Source{root: uitree.Link(root)}
}

// Snapshot returns a deep copy of the fixture, so callers observe the same
// point-in-time semantics a live UI snapshot has.
func (s *Source) Snapshot(ctx context.Context) (*uitree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return nil, nil
	}
	return s.root.Clone(), nil
}

// Mutate applies the write to the fixture and records exactly one change
// event for it.
func (s *Source) Mutate(ctx context.Context, m controls.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return fmt.Errorf("mutate: no UI present")
	}
	n := s.root.AtPath(m.Ref.Path)
	if n == nil && m.Ref.RawID != "" {
		n = s.root.FindByID(m.Ref.RawID)
	}
	if n == nil || n.Tag != "input" {
		return fmt.Errorf("mutate: no input control at path %v (id %q)", m.Ref.Path, m.Ref.RawID)
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	switch {
	case m.Checked != nil:
		n.Attrs["checked"] = strconv.FormatBool(*m.Checked)
	case m.Value != nil:
		n.Attrs["value"] = strconv.FormatFloat(*m.Value, 'f', -1, 64)
	default:
		return fmt.Errorf("mutate: empty mutation for %q", m.Ref.RawID)
	}
	s.events = append(s.events, Event{RawID: m.Ref.RawID, Path: append([]int(nil), m.Ref.Path...)})
	return nil
}

// Events returns a copy of all recorded change events, in dispatch order.
func (s *Source) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// ChangeCount returns how many change events have fired for the control with
// the given raw id.
func (s *Source) ChangeCount(rawID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.RawID == rawID {
			n++
		}
	}
	return n
}
