package controls

import (
	"context"

	"samplerctl/uitree"
)

// Kind classifies a parameter as numeric or boolean, which determines how
// values are coerced and validated on write.
type Kind int

const (
	KindNumeric Kind = iota
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Ref addresses a live control: the element-index path from the snapshot root
// plus the raw element id for diagnostics. The path is the authoritative
// address; the id may be empty or duplicated in hostile markup.
type Ref struct {
	Path  []int
	RawID string
}

// Parameter is one discovered sampler control. Values are a point-in-time
// read; a Parameter is only valid against the snapshot that produced it and
// is recomputed on every enumeration.
type Parameter struct {
	ID   string
	Name string
	Kind Kind

	// Numeric kind only. Bounds may be infinite when the control declares no
	// min/max attributes; clamping then leaves the written value untouched on
	// that side.
	Min   float64
	Max   float64
	Value float64

	// Boolean kind only.
	Checked bool

	Ref Ref
}

// Mutation is a single write to a live control. Exactly one of Value or
// Checked is set, matching the target parameter's kind. Implementations must
// apply the in-memory change and then emit one synthetic bubbling change
// notification on the control, so host-owned observers react as they would to
// direct user input.
type Mutation struct {
	Ref     Ref
	Value   *float64
	Checked *bool
}

// Source binds snapshot and mutation to a concrete UI. The production
// implementation drives a live browser page; tests use an in-memory fixture.
type Source interface {
	// Snapshot captures the current UI subtree. A nil root with nil error
	// means the UI is simply absent, which enumerates to zero parameters.
	Snapshot(ctx context.Context) (*uitree.Node, error)

	// Mutate applies one write and dispatches its change notification.
	Mutate(ctx context.Context, m Mutation) error
}
