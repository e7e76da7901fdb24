// Package controls discovers and manipulates the numeric/boolean sampler
// controls rendered in a chat application's settings panel.
//
// Discovery is a pure function over a uitree snapshot: Enumerate walks the
// configured panel, keeps visible slider/checkbox/number inputs outside the
// excluded regions, resolves each control's display name via a fixed fallback
// chain and derives a stable identifier from the raw element id. Nothing is
// cached; every operation re-enumerates the live UI so results always reflect
// the current panel state.
//
// Where the controls live and how they are labeled is an undocumented
// contract owned by the host application's markup. Schema makes that contract
// explicit and loadable from YAML so a markup change is a config edit, not a
// code change.
//
// Service layers the two user-facing operations (get, set) plus name
// suggestion over an injected Source, which binds the snapshot/mutation pair
// either to a live browser page or to an in-memory fixture.
package controls
