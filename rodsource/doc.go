// Package rodsource binds controls.Source to a live browser page over the
// DevTools protocol using go-rod. Snapshot serializes the configured subtree
// in a single page evaluation; Mutate sets the target input's value or
// checked state in-page and dispatches bubbling input and change events, so
// the host application's own listeners fire exactly as they would for user
// input.
//
// The binding either attaches to an already-running browser (control URL) or
// launches its own headless instance.
package rodsource
