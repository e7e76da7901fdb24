// Package memsource is an in-memory controls.Source backed by a mutable
// uitree fixture. It exists for tests and for running the command surface
// without a browser: snapshots are deep copies of the fixture tree, and
// mutations are applied to the fixture and recorded as change events so tests
// can assert on notification counts.
package memsource
