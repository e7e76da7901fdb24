// Package uitree models a point-in-time snapshot of a rendered UI subtree.
//
// A snapshot is a tree of Node values carrying the element metadata that
// control discovery needs: tag, raw id, class list, attributes, a small
// computed-style subset (display/visibility/opacity) and own text. Nodes are
// addressed by their element-index path from the snapshot root, which stays
// meaningful across the snapshot boundary so that a later mutation can be
// routed back to the live element that produced the node.
//
// Snapshots are immutable by convention: producers hand out linked trees and
// consumers only read them. Link must be called on any hand-built or decoded
// tree before parent/path accessors are used.
package uitree
