// Package dom defines the DOM surface the transition runtime drives and
// provides two implementations of it.
//
// Document keeps rendered VNode trees in memory, applies class and
// visibility changes in place, delivers transition events to listeners and
// records a mutation journal. It is what tests, the scenario runner and the
// simulator use.
//
// PatchHost wraps a Document and mirrors every change onto a remote client
// as vdom patches, routing the client's transition events back in through
// HandleEvent.
package dom
