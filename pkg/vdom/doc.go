// Package vdom provides the virtual DOM the transition runtime renders into.
//
// Trees are plain VNode values built with variadic factory functions:
//
//	Div(Class("panel"), ID("main"),
//	    P(Text("Content")),
//	    OnTransitionEnd(handler),
//	)
//
// Elements carry class-list and inline-style helpers (AddClass,
// RemoveClass, SetStyle, RemoveStyle) that the in-memory document uses to
// apply transition classes in place. Diff compares two trees and returns
// Patch operations; the patch host streams those to a connected client.
package vdom
