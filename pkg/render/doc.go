// Package render turns component state into VNode trees and VNode trees
// into HTML.
//
// Element is the render helper every transition node goes through. It
// merges the component's own props with the caller's, exposes boolean slot
// values as a data-vango-state attribute, and applies the render strategy
// when the component is not visible:
//
//	node, err := render.Element(render.Options{
//	    Our:      vdom.Props{"class": "panel"},
//	    Their:    userProps,
//	    Slot:     map[string]any{"open": true, "closing": false},
//	    Tag:      "div",
//	    Features: render.FeatureRenderStrategy,
//	    Visible:  visible,
//	    Strategy: render.Hidden,
//	})
//
// An empty Tag renders a fragment. A fragment that carries props forwards
// them onto its single element child and fails with E104 otherwise.
//
// Renderer writes escaped HTML with sorted attributes, void elements and a
// data-hid attribute for elements that have a hydration ID. RenderPage wraps
// a tree in a complete document.
package render
