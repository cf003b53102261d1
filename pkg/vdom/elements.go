package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with the given tag.
// Arguments can be: nil, Attr, []Attr, Props, *VNode, []*VNode, string, EventHandler.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Conditional attributes and children
			continue

		case Attr:
			node.setAttr(v)

		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}

		case Props:
			for key, value := range v {
				node.setAttr(Attr{Key: key, Value: value})
			}

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			node.Children = append(node.Children, Text(v))

		case EventHandler:
			node.Props[v.Event] = v.Handler
		}
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	if a.Key == "class" {
		// Repeated Class attributes accumulate.
		if existing, ok := v.Props["class"].(string); ok && existing != "" {
			if s, ok := a.Value.(string); ok && s != "" {
				v.Props["class"] = existing + " " + s
				return
			}
		}
	}
	v.Props[a.Key] = a.Value
}

func Div(args ...any) *VNode     { return El("div", args...) }
func Span(args ...any) *VNode    { return El("span", args...) }
func P(args ...any) *VNode       { return El("p", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
func Button(args ...any) *VNode  { return El("button", args...) }
func Ul(args ...any) *VNode      { return El("ul", args...) }
func Li(args ...any) *VNode      { return El("li", args...) }
func H2(args ...any) *VNode      { return El("h2", args...) }
