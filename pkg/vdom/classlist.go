package vdom

import "strings"

// ClassList returns the node's class tokens in document order.
func (v *VNode) ClassList() []string {
	if v == nil || v.Props == nil {
		return nil
	}
	s, _ := v.Props["class"].(string)
	return strings.Fields(s)
}

// HasClass reports whether the node carries the class token.
func (v *VNode) HasClass(name string) bool {
	for _, c := range v.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends tokens that are not already present. It reports whether
// the class attribute changed.
func (v *VNode) AddClass(names ...string) bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	list := v.ClassList()
	changed := false
	for _, name := range names {
		if name == "" || containsToken(list, name) {
			continue
		}
		list = append(list, name)
		changed = true
	}
	if changed {
		v.setClassList(list)
	}
	return changed
}

// RemoveClass drops every occurrence of the tokens. It reports whether the
// class attribute changed.
func (v *VNode) RemoveClass(names ...string) bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	list := v.ClassList()
	kept := list[:0]
	for _, c := range list {
		if !containsToken(names, c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(list) {
		return false
	}
	v.setClassList(kept)
	return true
}

func (v *VNode) setClassList(list []string) {
	if v.Props == nil {
		v.Props = make(Props)
	}
	if len(list) == 0 {
		delete(v.Props, "class")
		return
	}
	v.Props["class"] = strings.Join(list, " ")
}

func containsToken(list []string, name string) bool {
	for _, c := range list {
		if c == name {
			return true
		}
	}
	return false
}

// Style returns the value of an inline style property, or "".
func (v *VNode) Style(property string) string {
	for _, decl := range v.styleDecls() {
		if decl[0] == property {
			return decl[1]
		}
	}
	return ""
}

// SetStyle sets an inline style property, keeping declaration order.
func (v *VNode) SetStyle(property, value string) {
	if v == nil || v.Kind != KindElement {
		return
	}
	decls := v.styleDecls()
	for i := range decls {
		if decls[i][0] == property {
			decls[i][1] = value
			v.setStyleDecls(decls)
			return
		}
	}
	v.setStyleDecls(append(decls, [2]string{property, value}))
}

// RemoveStyle deletes an inline style property. It reports whether the style
// attribute changed.
func (v *VNode) RemoveStyle(property string) bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	decls := v.styleDecls()
	kept := decls[:0]
	for _, d := range decls {
		if d[0] != property {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(decls) {
		return false
	}
	v.setStyleDecls(kept)
	return true
}

func (v *VNode) styleDecls() [][2]string {
	if v == nil || v.Props == nil {
		return nil
	}
	s, _ := v.Props["style"].(string)
	var decls [][2]string
	for _, part := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		decls = append(decls, [2]string{name, strings.TrimSpace(value)})
	}
	return decls
}

func (v *VNode) setStyleDecls(decls [][2]string) {
	if v.Props == nil {
		v.Props = make(Props)
	}
	if len(decls) == 0 {
		delete(v.Props, "style")
		return
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d[0] + ": " + d[1]
	}
	v.Props["style"] = strings.Join(parts, "; ")
}

// HasAttr reports whether the node carries a truthy attribute. A boolean
// false counts as absent.
func (v *VNode) HasAttr(key string) bool {
	if v == nil || v.Props == nil {
		return false
	}
	val, ok := v.Props[key]
	if !ok || val == nil {
		return false
	}
	if b, isBool := val.(bool); isBool {
		return b
	}
	return true
}

// RemoveAttr deletes an attribute. It reports whether it was present.
func (v *VNode) RemoveAttr(key string) bool {
	if v == nil || v.Props == nil {
		return false
	}
	if _, ok := v.Props[key]; !ok {
		return false
	}
	delete(v.Props, key)
	return true
}
