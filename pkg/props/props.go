// Package props merges and filters element props.
package props

import (
	"reflect"
	"regexp"

	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// DefaultPreventer is implemented by events that can report a cancelled
// default action. A chained handler stops at such an event.
type DefaultPreventer interface {
	DefaultPrevented() bool
}

// interactionEvent matches the handlers a disabled element must not run.
var interactionEvent = regexp.MustCompile(`(?i)^on(click|pointer|mouse|key)(down|up|press)?$`)

// Merge combines props left to right. Later values win, except event
// handlers: every function under an "on*" key is kept and the merged prop
// calls them in order. When the result is disabled (disabled or
// aria-disabled), click, pointer, mouse and key handlers are dropped.
func Merge(list ...vdom.Props) vdom.Props {
	if len(list) == 0 {
		return vdom.Props{}
	}
	if len(list) == 1 {
		return list[0].Clone()
	}

	target := vdom.Props{}
	handlers := map[string][]any{}
	var order []string

	for _, p := range list {
		for key, value := range p {
			if vdom.IsEventKey(key) && isFunc(value) {
				if _, seen := handlers[key]; !seen {
					order = append(order, key)
				}
				handlers[key] = append(handlers[key], value)
				continue
			}
			target[key] = value
		}
	}

	disabled := truthy(target["disabled"]) || truthy(target["aria-disabled"])
	for _, key := range order {
		if disabled && interactionEvent.MatchString(key) {
			delete(target, key)
			continue
		}
		target[key] = chain(handlers[key])
	}
	return target
}

// chain returns a function of the first handler's type that calls every
// handler in turn.
func chain(fns []any) any {
	if len(fns) == 1 {
		return fns[0]
	}
	typ := reflect.TypeOf(fns[0])
	values := make([]reflect.Value, len(fns))
	for i, fn := range fns {
		values[i] = reflect.ValueOf(fn)
	}

	return reflect.MakeFunc(typ, func(args []reflect.Value) []reflect.Value {
		for _, fn := range values {
			if prevented(args) {
				break
			}
			call(fn, args)
		}
		out := make([]reflect.Value, typ.NumOut())
		for i := range out {
			out[i] = reflect.Zero(typ.Out(i))
		}
		return out
	}).Interface()
}

// call invokes fn with as many leading args as it accepts. Handlers whose
// parameters do not match the args are skipped.
func call(fn reflect.Value, args []reflect.Value) {
	ft := fn.Type()
	if ft.IsVariadic() || ft.NumIn() > len(args) {
		return
	}
	in := args[:ft.NumIn()]
	for i, arg := range in {
		if !arg.Type().AssignableTo(ft.In(i)) {
			return
		}
	}
	fn.Call(in)
}

func prevented(args []reflect.Value) bool {
	if len(args) == 0 || !args[0].IsValid() || !args[0].CanInterface() {
		return false
	}
	switch args[0].Kind() {
	case reflect.Pointer, reflect.Interface:
		if args[0].IsNil() {
			return false
		}
	}
	if p, ok := args[0].Interface().(DefaultPreventer); ok && p != nil {
		return p.DefaultPrevented()
	}
	return false
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "false"
	default:
		return true
	}
}

// Compact returns a copy of p without nil values.
func Compact(p vdom.Props) vdom.Props {
	out := make(vdom.Props, len(p))
	for k, v := range p {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Omit returns a copy of p without the given keys.
func Omit(p vdom.Props, keys ...string) vdom.Props {
	out := p.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
