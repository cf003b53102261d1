package transition

import "strings"

// Classes holds the class groups applied at each phase boundary.
type Classes struct {
	Enter     []string
	EnterFrom []string
	EnterTo   []string
	Entered   []string
	Leave     []string
	LeaveFrom []string
	LeaveTo   []string
}

// SplitClasses splits a class string into its non-empty unique tokens in
// first-seen order.
func SplitClasses(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// ParseClasses builds Classes from the class strings of p.
func ParseClasses(p ChildProps) Classes {
	return Classes{
		Enter:     SplitClasses(p.Enter),
		EnterFrom: SplitClasses(p.EnterFrom),
		EnterTo:   SplitClasses(p.EnterTo),
		Entered:   SplitClasses(p.Entered),
		Leave:     SplitClasses(p.Leave),
		LeaveFrom: SplitClasses(p.LeaveFrom),
		LeaveTo:   SplitClasses(p.LeaveTo),
	}
}

// All returns every group concatenated, for resetting an element.
func (c Classes) All() []string {
	var out []string
	for _, group := range [][]string{c.Enter, c.EnterFrom, c.EnterTo, c.Leave, c.LeaveFrom, c.LeaveTo, c.Entered} {
		out = append(out, group...)
	}
	return out
}

// groups returns the base, from and to groups for a direction.
func (c Classes) groups(entering bool) (base, from, to []string) {
	if entering {
		return c.Enter, c.EnterFrom, c.EnterTo
	}
	return c.Leave, c.LeaveFrom, c.LeaveTo
}
