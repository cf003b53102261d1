// Package errors provides structured, actionable error messages for the
// transition runtime.
//
// Usage mistakes (a child without a parent, a root without a show value, a
// visible node that was never rendered) are reported as *VangoError values
// carrying a stable code, a category, a short message, a longer detail and a
// suggestion. Each code maps to a registered template:
//
//	err := errors.New("E101").
//	    WithSuggestion("Create the child with transition.NewChild(root, ...)")
//
//	fmt.Println(err.Format())
//	// ERROR E101: Transition child is missing a parent
//	//
//	//   A child transition was created without a parent root or node.
//	//
//	//   Hint: Create the child with transition.NewChild(root, ...)
//
// Package-level sentinels are wrapped so callers can still use errors.Is.
package errors
