package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Usage Errors (E101-E119)
	// ============================================

	"E101": {
		Category:   CategoryUsage,
		Message:    "Transition child is missing a parent",
		Detail:     "A child transition was created without a parent root or node. Children coordinate their enter and leave order through the parent, so they cannot exist on their own.",
		Suggestion: "Create the child with transition.NewChild(root, ...) or transition.NewChild(parentNode, ...)",
		DocURL:     "https://vango.dev/docs/errors/E101",
	},
	"E102": {
		Category:   CategoryUsage,
		Message:    "Transition root is missing a show value",
		Detail:     "A root transition needs RootProps.Show, or an OpenClosed source to derive it from.",
		Suggestion: "Set RootProps.Show to transition.Bool(true) or transition.Bool(false)",
		DocURL:     "https://vango.dev/docs/errors/E102",
	},
	"E103": {
		Category:   CategoryUsage,
		Message:    "Visible transition node was never rendered",
		Detail:     "The node is visible but no element was produced for it. The view passed to Root.Mount must call Render on every node so the element can be handed to the host.",
		Suggestion: "Call node.Render(...) inside the view and place the result in the returned tree",
		DocURL:     "https://vango.dev/docs/errors/E103",
	},
	"E104": {
		Category:   CategoryUsage,
		Message:    "Passing props on a fragment",
		Detail:     "A fragment was rendered with props that must be forwarded, but it does not wrap exactly one element.",
		Suggestion: "Give the component a tag, or render a single element as the child",
		DocURL:     "https://vango.dev/docs/errors/E104",
	},
	"E105": {
		Category:   CategoryUsage,
		Message:    "Root already mounted",
		Detail:     "Root.Mount was called twice. A root renders one view for its whole lifetime.",
		DocURL:     "https://vango.dev/docs/errors/E105",
	},
	"E106": {
		Category:   CategoryUsage,
		Message:    "Root closed",
		Detail:     "The root was closed and can no longer be shown, hidden or rendered.",
		Suggestion: "Create a new root with transition.NewRoot",
		DocURL:     "https://vango.dev/docs/errors/E106",
	},

	// ============================================
	// Runtime Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryRuntime,
		Message:  "Loop closed",
		Detail:   "Work was dispatched to a loop that has stopped running.",
		DocURL:   "https://vango.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryRuntime,
		Message:  "Loop queue full",
		Detail:   "The loop dispatch queue is full. The loop goroutine is blocked or the producer is too fast.",
		DocURL:   "https://vango.dev/docs/errors/E121",
	},

	// ============================================
	// Config / Scenario Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file or environment could not be parsed.",
		DocURL:   "https://vango.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
		DocURL:   "https://vango.dev/docs/errors/E141",
	},
	"E150": {
		Category: CategoryScenario,
		Message:  "Invalid scenario",
		Detail:   "The scenario file could not be parsed or references unknown nodes.",
		DocURL:   "https://vango.dev/docs/errors/E150",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
