package dom

import (
	"strconv"
	"strings"

	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// DefaultTransitionDuration is what the transition utility classes imply
// when no explicit duration is given.
const DefaultTransitionDuration = "150ms"

// ResolveTiming is the default TimingResolver. Inline style wins; otherwise
// Tailwind-style utility classes are read:
//
//	duration-300, duration-[0.5s]   transition-duration
//	delay-75, delay-[1s]            transition-delay
//	transition, transition-*        150ms when no duration class is present
//
// An element with none of these resolves to zero timing.
func ResolveTiming(node *vdom.VNode) Timing {
	var t Timing
	if node == nil {
		return t
	}

	t.Duration = node.Style("transition-duration")
	t.Delay = node.Style("transition-delay")

	var hasTransition bool
	for _, c := range node.ClassList() {
		switch {
		case c == "transition" || strings.HasPrefix(c, "transition-"):
			hasTransition = true
		case strings.HasPrefix(c, "duration-"):
			if t.Duration == "" {
				t.Duration = utilityTime(strings.TrimPrefix(c, "duration-"))
			}
		case strings.HasPrefix(c, "delay-"):
			if t.Delay == "" {
				t.Delay = utilityTime(strings.TrimPrefix(c, "delay-"))
			}
		}
	}

	if t.Duration == "" && hasTransition {
		t.Duration = DefaultTransitionDuration
	}
	if t.Duration == "" {
		t.Duration = "0s"
	}
	if t.Delay == "" {
		t.Delay = "0s"
	}
	return t
}

// utilityTime converts a utility suffix ("300" or "[0.5s]") into a CSS
// time. Unknown values resolve to "".
func utilityTime(v string) string {
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		return strings.Trim(v, "[]")
	}
	if _, err := strconv.Atoi(v); err != nil {
		return ""
	}
	return v + "ms"
}
